package handler

import (
	"github.com/gin-gonic/gin"
)

// Handlers bundles everything the router needs.
type Handlers struct {
	Classes    *ClassHandler
	Teachers   *TeacherHandler
	Subjects   *SubjectHandler
	Timeslots  *TimeslotHandler
	Timetables *TimetableHandler
	Exports    *ExportHandler
	Metrics    *MetricsHandler
}

// RegisterRoutes mounts every endpoint under the API prefix.
func RegisterRoutes(r *gin.Engine, apiPrefix string, h Handlers) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Health)
	r.GET("/metrics", h.Metrics.Prometheus)

	api := r.Group(apiPrefix)

	classes := api.Group("/classes")
	{
		classes.GET("", h.Classes.List)
		classes.POST("", h.Classes.Create)
		classes.GET("/:id", h.Classes.Get)
		classes.PUT("/:id", h.Classes.Update)
		classes.DELETE("/:id", h.Classes.Delete)
		classes.GET("/:id/loads", h.Classes.Loads)
		classes.PUT("/:id/loads", h.Classes.UpsertLoad)
		classes.DELETE("/:id/loads/:loadId", h.Classes.DeleteLoad)
	}

	teachers := api.Group("/teachers")
	{
		teachers.GET("", h.Teachers.List)
		teachers.POST("", h.Teachers.Create)
		teachers.GET("/:id", h.Teachers.Get)
		teachers.PUT("/:id", h.Teachers.Update)
		teachers.DELETE("/:id", h.Teachers.Deactivate)
	}

	subjects := api.Group("/subjects")
	{
		subjects.GET("", h.Subjects.List)
		subjects.POST("", h.Subjects.Create)
		subjects.PUT("/:code", h.Subjects.Update)
		subjects.DELETE("/:code", h.Subjects.Delete)
	}

	timeslots := api.Group("/timeslots")
	{
		timeslots.GET("", h.Timeslots.List)
		timeslots.POST("/sync", h.Timeslots.Sync)
		timeslots.PUT("/:id/teaching", h.Timeslots.SetTeaching)
	}

	timetables := api.Group("/timetables")
	{
		timetables.GET("", h.Timetables.List)
		timetables.POST("/generate", h.Timetables.Generate)
		timetables.GET("/current", h.Timetables.Current)
		timetables.GET("/:id", h.Timetables.Get)
		timetables.GET("/:id/classes/:classId", h.Timetables.ClassTimetable)
	}

	if h.Exports != nil {
		exports := api.Group("/exports")
		{
			exports.POST("", h.Exports.Create)
			exports.GET("/download/:token", h.Exports.Download)
			exports.GET("/:id", h.Exports.Get)
		}
	}
}
