package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/escola-adp/horario-api/internal/service"
	appErrors "github.com/escola-adp/horario-api/pkg/errors"
	"github.com/escola-adp/horario-api/pkg/response"
)

// TimeslotHandler exposes grid catalogue endpoints.
type TimeslotHandler struct {
	timeslots *service.TimeslotService
}

// NewTimeslotHandler constructs a timeslot handler.
func NewTimeslotHandler(timeslots *service.TimeslotService) *TimeslotHandler {
	return &TimeslotHandler{timeslots: timeslots}
}

// List godoc
// @Summary Weekly grid catalogue
// @Tags Timeslots
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timeslots [get]
func (h *TimeslotHandler) List(c *gin.Context) {
	slots, err := h.timeslots.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// Sync godoc
// @Summary Seed missing catalogue entries
// @Tags Timeslots
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timeslots/sync [post]
func (h *TimeslotHandler) Sync(c *gin.Context) {
	created, err := h.timeslots.Sync(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"created": created}, nil)
}

// SetTeaching godoc
// @Summary Toggle a slot's teaching flag
// @Tags Timeslots
// @Param id path string true "Timeslot ID"
// @Param teaching query bool true "Teaching"
// @Success 204
// @Router /timeslots/{id}/teaching [put]
func (h *TimeslotHandler) SetTeaching(c *gin.Context) {
	teaching, err := strconv.ParseBool(c.Query("teaching"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "teaching query parameter required"))
		return
	}
	if err := h.timeslots.SetTeaching(c.Request.Context(), c.Param("id"), teaching); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
