package dto

// CreateExportRequest queues an export of a stored run.
type CreateExportRequest struct {
	ScheduleID string `json:"scheduleId" validate:"omitempty,uuid4"`
	Format     string `json:"format" validate:"required,oneof=csv pdf"`
}

// ExportResponse reports the state of one export job.
type ExportResponse struct {
	ID          string `json:"id"`
	ScheduleID  string `json:"scheduleId"`
	Format      string `json:"format"`
	Status      string `json:"status"`
	DownloadURL string `json:"downloadUrl,omitempty"`
	Error       string `json:"error,omitempty"`
	CreatedAt   string `json:"createdAt"`
	CompletedAt string `json:"completedAt,omitempty"`
}
