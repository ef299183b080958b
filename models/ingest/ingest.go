package ingest

import (
	"github.com/google/uuid"
)

type State string

const (
	Queued  State = "Queued"
	Running State = "Running"
	Done    State = "Done"
	Error   State = "Error"
)

// PipelineRun tracks one batch transformation of the raw screen
// CSV into published artifacts, for the serve-mode status endpoints.
type PipelineRun struct {
	Id        uuid.UUID `json:"id"`
	InputFile string    `json:"inputFile"`
	State     State     `json:"state"`
	Message   string    `json:"message"`
	CreatedAt string    `json:"createdAt"`
	UpdatedAt string    `json:"updatedAt"`
}

type PipelineRunResponseDTO struct {
	Id        uuid.UUID `json:"id"`
	InputFile string    `json:"inputFile"`
	State     State     `json:"state"`
	Message   string    `json:"message"`
}
