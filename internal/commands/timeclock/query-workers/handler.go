package queryworkers

import (
	"context"
	"encoding/json"

	"timeclock-kiosk/internal/common/logger"
	"timeclock-kiosk/pkg/registry"
)

const (
	TaskType = "query-workers"
	Alias    = "fetch_workers"
)

// WorkersSource is satisfied by *grist.Client.
type WorkersSource interface {
	QueryWorkers(ctx context.Context) (interface{}, error)
}

type Handler struct {
	source WorkersSource
	logger logger.Logger
}

func NewHandler(source WorkersSource, log logger.Logger) *Handler {
	return &Handler{
		source: source,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func Descriptor() registry.Command {
	return registry.Command{
		Name:        TaskType,
		DisplayName: "Query Workers",
		Description: "Fetches active workers from the Grist Workers table",
		Category:    "timeclock",
		Aliases:     []string{Alias},
		ResultType:  "json",
		ErrorCodes:  []string{"TRANSPORT_FAILED", "REMOTE_REJECTED", "DECODE_FAILED"},
	}
}

// Handle returns the decoded Grist response body unchanged.
func (h *Handler) Handle(ctx context.Context, _ json.RawMessage) (interface{}, error) {
	return h.source.QueryWorkers(ctx)
}
