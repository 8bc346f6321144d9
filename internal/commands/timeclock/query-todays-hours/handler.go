package querytodayshours

import (
	"context"
	"encoding/json"

	"timeclock-kiosk/internal/common/logger"
	"timeclock-kiosk/pkg/registry"
)

const (
	TaskType = "query-todays-hours"
	Alias    = "fetch_hours"
)

// HoursSource is satisfied by *grist.Client.
type HoursSource interface {
	QueryTodaysHours(ctx context.Context) (interface{}, error)
}

type Handler struct {
	source HoursSource
	logger logger.Logger
}

func NewHandler(source HoursSource, log logger.Logger) *Handler {
	return &Handler{
		source: source,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func Descriptor() registry.Command {
	return registry.Command{
		Name:        TaskType,
		DisplayName: "Query Today's Hours",
		Description: "Fetches TimeclockHours rows scanned during the current UTC day",
		Category:    "timeclock",
		Aliases:     []string{Alias},
		ResultType:  "json",
		ErrorCodes:  []string{"TRANSPORT_FAILED", "REMOTE_REJECTED", "DECODE_FAILED"},
	}
}

func (h *Handler) Handle(ctx context.Context, _ json.RawMessage) (interface{}, error) {
	return h.source.QueryTodaysHours(ctx)
}
