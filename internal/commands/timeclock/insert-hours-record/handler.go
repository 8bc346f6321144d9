package inserthoursrecord

import (
	"context"
	"encoding/json"

	"timeclock-kiosk/internal/common/logger"
	"timeclock-kiosk/pkg/registry"
)

const (
	TaskType = "insert-hours-record"
	Alias    = "add_scan_record"
)

// RecordSink is satisfied by *grist.Client.
type RecordSink interface {
	InsertHoursRecord(ctx context.Context, fields json.RawMessage) (string, error)
}

type Handler struct {
	sink   RecordSink
	logger logger.Logger
}

func NewHandler(sink RecordSink, log logger.Logger) *Handler {
	return &Handler{
		sink:   sink,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func Descriptor() registry.Command {
	return registry.Command{
		Name:        TaskType,
		DisplayName: "Insert Hours Record",
		Description: "Appends one record built from newEntry to the Grist TimeclockHours table",
		Category:    "timeclock",
		Aliases:     []string{Alias},
		InputSchema: InputSchema(),
		ResultType:  "string",
		ErrorCodes:  []string{"INVALID_INPUT", "TRANSPORT_FAILED", "REMOTE_REJECTED"},
	}
}

func (h *Handler) Handle(ctx context.Context, args json.RawMessage) (interface{}, error) {
	input, err := parseInput(args)
	if err != nil {
		return nil, err
	}

	msg, err := h.sink.InsertHoursRecord(ctx, input.NewEntry)
	if err != nil {
		return nil, err
	}

	h.logger.Info("hours record added", nil)
	return msg, nil
}
