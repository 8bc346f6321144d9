package readmessage

import (
	"context"
	"encoding/json"

	"timeclock-kiosk/internal/common/logger"
	"timeclock-kiosk/pkg/registry"
)

const (
	TaskType = "read-message"
	Alias    = "get_message"
)

// MessageReader is satisfied by *assets.Reader.
type MessageReader interface {
	ReadMessage() (string, error)
}

type Handler struct {
	messages MessageReader
	logger   logger.Logger
}

func NewHandler(messages MessageReader, log logger.Logger) *Handler {
	return &Handler{
		messages: messages,
		logger:   log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func Descriptor() registry.Command {
	return registry.Command{
		Name:        TaskType,
		DisplayName: "Read Message",
		Description: "Returns the contents of public/message.txt",
		Category:    "assets",
		Aliases:     []string{Alias},
		ResultType:  "string",
		ErrorCodes:  []string{"FILE_NOT_FOUND", "FILE_READ_FAILED"},
	}
}

func (h *Handler) Handle(_ context.Context, _ json.RawMessage) (interface{}, error) {
	msg, err := h.messages.ReadMessage()
	if err != nil {
		return nil, err
	}
	h.logger.Debug("message read", map[string]interface{}{"bytes": len(msg)})
	return msg, nil
}
