package listimages

import (
	"context"
	"encoding/json"

	"timeclock-kiosk/internal/common/logger"
	"timeclock-kiosk/pkg/registry"
)

const (
	TaskType = "list-images"
	Alias    = "get_images"
)

// ImageLister is satisfied by *assets.Reader.
type ImageLister interface {
	ListImages() ([]string, error)
}

type Handler struct {
	images ImageLister
	logger logger.Logger
}

func NewHandler(images ImageLister, log logger.Logger) *Handler {
	return &Handler{
		images: images,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func Descriptor() registry.Command {
	return registry.Command{
		Name:        TaskType,
		DisplayName: "List Images",
		Description: "Lists the gallery images under public/images as /images/<file> paths",
		Category:    "assets",
		Aliases:     []string{Alias},
		ResultType:  "string[]",
		ErrorCodes:  []string{"FILE_READ_FAILED"},
	}
}

// Handle takes no arguments; anything sent is ignored.
func (h *Handler) Handle(_ context.Context, _ json.RawMessage) (interface{}, error) {
	images, err := h.images.ListImages()
	if err != nil {
		return nil, err
	}
	h.logger.Debug("images listed", map[string]interface{}{"count": len(images)})
	return images, nil
}
