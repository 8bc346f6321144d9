// Package commands registers every kiosk command with a registry.
package commands

import (
	"context"
	"encoding/json"

	"timeclock-kiosk/internal/common/logger"
	"timeclock-kiosk/pkg/registry"

	li "timeclock-kiosk/internal/commands/assets/list-images"
	rm "timeclock-kiosk/internal/commands/assets/read-message"
	ihr "timeclock-kiosk/internal/commands/timeclock/insert-hours-record"
	qth "timeclock-kiosk/internal/commands/timeclock/query-todays-hours"
	qw "timeclock-kiosk/internal/commands/timeclock/query-workers"
)

// Assets is satisfied by *assets.Reader.
type Assets interface {
	ListImages() ([]string, error)
	ReadMessage() (string, error)
}

// Grist is satisfied by *grist.Client.
type Grist interface {
	QueryWorkers(ctx context.Context) (interface{}, error)
	QueryTodaysHours(ctx context.Context) (interface{}, error)
	InsertHoursRecord(ctx context.Context, fields json.RawMessage) (string, error)
}

type Dependencies struct {
	Assets Assets
	Grist  Grist
	Logger logger.Logger
}

// Register adds all five commands to reg.
func Register(reg *registry.Registry, deps Dependencies) error {
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	handlers := []struct {
		command registry.Command
		handle  registry.HandlerFunc
	}{
		{li.Descriptor(), li.NewHandler(deps.Assets, log).Handle},
		{rm.Descriptor(), rm.NewHandler(deps.Assets, log).Handle},
		{qw.Descriptor(), qw.NewHandler(deps.Grist, log).Handle},
		{qth.Descriptor(), qth.NewHandler(deps.Grist, log).Handle},
		{ihr.Descriptor(), ihr.NewHandler(deps.Grist, log).Handle},
	}

	for _, h := range handlers {
		if err := reg.Register(h.command, h.handle); err != nil {
			return err
		}
	}
	return nil
}
