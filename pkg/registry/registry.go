// pkg/registry/registry.go
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "timeclock-kiosk/internal/common/errors"
	"timeclock-kiosk/internal/common/logger"
	"timeclock-kiosk/internal/common/metrics"
	"timeclock-kiosk/internal/common/observability"
)

// CatalogVersion is reported in the command catalog.
const CatalogVersion = "1.0.0"

// unknownLabel keeps arbitrary caller-supplied names out of metric labels.
const unknownLabel = "unknown"

// HandlerFunc runs one command. args is the raw JSON argument object sent
// by the caller and may be empty.
type HandlerFunc func(ctx context.Context, args json.RawMessage) (interface{}, error)

type entry struct {
	command Command
	handler HandlerFunc
}

// Registry maps command names and aliases to handlers. It is filled at
// startup and sealed before serving; after Seal it is read-only and safe for
// concurrent use.
type Registry struct {
	entries  []*entry
	byName   map[string]*entry
	sealed   bool
	logger   logger.Logger
	obs      *observability.Observability
	errorsH  *apperrors.ErrorHandler
	newReqID func() string
}

type Option func(*Registry)

func WithObservability(obs *observability.Observability) Option {
	return func(r *Registry) {
		r.obs = obs
	}
}

// WithRequestIDs overrides request id generation.
func WithRequestIDs(fn func() string) Option {
	return func(r *Registry) {
		r.newReqID = fn
	}
}

func New(log logger.Logger, opts ...Option) *Registry {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	r := &Registry{
		byName:   make(map[string]*entry),
		logger:   log.Named("registry"),
		newReqID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.errorsH = apperrors.NewErrorHandler(r.logger)
	return r
}

// Register adds a command under its name and every alias.
func (r *Registry) Register(cmd Command, handler HandlerFunc) error {
	if r.sealed {
		return fmt.Errorf("registry is sealed, cannot register %q", cmd.Name)
	}
	if cmd.Name == "" {
		return fmt.Errorf("command name is required")
	}
	if handler == nil {
		return fmt.Errorf("command %q has no handler", cmd.Name)
	}

	names := append([]string{cmd.Name}, cmd.Aliases...)
	for _, name := range names {
		if _, exists := r.byName[name]; exists {
			return fmt.Errorf("command name %q already registered", name)
		}
	}

	e := &entry{command: cmd, handler: handler}
	r.entries = append(r.entries, e)
	for _, name := range names {
		r.byName[name] = e
	}

	r.logger.Debug("command registered", map[string]interface{}{
		"command": cmd.Name,
		"aliases": cmd.Aliases,
	})
	return nil
}

// Seal stops further registration.
func (r *Registry) Seal() {
	r.sealed = true
}

// Resolve returns the canonical name for name or one of its aliases.
func (r *Registry) Resolve(name string) (string, bool) {
	e, ok := r.byName[name]
	if !ok {
		return "", false
	}
	return e.command.Name, true
}

// Commands returns the registered descriptors in registration order.
func (r *Registry) Commands() []Command {
	out := make([]Command, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.command)
	}
	return out
}

func (r *Registry) Catalog() Catalog {
	return Catalog{Version: CatalogVersion, Commands: r.Commands()}
}

// Invoke runs the command registered under name. Failures come back as
// *errors.StandardError whose message is meant for the UI.
func (r *Registry) Invoke(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	requestID := r.newReqID()

	e, ok := r.byName[name]
	if !ok {
		err := r.errorsH.HandleCommandError(name, requestID, apperrors.NewUnknownCommandError(name))
		metrics.CommandsFailed.WithLabelValues(unknownLabel, string(err.Code)).Inc()
		return nil, err
	}
	command := e.command.Name

	log := r.logger.WithFields(map[string]interface{}{
		"command":   command,
		"requestId": requestID,
	})
	log.Info("processing command", map[string]interface{}{
		"invokedAs": name,
		"argsBytes": len(args),
	})

	metrics.CommandsActive.WithLabelValues(command).Inc()
	defer metrics.CommandsActive.WithLabelValues(command).Dec()

	ctx, endSpan := r.obs.StartCommandSpan(ctx, command, requestID)
	start := time.Now()
	result, err := callHandler(ctx, e.handler, args)
	duration := time.Since(start)
	endSpan(err)

	metrics.CommandDuration.WithLabelValues(command).Observe(duration.Seconds())

	if err != nil {
		stdErr := r.errorsH.HandleCommandError(command, requestID, err)
		metrics.CommandsFailed.WithLabelValues(command, string(stdErr.Code)).Inc()
		r.obs.RecordCommand(ctx, command, "failed", duration)
		return nil, stdErr
	}

	metrics.CommandsCompleted.WithLabelValues(command).Inc()
	r.obs.RecordCommand(ctx, command, "success", duration)
	log.Info("command completed", map[string]interface{}{
		"durationMs": duration.Milliseconds(),
	})
	return result, nil
}

// callHandler runs handler, turning a panic into an error so the span is
// ended and the failure is counted.
func callHandler(ctx context.Context, handler HandlerFunc, args json.RawMessage) (result interface{}, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			result = nil
			err = fmt.Errorf("command panicked: %v", rec)
		}
	}()
	return handler(ctx, args)
}
