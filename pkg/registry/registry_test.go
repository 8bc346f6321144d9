package registry

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	apperrors "timeclock-kiosk/internal/common/errors"
	"timeclock-kiosk/internal/common/logger"
	"timeclock-kiosk/internal/common/observability"
)

func echoHandler(_ context.Context, args json.RawMessage) (interface{}, error) {
	return string(args), nil
}

func newObservedRegistry(t *testing.T) (*Registry, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	reg := New(logger.NewZapAdapter(zap.New(core)),
		WithObservability(observability.NewNoop()),
		WithRequestIDs(func() string { return "req-1" }),
	)
	return reg, logs
}

func TestRegistry_RegisterAndInvoke(t *testing.T) {
	reg, logs := newObservedRegistry(t)
	require.NoError(t, reg.Register(Command{Name: "echo", Aliases: []string{"say"}}, echoHandler))
	reg.Seal()

	result, err := reg.Invoke(context.Background(), "echo", json.RawMessage(`{"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, result)

	completed := logs.FilterMessage("command completed").All()
	require.Len(t, completed, 1)
	ctx := completed[0].ContextMap()
	assert.Equal(t, "echo", ctx["command"])
	assert.Equal(t, "req-1", ctx["requestId"])
}

func TestRegistry_AliasResolvesToCanonical(t *testing.T) {
	reg, logs := newObservedRegistry(t)
	require.NoError(t, reg.Register(Command{Name: "echo", Aliases: []string{"say"}}, echoHandler))

	name, ok := reg.Resolve("say")
	require.True(t, ok)
	assert.Equal(t, "echo", name)

	_, err := reg.Invoke(context.Background(), "say", nil)
	require.NoError(t, err)

	processing := logs.FilterMessage("processing command").All()
	require.Len(t, processing, 1)
	assert.Equal(t, "echo", processing[0].ContextMap()["command"])
	assert.Equal(t, "say", processing[0].ContextMap()["invokedAs"])
}

func TestRegistry_UnknownCommand(t *testing.T) {
	reg, logs := newObservedRegistry(t)

	result, err := reg.Invoke(context.Background(), "nope", nil)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, apperrors.ErrCodeUnknownCommand, apperrors.CodeOf(err))
	assert.Equal(t, "Unknown command: nope", err.Error())
	assert.Equal(t, 1, logs.FilterMessage("Command failed").Len())
}

func TestRegistry_HandlerErrorIsStandardized(t *testing.T) {
	reg, logs := newObservedRegistry(t)
	require.NoError(t, reg.Register(Command{Name: "fail"}, func(context.Context, json.RawMessage) (interface{}, error) {
		return nil, errors.New("disk on fire")
	}))
	require.NoError(t, reg.Register(Command{Name: "missing"}, func(context.Context, json.RawMessage) (interface{}, error) {
		return nil, apperrors.NewFileNotFoundError("Message", "/tmp/message.txt")
	}))

	_, err := reg.Invoke(context.Background(), "fail", nil)
	require.Error(t, err)
	assert.Equal(t, "disk on fire", err.Error())
	assert.Equal(t, apperrors.ErrCodeInternal, apperrors.CodeOf(err))

	_, err = reg.Invoke(context.Background(), "missing", nil)
	require.Error(t, err)
	assert.Equal(t, "Message file not found at path: /tmp/message.txt", err.Error())
	assert.Equal(t, apperrors.ErrCodeFileNotFound, apperrors.CodeOf(err))

	failed := logs.FilterMessage("Command failed").All()
	require.Len(t, failed, 2)
	assert.Equal(t, "FILE_NOT_FOUND", failed[1].ContextMap()["errorCode"])
}

func TestRegistry_RegisterRejects(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(r *Registry)
		command Command
		handler HandlerFunc
	}{
		{
			name:    "empty name",
			command: Command{},
			handler: echoHandler,
		},
		{
			name:    "nil handler",
			command: Command{Name: "echo"},
		},
		{
			name: "duplicate name",
			setup: func(r *Registry) {
				_ = r.Register(Command{Name: "echo"}, echoHandler)
			},
			command: Command{Name: "echo"},
			handler: echoHandler,
		},
		{
			name: "alias collides with name",
			setup: func(r *Registry) {
				_ = r.Register(Command{Name: "echo"}, echoHandler)
			},
			command: Command{Name: "other", Aliases: []string{"echo"}},
			handler: echoHandler,
		},
		{
			name:    "sealed",
			setup:   func(r *Registry) { r.Seal() },
			command: Command{Name: "late"},
			handler: echoHandler,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := New(logger.NewNoOpLogger())
			if tt.setup != nil {
				tt.setup(reg)
			}
			assert.Error(t, reg.Register(tt.command, tt.handler))
		})
	}
}

func TestRegistry_CommandsKeepRegistrationOrder(t *testing.T) {
	reg := New(nil)
	for _, name := range []string{"b", "a", "c"} {
		require.NoError(t, reg.Register(Command{Name: name}, echoHandler))
	}

	var names []string
	for _, c := range reg.Commands() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"b", "a", "c"}, names)

	catalog := reg.Catalog()
	assert.Equal(t, CatalogVersion, catalog.Version)
	assert.Len(t, catalog.Commands, 3)
}

func TestRegistry_InvokeWithoutObservability(t *testing.T) {
	reg := New(logger.NewTestLogger(t))
	require.NoError(t, reg.Register(Command{Name: "echo"}, echoHandler))

	result, err := reg.Invoke(context.Background(), "echo", json.RawMessage(`[]`))
	require.NoError(t, err)
	assert.Equal(t, "[]", result)
}

func TestRegistry_HandlerPanicBecomesInternalError(t *testing.T) {
	reg, logs := newObservedRegistry(t)
	require.NoError(t, reg.Register(Command{Name: "boom"}, func(context.Context, json.RawMessage) (interface{}, error) {
		panic("nil map write")
	}))
	require.NoError(t, reg.Register(Command{Name: "echo"}, echoHandler))

	result, err := reg.Invoke(context.Background(), "boom", nil)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Equal(t, apperrors.ErrCodeInternal, apperrors.CodeOf(err))
	assert.Contains(t, err.Error(), "nil map write")

	failed := logs.FilterMessage("Command failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, "boom", failed[0].ContextMap()["command"])

	// the registry keeps serving after a panic
	_, err = reg.Invoke(context.Background(), "echo", nil)
	assert.NoError(t, err)
}
