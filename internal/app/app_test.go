package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timeclock-kiosk/internal/common/config"
	"timeclock-kiosk/internal/common/logger"
	"timeclock-kiosk/pkg/registry"
)

func testConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	resources := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(resources, "public", "images"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(resources, "public", "images", "logo.png"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(resources, "public", "message.txt"), []byte("Have a good shift"), 0o644))

	return &config.Config{
		App: config.AppConfig{
			Name:      "timeclock-kiosk",
			BuildMode: config.BuildModeDevelopment,
		},
		Grist: config.GristConfig{
			APIKey:     "key",
			BaseURL:    baseURL,
			DocumentID: "doc",
		},
		Resources: config.ResourcesConfig{
			Dir:       resources,
			DevSubdir: "src-tauri",
		},
	}
}

func TestNew_RegistersFiveCommands(t *testing.T) {
	a, err := New(testConfig(t, "http://127.0.0.1:1"), logger.NewTestLogger(t))
	require.NoError(t, err)

	commands := a.Registry.Commands()
	require.Len(t, commands, 5)
	for _, name := range []string{"list-images", "read-message", "query-workers", "query-todays-hours", "insert-hours-record"} {
		canonical, ok := a.Registry.Resolve(name)
		assert.True(t, ok, name)
		assert.Equal(t, name, canonical)
	}

	err = a.Registry.Register(registry.Command{Name: "late"}, func(context.Context, json.RawMessage) (interface{}, error) {
		return nil, nil
	})
	assert.Error(t, err, "registry must be sealed after New")
}

func TestNew_InvokesAgainstResources(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"records":[]}`))
	}))
	defer server.Close()

	cfg := testConfig(t, server.URL)
	a, err := New(cfg, logger.NewTestLogger(t))
	require.NoError(t, err)
	assert.Equal(t, cfg.Resources.Dir, a.BasePath)

	images, err := a.Registry.Invoke(context.Background(), "list-images", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"/images/logo.png"}, images)

	msg, err := a.Registry.Invoke(context.Background(), "read-message", nil)
	require.NoError(t, err)
	assert.Equal(t, "Have a good shift", msg)

	workers, err := a.Registry.Invoke(context.Background(), "query-workers", nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"records": []interface{}{}}, workers)

	require.NoError(t, a.Shutdown(context.Background()))
}

func TestNew_NilConfig(t *testing.T) {
	_, err := New(nil, nil)
	assert.Error(t, err)
}
