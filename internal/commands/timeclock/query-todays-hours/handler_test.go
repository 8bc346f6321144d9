package querytodayshours

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "timeclock-kiosk/internal/common/errors"
	"timeclock-kiosk/internal/common/grist"
	"timeclock-kiosk/internal/common/logger"
)

func TestHandler_Handle(t *testing.T) {
	var query string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query().Get("q")
		_, _ = w.Write([]byte(`{"records":[{"id":3,"fields":{"scan_datetime":1718452800}}]}`))
	}))
	defer server.Close()

	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	client := grist.NewClient(
		grist.Config{APIKey: "k", BaseURL: server.URL, DocumentID: "d"},
		grist.WithClock(func() time.Time { return now }),
	)
	h := NewHandler(client, logger.NewTestLogger(t))

	result, err := h.Handle(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, result)

	start, end := grist.DayRange(now)
	assert.Equal(t, grist.HoursQuery(start, end), query)
	assert.Equal(t, "SELECT * FROM TimeclockHours WHERE scan_datetime >= 1718409600 AND scan_datetime <= 1718495999", query)
}

func TestHandler_Handle_DecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer server.Close()

	h := NewHandler(grist.NewClient(grist.Config{APIKey: "k", BaseURL: server.URL, DocumentID: "d"}), logger.NewNoOpLogger())

	_, err := h.Handle(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeDecodeFailed, apperrors.CodeOf(err))
}
