// Package grist talks to the Grist document that holds the kiosk's workers
// and timeclock hours.
package grist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "timeclock-kiosk/internal/common/errors"
	httpclient "timeclock-kiosk/internal/common/http"
	"timeclock-kiosk/internal/common/logger"
)

// RecordAddedMessage is returned by InsertHoursRecord on success.
const RecordAddedMessage = "Record successfully added to Grist."

type Config struct {
	APIKey     string
	BaseURL    string
	DocumentID string
	Timeout    time.Duration
}

type Client struct {
	baseURL    string
	documentID string
	httpClient *httpclient.Client
	logger     logger.Logger
	now        func() time.Time
}

type Option func(*Client)

// WithClock overrides the clock used to compute "today".
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

func WithLogger(log logger.Logger) Option {
	return func(c *Client) {
		c.logger = log
	}
}

func NewClient(cfg Config, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		documentID: cfg.DocumentID,
		logger:     logger.NewNoOpLogger(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.httpClient = httpclient.NewClient(cfg.Timeout, httpclient.WithBearerToken(cfg.APIKey))

	return c
}

// QueryWorkers returns the rows of the Workers table for workers that are
// currently active.
func (c *Client) QueryWorkers(ctx context.Context) (interface{}, error) {
	return c.query(ctx, WorkersQuery())
}

// QueryTodaysHours returns the TimeclockHours rows scanned during the current
// UTC day.
func (c *Client) QueryTodaysHours(ctx context.Context) (interface{}, error) {
	start, end := DayRange(c.now())
	return c.query(ctx, HoursQuery(start, end))
}

// InsertHoursRecord appends one record to TimeclockHours. fields is sent as
// the record's field object exactly as given.
func (c *Client) InsertHoursRecord(ctx context.Context, fields json.RawMessage) (string, error) {
	if len(fields) == 0 {
		fields = json.RawMessage(`{}`)
	}

	payload, err := encodeInsertPayload(fields)
	if err != nil {
		return "", apperrors.NewInvalidInputError(err.Error())
	}

	endpoint := fmt.Sprintf("%s/api/docs/%s/tables/%s/records", c.baseURL, c.documentID, HoursTable)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", apperrors.NewTransportError(err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", apperrors.NewTransportError(err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		body, err := io.ReadAll(resp.Body)
		text := string(body)
		if err != nil {
			text = "Unknown error"
		}
		c.logger.Warn("Grist rejected record", map[string]interface{}{
			"status": resp.Status,
			"table":  HoursTable,
		})
		return "", apperrors.NewRemoteRejectedError(resp.Status, text)
	}

	c.logger.Debug("Grist record added", map[string]interface{}{
		"table": HoursTable,
	})
	return RecordAddedMessage, nil
}

type insertPayload struct {
	Records []insertRecord `json:"records"`
}

type insertRecord struct {
	Fields json.RawMessage `json:"fields"`
}

// encodeInsertPayload wraps fields in the records envelope. Field text is
// kept as sent: no HTML escaping and no trailing newline.
func encodeInsertPayload(fields json.RawMessage) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(insertPayload{Records: []insertRecord{{Fields: fields}}}); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (c *Client) query(ctx context.Context, sql string) (interface{}, error) {
	endpoint := c.queryURL(sql)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperrors.NewTransportError(err)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewTransportError(err)
	}
	defer resp.Body.Close()

	c.logger.Debug("Grist query answered", map[string]interface{}{
		"status":   resp.Status,
		"duration": time.Since(started).String(),
	})

	if !isSuccess(resp.StatusCode) {
		return nil, apperrors.NewRemoteStatusError(resp.Status)
	}

	var result interface{}
	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	if err := decoder.Decode(&result); err != nil {
		return nil, apperrors.NewDecodeError(err)
	}
	return result, nil
}

// queryURL builds the SQL endpoint URL. Spaces are encoded as %20 rather
// than '+'.
func (c *Client) queryURL(sql string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(sql), "+", "%20")
	return fmt.Sprintf("%s/api/docs/%s/sql?q=%s", c.baseURL, c.documentID, escaped)
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
