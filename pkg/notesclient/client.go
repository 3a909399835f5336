package notesclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"course-notes-be/pkg/notes"
	"course-notes-be/pkg/notesync"

	"github.com/gofiber/fiber/v2"
)

const defaultTimeout = 10 * time.Second

// APIError is returned for non-2xx responses and for envelopes that report failure.
type APIError struct {
	Status  int
	Message string
	Errors  []string
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("api error (%d): %s: %s", e.Status, e.Message, strings.Join(e.Errors, "; "))
	}
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

type envelope struct {
	Code    int             `json:"code"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors,omitempty"`
}

type UserFile struct {
	Id         int64  `json:"id"`
	SeriesId   int64  `json:"series_id"`
	Name       string `json:"name"`
	TotalPages int    `json:"total_pages"`
}

// Client talks to the course notes REST API.
type Client struct {
	baseURL string
	token   string
	timeout time.Duration
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		timeout: defaultTimeout,
	}
}

func (c *Client) WithTimeout(d time.Duration) *Client {
	cp := *c
	cp.timeout = d
	return &cp
}

// ListNotes returns every user's note rows for one file of a series.
func (c *Client) ListNotes(ctx context.Context, seriesId, userFileId int64) ([]notes.RawRecord, error) {
	var records []notes.RawRecord
	path := fmt.Sprintf("/series/%d/userfiles/%d/notes", seriesId, userFileId)
	if err := c.do(ctx, fiber.MethodGet, path, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Client) SaveNotes(ctx context.Context, req notesync.WriteRequest) error {
	path := fmt.Sprintf("/userfiles/%d/notes", req.UserFileId)
	return c.do(ctx, fiber.MethodPost, path, req, nil)
}

func (c *Client) GetUserFile(ctx context.Context, seriesId, userFileId int64) (*UserFile, error) {
	var file UserFile
	path := fmt.Sprintf("/series/%d/userfiles/%d", seriesId, userFileId)
	if err := c.do(ctx, fiber.MethodGet, path, nil, &file); err != nil {
		return nil, err
	}
	return &file, nil
}

func (c *Client) RecordDataItem(ctx context.Context, item notesync.DataItem) error {
	return c.do(ctx, fiber.MethodPost, "/telemetry/data-items", item, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return context.DeadlineExceeded
	}

	var agent *fiber.Agent
	switch method {
	case fiber.MethodPost:
		agent = fiber.Post(c.baseURL + path)
	default:
		agent = fiber.Get(c.baseURL + path)
	}
	agent.Timeout(timeout)
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if c.token != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+c.token)
	}
	if body != nil {
		agent.JSON(body)
	}

	status, raw, errs := agent.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("%s %s: %w", method, path, errors.Join(errs...))
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if status < 200 || status >= 300 {
		apiErr := &APIError{Status: status, Message: strings.TrimSpace(string(raw))}
		if decodeErr == nil {
			apiErr.Message = env.Message
			apiErr.Errors = env.Errors
		}
		return apiErr
	}
	if decodeErr != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, decodeErr)
	}
	if !env.Success || len(env.Errors) > 0 {
		return &APIError{Status: status, Message: env.Message, Errors: env.Errors}
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s %s: decode data: %w", method, path, err)
	}
	return nil
}
