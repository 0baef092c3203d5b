// Package api is the client side of the questions REST API.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"

	"github.com/idilsaglam/questree/internal/log"
)

// ErrRequestFailed wraps every failure: transport, non-2xx status and
// undecodable bodies are not told apart by callers.
var ErrRequestFailed = errors.New("request failed")

// StatusError records the HTTP status of a rejected request, for logs.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Code, http.StatusText(e.Code))
}

func (e *StatusError) Unwrap() error { return ErrRequestFailed }

type Options struct {
	Token   string
	Timeout time.Duration
}

// Client talks to one API base URL. Safe for concurrent use.
type Client struct {
	http *resty.Client
}

func New(baseURL string, opt Options) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetLogger(log.Logger).
		SetHeader("Accept", "application/json")
	if opt.Timeout > 0 {
		c.SetTimeout(opt.Timeout)
	}
	if opt.Token != "" {
		c.SetAuthToken(opt.Token)
	}
	return &Client{http: c}
}

// do sends one request and decodes a JSON body into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, params map[string]string, body, out any) error {
	reqID := uuid.NewString()
	req := c.http.R().
		SetContext(ctx).
		SetHeader("X-Request-Id", reqID).
		SetPathParams(params)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	entry := log.WithField("req", reqID)
	start := time.Now()
	resp, err := req.Execute(method, path)
	if err != nil {
		entry.Debugf("%s %s: %v", method, path, err)
		return fmt.Errorf("%w: %s %s: %v", ErrRequestFailed, method, path, err)
	}
	entry.Debugf("%s %s -> %d (%s)", method, resp.Request.URL, resp.StatusCode(), time.Since(start).Round(time.Millisecond))

	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return &StatusError{Method: method, Path: path, Code: resp.StatusCode(), Body: string(resp.Body())}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("%w: %s %s: decode: %v", ErrRequestFailed, method, path, err)
	}
	return nil
}

func idParams(questionID int64) map[string]string {
	return map[string]string{"id": fmt.Sprint(questionID)}
}

func itemParams(questionID, itemID int64) map[string]string {
	return map[string]string{"id": fmt.Sprint(questionID), "item": fmt.Sprint(itemID)}
}
