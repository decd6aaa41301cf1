// Package api is the read-side client for the scheduler backend.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/SmitUplenchwar2687/schedboard/internal/scheduler"
)

// Endpoint paths, relative to the backend base URL.
const (
	PathDays         = "/api/days"
	PathAppointments = "/api/appointments"
	PathInterviewers = "/api/interviewers"
)

// ErrStatus is wrapped by errors for non-2xx responses.
var ErrStatus = errors.New("unexpected response status")

// StatusError reports a non-2xx response.
type StatusError struct {
	Path string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: %d %s", e.Path, e.Code, http.StatusText(e.Code))
}

func (e *StatusError) Unwrap() error { return ErrStatus }

// Client fetches the dashboard read model.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) { cl.http = c }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(cl *Client) { cl.log = l }
}

// NewClient returns a Client for the backend at baseURL. An empty baseURL
// issues requests against relative paths, which only works with a custom
// transport.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Days fetches the ordered list of days.
func (c *Client) Days(ctx context.Context) ([]scheduler.Day, error) {
	var days []scheduler.Day
	if err := c.get(ctx, PathDays, &days); err != nil {
		return nil, err
	}
	return days, nil
}

// Appointments fetches appointments keyed by id.
func (c *Client) Appointments(ctx context.Context) (map[int]scheduler.Appointment, error) {
	var appointments map[int]scheduler.Appointment
	if err := c.get(ctx, PathAppointments, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

// Interviewers fetches interviewers keyed by id.
func (c *Client) Interviewers(ctx context.Context) (map[int]scheduler.Interviewer, error) {
	var interviewers map[int]scheduler.Interviewer
	if err := c.get(ctx, PathInterviewers, &interviewers); err != nil {
		return nil, err
	}
	return interviewers, nil
}

// FetchAll issues the three reads concurrently and returns the combined
// state only if all of them succeed. The first failure cancels the others.
func (c *Client) FetchAll(ctx context.Context) (scheduler.State, error) {
	var s scheduler.State
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		days, err := c.Days(gctx)
		s.Days = days
		return err
	})
	g.Go(func() error {
		appointments, err := c.Appointments(gctx)
		s.Appointments = appointments
		return err
	})
	g.Go(func() error {
		interviewers, err := c.Interviewers(gctx)
		s.Interviewers = interviewers
		return err
	})

	if err := g.Wait(); err != nil {
		return scheduler.State{}, err
	}
	return normalize(s), nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Path: path, Code: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	c.log.Debug("fetched", zap.String("path", path))
	return nil
}

// A backend answering null gets empty collections, never nil ones.
func normalize(s scheduler.State) scheduler.State {
	if s.Days == nil {
		s.Days = []scheduler.Day{}
	}
	if s.Appointments == nil {
		s.Appointments = map[int]scheduler.Appointment{}
	}
	if s.Interviewers == nil {
		s.Interviewers = map[int]scheduler.Interviewer{}
	}
	return s
}
