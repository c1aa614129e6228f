package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/five82/roster/internal/student"
)

// StudentAPI is the single-resource contract the detail view depends on.
// It is implemented by *Client and can be faked in tests.
type StudentAPI interface {
	FetchByID(ctx context.Context, id int64) (student.Student, error)
	PatchByID(ctx context.Context, id int64, patch student.Patch) (student.Student, error)
	DeleteByID(ctx context.Context, id int64) error
}

// Ensure Client implements StudentAPI at compile time.
var _ StudentAPI = (*Client)(nil)

// Client talks to the students HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	token     string
	userAgent string
	log       logrus.FieldLogger
}

const (
	DefaultBaseURL   = "https://moringa-school-portal-backend.onrender.com"
	defaultUserAgent = "roster/0.1"
	defaultTimeout   = 10 * time.Second
	resourcePath     = "/students"
	errorBodyLimit   = 64 << 10
	maxMessageLen    = 200
)

// Options configure a Client.
type Options struct {
	BaseURL string
	// Token is sent as a bearer credential on every request. It is fixed for
	// the lifetime of the client.
	Token     string
	Timeout   time.Duration
	UserAgent string
	Logger    logrus.FieldLogger
}

// NewClient builds a Client from opts.
func NewClient(opts Options) (*Client, error) {
	base, err := parseBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ua := strings.TrimSpace(opts.UserAgent)
	if ua == "" {
		ua = defaultUserAgent
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: timeout},
		token:     strings.TrimSpace(opts.Token),
		userAgent: ua,
		log:       log.WithField("component", "remote"),
	}, nil
}

// BaseURL returns the normalized API base.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// FetchByID retrieves a student. A 404 yields an error matching ErrNotFound.
func (c *Client) FetchByID(ctx context.Context, id int64) (student.Student, error) {
	if c == nil {
		return student.Student{}, fmt.Errorf("client is nil")
	}
	var payload *student.Student
	if err := c.do(ctx, http.MethodGet, id, nil, &payload); err != nil {
		return student.Student{}, err
	}
	if payload == nil {
		return student.Student{}, ErrEmptyResponse
	}
	return *payload, nil
}

// PatchByID sends a partial update and returns the server's view of the
// record. A zero Student is returned when the server acknowledges without a
// body.
func (c *Client) PatchByID(ctx context.Context, id int64, patch student.Patch) (student.Student, error) {
	if c == nil {
		return student.Student{}, fmt.Errorf("client is nil")
	}
	var payload *student.Student
	if err := c.do(ctx, http.MethodPatch, id, patch, &payload); err != nil {
		return student.Student{}, err
	}
	if payload == nil {
		return student.Student{}, nil
	}
	return *payload, nil
}

// DeleteByID removes a student.
func (c *Client) DeleteByID(ctx context.Context, id int64) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	return c.do(ctx, http.MethodDelete, id, nil, nil)
}

func (c *Client) do(ctx context.Context, method string, id int64, body any, dest any) error {
	rel := &url.URL{Path: c.resourcePath(id)}
	reqURL := c.baseURL.ResolveReference(rel)

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log := c.log.WithFields(logrus.Fields{
		"method":     method,
		"student_id": id,
		"request_id": requestID,
	})
	started := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		log.WithError(err).Warn("request failed")
		return &NetworkError{Op: method + " " + rel.Path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	log = log.WithFields(logrus.Fields{"status": resp.StatusCode, "elapsed": time.Since(started)})
	if resp.StatusCode >= 400 {
		apiErr := newAPIError(resp)
		log.WithField("message", apiErr.Message).Warn("api returned error")
		return apiErr
	}
	log.Debug("request complete")

	if dest == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Op: "read " + rel.Path, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) resourcePath(id int64) string {
	return strings.TrimRight(c.baseURL.Path, "/") + resourcePath + "/" + strconv.FormatInt(id, 10)
}

func newAPIError(resp *http.Response) *APIError {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
	apiErr := &APIError{Status: resp.StatusCode}

	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err == nil {
		apiErr.Message = strings.TrimSpace(body.Message)
		if apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(body.Error)
		}
	} else {
		apiErr.Message = truncate(strings.TrimSpace(string(data)), maxMessageLen)
	}
	return apiErr
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api base url %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("parse api base url %q: missing host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
