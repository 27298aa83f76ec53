package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"taskboard/logging"
	"taskboard/models"

	"github.com/sony/gobreaker"
)

// AuthResponse is the body returned by register and login.
type AuthResponse struct {
	Token string        `json:"token"`
	User  models.Member `json:"user"`
}

// Client talks to the taskboard API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker

	mu             sync.RWMutex
	token          string
	onUnauthorized func()
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithUnauthorizedHandler registers fn to run whenever the server answers 401.
// The client has already dropped its token when fn runs.
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// New builds a client whose requests go through a circuit breaker. Only
// transport errors and 5xx responses count as breaker failures.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}

	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "TaskboardAPI",
		MaxRequests: 1,
		Timeout:     2 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		IsSuccessful: func(err error) bool {
			var apiErr *APIError
			if errors.As(err, &apiErr) {
				return !apiErr.Temporary()
			}
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})
	return c
}

func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		payload = data
	}

	_, err := c.breaker.Execute(func() (interface{}, error) {
		return nil, c.roundTrip(ctx, method, path, payload, out)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("server unavailable: %w", err)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
		c.mu.Lock()
		c.token = ""
		handler := c.onUnauthorized
		c.mu.Unlock()
		if handler != nil {
			handler()
		}
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, payload []byte, out any) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{Status: resp.StatusCode}
		var body struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
			apiErr.Message = body.Message
			apiErr.Code = body.Code
		}
		return apiErr
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var result AuthResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &result); err != nil {
		return nil, err
	}
	c.SetToken(result.Token)
	return &result, nil
}

func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthResponse, error) {
	var result AuthResponse
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", body, &result); err != nil {
		return nil, err
	}
	c.SetToken(result.Token)
	return &result, nil
}

func (c *Client) Me(ctx context.Context) (*models.Member, error) {
	var member models.Member
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", nil, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

// Logout revokes the session server side and always drops the local token.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	c.SetToken("")
	return err
}

func (c *Client) ListTasks(ctx context.Context, filter models.TaskFilter) ([]models.Task, error) {
	query := url.Values{}
	if filter.Status != nil {
		query.Set("status", string(*filter.Status))
	}
	if filter.Project != nil {
		query.Set("project", filter.Project.Hex())
	}
	path := "/api/tasks"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, path, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) CreateTask(ctx context.Context, in models.NewTask) (*models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodPost, "/api/tasks", in, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) UpdateTask(ctx context.Context, id string, update models.TaskUpdate) (*models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodPut, "/api/tasks/"+url.PathEscape(id), update, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/tasks/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListMembers(ctx context.Context) ([]models.Member, error) {
	var members []models.Member
	if err := c.do(ctx, http.MethodGet, "/api/members", nil, &members); err != nil {
		return nil, err
	}
	return members, nil
}

func (c *Client) CreateMember(ctx context.Context, in models.NewMember) (*models.Member, error) {
	var member models.Member
	if err := c.do(ctx, http.MethodPost, "/api/members", in, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

func (c *Client) UpdateMember(ctx context.Context, id string, update models.MemberUpdate) (*models.Member, error) {
	var member models.Member
	if err := c.do(ctx, http.MethodPut, "/api/members/"+url.PathEscape(id), update, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

func (c *Client) DeleteMember(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/members/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := c.do(ctx, http.MethodGet, "/api/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

func (c *Client) CreateProject(ctx context.Context, in models.NewProject) (*models.Project, error) {
	var project models.Project
	if err := c.do(ctx, http.MethodPost, "/api/projects", in, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) UpdateProject(ctx context.Context, id string, update models.ProjectUpdate) (*models.Project, error) {
	var project models.Project
	if err := c.do(ctx, http.MethodPut, "/api/projects/"+url.PathEscape(id), update, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/projects/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListNotifications(ctx context.Context) ([]models.Notification, error) {
	var notifications []models.Notification
	if err := c.do(ctx, http.MethodGet, "/api/notifications", nil, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPut, "/api/notifications/"+url.PathEscape(id)+"/read", nil, nil)
}
