package api

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
)

const requestTimeout = 10 * time.Second

// Client talks to the learning-companion REST server. All state lives on the
// server; the client fetches fresh snapshots on demand and never caches.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client for the given base URL (e.g. "http://host:3000/api").
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// BaseURL returns the server base URL this client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Modules fetches all learning modules.
func (c *Client) Modules(ctx context.Context) ([]LearningModule, error) {
	var modules []LearningModule
	if err := c.getJSON(ctx, "/modules", &modules); err != nil {
		return nil, err
	}
	return modules, nil
}

// UpdateProgress marks a task complete and returns the recomputed mastery.
func (c *Client) UpdateProgress(ctx context.Context, moduleID, taskType string) (ProgressUpdate, error) {
	var out ProgressUpdate
	path := fmt.Sprintf("/modules/%s/progress", url.PathEscape(moduleID))
	body := map[string]string{"task_type": taskType}
	if err := c.postJSON(ctx, path, body, &out); err != nil {
		return ProgressUpdate{}, err
	}
	return out, nil
}

// Content fetches the content body for a module content type (readme,
// exercises, project, checklist).
func (c *Client) Content(ctx context.Context, language, moduleID, contentType string) (string, error) {
	var out struct {
		Content string `json:"content"`
	}
	path := fmt.Sprintf("/modules/%s/%s/content/%s",
		url.PathEscape(language), url.PathEscape(moduleID), url.PathEscape(contentType))
	if err := c.getJSON(ctx, path, &out); err != nil {
		return "", err
	}
	return out.Content, nil
}

// Examples lists the example filenames available for a module.
func (c *Client) Examples(ctx context.Context, language, moduleID string) ([]string, error) {
	var out struct {
		Examples []string `json:"examples"`
	}
	path := fmt.Sprintf("/modules/%s/%s/examples", url.PathEscape(language), url.PathEscape(moduleID))
	if err := c.getJSON(ctx, path, &out); err != nil {
		return nil, err
	}
	return out.Examples, nil
}

// ExampleContent fetches one example file's source.
func (c *Client) ExampleContent(ctx context.Context, language, moduleID, filename string) (string, error) {
	var out struct {
		Content string `json:"content"`
	}
	path := fmt.Sprintf("/modules/%s/%s/examples/%s",
		url.PathEscape(language), url.PathEscape(moduleID), url.PathEscape(filename))
	if err := c.getJSON(ctx, path, &out); err != nil {
		return "", err
	}
	return out.Content, nil
}

// PracticeQuestions fetches the quiz for a module. The payload is validated
// against the practice schema before questions are returned, so a malformed
// quiz (a question without options, say) fails here rather than mid-session.
func (c *Client) PracticeQuestions(ctx context.Context, moduleID string) ([]PracticeQuestion, error) {
	path := fmt.Sprintf("/practice/%s", url.PathEscape(moduleID))
	raw, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}

	if err := validatePracticePayload(raw); err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}

	var out struct {
		Questions []PracticeQuestion `json:"questions"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("GET %s: decode response: %w", path, err)
	}
	return out.Questions, nil
}

// SubmitPractice submits the positional answer buffer for grading.
// Unanswered slots stay at -1; how those score is the server's policy.
func (c *Client) SubmitPractice(ctx context.Context, moduleID string, answers []int) (PracticeResult, error) {
	var out PracticeResult
	path := fmt.Sprintf("/practice/submit/%s", url.PathEscape(moduleID))
	body := map[string][]int{"answers": answers}
	if err := c.postJSON(ctx, path, body, &out); err != nil {
		return PracticeResult{}, err
	}
	return out, nil
}

// Achievements fetches the full achievement list.
func (c *Client) Achievements(ctx context.Context) ([]Achievement, error) {
	var achievements []Achievement
	if err := c.getJSON(ctx, "/achievements", &achievements); err != nil {
		return nil, err
	}
	return achievements, nil
}

// Export downloads the opaque export blob.
func (c *Client) Export(ctx context.Context) ([]byte, error) {
	return c.get(ctx, "/export")
}

// get performs a GET and returns the raw body. Transport failures, non-2xx
// statuses, and unreadable bodies all surface as one wrapped error; callers
// present a single retry affordance regardless of the cause.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("GET %s: server returned %s", path, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("GET %s: read response: %w", path, err)
	}
	return data, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	data, err := c.get(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("GET %s: decode response: %w", path, err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("POST %s: encode request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("POST %s: server returned %s", path, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("POST %s: read response: %w", path, err)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("POST %s: decode response: %w", path, err)
	}
	return nil
}
