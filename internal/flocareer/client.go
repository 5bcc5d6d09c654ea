// Package flocareer is a thin JSON client for the FloCareer question pool API.
package flocareer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/buildfastwithai/jd-qna/internal/config"
)

// PoolQuestion is one question pushed into an external pool.
type PoolQuestion struct {
	Title      string `json:"title"`
	Answer     string `json:"description"`
	Difficulty string `json:"difficulty,omitempty"`
	Category   string `json:"category,omitempty"`
	Coding     bool   `json:"is_coding"`
}

// PoolRequest creates one question pool, usually one per skill.
type PoolRequest struct {
	PoolName  string         `json:"pool_name"`
	SkillName string         `json:"skill_name"`
	Questions []PoolQuestion `json:"questions"`
}

// PoolResponse is the API's acknowledgment with the external ids assigned.
type PoolResponse struct {
	Success     bool    `json:"success"`
	Error       string  `json:"error,omitempty"`
	PoolID      int64   `json:"pool_id"`
	QuestionIDs []int64 `json:"question_ids"`
}

// Client calls the FloCareer HTTP API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// New builds a client. A nil httpClient gets a default with the configured
// timeout.
func New(cfg config.FloCareerConfig, httpClient *http.Client) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("flocareer base URL is required")
	}
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
	}, nil
}

// CreateQuestionPool pushes one pool and returns the external ids. The
// response must carry one question id per question sent.
func (c *Client) CreateQuestionPool(ctx context.Context, req *PoolRequest) (*PoolResponse, error) {
	if len(req.Questions) == 0 {
		return nil, fmt.Errorf("pool %q has no questions", req.PoolName)
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal pool request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/question-pools", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call flocareer: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("flocareer returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var out PoolResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if !out.Success {
		return nil, fmt.Errorf("flocareer rejected pool %q: %s", req.PoolName, out.Error)
	}
	if len(out.QuestionIDs) != len(req.Questions) {
		return nil, fmt.Errorf("flocareer returned %d question ids for %d questions", len(out.QuestionIDs), len(req.Questions))
	}

	return &out, nil
}
