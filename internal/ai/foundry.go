package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Margarita215729/truck-repair-assistant-sub001/config"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/logger"
	. "github.com/Margarita215729/truck-repair-assistant-sub001/internal/models"
)

const (
	foundryAPIVersion   = "v1"
	foundryPollInterval = time.Second
)

// FoundryClient drives an Azure AI Foundry agent through the threads/runs
// REST API: post a message, start a run, poll to a terminal state, read the
// newest assistant message. There is no Go SDK for this surface.
type FoundryClient struct {
	endpoint string
	token    string
	agentID  string
	threadID string
	timeout  time.Duration
	http     *http.Client
	log      logger.Logger
}

func NewFoundry(cfg config.Config) *FoundryClient {
	return &FoundryClient{
		endpoint: strings.TrimSuffix(cfg.AzureProjectsEndpoint, "/"),
		token:    cfg.AzureProjectsToken,
		agentID:  cfg.AzureAgentID,
		threadID: cfg.AzureThreadID,
		timeout:  cfg.AITimeout(),
		http:     &http.Client{Timeout: cfg.AITimeout()},
		log:      logger.New("foundry"),
	}
}

func (c *FoundryClient) Name() string {
	return ProviderAzureFoundry
}

func (c *FoundryClient) Diagnose(
	ctx context.Context,
	req *DiagnosisRequest,
) (*DiagnosisResult, error) {
	log := c.log.Function("Diagnose")

	raw, err := c.runAgent(ctx, diagnosisSystemPrompt+"\n\n"+buildDiagnosisPrompt(req))
	if err != nil {
		return nil, log.Err("agent run failed", err, "agentID", c.agentID)
	}

	return parseDiagnosisResult(raw, req), nil
}

func (c *FoundryClient) Chat(ctx context.Context, turns []ChatTurn) (string, error) {
	log := c.log.Function("Chat")

	// The agent thread carries conversation state server-side; only the
	// latest user turn is posted.
	var last string
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == "user" {
			last = turns[i].Content
			break
		}
	}
	if last == "" {
		return "", log.ErrMsg("no user turn in chat request")
	}

	reply, err := c.runAgent(ctx, last)
	if err != nil {
		return "", log.Err("agent run failed", err, "agentID", c.agentID)
	}

	return reply, nil
}

func (c *FoundryClient) CheckHealth(ctx context.Context) HealthStatus {
	return probeChatProvider(ctx, c.Name(), c.timeout, func(ctx context.Context) error {
		var out struct {
			ID string `json:"id"`
		}
		path := fmt.Sprintf("/threads/%s", c.threadID)
		return c.call(ctx, http.MethodGet, path, nil, &out)
	})
}

func (c *FoundryClient) runAgent(ctx context.Context, content string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	threadID := c.threadID
	if threadID == "" {
		var thread struct {
			ID string `json:"id"`
		}
		if err := c.call(ctx, http.MethodPost, "/threads", map[string]any{}, &thread); err != nil {
			return "", fmt.Errorf("create thread: %w", err)
		}
		threadID = thread.ID
	}

	messagePath := fmt.Sprintf("/threads/%s/messages", threadID)
	messageBody := map[string]any{"role": "user", "content": content}
	if err := c.call(ctx, http.MethodPost, messagePath, messageBody, nil); err != nil {
		return "", fmt.Errorf("post message: %w", err)
	}

	var run struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	runPath := fmt.Sprintf("/threads/%s/runs", threadID)
	runBody := map[string]any{"assistant_id": c.agentID}
	if err := c.call(ctx, http.MethodPost, runPath, runBody, &run); err != nil {
		return "", fmt.Errorf("create run: %w", err)
	}

	for !foundryRunDone(run.Status) {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(foundryPollInterval):
		}

		pollPath := fmt.Sprintf("/threads/%s/runs/%s", threadID, run.ID)
		if err := c.call(ctx, http.MethodGet, pollPath, nil, &run); err != nil {
			return "", fmt.Errorf("poll run: %w", err)
		}
	}

	if run.Status != "completed" {
		return "", fmt.Errorf("run ended with status %s", run.Status)
	}

	var messages struct {
		Data []struct {
			Role    string `json:"role"`
			Content []struct {
				Type string `json:"type"`
				Text struct {
					Value string `json:"value"`
				} `json:"text"`
			} `json:"content"`
		} `json:"data"`
	}
	listPath := fmt.Sprintf("/threads/%s/messages?order=desc&limit=5", threadID)
	if err := c.call(ctx, http.MethodGet, listPath, nil, &messages); err != nil {
		return "", fmt.Errorf("list messages: %w", err)
	}

	for _, msg := range messages.Data {
		if msg.Role != "assistant" {
			continue
		}
		for _, part := range msg.Content {
			if part.Type == "text" && part.Text.Value != "" {
				return part.Text.Value, nil
			}
		}
	}

	return "", fmt.Errorf("run %s produced no assistant message", run.ID)
}

func foundryRunDone(status string) bool {
	switch status {
	case "completed", "failed", "cancelled", "expired":
		return true
	}
	return false
}

func (c *FoundryClient) call(
	ctx context.Context,
	method, path string,
	body any,
	out any,
) error {
	url := c.endpoint + path
	if strings.Contains(path, "?") {
		url += "&api-version=" + foundryAPIVersion
	} else {
		url += "?api-version=" + foundryAPIVersion
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("%s %s returned %d: %s", method, path, resp.StatusCode, string(data))
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
