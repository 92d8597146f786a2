package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Margarita215729/truck-repair-assistant-sub001/config"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/logger"
	. "github.com/Margarita215729/truck-repair-assistant-sub001/internal/models"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// GitHubModelsClient talks to the GitHub Models inference endpoint, which
// is OpenAI-compatible, through the same SDK as Azure OpenAI.
type GitHubModelsClient struct {
	client  openai.Client
	model   string
	timeout time.Duration
	log     logger.Logger
}

func NewGitHubModels(cfg config.Config) *GitHubModelsClient {
	baseURL := strings.TrimSuffix(cfg.GitHubModelsEndpoint, "/") + "/"

	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(cfg.GitHubToken),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(cfg.AITimeout()),
	)

	return &GitHubModelsClient{
		client:  client,
		model:   cfg.GitHubModel,
		timeout: cfg.AITimeout(),
		log:     logger.New("githubModels"),
	}
}

func (c *GitHubModelsClient) Name() string {
	return ProviderGitHubModels
}

func (c *GitHubModelsClient) Diagnose(
	ctx context.Context,
	req *DiagnosisRequest,
) (*DiagnosisResult, error) {
	log := c.log.Function("Diagnose")

	raw, err := c.complete(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(diagnosisSystemPrompt),
		openai.UserMessage(buildDiagnosisPrompt(req)),
	})
	if err != nil {
		return nil, log.Err("chat completion failed", err, "model", c.model)
	}

	return parseDiagnosisResult(raw, req), nil
}

func (c *GitHubModelsClient) Chat(ctx context.Context, turns []ChatTurn) (string, error) {
	log := c.log.Function("Chat")

	reply, err := c.complete(ctx, chatTurnsToMessages(turns))
	if err != nil {
		return "", log.Err("chat completion failed", err, "model", c.model)
	}

	return reply, nil
}

func (c *GitHubModelsClient) CheckHealth(ctx context.Context) HealthStatus {
	return probeChatProvider(ctx, c.Name(), c.timeout, func(ctx context.Context) error {
		_, err := c.complete(ctx, []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage("ping"),
		})
		return err
	})
}

func (c *GitHubModelsClient) complete(
	ctx context.Context,
	messages []openai.ChatCompletionMessageParamUnion,
) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.model),
		Messages:    messages,
		MaxTokens:   openai.Int(1200),
		Temperature: openai.Float(0.3),
	})
	if err != nil {
		return "", err
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("empty completion from model %s", c.model)
	}

	return completion.Choices[0].Message.Content, nil
}
