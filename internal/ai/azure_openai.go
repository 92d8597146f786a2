package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/Margarita215729/truck-repair-assistant-sub001/config"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/logger"
	. "github.com/Margarita215729/truck-repair-assistant-sub001/internal/models"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"
)

// AzureOpenAIClient wraps an Azure OpenAI chat deployment through the
// OpenAI SDK's azure transport.
type AzureOpenAIClient struct {
	client     openai.Client
	deployment string
	timeout    time.Duration
	log        logger.Logger
}

func NewAzureOpenAI(cfg config.Config) *AzureOpenAIClient {
	client := openai.NewClient(
		azure.WithEndpoint(cfg.AzureOpenAIEndpoint, cfg.AzureOpenAIAPIVersion),
		azure.WithAPIKey(cfg.AzureOpenAIKey),
		option.WithMaxRetries(0),
		option.WithRequestTimeout(cfg.AITimeout()),
	)

	return &AzureOpenAIClient{
		client:     client,
		deployment: cfg.AzureOpenAIDeployment,
		timeout:    cfg.AITimeout(),
		log:        logger.New("azureOpenAI"),
	}
}

func (c *AzureOpenAIClient) Name() string {
	return ProviderAzureOpenAI
}

func (c *AzureOpenAIClient) Diagnose(
	ctx context.Context,
	req *DiagnosisRequest,
) (*DiagnosisResult, error) {
	log := c.log.Function("Diagnose")

	raw, err := c.complete(ctx, []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(diagnosisSystemPrompt),
		openai.UserMessage(buildDiagnosisPrompt(req)),
	})
	if err != nil {
		return nil, log.Err("chat completion failed", err, "deployment", c.deployment)
	}

	return parseDiagnosisResult(raw, req), nil
}

func (c *AzureOpenAIClient) Chat(ctx context.Context, turns []ChatTurn) (string, error) {
	log := c.log.Function("Chat")

	reply, err := c.complete(ctx, chatTurnsToMessages(turns))
	if err != nil {
		return "", log.Err("chat completion failed", err, "deployment", c.deployment)
	}

	return reply, nil
}

func (c *AzureOpenAIClient) CheckHealth(ctx context.Context) HealthStatus {
	return probeChatProvider(ctx, c.Name(), c.timeout, func(ctx context.Context) error {
		_, err := c.complete(ctx, []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage("ping"),
		})
		return err
	})
}

func (c *AzureOpenAIClient) complete(
	ctx context.Context,
	messages []openai.ChatCompletionMessageParamUnion,
) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(c.deployment),
		Messages:    messages,
		MaxTokens:   openai.Int(1200),
		Temperature: openai.Float(0.3),
	})
	if err != nil {
		return "", err
	}

	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("empty completion from deployment %s", c.deployment)
	}

	return completion.Choices[0].Message.Content, nil
}

func chatTurnsToMessages(turns []ChatTurn) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(turns))
	for _, turn := range turns {
		switch turn.Role {
		case "system":
			messages = append(messages, openai.SystemMessage(turn.Content))
		case "assistant":
			messages = append(messages, openai.AssistantMessage(turn.Content))
		default:
			messages = append(messages, openai.UserMessage(turn.Content))
		}
	}
	return messages
}

// probeChatProvider runs one bounded check call and converts the outcome
// into a HealthStatus; errors are captured, never propagated.
func probeChatProvider(
	ctx context.Context,
	name string,
	timeout time.Duration,
	probe func(ctx context.Context) error,
) HealthStatus {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := probe(ctx)
	latency := time.Since(start).Milliseconds()

	status := HealthStatus{
		Service:   name,
		IsHealthy: err == nil,
		LatencyMs: latency,
	}
	if err != nil {
		status.Error = err.Error()
	}

	return status
}
