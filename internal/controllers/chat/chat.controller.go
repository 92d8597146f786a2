package chatController

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/ai"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/logger"
	. "github.com/Margarita215729/truck-repair-assistant-sub001/internal/models"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/repositories"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/services"
)

var ErrInvalidChat = errors.New("invalid chat request")

type ChatController struct {
	aiService          *ai.Service
	historyRepo        repositories.HistoryRepository
	transactionService *services.TransactionService
	log                logger.Logger
}

func New(
	aiService *ai.Service,
	historyRepo repositories.HistoryRepository,
	transactionService *services.TransactionService,
) *ChatController {
	return &ChatController{
		aiService:          aiService,
		historyRepo:        historyRepo,
		transactionService: transactionService,
		log:                logger.New("ChatController"),
	}
}

func validate(req *ChatRequest) error {
	if req == nil || len(req.Messages) == 0 {
		return fmt.Errorf("%w: messages are required", ErrInvalidChat)
	}

	for _, turn := range req.Messages {
		if strings.TrimSpace(turn.Content) == "" {
			return fmt.Errorf("%w: message content must not be empty", ErrInvalidChat)
		}
		switch turn.Role {
		case "user", "assistant", "system":
		default:
			return fmt.Errorf("%w: unknown role %q", ErrInvalidChat, turn.Role)
		}
	}

	return nil
}

func (cc *ChatController) Chat(ctx context.Context, req *ChatRequest) (*ChatReply, []ai.Attempt, error) {
	log := cc.log.Function("Chat")

	if err := validate(req); err != nil {
		return nil, nil, err
	}

	reply, attempts, err := cc.aiService.Chat(ctx, req.Messages)
	if err != nil {
		return nil, attempts, log.Err("chat failed", err)
	}

	return reply, attempts, nil
}

// SaveConversation stores the transcript plus the assistant reply as one
// conversation. The conversation row and its messages commit atomically.
func (cc *ChatController) SaveConversation(
	ctx context.Context,
	req *ChatRequest,
	reply *ChatReply,
) (*ChatConversation, error) {
	log := cc.log.Function("SaveConversation")

	if err := validate(req); err != nil {
		return nil, err
	}

	conversation := &ChatConversation{Title: conversationTitle(req.Messages)}

	messages := make([]ChatMessage, 0, len(req.Messages)+1)
	for _, turn := range req.Messages {
		messages = append(messages, ChatMessage{Role: turn.Role, Content: turn.Content})
	}
	if reply != nil && reply.Reply != "" {
		messages = append(messages, ChatMessage{Role: "assistant", Content: reply.Reply})
	}

	err := cc.transactionService.Execute(ctx, func(txCtx context.Context) error {
		return cc.historyRepo.SaveConversation(txCtx, conversation, messages)
	})
	if err != nil {
		return nil, log.Err("failed to save conversation", err)
	}

	return conversation, nil
}

func (cc *ChatController) GetConversations(ctx context.Context, limit int) ([]ChatConversation, error) {
	conversations, err := cc.historyRepo.GetConversations(ctx, limit)
	if err != nil {
		return nil, cc.log.Function("GetConversations").Err("failed to load conversations", err)
	}
	return conversations, nil
}

func conversationTitle(turns []ChatTurn) string {
	for _, turn := range turns {
		if turn.Role != "user" {
			continue
		}
		title := strings.TrimSpace(turn.Content)
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		return title
	}
	return "Conversation"
}
