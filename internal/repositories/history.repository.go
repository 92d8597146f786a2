package repositories

import (
	"context"
	"errors"

	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/database"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/logger"
	. "github.com/Margarita215729/truck-repair-assistant-sub001/internal/models"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/services"
	"gorm.io/gorm"
)

// HistoryRepository persists explicitly saved diagnosis sessions and chat
// conversations to the local history store.
type HistoryRepository interface {
	SaveSession(ctx context.Context, session *DiagnosisSession) error
	GetSessions(ctx context.Context, limit int) ([]DiagnosisSession, error)
	GetSessionByID(ctx context.Context, id string) (*DiagnosisSession, error)
	DeleteSession(ctx context.Context, id string) error

	SaveConversation(ctx context.Context, conversation *ChatConversation, messages []ChatMessage) error
	GetConversations(ctx context.Context, limit int) ([]ChatConversation, error)
}

type historyRepository struct {
	db  database.DB
	log logger.Logger
}

func NewHistory(db database.DB) HistoryRepository {
	return &historyRepository{
		db:  db,
		log: logger.New("historyRepository"),
	}
}

func (r *historyRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

func (r *historyRepository) SaveSession(ctx context.Context, session *DiagnosisSession) error {
	log := r.log.Function("SaveSession")

	if err := r.getDB(ctx).Create(session).Error; err != nil {
		return log.Err("failed to save diagnosis session", err, "truckMake", session.TruckMake)
	}

	return nil
}

func (r *historyRepository) GetSessions(ctx context.Context, limit int) ([]DiagnosisSession, error) {
	log := r.log.Function("GetSessions")

	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var sessions []DiagnosisSession
	if err := r.getDB(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&sessions).Error; err != nil {
		return nil, log.Err("failed to get diagnosis sessions", err)
	}

	return sessions, nil
}

func (r *historyRepository) GetSessionByID(ctx context.Context, id string) (*DiagnosisSession, error) {
	log := r.log.Function("GetSessionByID")

	var session DiagnosisSession
	err := r.getDB(ctx).First(&session, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, log.Err("failed to get diagnosis session", err, "id", id)
	}

	return &session, nil
}

func (r *historyRepository) DeleteSession(ctx context.Context, id string) error {
	log := r.log.Function("DeleteSession")

	if err := r.getDB(ctx).Delete(&DiagnosisSession{}, "id = ?", id).Error; err != nil {
		return log.Err("failed to delete diagnosis session", err, "id", id)
	}

	return nil
}

func (r *historyRepository) SaveConversation(
	ctx context.Context,
	conversation *ChatConversation,
	messages []ChatMessage,
) error {
	log := r.log.Function("SaveConversation")

	if err := r.getDB(ctx).Create(conversation).Error; err != nil {
		return log.Err("failed to save conversation", err, "title", conversation.Title)
	}

	for i := range messages {
		messages[i].ConversationID = conversation.ID
	}
	if len(messages) > 0 {
		if err := r.getDB(ctx).Create(&messages).Error; err != nil {
			return log.Err("failed to save conversation messages", err,
				"conversationID", conversation.ID)
		}
	}

	return nil
}

func (r *historyRepository) GetConversations(ctx context.Context, limit int) ([]ChatConversation, error) {
	log := r.log.Function("GetConversations")

	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var conversations []ChatConversation
	if err := r.getDB(ctx).
		Preload("Messages").
		Order("created_at DESC").
		Limit(limit).
		Find(&conversations).Error; err != nil {
		return nil, log.Err("failed to get conversations", err)
	}

	return conversations, nil
}
