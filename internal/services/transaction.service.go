package services

import (
	"context"

	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/database"
	"github.com/Margarita215729/truck-repair-assistant-sub001/internal/logger"
	"gorm.io/gorm"
)

type txContextKey struct{}

// TransactionService runs a unit of work inside a GORM transaction on the
// history store, exposing the transaction to repositories through the
// context so nested calls share it.
type TransactionService struct {
	db  database.DB
	log logger.Logger
}

func NewTransactionService(db database.DB) *TransactionService {
	return &TransactionService{
		db:  db,
		log: logger.New("TransactionService"),
	}
}

func (s *TransactionService) Execute(ctx context.Context, fn func(txCtx context.Context) error) error {
	return s.db.SQL.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txCtx := context.WithValue(ctx, txContextKey{}, tx)
		return fn(txCtx)
	})
}

// GetTransaction extracts the transaction stashed by Execute, if any.
func GetTransaction(ctx context.Context) (*gorm.DB, bool) {
	tx, ok := ctx.Value(txContextKey{}).(*gorm.DB)
	return tx, ok
}
