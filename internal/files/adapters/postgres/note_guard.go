package postgres

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"memora/internal/files/ports/repositories"
	"memora/pkg/logger"
)

// NoteGuard реализует проверку владения целевой заметкой через Postgres.
type NoteGuard struct {
	pool PgxPoolInterface
}

// NewNoteGuard создает проверку владения заметками.
func NewNoteGuard(pool PgxPoolInterface) repositories.NoteGuard {
	return &NoteGuard{pool: pool}
}

// NoteExists сообщает, существует ли заметка и принадлежит ли она пользователю.
func (g *NoteGuard) NoteExists(ctx context.Context, noteID, userID string) (bool, error) {
	log := logger.Log(ctx).With(zap.String("method", "NoteGuard.NoteExists"))

	var exists bool
	err := g.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM notes WHERE id = $1 AND user_id = $2)`,
		noteID, userID,
	).Scan(&exists)

	if err != nil {
		log.Error(ctx, "failed to check note ownership", zap.Error(err))
		return false, fmt.Errorf("failed to check note ownership: %w", err)
	}

	return exists, nil
}
