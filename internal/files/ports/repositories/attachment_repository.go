// Package repositories defines repository interfaces for the files service.
package repositories

import (
	"context"

	"memora/internal/files/domain/entities"
)

// AttachmentRepository определяет интерфейс для работы с хранилищем вложений.
// Все операции чтения и удаления ограничены владельцем: вложение видно,
// только если заметка, к которой оно прикреплено, принадлежит userID.
type AttachmentRepository interface {
	// Create сохраняет вложение и возвращает его идентификатор.
	Create(ctx context.Context, attachment *entities.Attachment) (string, error)
	// FindByID возвращает метаданные вложения без полезной нагрузки.
	// Возвращает nil, nil если вложение не существует или не принадлежит
	// пользователю.
	FindByID(ctx context.Context, attachmentID, userID string) (*entities.Attachment, error)
	// FindDataByID возвращает содержимое вложения для отдачи клиенту.
	// Семантика отсутствия та же, что у FindByID.
	FindDataByID(ctx context.Context, attachmentID, userID string) (*entities.AttachmentData, error)
	// ListByNoteID возвращает метаданные всех вложений заметки пользователя.
	ListByNoteID(ctx context.Context, noteID, userID string) ([]*entities.Attachment, error)
	// Delete удаляет вложение и сообщает, была ли удалена строка.
	Delete(ctx context.Context, attachmentID, userID string) (bool, error)
}

// NoteGuard проверяет существование и принадлежность целевой заметки
// перед загрузкой вложений.
type NoteGuard interface {
	NoteExists(ctx context.Context, noteID, userID string) (bool, error)
}
