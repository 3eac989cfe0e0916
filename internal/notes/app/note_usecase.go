// Package app implements application business logic for the notes service.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"memora/internal/notes/domain/entities"
	"memora/internal/notes/ports/repositories"
)

// Ошибки уровня бизнес-логики.
var (
	ErrNotFound      = errors.New("note not found")
	ErrInvalidParams = errors.New("invalid parameters")
)

// Параметры пагинации по умолчанию.
const (
	defaultLimit = 10
	maxLimit     = 100
)

// NoteUseCase представляет собой бизнес-логику работы с заметками.
type NoteUseCase struct {
	noteRepo repositories.NoteRepository
}

// NewNoteUseCase создает новый экземпляр NoteUseCase.
func NewNoteUseCase(noteRepo repositories.NoteRepository) *NoteUseCase {
	return &NoteUseCase{noteRepo: noteRepo}
}

// CreateNote создает новую заметку для пользователя.
func (uc *NoteUseCase) CreateNote(ctx context.Context, userID, title, content string) (*entities.Note, error) {
	note, err := entities.NewNote(userID, title, content)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParams, err)
	}

	noteID, err := uc.noteRepo.Create(ctx, note)
	if err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}
	note.ID = noteID

	return note, nil
}

// GetNote возвращает заметку по ID.
func (uc *NoteUseCase) GetNote(ctx context.Context, noteID, userID string) (*entities.Note, error) {
	note, err := uc.noteRepo.GetByID(ctx, noteID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	if note == nil {
		return nil, ErrNotFound
	}

	return note, nil
}

// ListNotes возвращает список заметок пользователя с пагинацией.
func (uc *NoteUseCase) ListNotes(ctx context.Context, userID string, limit, offset int) ([]*entities.Note, int, error) {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}

	notes, total, err := uc.noteRepo.ListByUserID(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notes: %w", err)
	}

	return notes, total, nil
}

// UpdateNote обновляет существующую заметку и время ее изменения.
// Пустые поля запроса оставляют текущие значения.
func (uc *NoteUseCase) UpdateNote(ctx context.Context, noteID, userID, title, content string) (*entities.Note, error) {
	if len(title) > entities.MaxTitleLength {
		return nil, fmt.Errorf("%w: %w", ErrInvalidParams, entities.ErrTitleTooLong)
	}

	note, err := uc.noteRepo.GetByID(ctx, noteID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	if note == nil {
		return nil, ErrNotFound
	}

	if title != "" {
		note.Title = title
	}
	if content != "" {
		note.Content = content
	}
	note.UpdatedAt = time.Now().UTC()

	if err := uc.noteRepo.Update(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}

	return note, nil
}

// DeleteNote удаляет заметку вместе со всеми ее вложениями.
func (uc *NoteUseCase) DeleteNote(ctx context.Context, noteID, userID string) error {
	note, err := uc.noteRepo.GetByID(ctx, noteID, userID)
	if err != nil {
		return fmt.Errorf("failed to get note: %w", err)
	}
	if note == nil {
		return ErrNotFound
	}

	if err := uc.noteRepo.Delete(ctx, noteID, userID); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	return nil
}
