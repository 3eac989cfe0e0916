// Package entities defines the domain entities for the notes service.
package entities

import (
	"errors"
	"time"
)

// Ограничения доменной модели заметки.
const MaxTitleLength = 200

// Ошибки доменной модели заметки.
var (
	ErrEmptyContent = errors.New("note content is required")
	ErrTitleTooLong = errors.New("note title exceeds 200 characters")
)

// Note представляет собой заметку пользователя. Заголовок необязателен,
// текст обязателен. UpdatedAt никогда не раньше CreatedAt и обновляется
// только операцией изменения.
type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewNote создает новую заметку с проверкой доменных ограничений.
func NewNote(userID, title, content string) (*Note, error) {
	if content == "" {
		return nil, ErrEmptyContent
	}
	if len(title) > MaxTitleLength {
		return nil, ErrTitleTooLong
	}

	now := time.Now().UTC()
	return &Note{
		UserID:    userID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
