package dto

import "time"

// CreateNoteRequest - запрос на создание заметки.
type CreateNoteRequest struct {
	Title   string `json:"title" validate:"max=200"`
	Content string `json:"content" validate:"required"`
}

// UpdateNoteRequest - запрос на изменение заметки. Пустые поля не изменяются.
type UpdateNoteRequest struct {
	Title   string `json:"title" validate:"max=200"`
	Content string `json:"content"`
}

// NoteResponse - представление заметки в ответах API.
type NoteResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ListNotesResponse - страница списка заметок.
type ListNotesResponse struct {
	Notes  []NoteResponse `json:"notes"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}
