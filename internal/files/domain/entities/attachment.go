// Package entities defines the domain entities for the files service.
package entities

import (
	"errors"
	"time"
)

// FileKind классифицирует вложение по типу содержимого.
type FileKind string

// Поддерживаемые виды вложений.
const (
	KindImagen FileKind = "Imagen"
	KindVideo  FileKind = "Video"
)

// Ошибки уровня домена вложений.
var (
	// ErrAttachmentNotFound возвращается, когда вложение не существует
	// или принадлежит заметке другого пользователя. Эти два случая
	// намеренно неразличимы.
	ErrAttachmentNotFound = errors.New("attachment not found")
)

// Attachment представляет собой бинарное вложение заметки.
type Attachment struct {
	ID               string    `json:"id"`
	NoteID           string    `json:"note_id"`
	Data             []byte    `json:"-"`
	OriginalFilename string    `json:"original_filename"`
	Kind             FileKind  `json:"file_kind"`
	MimeType         string    `json:"mime_type"`
	SizeBytes        int64     `json:"size_bytes"`
	UploadedAt       time.Time `json:"uploaded_at"`
}

// AttachmentData содержит полезную нагрузку вложения для отдачи клиенту.
type AttachmentData struct {
	Data     []byte
	MimeType string
	Filename string
}

// NewAttachment создает вложение с проставленным временем загрузки.
// Размер всегда равен длине данных.
func NewAttachment(noteID string, data []byte, filename string, kind FileKind, mimeType string) *Attachment {
	return &Attachment{
		NoteID:           noteID,
		Data:             data,
		OriginalFilename: filename,
		Kind:             kind,
		MimeType:         mimeType,
		SizeBytes:        int64(len(data)),
		UploadedAt:       time.Now().UTC(),
	}
}
