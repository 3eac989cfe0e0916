package dto

import "time"

// UploadFileResponse - исход загрузки одного файла из пакета.
// Для принятого файла заполнены идентификатор, размер и MIME тип;
// для отклоненного - причина отказа.
type UploadFileResponse struct {
	AttachmentID     string `json:"attachmentId,omitempty"`
	OriginalFilename string `json:"originalFilename"`
	SizeBytes        int64  `json:"sizeBytes,omitempty"`
	MimeType         string `json:"mimeType,omitempty"`
	Rejected         bool   `json:"rejected,omitempty"`
	Reason           string `json:"reason,omitempty"`
	Message          string `json:"message,omitempty"`
}

// AttachmentMetadataResponse - метаданные вложения.
type AttachmentMetadataResponse struct {
	ID               string    `json:"id"`
	OriginalFilename string    `json:"originalFilename"`
	FileKind         string    `json:"fileKind"`
	MimeType         string    `json:"mimeType"`
	SizeBytes        int64     `json:"sizeBytes"`
	UploadedAt       time.Time `json:"uploadedAt"`
	NoteID           string    `json:"noteId"`
}
