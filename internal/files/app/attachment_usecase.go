// Package app implements application business logic for the files service.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"memora/internal/files/domain/entities"
	"memora/internal/files/domain/services"
	"memora/internal/files/ports/repositories"
	"memora/pkg/logger"
)

// Ошибки уровня бизнес-логики.
var (
	// ErrNoteNotFound возвращается, когда целевая заметка не существует
	// или принадлежит другому пользователю.
	ErrNoteNotFound = errors.New("note not found")
	// ErrAttachmentNotFound возвращается для отсутствующих и чужих вложений.
	ErrAttachmentNotFound = entities.ErrAttachmentNotFound
	// ErrNoFiles возвращается при запросе загрузки без единого файла.
	ErrNoFiles = errors.New("no files provided")
)

const (
	msgUploadingBatch      = "uploading attachment batch"
	msgFileRejected        = "file rejected by validator"
	msgFilePersisted       = "file persisted"
	msgErrCheckingNote     = "failed to check note ownership"
	msgErrCompressingImage = "failed to compress image"
	msgErrPersistingFile   = "failed to persist attachment"
)

// UploadFile - один файл из multipart запроса.
type UploadFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// AttachmentSummary - результат успешной загрузки одного файла.
type AttachmentSummary struct {
	ID               string `json:"attachment_id"`
	OriginalFilename string `json:"original_filename"`
	SizeBytes        int64  `json:"size_bytes"`
	MimeType         string `json:"mime_type"`
}

// UploadResult - исход обработки одного файла из пакета. Заполнено ровно
// одно из двух полей.
type UploadResult struct {
	Summary   *AttachmentSummary
	Rejection *services.ValidationError
}

// AttachmentUseCase связывает проверку владения, валидацию и хранилище вложений.
type AttachmentUseCase struct {
	attachmentRepo repositories.AttachmentRepository
	noteGuard      repositories.NoteGuard
	validator      *services.FileValidator
	compressor     services.ImageCompressor
}

// NewAttachmentUseCase создает новый экземпляр AttachmentUseCase.
func NewAttachmentUseCase(
	attachmentRepo repositories.AttachmentRepository,
	noteGuard repositories.NoteGuard,
	validator *services.FileValidator,
	compressor services.ImageCompressor,
) *AttachmentUseCase {
	return &AttachmentUseCase{
		attachmentRepo: attachmentRepo,
		noteGuard:      noteGuard,
		validator:      validator,
		compressor:     compressor,
	}
}

// Upload загружает пакет файлов в заметку. Файлы обрабатываются
// последовательно и независимо: отказ валидатора на одном файле попадает
// в его элемент результата и не откатывает уже сохраненные файлы.
// Ошибка возвращается только при отсутствии заметки у пользователя,
// пустом пакете или сбое хранилища.
func (uc *AttachmentUseCase) Upload(ctx context.Context, noteID, userID string, files []UploadFile) ([]UploadResult, error) {
	log := logger.Log(ctx).With(
		zap.String("method", "AttachmentUseCase.Upload"),
		zap.String("noteID", noteID))
	log.Debug(ctx, msgUploadingBatch, zap.Int("files", len(files)))

	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	owned, err := uc.noteGuard.NoteExists(ctx, noteID, userID)
	if err != nil {
		log.Error(ctx, msgErrCheckingNote, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", msgErrCheckingNote, err)
	}
	if !owned {
		return nil, ErrNoteNotFound
	}

	results := make([]UploadResult, 0, len(files))
	for _, file := range files {
		result, err := uc.uploadOne(ctx, noteID, file)
		if err != nil {
			return nil, err
		}
		results = append(results, *result)
	}

	return results, nil
}

// uploadOne валидирует и сохраняет один файл.
func (uc *AttachmentUseCase) uploadOne(ctx context.Context, noteID string, file UploadFile) (*UploadResult, error) {
	log := logger.Log(ctx).With(
		zap.String("method", "AttachmentUseCase.uploadOne"),
		zap.String("filename", file.Filename))

	validated, vErr := uc.validator.Validate(file.Data, file.Filename, file.ContentType)
	if vErr != nil {
		log.Debug(ctx, msgFileRejected, zap.String("reason", string(vErr.Reason)))
		return &UploadResult{Rejection: vErr}, nil
	}

	data := file.Data
	if validated.Kind == entities.KindImagen {
		compressed, err := uc.compressor.Compress(ctx, data, validated.Mime)
		if err != nil {
			log.Error(ctx, msgErrCompressingImage, zap.Error(err))
			return nil, fmt.Errorf("%s: %w", msgErrCompressingImage, err)
		}
		data = compressed
	}

	attachment := entities.NewAttachment(noteID, data, file.Filename, validated.Kind, validated.Mime)

	attachmentID, err := uc.attachmentRepo.Create(ctx, attachment)
	if err != nil {
		log.Error(ctx, msgErrPersistingFile, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", msgErrPersistingFile, err)
	}

	log.Debug(ctx, msgFilePersisted, zap.String("attachmentID", attachmentID))
	return &UploadResult{Summary: &AttachmentSummary{
		ID:               attachmentID,
		OriginalFilename: attachment.OriginalFilename,
		SizeBytes:        attachment.SizeBytes,
		MimeType:         attachment.MimeType,
	}}, nil
}

// GetMetadata возвращает метаданные вложения без полезной нагрузки.
func (uc *AttachmentUseCase) GetMetadata(ctx context.Context, attachmentID, userID string) (*entities.Attachment, error) {
	attachment, err := uc.attachmentRepo.FindByID(ctx, attachmentID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get attachment metadata: %w", err)
	}
	if attachment == nil {
		return nil, ErrAttachmentNotFound
	}
	return attachment, nil
}

// Download возвращает содержимое вложения для отдачи клиенту.
func (uc *AttachmentUseCase) Download(ctx context.Context, attachmentID, userID string) (*entities.AttachmentData, error) {
	data, err := uc.attachmentRepo.FindDataByID(ctx, attachmentID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to download attachment: %w", err)
	}
	if data == nil {
		return nil, ErrAttachmentNotFound
	}
	return data, nil
}

// ListForNote возвращает метаданные вложений заметки пользователя.
func (uc *AttachmentUseCase) ListForNote(ctx context.Context, noteID, userID string) ([]*entities.Attachment, error) {
	owned, err := uc.noteGuard.NoteExists(ctx, noteID, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", msgErrCheckingNote, err)
	}
	if !owned {
		return nil, ErrNoteNotFound
	}

	attachments, err := uc.attachmentRepo.ListByNoteID(ctx, noteID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	return attachments, nil
}

// Delete удаляет вложение. Отсутствующее и чужое вложение неразличимы.
func (uc *AttachmentUseCase) Delete(ctx context.Context, attachmentID, userID string) error {
	deleted, err := uc.attachmentRepo.Delete(ctx, attachmentID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete attachment: %w", err)
	}
	if !deleted {
		return ErrAttachmentNotFound
	}
	return nil
}
