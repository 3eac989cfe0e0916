// Package files содержит HTTP-обработчики вложений.
package files

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	filesapp "memora/internal/files/app"
	"memora/internal/files/domain/entities"
	"memora/internal/files/domain/services"
	"memora/internal/gateway/adapters/http/middleware"
	"memora/internal/gateway/app/dto"
	"memora/pkg/logger"
)

// Константы сообщений для логирования.
const (
	LogHandlerUpload   = "handling upload files request"
	LogHandlerMetadata = "handling attachment metadata request"
	LogHandlerDownload = "handling attachment download request"
	LogHandlerDelete   = "handling attachment delete request"
	LogHandlerList     = "handling note attachments request"

	ErrMsgMissingNoteID = "note id is required"
	ErrMsgMissingFileID = "file id is required"
	ErrMsgBadMultipart  = "invalid multipart form"
	ErrMsgNoFiles       = "no files provided"
)

// multipartFieldName - имя поля формы с загружаемыми файлами.
const multipartFieldName = "files"

// Handler обработчик HTTP-запросов вложений.
type Handler struct {
	attachmentUseCase *filesapp.AttachmentUseCase
}

// NewHandler создает новый экземпляр обработчика вложений.
func NewHandler(attachmentUseCase *filesapp.AttachmentUseCase) *Handler {
	return &Handler{attachmentUseCase: attachmentUseCase}
}

// Upload обрабатывает multipart-загрузку одного или нескольких файлов
// к заметке. Каждый файл проверяется и сохраняется независимо.
func (h *Handler) Upload(ctx fiber.Ctx) error {
	userCtx := middleware.RequestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.Upload"))
	log.Debug(userCtx, LogHandlerUpload)

	userID, ok := middleware.UserIDFromContext(userCtx)
	if !ok {
		return unauthorized(ctx)
	}

	noteID := ctx.Params("note_id")
	if noteID == "" {
		return badRequest(ctx, ErrMsgMissingNoteID)
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		log.Debug(userCtx, ErrMsgBadMultipart, zap.Error(err))
		return badRequest(ctx, ErrMsgBadMultipart)
	}

	headers := form.File[multipartFieldName]
	if len(headers) == 0 {
		return badRequest(ctx, ErrMsgNoFiles)
	}

	uploads := make([]filesapp.UploadFile, 0, len(headers))
	for _, header := range headers {
		data, err := readMultipartFile(header)
		if err != nil {
			log.Error(userCtx, "failed to read multipart file",
				zap.String("filename", header.Filename), zap.Error(err))
			return badRequest(ctx, ErrMsgBadMultipart)
		}
		uploads = append(uploads, filesapp.UploadFile{
			Filename:    header.Filename,
			ContentType: header.Header.Get(fiber.HeaderContentType),
			Data:        data,
		})
	}

	results, err := h.attachmentUseCase.Upload(userCtx, noteID, userID, uploads)
	if err != nil {
		log.Debug(userCtx, "upload failed", zap.Error(err))
		return handleError(ctx, err)
	}

	responses := make([]dto.UploadFileResponse, 0, len(results))
	rejected := 0
	for i, result := range results {
		item := dto.UploadFileResponse{OriginalFilename: uploads[i].Filename}
		if result.Rejection != nil {
			rejected++
			item.Rejected = true
			item.Reason = string(result.Rejection.Reason)
			item.Message = result.Rejection.Message
		} else {
			item.AttachmentID = result.Summary.ID
			item.SizeBytes = result.Summary.SizeBytes
			item.MimeType = result.Summary.MimeType
		}
		responses = append(responses, item)
	}

	status := uploadStatus(results, rejected)
	if err := ctx.Status(status).JSON(responses); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// GetMetadata обрабатывает запрос метаданных вложения.
func (h *Handler) GetMetadata(ctx fiber.Ctx) error {
	userCtx := middleware.RequestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.GetMetadata"))
	log.Debug(userCtx, LogHandlerMetadata)

	userID, ok := middleware.UserIDFromContext(userCtx)
	if !ok {
		return unauthorized(ctx)
	}

	fileID := ctx.Params("file_id")
	if fileID == "" {
		return badRequest(ctx, ErrMsgMissingFileID)
	}

	attachment, err := h.attachmentUseCase.GetMetadata(userCtx, fileID, userID)
	if err != nil {
		log.Debug(userCtx, "failed to get attachment metadata", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(metadataResponse(attachment)); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// Download обрабатывает запрос содержимого вложения.
func (h *Handler) Download(ctx fiber.Ctx) error {
	userCtx := middleware.RequestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.Download"))
	log.Debug(userCtx, LogHandlerDownload)

	userID, ok := middleware.UserIDFromContext(userCtx)
	if !ok {
		return unauthorized(ctx)
	}

	fileID := ctx.Params("file_id")
	if fileID == "" {
		return badRequest(ctx, ErrMsgMissingFileID)
	}

	data, err := h.attachmentUseCase.Download(userCtx, fileID, userID)
	if err != nil {
		log.Debug(userCtx, "failed to download attachment", zap.Error(err))
		return handleError(ctx, err)
	}

	ctx.Set(fiber.HeaderContentType, data.MimeType)
	ctx.Set(fiber.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", data.Filename))
	if err := ctx.Send(data.Data); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// Delete обрабатывает запрос на удаление вложения.
func (h *Handler) Delete(ctx fiber.Ctx) error {
	userCtx := middleware.RequestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.Delete"))
	log.Debug(userCtx, LogHandlerDelete)

	userID, ok := middleware.UserIDFromContext(userCtx)
	if !ok {
		return unauthorized(ctx)
	}

	fileID := ctx.Params("file_id")
	if fileID == "" {
		return badRequest(ctx, ErrMsgMissingFileID)
	}

	if err := h.attachmentUseCase.Delete(userCtx, fileID, userID); err != nil {
		log.Debug(userCtx, "failed to delete attachment", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.SendStatus(fiber.StatusNoContent); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// ListForNote обрабатывает запрос списка вложений заметки.
func (h *Handler) ListForNote(ctx fiber.Ctx) error {
	userCtx := middleware.RequestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.ListForNote"))
	log.Debug(userCtx, LogHandlerList)

	userID, ok := middleware.UserIDFromContext(userCtx)
	if !ok {
		return unauthorized(ctx)
	}

	noteID := ctx.Params("note_id")
	if noteID == "" {
		return badRequest(ctx, ErrMsgMissingNoteID)
	}

	attachments, err := h.attachmentUseCase.ListForNote(userCtx, noteID, userID)
	if err != nil {
		log.Debug(userCtx, "failed to list attachments", zap.Error(err))
		return handleError(ctx, err)
	}

	responses := make([]dto.AttachmentMetadataResponse, 0, len(attachments))
	for _, attachment := range attachments {
		responses = append(responses, metadataResponse(attachment))
	}

	if err := ctx.JSON(responses); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// readMultipartFile читает содержимое одной части формы целиком.
func readMultipartFile(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open multipart file: %w", err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read multipart file: %w", err)
	}
	return data, nil
}

// uploadStatus выбирает HTTP статус по исходам пакета. Единственный
// отклоненный файл получает статус своей причины; в пакете из нескольких
// файлов любой отказ дает 400 с поэлементным отчетом.
func uploadStatus(results []filesapp.UploadResult, rejected int) int {
	if rejected == 0 {
		return fiber.StatusCreated
	}
	if len(results) == 1 {
		return rejectionStatus(results[0].Rejection.Reason)
	}
	return fiber.StatusBadRequest
}

// rejectionStatus сопоставляет причину отказа с HTTP статусом.
func rejectionStatus(reason services.RejectionReason) int {
	switch reason {
	case services.ReasonSizeOutOfRange:
		return fiber.StatusRequestEntityTooLarge
	case services.ReasonBadExtension,
		services.ReasonUnsupportedType,
		services.ReasonMimeMismatch,
		services.ReasonSignatureMismatch:
		return fiber.StatusUnsupportedMediaType
	default:
		return fiber.StatusBadRequest
	}
}

// metadataResponse преобразует доменное вложение в DTO метаданных.
func metadataResponse(attachment *entities.Attachment) dto.AttachmentMetadataResponse {
	return dto.AttachmentMetadataResponse{
		ID:               attachment.ID,
		OriginalFilename: attachment.OriginalFilename,
		FileKind:         string(attachment.Kind),
		MimeType:         attachment.MimeType,
		SizeBytes:        attachment.SizeBytes,
		UploadedAt:       attachment.UploadedAt,
		NoteID:           attachment.NoteID,
	}
}

// unauthorized отправляет ответ 401.
func unauthorized(ctx fiber.Ctx) error {
	if err := ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthenticated"}); err != nil {
		return fmt.Errorf("failed to send unauthorized response: %w", err)
	}
	return nil
}

// badRequest отправляет ответ 400 с сообщением об ошибке.
func badRequest(ctx fiber.Ctx, msg string) error {
	if err := ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg}); err != nil {
		return fmt.Errorf("failed to send bad request response: %w", err)
	}
	return nil
}

// handleError переводит доменные ошибки вложений в HTTP статусы.
func handleError(ctx fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	msg := "Internal server error"

	switch {
	case errors.Is(err, filesapp.ErrNoteNotFound),
		errors.Is(err, filesapp.ErrAttachmentNotFound):
		status = fiber.StatusNotFound
		msg = err.Error()
	case errors.Is(err, filesapp.ErrNoFiles):
		status = fiber.StatusBadRequest
		msg = err.Error()
	}

	if err := ctx.Status(status).JSON(fiber.Map{"error": msg}); err != nil {
		return fmt.Errorf("error sending error response: %w", err)
	}
	return nil
}
