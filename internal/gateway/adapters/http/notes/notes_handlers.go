// Package notes содержит HTTP-обработчики заметок.
package notes

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"memora/internal/gateway/adapters/http/middleware"
	"memora/internal/gateway/app/dto"
	notesapp "memora/internal/notes/app"
	"memora/internal/notes/domain/entities"
	"memora/pkg/logger"
)

// Константы сообщений для логирования.
const (
	LogHandlerCreateNote = "handling create note request"
	LogHandlerGetNote    = "handling get note request"
	LogHandlerListNotes  = "handling list notes request"
	LogHandlerUpdateNote = "handling update note request"
	LogHandlerDeleteNote = "handling delete note request"

	ErrMsgInvalidRequestBody = "invalid request body"
	ErrMsgMissingNoteID      = "note id is required"
)

// Handler обработчик HTTP-запросов заметок.
type Handler struct {
	noteUseCase *notesapp.NoteUseCase
	validate    *validator.Validate
}

// NewHandler создает новый экземпляр обработчика заметок.
func NewHandler(noteUseCase *notesapp.NoteUseCase) *Handler {
	return &Handler{
		noteUseCase: noteUseCase,
		validate:    validator.New(),
	}
}

// CreateNote обрабатывает запрос на создание заметки.
func (h *Handler) CreateNote(ctx fiber.Ctx) error {
	userCtx := middleware.RequestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.CreateNote"))
	log.Debug(userCtx, LogHandlerCreateNote)

	userID, ok := middleware.UserIDFromContext(userCtx)
	if !ok {
		return unauthorized(ctx)
	}

	var req dto.CreateNoteRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(userCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return badRequest(ctx, ErrMsgInvalidRequestBody)
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(ctx, err.Error())
	}

	note, err := h.noteUseCase.CreateNote(userCtx, userID, req.Title, req.Content)
	if err != nil {
		log.Debug(userCtx, "note creation failed", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.Status(fiber.StatusCreated).JSON(noteResponse(note)); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// GetNote обрабатывает запрос одной заметки.
func (h *Handler) GetNote(ctx fiber.Ctx) error {
	userCtx := middleware.RequestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.GetNote"))
	log.Debug(userCtx, LogHandlerGetNote)

	userID, ok := middleware.UserIDFromContext(userCtx)
	if !ok {
		return unauthorized(ctx)
	}

	noteID := ctx.Params("note_id")
	if noteID == "" {
		return badRequest(ctx, ErrMsgMissingNoteID)
	}

	note, err := h.noteUseCase.GetNote(userCtx, noteID, userID)
	if err != nil {
		log.Debug(userCtx, "failed to get note", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(noteResponse(note)); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// ListNotes обрабатывает запрос списка заметок с пагинацией.
func (h *Handler) ListNotes(ctx fiber.Ctx) error {
	userCtx := middleware.RequestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.ListNotes"))
	log.Debug(userCtx, LogHandlerListNotes)

	userID, ok := middleware.UserIDFromContext(userCtx)
	if !ok {
		return unauthorized(ctx)
	}

	limit := queryInt(ctx, "limit", 0)
	offset := queryInt(ctx, "offset", 0)

	notes, total, err := h.noteUseCase.ListNotes(userCtx, userID, limit, offset)
	if err != nil {
		log.Error(userCtx, "failed to list notes", zap.Error(err))
		return handleError(ctx, err)
	}

	resp := dto.ListNotesResponse{
		Notes:  make([]dto.NoteResponse, 0, len(notes)),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
	for _, note := range notes {
		resp.Notes = append(resp.Notes, noteResponse(note))
	}

	if err := ctx.JSON(resp); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// UpdateNote обрабатывает запрос на изменение заметки.
func (h *Handler) UpdateNote(ctx fiber.Ctx) error {
	userCtx := middleware.RequestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.UpdateNote"))
	log.Debug(userCtx, LogHandlerUpdateNote)

	userID, ok := middleware.UserIDFromContext(userCtx)
	if !ok {
		return unauthorized(ctx)
	}

	noteID := ctx.Params("note_id")
	if noteID == "" {
		return badRequest(ctx, ErrMsgMissingNoteID)
	}

	var req dto.UpdateNoteRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Debug(userCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return badRequest(ctx, ErrMsgInvalidRequestBody)
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(ctx, err.Error())
	}

	note, err := h.noteUseCase.UpdateNote(userCtx, noteID, userID, req.Title, req.Content)
	if err != nil {
		log.Debug(userCtx, "note update failed", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.JSON(noteResponse(note)); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// DeleteNote обрабатывает запрос на удаление заметки.
func (h *Handler) DeleteNote(ctx fiber.Ctx) error {
	userCtx := middleware.RequestContext(ctx)
	log := logger.Log(userCtx).With(zap.String("handler", "Handler.DeleteNote"))
	log.Debug(userCtx, LogHandlerDeleteNote)

	userID, ok := middleware.UserIDFromContext(userCtx)
	if !ok {
		return unauthorized(ctx)
	}

	noteID := ctx.Params("note_id")
	if noteID == "" {
		return badRequest(ctx, ErrMsgMissingNoteID)
	}

	if err := h.noteUseCase.DeleteNote(userCtx, noteID, userID); err != nil {
		log.Debug(userCtx, "note deletion failed", zap.Error(err))
		return handleError(ctx, err)
	}

	if err := ctx.SendStatus(fiber.StatusNoContent); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// noteResponse преобразует доменную заметку в DTO.
func noteResponse(note *entities.Note) dto.NoteResponse {
	return dto.NoteResponse{
		ID:        note.ID,
		Title:     note.Title,
		Content:   note.Content,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}

// queryInt читает целочисленный query-параметр с значением по умолчанию.
func queryInt(ctx fiber.Ctx, name string, def int) int {
	raw := ctx.Query(name)
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return value
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

// handleError переводит доменные ошибки заметок в HTTP статусы.
func handleError(ctx fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	msg := "Internal server error"

	switch {
	case errors.Is(err, notesapp.ErrNotFound):
		status = fiber.StatusNotFound
		msg = err.Error()
	case errors.Is(err, notesapp.ErrInvalidParams),
		errors.Is(err, entities.ErrEmptyContent),
		errors.Is(err, entities.ErrTitleTooLong):
		status = fiber.StatusBadRequest
		msg = err.Error()
	}

	if err := ctx.Status(status).JSON(fiber.Map{"error": msg}); err != nil {
		return fmt.Errorf("error sending error response: %w", err)
	}
	return nil
}
