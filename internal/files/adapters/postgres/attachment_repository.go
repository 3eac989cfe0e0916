// Package postgres provides PostgreSQL implementations of the files repositories.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"memora/internal/files/domain/entities"
	"memora/internal/files/ports/repositories"
	"memora/pkg/logger"
)

// PgxPoolInterface - подмножество pgxpool.Pool, используемое репозиторием.
// Выделено в интерфейс, чтобы в тестах пул подменялся pgxmock.
type PgxPoolInterface interface {
	QueryRow(ctx context.Context, query string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, query string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, query string, args ...interface{}) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// AttachmentRepository реализует интерфейс repositories.AttachmentRepository.
type AttachmentRepository struct {
	pool PgxPoolInterface
}

// NewAttachmentRepository создает новый репозиторий вложений.
func NewAttachmentRepository(pool PgxPoolInterface) repositories.AttachmentRepository {
	return &AttachmentRepository{pool: pool}
}

// Create сохраняет вложение в БД и возвращает сгенерированный идентификатор.
func (r *AttachmentRepository) Create(ctx context.Context, attachment *entities.Attachment) (string, error) {
	log := logger.Log(ctx).With(zap.String("method", "AttachmentRepository.Create"))
	log.Debug(ctx, "creating attachment",
		zap.String("noteID", attachment.NoteID),
		zap.Int64("sizeBytes", attachment.SizeBytes))

	var attachmentID string
	err := r.pool.QueryRow(ctx,
		`INSERT INTO attachments (note_id, data, original_filename, file_kind, mime_type, size_bytes, uploaded_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7)
         RETURNING id`,
		attachment.NoteID,
		attachment.Data,
		attachment.OriginalFilename,
		string(attachment.Kind),
		attachment.MimeType,
		attachment.SizeBytes,
		attachment.UploadedAt,
	).Scan(&attachmentID)

	if err != nil {
		log.Error(ctx, "failed to create attachment", zap.Error(err))
		return "", fmt.Errorf("failed to create attachment: %w", err)
	}

	log.Debug(ctx, "attachment created", zap.String("attachmentID", attachmentID))
	return attachmentID, nil
}

// FindByID получает метаданные вложения, если его заметка принадлежит
// пользователю. Несуществующее и чужое вложение неразличимы: оба дают nil.
func (r *AttachmentRepository) FindByID(ctx context.Context, attachmentID, userID string) (*entities.Attachment, error) {
	log := logger.Log(ctx).With(zap.String("method", "AttachmentRepository.FindByID"))
	log.Debug(ctx, "getting attachment metadata", zap.String("attachmentID", attachmentID))

	var attachment entities.Attachment
	err := r.pool.QueryRow(ctx,
		`SELECT a.id, a.note_id, a.original_filename, a.file_kind, a.mime_type, a.size_bytes, a.uploaded_at
         FROM attachments a
         JOIN notes n ON n.id = a.note_id
         WHERE a.id = $1 AND n.user_id = $2`,
		attachmentID, userID,
	).Scan(
		&attachment.ID,
		&attachment.NoteID,
		&attachment.OriginalFilename,
		&attachment.Kind,
		&attachment.MimeType,
		&attachment.SizeBytes,
		&attachment.UploadedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "attachment not found", zap.String("attachmentID", attachmentID))
			return nil, nil
		}
		log.Error(ctx, "failed to get attachment metadata", zap.Error(err))
		return nil, fmt.Errorf("failed to get attachment metadata: %w", err)
	}

	return &attachment, nil
}

// FindDataByID получает содержимое вложения с тем же правилом владения.
func (r *AttachmentRepository) FindDataByID(ctx context.Context, attachmentID, userID string) (*entities.AttachmentData, error) {
	log := logger.Log(ctx).With(zap.String("method", "AttachmentRepository.FindDataByID"))
	log.Debug(ctx, "getting attachment data", zap.String("attachmentID", attachmentID))

	var data entities.AttachmentData
	err := r.pool.QueryRow(ctx,
		`SELECT a.data, a.mime_type, a.original_filename
         FROM attachments a
         JOIN notes n ON n.id = a.note_id
         WHERE a.id = $1 AND n.user_id = $2`,
		attachmentID, userID,
	).Scan(&data.Data, &data.MimeType, &data.Filename)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "attachment not found", zap.String("attachmentID", attachmentID))
			return nil, nil
		}
		log.Error(ctx, "failed to get attachment data", zap.Error(err))
		return nil, fmt.Errorf("failed to get attachment data: %w", err)
	}

	return &data, nil
}

// ListByNoteID получает метаданные всех вложений заметки пользователя.
func (r *AttachmentRepository) ListByNoteID(ctx context.Context, noteID, userID string) ([]*entities.Attachment, error) {
	log := logger.Log(ctx).With(zap.String("method", "AttachmentRepository.ListByNoteID"))
	log.Debug(ctx, "listing attachments", zap.String("noteID", noteID))

	rows, err := r.pool.Query(ctx,
		`SELECT a.id, a.note_id, a.original_filename, a.file_kind, a.mime_type, a.size_bytes, a.uploaded_at
         FROM attachments a
         JOIN notes n ON n.id = a.note_id
         WHERE a.note_id = $1 AND n.user_id = $2
         ORDER BY a.uploaded_at`,
		noteID, userID,
	)
	if err != nil {
		log.Error(ctx, "failed to list attachments", zap.Error(err))
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	defer rows.Close()

	attachments := make([]*entities.Attachment, 0)
	for rows.Next() {
		var attachment entities.Attachment
		err := rows.Scan(
			&attachment.ID,
			&attachment.NoteID,
			&attachment.OriginalFilename,
			&attachment.Kind,
			&attachment.MimeType,
			&attachment.SizeBytes,
			&attachment.UploadedAt,
		)
		if err != nil {
			log.Error(ctx, "failed to scan attachment", zap.Error(err))
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		attachments = append(attachments, &attachment)
	}

	if err := rows.Err(); err != nil {
		log.Error(ctx, "error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return attachments, nil
}

// Delete удаляет вложение, если его заметка принадлежит пользователю.
// Возвращает true, если строка была удалена.
func (r *AttachmentRepository) Delete(ctx context.Context, attachmentID, userID string) (bool, error) {
	log := logger.Log(ctx).With(zap.String("method", "AttachmentRepository.Delete"))
	log.Debug(ctx, "deleting attachment", zap.String("attachmentID", attachmentID))

	result, err := r.pool.Exec(ctx,
		`DELETE FROM attachments a
         USING notes n
         WHERE a.id = $1 AND a.note_id = n.id AND n.user_id = $2`,
		attachmentID, userID,
	)
	if err != nil {
		log.Error(ctx, "failed to delete attachment", zap.Error(err))
		return false, fmt.Errorf("failed to delete attachment: %w", err)
	}

	if result.RowsAffected() == 0 {
		log.Debug(ctx, "attachment not found or not owned by user")
		return false, nil
	}

	return true, nil
}
