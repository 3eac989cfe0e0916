package app_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"memora/internal/files/app"
	"memora/internal/files/domain/entities"
	"memora/internal/files/domain/services"
	"memora/pkg/logger"
)

var errDatabase = errors.New("database connection error")

type mockAttachmentRepository struct {
	mock.Mock
}

func (m *mockAttachmentRepository) Create(ctx context.Context, attachment *entities.Attachment) (string, error) {
	args := m.Called(ctx, attachment)
	return args.String(0), args.Error(1)
}

func (m *mockAttachmentRepository) FindByID(ctx context.Context, attachmentID, userID string) (*entities.Attachment, error) {
	args := m.Called(ctx, attachmentID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Attachment), args.Error(1)
}

func (m *mockAttachmentRepository) FindDataByID(ctx context.Context, attachmentID, userID string) (*entities.AttachmentData, error) {
	args := m.Called(ctx, attachmentID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.AttachmentData), args.Error(1)
}

func (m *mockAttachmentRepository) ListByNoteID(ctx context.Context, noteID, userID string) ([]*entities.Attachment, error) {
	args := m.Called(ctx, noteID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Attachment), args.Error(1)
}

func (m *mockAttachmentRepository) Delete(ctx context.Context, attachmentID, userID string) (bool, error) {
	args := m.Called(ctx, attachmentID, userID)
	return args.Bool(0), args.Error(1)
}

type mockNoteGuard struct {
	mock.Mock
}

func (m *mockNoteGuard) NoteExists(ctx context.Context, noteID, userID string) (bool, error) {
	args := m.Called(ctx, noteID, userID)
	return args.Bool(0), args.Error(1)
}

type mockCompressor struct {
	mock.Mock
}

func (m *mockCompressor) Compress(ctx context.Context, data []byte, mime string) ([]byte, error) {
	args := m.Called(ctx, data, mime)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	testLogger, err := logger.NewLogger(logger.Development, "debug")
	require.NoError(t, err)
	return logger.NewContext(context.Background(), testLogger)
}

// jpegUpload строит валидный JPEG файл для загрузки.
func jpegUpload(filename string, size int) app.UploadFile {
	data := make([]byte, size)
	copy(data, []byte{0xFF, 0xD8, 0xFF})
	for i := 3; i < size; i++ {
		data[i] = byte(i % 251)
	}
	return app.UploadFile{Filename: filename, ContentType: "image/jpeg", Data: data}
}

func newUseCase(repo *mockAttachmentRepository, guard *mockNoteGuard) *app.AttachmentUseCase {
	validator := services.NewFileValidator(services.NewSignatureDetector(), 0, 0)
	return app.NewAttachmentUseCase(repo, guard, validator, services.NewNopCompressor())
}

func TestUpload(t *testing.T) {
	ctx := testContext(t)
	noteID := "note-123"
	userID := "user-456"

	t.Run("Успешная загрузка одного файла", func(t *testing.T) {
		repo := new(mockAttachmentRepository)
		guard := new(mockNoteGuard)
		uc := newUseCase(repo, guard)

		guard.On("NoteExists", mock.Anything, noteID, userID).Return(true, nil)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(a *entities.Attachment) bool {
			return a.NoteID == noteID &&
				a.OriginalFilename == "photo.jpg" &&
				a.Kind == entities.KindImagen &&
				a.MimeType == "image/jpeg"
		})).Return("attachment-1", nil)

		results, err := uc.Upload(ctx, noteID, userID, []app.UploadFile{jpegUpload("photo.jpg", 200)})

		require.NoError(t, err)
		require.Len(t, results, 1)
		require.NotNil(t, results[0].Summary)
		assert.Nil(t, results[0].Rejection)
		assert.Equal(t, "attachment-1", results[0].Summary.ID)
		assert.Equal(t, int64(200), results[0].Summary.SizeBytes)
		assert.Equal(t, "image/jpeg", results[0].Summary.MimeType)

		repo.AssertExpectations(t)
		guard.AssertExpectations(t)
	})

	t.Run("Пакет обрабатывается поэлементно: отказ не мешает соседям", func(t *testing.T) {
		repo := new(mockAttachmentRepository)
		guard := new(mockNoteGuard)
		uc := newUseCase(repo, guard)

		guard.On("NoteExists", mock.Anything, noteID, userID).Return(true, nil)
		repo.On("Create", mock.Anything, mock.Anything).Return("attachment-1", nil).Once()
		repo.On("Create", mock.Anything, mock.Anything).Return("attachment-2", nil).Once()

		files := []app.UploadFile{
			jpegUpload("first.jpg", 200),
			{Filename: "app.exe", ContentType: "application/octet-stream", Data: []byte("MZ")},
			jpegUpload("second.jpg", 300),
		}

		results, err := uc.Upload(ctx, noteID, userID, files)

		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.NotNil(t, results[0].Summary)
		require.NotNil(t, results[1].Rejection)
		assert.Equal(t, services.ReasonBadExtension, results[1].Rejection.Reason)
		assert.NotNil(t, results[2].Summary)

		repo.AssertExpectations(t)
	})

	t.Run("Пустой пакет отклоняется целиком", func(t *testing.T) {
		repo := new(mockAttachmentRepository)
		guard := new(mockNoteGuard)
		uc := newUseCase(repo, guard)

		results, err := uc.Upload(ctx, noteID, userID, nil)

		require.ErrorIs(t, err, app.ErrNoFiles)
		assert.Nil(t, results)
		guard.AssertNotCalled(t, "NoteExists")
	})

	t.Run("Чужая заметка неотличима от несуществующей", func(t *testing.T) {
		repo := new(mockAttachmentRepository)
		guard := new(mockNoteGuard)
		uc := newUseCase(repo, guard)

		guard.On("NoteExists", mock.Anything, noteID, userID).Return(false, nil)

		results, err := uc.Upload(ctx, noteID, userID, []app.UploadFile{jpegUpload("photo.jpg", 200)})

		require.ErrorIs(t, err, app.ErrNoteNotFound)
		assert.Nil(t, results)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("Ошибка проверки владения прерывает загрузку", func(t *testing.T) {
		repo := new(mockAttachmentRepository)
		guard := new(mockNoteGuard)
		uc := newUseCase(repo, guard)

		guard.On("NoteExists", mock.Anything, noteID, userID).Return(false, errDatabase)

		_, err := uc.Upload(ctx, noteID, userID, []app.UploadFile{jpegUpload("photo.jpg", 200)})

		require.Error(t, err)
		assert.ErrorIs(t, err, errDatabase)
	})

	t.Run("Ошибка хранилища прерывает пакет", func(t *testing.T) {
		repo := new(mockAttachmentRepository)
		guard := new(mockNoteGuard)
		uc := newUseCase(repo, guard)

		guard.On("NoteExists", mock.Anything, noteID, userID).Return(true, nil)
		repo.On("Create", mock.Anything, mock.Anything).Return("", errDatabase)

		results, err := uc.Upload(ctx, noteID, userID, []app.UploadFile{jpegUpload("photo.jpg", 200)})

		require.Error(t, err)
		assert.ErrorIs(t, err, errDatabase)
		assert.Nil(t, results)
	})

	t.Run("Изображение проходит через компрессор", func(t *testing.T) {
		repo := new(mockAttachmentRepository)
		guard := new(mockNoteGuard)
		compressor := new(mockCompressor)
		validator := services.NewFileValidator(services.NewSignatureDetector(), 0, 0)
		uc := app.NewAttachmentUseCase(repo, guard, validator, compressor)

		original := jpegUpload("photo.jpg", 200)
		compressed := original.Data[:150]

		guard.On("NoteExists", mock.Anything, noteID, userID).Return(true, nil)
		compressor.On("Compress", mock.Anything, original.Data, "image/jpeg").Return(compressed, nil)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(a *entities.Attachment) bool {
			return a.SizeBytes == int64(len(compressed))
		})).Return("attachment-1", nil)

		results, err := uc.Upload(ctx, noteID, userID, []app.UploadFile{original})

		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, int64(len(compressed)), results[0].Summary.SizeBytes)
		compressor.AssertExpectations(t)
	})
}

func TestGetMetadata(t *testing.T) {
	ctx := testContext(t)
	userID := "user-456"

	t.Run("Успешное получение метаданных", func(t *testing.T) {
		repo := new(mockAttachmentRepository)
		uc := newUseCase(repo, new(mockNoteGuard))

		expected := &entities.Attachment{
			ID:               "attachment-1",
			NoteID:           "note-123",
			OriginalFilename: "photo.jpg",
			Kind:             entities.KindImagen,
			MimeType:         "image/jpeg",
			SizeBytes:        200,
		}
		repo.On("FindByID", mock.Anything, "attachment-1", userID).Return(expected, nil)

		attachment, err := uc.GetMetadata(ctx, "attachment-1", userID)

		require.NoError(t, err)
		assert.Equal(t, expected, attachment)
	})

	t.Run("Отсутствующее вложение", func(t *testing.T) {
		repo := new(mockAttachmentRepository)
		uc := newUseCase(repo, new(mockNoteGuard))

		repo.On("FindByID", mock.Anything, "missing", userID).Return(nil, nil)

		attachment, err := uc.GetMetadata(ctx, "missing", userID)

		require.ErrorIs(t, err, app.ErrAttachmentNotFound)
		assert.Nil(t, attachment)
	})
}

func TestDownload(t *testing.T) {
	ctx := testContext(t)
	userID := "user-456"

	t.Run("Успешное скачивание", func(t *testing.T) {
		repo := new(mockAttachmentRepository)
		uc := newUseCase(repo, new(mockNoteGuard))

		expected := &entities.AttachmentData{
			Data:     []byte{0xFF, 0xD8, 0xFF, 0x01},
			MimeType: "image/jpeg",
			Filename: "photo.jpg",
		}
		repo.On("FindDataByID", mock.Anything, "attachment-1", userID).Return(expected, nil)

		data, err := uc.Download(ctx, "attachment-1", userID)

		require.NoError(t, err)
		assert.Equal(t, expected, data)
	})

	t.Run("Чужое вложение неотличимо от несуществующего", func(t *testing.T) {
		repo := new(mockAttachmentRepository)
		uc := newUseCase(repo, new(mockNoteGuard))

		repo.On("FindDataByID", mock.Anything, "attachment-1", "intruder").Return(nil, nil)

		data, err := uc.Download(ctx, "attachment-1", "intruder")

		require.ErrorIs(t, err, app.ErrAttachmentNotFound)
		assert.Nil(t, data)
	})
}

func TestListForNote(t *testing.T) {
	ctx := testContext(t)
	noteID := "note-123"
	userID := "user-456"

	t.Run("Успешный список вложений", func(t *testing.T) {
		repo := new(mockAttachmentRepository)
		guard := new(mockNoteGuard)
		uc := newUseCase(repo, guard)

		expected := []*entities.Attachment{
			{ID: "attachment-1", NoteID: noteID},
			{ID: "attachment-2", NoteID: noteID},
		}
		guard.On("NoteExists", mock.Anything, noteID, userID).Return(true, nil)
		repo.On("ListByNoteID", mock.Anything, noteID, userID).Return(expected, nil)

		attachments, err := uc.ListForNote(ctx, noteID, userID)

		require.NoError(t, err)
		assert.Equal(t, expected, attachments)
	})

	t.Run("Чужая заметка", func(t *testing.T) {
		repo := new(mockAttachmentRepository)
		guard := new(mockNoteGuard)
		uc := newUseCase(repo, guard)

		guard.On("NoteExists", mock.Anything, noteID, "intruder").Return(false, nil)

		attachments, err := uc.ListForNote(ctx, noteID, "intruder")

		require.ErrorIs(t, err, app.ErrNoteNotFound)
		assert.Nil(t, attachments)
		repo.AssertNotCalled(t, "ListByNoteID")
	})
}

func TestDelete(t *testing.T) {
	ctx := testContext(t)
	userID := "user-456"

	t.Run("Успешное удаление", func(t *testing.T) {
		repo := new(mockAttachmentRepository)
		uc := newUseCase(repo, new(mockNoteGuard))

		repo.On("Delete", mock.Anything, "attachment-1", userID).Return(true, nil)

		err := uc.Delete(ctx, "attachment-1", userID)

		require.NoError(t, err)
	})

	t.Run("Отсутствующее вложение", func(t *testing.T) {
		repo := new(mockAttachmentRepository)
		uc := newUseCase(repo, new(mockNoteGuard))

		repo.On("Delete", mock.Anything, "missing", userID).Return(false, nil)

		err := uc.Delete(ctx, "missing", userID)

		require.ErrorIs(t, err, app.ErrAttachmentNotFound)
	})

	t.Run("Ошибка хранилища", func(t *testing.T) {
		repo := new(mockAttachmentRepository)
		uc := newUseCase(repo, new(mockNoteGuard))

		repo.On("Delete", mock.Anything, "attachment-1", userID).Return(false, errDatabase)

		err := uc.Delete(ctx, "attachment-1", userID)

		require.Error(t, err)
		assert.ErrorIs(t, err, errDatabase)
	})
}
