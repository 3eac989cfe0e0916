package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"memora/internal/notes/app"
	"memora/internal/notes/domain/entities"
)

var errDatabase = errors.New("database connection error")

type mockNoteRepository struct {
	mock.Mock
}

func (m *mockNoteRepository) Create(ctx context.Context, note *entities.Note) (string, error) {
	args := m.Called(ctx, note)
	return args.String(0), args.Error(1)
}

func (m *mockNoteRepository) GetByID(ctx context.Context, noteID, userID string) (*entities.Note, error) {
	args := m.Called(ctx, noteID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Note), args.Error(1)
}

func (m *mockNoteRepository) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entities.Note, int, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*entities.Note), args.Int(1), args.Error(2)
}

func (m *mockNoteRepository) Update(ctx context.Context, note *entities.Note) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *mockNoteRepository) Delete(ctx context.Context, noteID, userID string) error {
	args := m.Called(ctx, noteID, userID)
	return args.Error(0)
}

func TestCreateNote(t *testing.T) {
	ctx := context.Background()
	userID := "user-456"

	t.Run("Успешное создание заметки", func(t *testing.T) {
		repo := new(mockNoteRepository)
		uc := app.NewNoteUseCase(repo)

		repo.On("Create", mock.Anything, mock.MatchedBy(func(n *entities.Note) bool {
			return n.UserID == userID && n.Title == "Shopping list" && n.Content == "milk, bread"
		})).Return("note-123", nil)

		note, err := uc.CreateNote(ctx, userID, "Shopping list", "milk, bread")

		require.NoError(t, err)
		assert.Equal(t, "note-123", note.ID)
		assert.Equal(t, note.CreatedAt, note.UpdatedAt)
		repo.AssertExpectations(t)
	})

	t.Run("Заметка без заголовка допустима", func(t *testing.T) {
		repo := new(mockNoteRepository)
		uc := app.NewNoteUseCase(repo)

		repo.On("Create", mock.Anything, mock.Anything).Return("note-123", nil)

		note, err := uc.CreateNote(ctx, userID, "", "just content")

		require.NoError(t, err)
		assert.Empty(t, note.Title)
	})

	t.Run("Пустой текст отклоняется", func(t *testing.T) {
		repo := new(mockNoteRepository)
		uc := app.NewNoteUseCase(repo)

		note, err := uc.CreateNote(ctx, userID, "title", "")

		require.ErrorIs(t, err, app.ErrInvalidParams)
		assert.ErrorIs(t, err, entities.ErrEmptyContent)
		assert.Nil(t, note)
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("Слишком длинный заголовок отклоняется", func(t *testing.T) {
		repo := new(mockNoteRepository)
		uc := app.NewNoteUseCase(repo)

		longTitle := strings.Repeat("a", entities.MaxTitleLength+1)
		note, err := uc.CreateNote(ctx, userID, longTitle, "content")

		require.ErrorIs(t, err, app.ErrInvalidParams)
		assert.ErrorIs(t, err, entities.ErrTitleTooLong)
		assert.Nil(t, note)
	})
}

func TestGetNote(t *testing.T) {
	ctx := context.Background()

	t.Run("Успешное получение заметки", func(t *testing.T) {
		repo := new(mockNoteRepository)
		uc := app.NewNoteUseCase(repo)

		expected := &entities.Note{ID: "note-123", UserID: "user-456", Content: "content"}
		repo.On("GetByID", mock.Anything, "note-123", "user-456").Return(expected, nil)

		note, err := uc.GetNote(ctx, "note-123", "user-456")

		require.NoError(t, err)
		assert.Equal(t, expected, note)
	})

	t.Run("Чужая заметка неотличима от несуществующей", func(t *testing.T) {
		repo := new(mockNoteRepository)
		uc := app.NewNoteUseCase(repo)

		repo.On("GetByID", mock.Anything, "note-123", "intruder").Return(nil, nil)

		note, err := uc.GetNote(ctx, "note-123", "intruder")

		require.ErrorIs(t, err, app.ErrNotFound)
		assert.Nil(t, note)
	})
}

func TestListNotes(t *testing.T) {
	ctx := context.Background()
	userID := "user-456"

	t.Run("Параметры пагинации нормализуются", func(t *testing.T) {
		repo := new(mockNoteRepository)
		uc := app.NewNoteUseCase(repo)

		repo.On("ListByUserID", mock.Anything, userID, 10, 0).Return([]*entities.Note{}, 0, nil)

		_, _, err := uc.ListNotes(ctx, userID, -5, -3)

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("Лимит ограничивается сверху", func(t *testing.T) {
		repo := new(mockNoteRepository)
		uc := app.NewNoteUseCase(repo)

		repo.On("ListByUserID", mock.Anything, userID, 100, 0).Return([]*entities.Note{}, 0, nil)

		_, _, err := uc.ListNotes(ctx, userID, 500, 0)

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("Список с общим количеством", func(t *testing.T) {
		repo := new(mockNoteRepository)
		uc := app.NewNoteUseCase(repo)

		expected := []*entities.Note{{ID: "note-1"}, {ID: "note-2"}}
		repo.On("ListByUserID", mock.Anything, userID, 2, 4).Return(expected, 10, nil)

		notes, total, err := uc.ListNotes(ctx, userID, 2, 4)

		require.NoError(t, err)
		assert.Equal(t, expected, notes)
		assert.Equal(t, 10, total)
	})
}

func TestUpdateNote(t *testing.T) {
	ctx := context.Background()
	created := time.Now().UTC().Add(-time.Hour)

	existing := func() *entities.Note {
		return &entities.Note{
			ID:        "note-123",
			UserID:    "user-456",
			Title:     "Old title",
			Content:   "old content",
			CreatedAt: created,
			UpdatedAt: created,
		}
	}

	t.Run("Успешное обновление обоих полей", func(t *testing.T) {
		repo := new(mockNoteRepository)
		uc := app.NewNoteUseCase(repo)

		repo.On("GetByID", mock.Anything, "note-123", "user-456").Return(existing(), nil)
		repo.On("Update", mock.Anything, mock.MatchedBy(func(n *entities.Note) bool {
			return n.Title == "New title" && n.Content == "new content" && n.UpdatedAt.After(created)
		})).Return(nil)

		note, err := uc.UpdateNote(ctx, "note-123", "user-456", "New title", "new content")

		require.NoError(t, err)
		assert.Equal(t, "New title", note.Title)
		assert.Equal(t, "new content", note.Content)
		assert.True(t, note.UpdatedAt.After(note.CreatedAt))
		repo.AssertExpectations(t)
	})

	t.Run("Пустые поля запроса сохраняют текущие значения", func(t *testing.T) {
		repo := new(mockNoteRepository)
		uc := app.NewNoteUseCase(repo)

		repo.On("GetByID", mock.Anything, "note-123", "user-456").Return(existing(), nil)
		repo.On("Update", mock.Anything, mock.MatchedBy(func(n *entities.Note) bool {
			return n.Title == "Old title" && n.Content == "new content"
		})).Return(nil)

		note, err := uc.UpdateNote(ctx, "note-123", "user-456", "", "new content")

		require.NoError(t, err)
		assert.Equal(t, "Old title", note.Title)
		repo.AssertExpectations(t)
	})

	t.Run("Несуществующая заметка", func(t *testing.T) {
		repo := new(mockNoteRepository)
		uc := app.NewNoteUseCase(repo)

		repo.On("GetByID", mock.Anything, "missing", "user-456").Return(nil, nil)

		note, err := uc.UpdateNote(ctx, "missing", "user-456", "title", "content")

		require.ErrorIs(t, err, app.ErrNotFound)
		assert.Nil(t, note)
		repo.AssertNotCalled(t, "Update")
	})

	t.Run("Слишком длинный заголовок отклоняется до обращения к БД", func(t *testing.T) {
		repo := new(mockNoteRepository)
		uc := app.NewNoteUseCase(repo)

		longTitle := strings.Repeat("a", entities.MaxTitleLength+1)
		note, err := uc.UpdateNote(ctx, "note-123", "user-456", longTitle, "content")

		require.ErrorIs(t, err, app.ErrInvalidParams)
		assert.Nil(t, note)
		repo.AssertNotCalled(t, "GetByID")
	})
}

func TestDeleteNote(t *testing.T) {
	ctx := context.Background()

	t.Run("Успешное удаление", func(t *testing.T) {
		repo := new(mockNoteRepository)
		uc := app.NewNoteUseCase(repo)

		repo.On("GetByID", mock.Anything, "note-123", "user-456").
			Return(&entities.Note{ID: "note-123"}, nil)
		repo.On("Delete", mock.Anything, "note-123", "user-456").Return(nil)

		err := uc.DeleteNote(ctx, "note-123", "user-456")

		require.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("Несуществующая заметка", func(t *testing.T) {
		repo := new(mockNoteRepository)
		uc := app.NewNoteUseCase(repo)

		repo.On("GetByID", mock.Anything, "missing", "user-456").Return(nil, nil)

		err := uc.DeleteNote(ctx, "missing", "user-456")

		require.ErrorIs(t, err, app.ErrNotFound)
		repo.AssertNotCalled(t, "Delete")
	})

	t.Run("Ошибка БД", func(t *testing.T) {
		repo := new(mockNoteRepository)
		uc := app.NewNoteUseCase(repo)

		repo.On("GetByID", mock.Anything, "note-123", "user-456").Return(nil, errDatabase)

		err := uc.DeleteNote(ctx, "note-123", "user-456")

		require.Error(t, err)
		assert.ErrorIs(t, err, errDatabase)
	})
}
