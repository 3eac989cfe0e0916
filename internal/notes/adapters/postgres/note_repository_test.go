package postgres_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memora/internal/notes/adapters/postgres"
	"memora/internal/notes/domain/entities"
	"memora/pkg/logger"
)

var noteColumns = []string{"id", "user_id", "title", "content", "created_at", "updated_at"}

func testContext(t *testing.T) context.Context {
	t.Helper()
	testLogger, err := logger.NewLogger(logger.Development, "debug")
	require.NoError(t, err)
	return logger.NewContext(context.Background(), testLogger)
}

func TestNoteRepository_Create(t *testing.T) {
	ctx := testContext(t)

	note := &entities.Note{
		UserID:  "user-456",
		Title:   "Shopping list",
		Content: "milk, bread",
	}

	t.Run("Успешное создание заметки", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("INSERT INTO notes .+").
			WithArgs(note.UserID, note.Title, note.Content).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("note-123"))

		repo := postgres.NewNoteRepository(mock)
		noteID, err := repo.Create(ctx, note)

		require.NoError(t, err)
		assert.Equal(t, "note-123", noteID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Ошибка БД при создании", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("INSERT INTO notes .+").
			WithArgs(note.UserID, note.Title, note.Content).
			WillReturnError(errors.New("database connection error"))

		repo := postgres.NewNoteRepository(mock)
		noteID, err := repo.Create(ctx, note)

		require.Error(t, err)
		assert.Empty(t, noteID)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNoteRepository_GetByID(t *testing.T) {
	ctx := testContext(t)
	now := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("Успешное получение заметки", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT .+ FROM notes WHERE id = .+").
			WithArgs("note-123", "user-456").
			WillReturnRows(pgxmock.NewRows(noteColumns).
				AddRow("note-123", "user-456", "Shopping list", "milk, bread", now, now))

		repo := postgres.NewNoteRepository(mock)
		note, err := repo.GetByID(ctx, "note-123", "user-456")

		require.NoError(t, err)
		require.NotNil(t, note)
		assert.Equal(t, "note-123", note.ID)
		assert.Equal(t, "Shopping list", note.Title)
		assert.Equal(t, "milk, bread", note.Content)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Заметка не найдена или чужая", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery("SELECT .+ FROM notes WHERE id = .+").
			WithArgs("note-123", "intruder").
			WillReturnRows(pgxmock.NewRows(noteColumns))

		repo := postgres.NewNoteRepository(mock)
		note, err := repo.GetByID(ctx, "note-123", "intruder")

		require.NoError(t, err)
		assert.Nil(t, note)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNoteRepository_ListByUserID(t *testing.T) {
	ctx := testContext(t)
	now := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("Список заметок с пагинацией", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM notes .+`).
			WithArgs("user-456").
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(5))

		mock.ExpectQuery("SELECT .+ FROM notes WHERE user_id = .+ ORDER BY updated_at DESC .+").
			WithArgs("user-456", 2, 0).
			WillReturnRows(pgxmock.NewRows(noteColumns).
				AddRow("note-1", "user-456", "First", "content one", now, now).
				AddRow("note-2", "user-456", "Second", "content two", now, now))

		repo := postgres.NewNoteRepository(mock)
		notes, total, err := repo.ListByUserID(ctx, "user-456", 2, 0)

		require.NoError(t, err)
		assert.Equal(t, 5, total)
		require.Len(t, notes, 2)
		assert.Equal(t, "note-1", notes[0].ID)
		assert.Equal(t, "note-2", notes[1].ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Пользователь без заметок", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM notes .+`).
			WithArgs("user-456").
			WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(0))

		mock.ExpectQuery("SELECT .+ FROM notes WHERE user_id = .+").
			WithArgs("user-456", 10, 0).
			WillReturnRows(pgxmock.NewRows(noteColumns))

		repo := postgres.NewNoteRepository(mock)
		notes, total, err := repo.ListByUserID(ctx, "user-456", 10, 0)

		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, notes)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNoteRepository_Update(t *testing.T) {
	ctx := testContext(t)
	now := time.Now().UTC().Truncate(time.Microsecond)

	note := &entities.Note{
		ID:        "note-123",
		UserID:    "user-456",
		Title:     "Updated",
		Content:   "updated content",
		UpdatedAt: now,
	}

	t.Run("Успешное обновление", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec("UPDATE notes SET .+").
			WithArgs(note.Title, note.Content, note.UpdatedAt, note.ID, note.UserID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		repo := postgres.NewNoteRepository(mock)
		err = repo.Update(ctx, note)

		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Заметка не найдена или чужая", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec("UPDATE notes SET .+").
			WithArgs(note.Title, note.Content, note.UpdatedAt, note.ID, note.UserID).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		repo := postgres.NewNoteRepository(mock)
		err = repo.Update(ctx, note)

		require.ErrorIs(t, err, postgres.ErrNoteNotFoundOrNotOwned)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestNoteRepository_Delete(t *testing.T) {
	ctx := testContext(t)

	t.Run("Успешное удаление", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec("DELETE FROM notes WHERE id = .+").
			WithArgs("note-123", "user-456").
			WillReturnResult(pgxmock.NewResult("DELETE", 1))

		repo := postgres.NewNoteRepository(mock)
		err = repo.Delete(ctx, "note-123", "user-456")

		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Заметка не найдена или чужая", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectExec("DELETE FROM notes WHERE id = .+").
			WithArgs("note-123", "intruder").
			WillReturnResult(pgxmock.NewResult("DELETE", 0))

		repo := postgres.NewNoteRepository(mock)
		err = repo.Delete(ctx, "note-123", "intruder")

		require.ErrorIs(t, err, postgres.ErrNoteNotFoundOrNotOwned)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
