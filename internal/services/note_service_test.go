package services

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelinsk/daydo/internal/models"
)

func newNoteServiceWithMock(t *testing.T) (NoteService, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err, "failed to create mock pool")
	t.Cleanup(mock.Close)
	return NewNoteService(zerolog.Nop(), mock), mock
}

var (
	selectNotesRe = regexp.QuoteMeta(`FROM notes`)
	insertNoteRe  = regexp.QuoteMeta(`INSERT INTO notes`)
	updateNoteRe  = regexp.QuoteMeta(`UPDATE notes`)
	deleteNoteRe  = regexp.QuoteMeta(`DELETE FROM notes`)
)

func TestNoteService_ListNotes(t *testing.T) {
	notes, mock := newNoteServiceWithMock(t)

	now := time.Now()
	mock.ExpectQuery(selectNotesRe).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "title", "content", "category", "color", "created_at", "updated_at"}).
			AddRow(int64(20), "groceries", nil, nil, "yellow", now.Add(-time.Hour), now).
			AddRow(int64(21), "ideas", nil, nil, "blue", now.Add(-2*time.Hour), now.Add(-time.Hour)))

	got, err := notes.ListNotes(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "groceries", got[0].Title)
	assert.Equal(t, int64(1), got[0].UserID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoteService_GetNoteScopedToOwner(t *testing.T) {
	notes, mock := newNoteServiceWithMock(t)

	mock.ExpectQuery(selectNotesRe).
		WithArgs(int64(20), int64(2)).
		WillReturnError(pgx.ErrNoRows)

	_, err := notes.GetNote(context.Background(), 2, 20)
	assert.ErrorIs(t, err, ErrNoteNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoteService_CreateNoteDefaultColor(t *testing.T) {
	notes, mock := newNoteServiceWithMock(t)

	mock.ExpectQuery(insertNoteRe).
		WithArgs(int64(1), "groceries", (*string)(nil), (*string)(nil), "yellow", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(20)))

	note, err := notes.CreateNote(context.Background(), 1, CreateNoteParams{Title: "groceries"})
	require.NoError(t, err)
	assert.Equal(t, int64(20), note.ID)
	assert.Equal(t, models.DefaultNoteColor, note.Color)
	assert.Equal(t, note.CreatedAt, note.UpdatedAt)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoteService_UpdateNoteRefreshesUpdatedAt(t *testing.T) {
	notes, mock := newNoteServiceWithMock(t)

	color := "green"
	created := time.Now().Add(-time.Hour)
	mock.ExpectQuery(updateNoteRe).
		WithArgs((*string)(nil), (*string)(nil), (*string)(nil), &color, pgxmock.AnyArg(), int64(20), int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"title", "content", "category", "color", "created_at"}).
			AddRow("groceries", nil, nil, "green", created))

	before := time.Now()
	note, err := notes.UpdateNote(context.Background(), 1, 20, UpdateNoteParams{Color: &color})
	require.NoError(t, err)
	assert.Equal(t, "green", note.Color)
	assert.Equal(t, "groceries", note.Title)
	assert.False(t, note.UpdatedAt.Before(before))
	assert.True(t, note.UpdatedAt.After(note.CreatedAt))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoteService_UpdateNoteForeignOwner(t *testing.T) {
	notes, mock := newNoteServiceWithMock(t)

	title := "stolen"
	mock.ExpectQuery(updateNoteRe).
		WithArgs(&title, (*string)(nil), (*string)(nil), (*string)(nil), pgxmock.AnyArg(), int64(20), int64(2)).
		WillReturnError(pgx.ErrNoRows)

	_, err := notes.UpdateNote(context.Background(), 2, 20, UpdateNoteParams{Title: &title})
	assert.ErrorIs(t, err, ErrNoteNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoteService_DeleteNote(t *testing.T) {
	notes, mock := newNoteServiceWithMock(t)

	mock.ExpectExec(deleteNoteRe).
		WithArgs(int64(20), int64(1)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := notes.DeleteNote(context.Background(), 1, 20)
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNoteService_DeleteNoteForeignOwner(t *testing.T) {
	notes, mock := newNoteServiceWithMock(t)

	mock.ExpectExec(deleteNoteRe).
		WithArgs(int64(20), int64(2)).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := notes.DeleteNote(context.Background(), 2, 20)
	assert.ErrorIs(t, err, ErrNoteNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}
