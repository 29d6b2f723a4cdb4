package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/avelinsk/daydo/internal/models"
)

type noteServiceImpl struct {
	logger zerolog.Logger
	db     DB
}

func NewNoteService(logger zerolog.Logger, db DB) NoteService {
	return &noteServiceImpl{
		logger: logger,
		db:     db,
	}
}

func (s *noteServiceImpl) ListNotes(ctx context.Context, ownerID int64) ([]*models.Note, error) {
	const selectNotesByOwnerQuery = `
SELECT id,
       title,
       content,
       category,
       color,
       created_at,
       updated_at
FROM notes
WHERE user_id = $1
ORDER BY updated_at DESC
`
	rows, err := s.db.Query(ctx, selectNotesByOwnerQuery, ownerID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("user_id", ownerID).
			Msg("failed to select notes")
		return nil, err
	}
	defer rows.Close()

	notes := make([]*models.Note, 0)
	for rows.Next() {
		note := &models.Note{UserID: ownerID}
		err = rows.Scan(
			&note.ID,
			&note.Title,
			&note.Content,
			&note.Category,
			&note.Color,
			&note.CreatedAt,
			&note.UpdatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan note")
			return nil, err
		}
		notes = append(notes, note)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over notes")
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(notes)).
		Int64("user_id", ownerID).
		Msg("selected notes")
	return notes, nil
}

func (s *noteServiceImpl) GetNote(ctx context.Context, ownerID, noteID int64) (*models.Note, error) {
	const selectNoteQuery = `
SELECT title,
       content,
       category,
       color,
       created_at,
       updated_at
FROM notes
WHERE id = $1 AND user_id = $2
`
	note := models.Note{ID: noteID, UserID: ownerID}
	err := s.db.QueryRow(
		ctx,
		selectNoteQuery,
		noteID,
		ownerID,
	).Scan(
		&note.Title,
		&note.Content,
		&note.Category,
		&note.Color,
		&note.CreatedAt,
		&note.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoteNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("note_id", noteID).
			Msg("failed to select note")
		return nil, err
	}

	return &note, nil
}

func (s *noteServiceImpl) CreateNote(ctx context.Context, ownerID int64, params CreateNoteParams) (*models.Note, error) {
	color := params.Color
	if color == "" {
		color = models.DefaultNoteColor
	}

	now := time.Now()
	note := models.Note{
		UserID:    ownerID,
		Title:     params.Title,
		Content:   params.Content,
		Category:  params.Category,
		Color:     color,
		CreatedAt: now,
		UpdatedAt: now,
	}

	const insertNoteQuery = `
INSERT INTO notes (user_id,
                   title,
                   content,
                   category,
                   color,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id
`
	err := s.db.QueryRow(
		ctx,
		insertNoteQuery,
		note.UserID,
		note.Title,
		note.Content,
		note.Category,
		note.Color,
		note.CreatedAt,
		note.UpdatedAt,
	).Scan(&note.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("user_id", ownerID).
			Msg("failed to insert note")
		return nil, err
	}

	s.logger.Info().
		Int64("note_id", note.ID).
		Int64("user_id", ownerID).
		Msg("created note")
	return &note, nil
}

func (s *noteServiceImpl) UpdateNote(ctx context.Context, ownerID, noteID int64, params UpdateNoteParams) (*models.Note, error) {
	note := models.Note{
		ID:        noteID,
		UserID:    ownerID,
		UpdatedAt: time.Now(),
	}

	const updateNoteQuery = `
UPDATE notes
SET title = COALESCE($1, title),
    content = COALESCE($2, content),
    category = COALESCE($3, category),
    color = COALESCE($4, color),
    updated_at = $5
WHERE id = $6 AND user_id = $7
RETURNING title, content, category, color, created_at
`
	err := s.db.QueryRow(
		ctx,
		updateNoteQuery,
		params.Title,
		params.Content,
		params.Category,
		params.Color,
		note.UpdatedAt,
		note.ID,
		note.UserID,
	).Scan(
		&note.Title,
		&note.Content,
		&note.Category,
		&note.Color,
		&note.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoteNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("note_id", noteID).
			Msg("failed to update note")
		return nil, err
	}

	s.logger.Info().
		Int64("note_id", noteID).
		Int64("user_id", ownerID).
		Msg("updated note")
	return &note, nil
}

func (s *noteServiceImpl) DeleteNote(ctx context.Context, ownerID, noteID int64) error {
	const deleteNoteQuery = `
DELETE FROM notes
WHERE id = $1 AND user_id = $2
`
	tag, err := s.db.Exec(ctx, deleteNoteQuery, noteID, ownerID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("note_id", noteID).
			Msg("failed to delete note")
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoteNotFound
	}

	s.logger.Info().
		Int64("note_id", noteID).
		Int64("user_id", ownerID).
		Msg("deleted note")
	return nil
}
