package services

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/avelinsk/daydo/internal/models"
)

type todoServiceImpl struct {
	logger zerolog.Logger
	db     DB
}

func NewTodoService(logger zerolog.Logger, db DB) TodoService {
	return &todoServiceImpl{
		logger: logger,
		db:     db,
	}
}

func validPriority(priority string) bool {
	switch priority {
	case models.PriorityHigh, models.PriorityMedium, models.PriorityLow:
		return true
	}
	return false
}

func (s *todoServiceImpl) ListTodos(ctx context.Context, ownerID int64) ([]*models.Todo, error) {
	const selectTodosByOwnerQuery = `
SELECT id,
       text,
       completed,
       due_date,
       category,
       priority,
       description,
       created_at
FROM todos
WHERE user_id = $1
ORDER BY created_at, id
`
	rows, err := s.db.Query(ctx, selectTodosByOwnerQuery, ownerID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("user_id", ownerID).
			Msg("failed to select todos")
		return nil, err
	}
	defer rows.Close()

	todos := make([]*models.Todo, 0)
	for rows.Next() {
		todo := &models.Todo{UserID: ownerID}
		err = rows.Scan(
			&todo.ID,
			&todo.Text,
			&todo.Completed,
			&todo.DueDate,
			&todo.Category,
			&todo.Priority,
			&todo.Description,
			&todo.CreatedAt,
		)
		if err != nil {
			s.logger.Error().
				Err(err).
				Msg("failed to scan todo")
			return nil, err
		}
		todos = append(todos, todo)
	}

	err = rows.Err()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to iterate over todos")
		return nil, err
	}

	s.logger.Debug().
		Int("count", len(todos)).
		Int64("user_id", ownerID).
		Msg("selected todos")
	return todos, nil
}

func (s *todoServiceImpl) GetTodo(ctx context.Context, ownerID, todoID int64) (*models.Todo, error) {
	const selectTodoQuery = `
SELECT text,
       completed,
       due_date,
       category,
       priority,
       description,
       created_at
FROM todos
WHERE id = $1 AND user_id = $2
`
	todo := models.Todo{ID: todoID, UserID: ownerID}
	err := s.db.QueryRow(
		ctx,
		selectTodoQuery,
		todoID,
		ownerID,
	).Scan(
		&todo.Text,
		&todo.Completed,
		&todo.DueDate,
		&todo.Category,
		&todo.Priority,
		&todo.Description,
		&todo.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Missing and owned-by-somebody-else look identical.
			return nil, ErrTodoNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("todo_id", todoID).
			Msg("failed to select todo")
		return nil, err
	}

	return &todo, nil
}

func (s *todoServiceImpl) CreateTodo(ctx context.Context, ownerID int64, params CreateTodoParams) (*models.Todo, error) {
	priority := params.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !validPriority(priority) {
		return nil, ErrInvalidPriority
	}

	todo := models.Todo{
		UserID:      ownerID,
		Text:        params.Text,
		Completed:   params.Completed,
		DueDate:     params.DueDate,
		Category:    params.Category,
		Priority:    priority,
		Description: params.Description,
		CreatedAt:   time.Now(),
	}

	const insertTodoQuery = `
INSERT INTO todos (user_id,
                   text,
                   completed,
                   due_date,
                   category,
                   priority,
                   description,
                   created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id
`
	err := s.db.QueryRow(
		ctx,
		insertTodoQuery,
		todo.UserID,
		todo.Text,
		todo.Completed,
		todo.DueDate,
		todo.Category,
		todo.Priority,
		todo.Description,
		todo.CreatedAt,
	).Scan(&todo.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("user_id", ownerID).
			Msg("failed to insert todo")
		return nil, err
	}

	s.logger.Info().
		Int64("todo_id", todo.ID).
		Int64("user_id", ownerID).
		Msg("created todo")
	return &todo, nil
}

func (s *todoServiceImpl) UpdateTodo(ctx context.Context, ownerID, todoID int64, params UpdateTodoParams) (*models.Todo, error) {
	if params.Priority != nil && !validPriority(*params.Priority) {
		return nil, ErrInvalidPriority
	}

	todo := models.Todo{ID: todoID, UserID: ownerID}

	const updateTodoQuery = `
UPDATE todos
SET text = COALESCE($1, text),
    completed = COALESCE($2, completed),
    due_date = COALESCE($3, due_date),
    category = COALESCE($4, category),
    priority = COALESCE($5, priority),
    description = COALESCE($6, description)
WHERE id = $7 AND user_id = $8
RETURNING text, completed, due_date, category, priority, description, created_at
`
	err := s.db.QueryRow(
		ctx,
		updateTodoQuery,
		params.Text,
		params.Completed,
		params.DueDate,
		params.Category,
		params.Priority,
		params.Description,
		todo.ID,
		todo.UserID,
	).Scan(
		&todo.Text,
		&todo.Completed,
		&todo.DueDate,
		&todo.Category,
		&todo.Priority,
		&todo.Description,
		&todo.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTodoNotFound
		}

		s.logger.Error().
			Err(err).
			Int64("todo_id", todoID).
			Msg("failed to update todo")
		return nil, err
	}

	s.logger.Info().
		Int64("todo_id", todoID).
		Int64("user_id", ownerID).
		Msg("updated todo")
	return &todo, nil
}

func (s *todoServiceImpl) DeleteTodo(ctx context.Context, ownerID, todoID int64) error {
	const deleteTodoQuery = `
DELETE FROM todos
WHERE id = $1 AND user_id = $2
`
	tag, err := s.db.Exec(ctx, deleteTodoQuery, todoID, ownerID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("todo_id", todoID).
			Msg("failed to delete todo")
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrTodoNotFound
	}

	s.logger.Info().
		Int64("todo_id", todoID).
		Int64("user_id", ownerID).
		Msg("deleted todo")
	return nil
}

func (s *todoServiceImpl) DeleteCompletedTodos(ctx context.Context, ownerID int64) (int64, error) {
	const deleteCompletedTodosQuery = `
DELETE FROM todos
WHERE user_id = $1 AND completed
`
	tag, err := s.db.Exec(ctx, deleteCompletedTodosQuery, ownerID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Int64("user_id", ownerID).
			Msg("failed to delete completed todos")
		return 0, err
	}

	s.logger.Info().
		Int64("user_id", ownerID).
		Int64("deleted", tag.RowsAffected()).
		Msg("deleted completed todos")
	return tag.RowsAffected(), nil
}
