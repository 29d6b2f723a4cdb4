package v1

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avelinsk/daydo/internal/models"
	"github.com/avelinsk/daydo/internal/services"
)

type todoResponse struct {
	ID          int64      `json:"id"`
	Text        string     `json:"text"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Category    *string    `json:"category,omitempty"`
	Priority    string     `json:"priority"`
	Description *string    `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func newTodoResponse(todo *models.Todo) todoResponse {
	return todoResponse{
		ID:          todo.ID,
		Text:        todo.Text,
		Completed:   todo.Completed,
		DueDate:     todo.DueDate,
		Category:    todo.Category,
		Priority:    todo.Priority,
		Description: todo.Description,
		CreatedAt:   todo.CreatedAt,
	}
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func (h *handlerImpl) HandleListTodos(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abort(c, newUnauthorizedError(services.ErrUnauthenticated.Error()))
		return
	}

	todos, err := h.todos.ListTodos(c, user.ID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list todos")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	responses := make([]todoResponse, 0, len(todos))
	for _, todo := range todos {
		responses = append(responses, newTodoResponse(todo))
	}
	c.JSON(http.StatusOK, responses)
}

// The request carries no owner field on purpose; the owner always comes
// from the authenticated user.
type createTodoRequest struct {
	Text        string     `json:"text" binding:"required"`
	Completed   bool       `json:"completed"`
	DueDate     *time.Time `json:"due_date"`
	Category    *string    `json:"category" binding:"omitempty,max=255"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=high medium low"`
	Description *string    `json:"description"`
}

func (h *handlerImpl) HandleCreateTodo(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abort(c, newUnauthorizedError(services.ErrUnauthenticated.Error()))
		return
	}

	var req createTodoRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	todo, err := h.todos.CreateTodo(c, user.ID, services.CreateTodoParams{
		Text:        req.Text,
		Completed:   req.Completed,
		DueDate:     req.DueDate,
		Category:    req.Category,
		Priority:    req.Priority,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, services.ErrInvalidPriority) {
			abort(c, newBadRequestError(services.ErrInvalidPriority.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to create todo")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusCreated, newTodoResponse(todo))
}

func (h *handlerImpl) HandleGetTodo(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abort(c, newUnauthorizedError(services.ErrUnauthenticated.Error()))
		return
	}

	todoID, ok := pathID(c)
	if !ok {
		abort(c, newBadRequestError("invalid todo id"))
		return
	}

	todo, err := h.todos.GetTodo(c, user.ID, todoID)
	if err != nil {
		if errors.Is(err, services.ErrTodoNotFound) {
			abort(c, newNotFoundError(services.ErrTodoNotFound.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to get todo")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, newTodoResponse(todo))
}

type updateTodoRequest struct {
	Text        *string    `json:"text" binding:"omitempty,min=1"`
	Completed   *bool      `json:"completed"`
	DueDate     *time.Time `json:"due_date"`
	Category    *string    `json:"category" binding:"omitempty,max=255"`
	Priority    *string    `json:"priority" binding:"omitempty,oneof=high medium low"`
	Description *string    `json:"description"`
}

func (h *handlerImpl) HandleUpdateTodo(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abort(c, newUnauthorizedError(services.ErrUnauthenticated.Error()))
		return
	}

	todoID, ok := pathID(c)
	if !ok {
		abort(c, newBadRequestError("invalid todo id"))
		return
	}

	var req updateTodoRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	todo, err := h.todos.UpdateTodo(c, user.ID, todoID, services.UpdateTodoParams{
		Text:        req.Text,
		Completed:   req.Completed,
		DueDate:     req.DueDate,
		Category:    req.Category,
		Priority:    req.Priority,
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTodoNotFound):
			abort(c, newNotFoundError(services.ErrTodoNotFound.Error()))
		case errors.Is(err, services.ErrInvalidPriority):
			abort(c, newBadRequestError(services.ErrInvalidPriority.Error()))
		default:
			h.logger.Error().
				Err(err).
				Msg("failed to update todo")
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusOK, newTodoResponse(todo))
}

func (h *handlerImpl) HandleDeleteTodo(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abort(c, newUnauthorizedError(services.ErrUnauthenticated.Error()))
		return
	}

	todoID, ok := pathID(c)
	if !ok {
		abort(c, newBadRequestError("invalid todo id"))
		return
	}

	err := h.todos.DeleteTodo(c, user.ID, todoID)
	if err != nil {
		if errors.Is(err, services.ErrTodoNotFound) {
			abort(c, newNotFoundError(services.ErrTodoNotFound.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to delete todo")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *handlerImpl) HandleClearCompletedTodos(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abort(c, newUnauthorizedError(services.ErrUnauthenticated.Error()))
		return
	}

	deleted, err := h.todos.DeleteCompletedTodos(c, user.ID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to clear completed todos")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
