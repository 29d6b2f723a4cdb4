package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/avelinsk/daydo/internal/services"
)

type Handler interface {
	HandleRegister(c *gin.Context)
	HandleLogin(c *gin.Context)
	HandleMe(c *gin.Context)
	HandleUpdateProfile(c *gin.Context)
	HandleChangePassword(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)

	HandleListTodos(c *gin.Context)
	HandleCreateTodo(c *gin.Context)
	HandleGetTodo(c *gin.Context)
	HandleUpdateTodo(c *gin.Context)
	HandleDeleteTodo(c *gin.Context)
	HandleClearCompletedTodos(c *gin.Context)

	HandleListNotes(c *gin.Context)
	HandleCreateNote(c *gin.Context)
	HandleGetNote(c *gin.Context)
	HandleUpdateNote(c *gin.Context)
	HandleDeleteNote(c *gin.Context)
}

type handlerImpl struct {
	logger zerolog.Logger
	auth   services.AuthService
	todos  services.TodoService
	notes  services.NoteService
}

func New(
	logger zerolog.Logger,
	authService services.AuthService,
	todoService services.TodoService,
	noteService services.NoteService,
) Handler {
	return &handlerImpl{
		logger: logger,
		auth:   authService,
		todos:  todoService,
		notes:  noteService,
	}
}
