package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avelinsk/daydo/internal/models"
	"github.com/avelinsk/daydo/internal/services"
)

type noteResponse struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   *string   `json:"content,omitempty"`
	Category  *string   `json:"category,omitempty"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newNoteResponse(note *models.Note) noteResponse {
	return noteResponse{
		ID:        note.ID,
		Title:     note.Title,
		Content:   note.Content,
		Category:  note.Category,
		Color:     note.Color,
		CreatedAt: note.CreatedAt,
		UpdatedAt: note.UpdatedAt,
	}
}

func (h *handlerImpl) HandleListNotes(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abort(c, newUnauthorizedError(services.ErrUnauthenticated.Error()))
		return
	}

	notes, err := h.notes.ListNotes(c, user.ID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list notes")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	responses := make([]noteResponse, 0, len(notes))
	for _, note := range notes {
		responses = append(responses, newNoteResponse(note))
	}
	c.JSON(http.StatusOK, responses)
}

type createNoteRequest struct {
	Title    string  `json:"title" binding:"required,max=200"`
	Content  *string `json:"content"`
	Category *string `json:"category" binding:"omitempty,max=50"`
	Color    string  `json:"color" binding:"omitempty,max=20"`
}

func (h *handlerImpl) HandleCreateNote(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abort(c, newUnauthorizedError(services.ErrUnauthenticated.Error()))
		return
	}

	var req createNoteRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	note, err := h.notes.CreateNote(c, user.ID, services.CreateNoteParams{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Color:    req.Color,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create note")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusCreated, newNoteResponse(note))
}

func (h *handlerImpl) HandleGetNote(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abort(c, newUnauthorizedError(services.ErrUnauthenticated.Error()))
		return
	}

	noteID, ok := pathID(c)
	if !ok {
		abort(c, newBadRequestError("invalid note id"))
		return
	}

	note, err := h.notes.GetNote(c, user.ID, noteID)
	if err != nil {
		if errors.Is(err, services.ErrNoteNotFound) {
			abort(c, newNotFoundError(services.ErrNoteNotFound.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to get note")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, newNoteResponse(note))
}

type updateNoteRequest struct {
	Title    *string `json:"title" binding:"omitempty,min=1,max=200"`
	Content  *string `json:"content"`
	Category *string `json:"category" binding:"omitempty,max=50"`
	Color    *string `json:"color" binding:"omitempty,max=20"`
}

func (h *handlerImpl) HandleUpdateNote(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abort(c, newUnauthorizedError(services.ErrUnauthenticated.Error()))
		return
	}

	noteID, ok := pathID(c)
	if !ok {
		abort(c, newBadRequestError("invalid note id"))
		return
	}

	var req updateNoteRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	note, err := h.notes.UpdateNote(c, user.ID, noteID, services.UpdateNoteParams{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Color:    req.Color,
	})
	if err != nil {
		if errors.Is(err, services.ErrNoteNotFound) {
			abort(c, newNotFoundError(services.ErrNoteNotFound.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to update note")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, newNoteResponse(note))
}

func (h *handlerImpl) HandleDeleteNote(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abort(c, newUnauthorizedError(services.ErrUnauthenticated.Error()))
		return
	}

	noteID, ok := pathID(c)
	if !ok {
		abort(c, newBadRequestError("invalid note id"))
		return
	}

	err := h.notes.DeleteNote(c, user.ID, noteID)
	if err != nil {
		if errors.Is(err, services.ErrNoteNotFound) {
			abort(c, newNotFoundError(services.ErrNoteNotFound.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to delete note")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.Status(http.StatusNoContent)
}
