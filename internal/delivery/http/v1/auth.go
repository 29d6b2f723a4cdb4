package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avelinsk/daydo/internal/models"
	"github.com/avelinsk/daydo/internal/services"
)

type userResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func newUserResponse(user *models.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Name:      user.Name,
		CreatedAt: user.CreatedAt,
	}
}

type authResponse struct {
	User        userResponse `json:"user"`
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
}

func newAuthResponse(result *services.AuthResult) authResponse {
	return authResponse{
		User:        newUserResponse(result.User),
		AccessToken: result.AccessToken,
		TokenType:   "bearer",
	}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Name     string `json:"name" binding:"required,max=255"`
	Password string `json:"password" binding:"required,min=6,max=255"`
}

func (h *handlerImpl) HandleRegister(c *gin.Context) {
	var req registerRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	result, err := h.auth.Register(c, services.RegisterParams{
		Username: req.Username,
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		var dup *services.DuplicateError
		if errors.As(err, &dup) {
			abort(c, newConflictError(dup.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to register user")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusCreated, newAuthResponse(result))
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=255"`
}

func (h *handlerImpl) HandleLogin(c *gin.Context) {
	var req loginRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	result, err := h.auth.Login(c, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			abort(c, newUnauthorizedError(services.ErrInvalidCredentials.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to login")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, newAuthResponse(result))
}

func (h *handlerImpl) HandleMe(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abort(c, newUnauthorizedError(services.ErrUnauthenticated.Error()))
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}

type updateProfileRequest struct {
	Name *string `json:"name" binding:"omitempty,max=255"`
}

func (h *handlerImpl) HandleUpdateProfile(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abort(c, newUnauthorizedError(services.ErrUnauthenticated.Error()))
		return
	}

	var req updateProfileRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	updated, err := h.auth.UpdateProfile(c, user, req.Name)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to update profile")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, newUserResponse(updated))
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6,max=255"`
}

func (h *handlerImpl) HandleChangePassword(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abort(c, newUnauthorizedError(services.ErrUnauthenticated.Error()))
		return
	}

	var req changePasswordRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Warn().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	err = h.auth.ChangePassword(c, user, req.OldPassword, req.NewPassword)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			abort(c, newUnauthorizedError(services.ErrInvalidCredentials.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to change password")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password changed"})
}
