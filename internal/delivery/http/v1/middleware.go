package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/avelinsk/daydo/internal/models"
	"github.com/avelinsk/daydo/internal/services"
)

const currentUserCtxKey = "current_user"

// HandleAuthMiddleware resolves the bearer token to a live user and
// stores it in the request context. Every downstream data operation is
// scoped to that user and nothing else.
func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	const authHeader = "Authorization"
	header := c.GetHeader(authHeader)
	if header == "" {
		h.logger.Warn().Msg("authorization header required")
		abort(c, newUnauthorizedError(services.ErrUnauthenticated.Error()))
		return
	}

	const bearerPrefix = "Bearer"
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != bearerPrefix {
		h.logger.Warn().Msg("invalid authorization header")
		abort(c, newUnauthorizedError(services.ErrUnauthenticated.Error()))
		return
	}

	user, err := h.auth.Authenticate(c, parts[1])
	if err != nil {
		if errors.Is(err, services.ErrUnauthenticated) {
			abort(c, newUnauthorizedError(services.ErrUnauthenticated.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to authenticate request")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.Set(currentUserCtxKey, user)
	c.Next()
}

func currentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(currentUserCtxKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}
