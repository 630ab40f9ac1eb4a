package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taskdeck/internal/services"
)

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerResponse struct {
	Message string `json:"message"`
	UserID  string `json:"userId"`
}

func (h *handlerImpl) HandleRegister(c *gin.Context) {
	var req registerRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind request body")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	userID, err := h.auth.Register(c, req.Email, req.Password)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to register")
		switch {
		case errors.Is(err, services.ErrMissingInput):
			abort(c, newBadRequestError(services.ErrMissingInput.Error()))
		case errors.Is(err, services.ErrUserAlreadyExists):
			// Registration reveals duplicates; only login stays generic.
			abort(c, newBadRequestError("this email is already registered"))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusCreated, registerResponse{
		Message: "user registered",
		UserID:  userID,
	})
}
