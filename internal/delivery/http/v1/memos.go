package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskdeck/internal/models"
)

type memoResponse struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

func newMemoResponse(memo *models.Memo) memoResponse {
	return memoResponse{
		ID:        memo.ID,
		Content:   memo.Content,
		CreatedAt: memo.CreatedAt,
	}
}

type createMemoRequest struct {
	Content string `json:"content"`
}

func (h *handlerImpl) HandleCreateMemo(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	// Content is not validated beyond deserialization; an empty memo is
	// allowed and only the client form enforces non-empty input.
	var req createMemoRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	memo, err := h.memos.CreateMemo(c, userID, req.Content)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create memo")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusCreated, newMemoResponse(memo))
}

func (h *handlerImpl) HandleListMemos(c *gin.Context) {
	userID, ok := h.currentUserID(c)
	if !ok {
		return
	}

	memos, err := h.memos.ListMemos(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list memos")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	response := make([]memoResponse, 0, len(memos))
	for i := range memos {
		response = append(response, newMemoResponse(&memos[i]))
	}

	c.JSON(http.StatusOK, response)
}
