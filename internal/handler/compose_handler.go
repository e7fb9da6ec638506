package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/groveboard/grove-backend/internal/common"
	"github.com/groveboard/grove-backend/internal/domain"
	"github.com/groveboard/grove-backend/internal/middleware"
	"github.com/groveboard/grove-backend/internal/service"
)

// ComposeHandler handles compose form rendering and submission
type ComposeHandler struct {
	composer  service.Composer
	publisher service.Publisher
}

// NewComposeHandler creates a new ComposeHandler
func NewComposeHandler(composer service.Composer, publisher service.Publisher) *ComposeHandler {
	return &ComposeHandler{composer: composer, publisher: publisher}
}

// Render handles GET /api/v1/boards/:board_id/compose
// @Summary Render the compose form
// @Description Returns the editable view-model for a new topic, reply or edit, with a submit token
// @Tags compose
// @Produce json
// @Param board_id path int true "Board ID"
// @Param topic_id query int false "Topic to reply to"
// @Param message_id query int false "Message to edit"
// @Param quote query int false "Message to quote into a reply"
// @Success 200 {object} common.APIResponse{data=domain.ComposeViewModel}
// @Failure 403 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Failure 423 {object} common.APIResponse
// @Router /boards/{board_id}/compose [get]
func (h *ComposeHandler) Render(c *gin.Context) {
	boardID, err := strconv.Atoi(c.Param("board_id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid board ID", err)
		return
	}

	cc := &service.ComposeContext{
		Actor:   middleware.GetActor(c),
		BoardID: boardID,
		Lang:    c.GetHeader("Accept-Language"),
	}
	cc.TopicID, _ = strconv.Atoi(c.DefaultQuery("topic_id", "0"))
	cc.MessageID, _ = strconv.Atoi(c.DefaultQuery("message_id", "0"))
	cc.QuoteMsgID, _ = strconv.Atoi(c.DefaultQuery("quote", "0"))

	vm, err := h.composer.Render(c.Request.Context(), cc)
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, vm)
}

// Submit handles POST /api/v1/boards/:board_id/posts
// @Summary Submit a composition
// @Description Publishes a new topic, reply or edit; returns accumulated problems instead of committing when validation or preview stops it
// @Tags compose
// @Accept json
// @Produce json
// @Param board_id path int true "Board ID"
// @Param request body domain.SubmissionRequest true "Submission"
// @Success 200 {object} common.APIResponse{data=domain.PublishResult}
// @Failure 409 {object} common.APIResponse
// @Failure 422 {object} common.APIResponse
// @Failure 423 {object} common.APIResponse
// @Failure 429 {object} common.APIResponse
// @Router /boards/{board_id}/posts [post]
func (h *ComposeHandler) Submit(c *gin.Context) {
	boardID, err := strconv.Atoi(c.Param("board_id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid board ID", err)
		return
	}

	var req domain.SubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req.BoardID = boardID

	outcome, err := h.publisher.Submit(c.Request.Context(), middleware.GetActor(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	if !outcome.Committed() {
		common.PostErrorsResponse(c, outcome.Errors, outcome.Token)
		return
	}
	common.SuccessResponse(c, outcome.Result)
}

// respondError maps pipeline errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrBoardNotFound),
		errors.Is(err, common.ErrTopicNotFound),
		errors.Is(err, common.ErrMessageNotFound),
		errors.Is(err, common.ErrStagedFileNotFound):
		common.ErrorResponse(c, http.StatusNotFound, err.Error(), err)
	case errors.Is(err, common.ErrPermissionDenied), errors.Is(err, common.ErrForbidden):
		common.ErrorResponse(c, http.StatusForbidden, err.Error(), err)
	case errors.Is(err, common.ErrUnauthorized):
		common.ErrorResponse(c, http.StatusUnauthorized, err.Error(), err)
	case errors.Is(err, common.ErrTopicLocked):
		common.ErrorResponse(c, http.StatusLocked, err.Error(), err)
	case errors.Is(err, common.ErrDuplicateSubmission), errors.Is(err, common.ErrPollAlreadyExists):
		common.ErrorResponse(c, http.StatusConflict, err.Error(), err)
	case errors.Is(err, common.ErrFloodControl):
		common.ErrorResponse(c, http.StatusTooManyRequests, err.Error(), err)
	case errors.Is(err, common.ErrStagingLimitExceeded), errors.Is(err, common.ErrInvalidInput):
		common.ErrorResponse(c, http.StatusBadRequest, err.Error(), err)
	default:
		common.ErrorResponse(c, http.StatusInternalServerError, "Internal server error", err)
	}
}
