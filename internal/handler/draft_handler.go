package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/groveboard/grove-backend/internal/common"
	"github.com/groveboard/grove-backend/internal/middleware"
	"github.com/groveboard/grove-backend/internal/service"
)

// DraftHandler handles compose autosave drafts
type DraftHandler struct {
	drafts service.DraftService
}

// NewDraftHandler creates a new DraftHandler
func NewDraftHandler(drafts service.DraftService) *DraftHandler {
	return &DraftHandler{drafts: drafts}
}

type saveDraftRequest struct {
	Context string `json:"context"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Save handles POST /api/v1/drafts
// @Summary Autosave a draft
// @Tags drafts
// @Accept json
// @Produce json
// @Param request body saveDraftRequest true "Draft content"
// @Success 200 {object} common.APIResponse{data=domain.Draft}
// @Failure 401 {object} common.APIResponse
// @Security BearerAuth
// @Router /drafts [post]
func (h *DraftHandler) Save(c *gin.Context) {
	actor := middleware.GetActor(c)

	var req saveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Context == "" {
		req.Context = "post"
	}

	draft, err := h.drafts.Save(actor.ID, req.Context, req.Subject, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, draft)
}

// List handles GET /api/v1/drafts
// @Summary List saved drafts
// @Tags drafts
// @Produce json
// @Success 200 {object} common.APIResponse{data=[]domain.Draft}
// @Failure 401 {object} common.APIResponse
// @Security BearerAuth
// @Router /drafts [get]
func (h *DraftHandler) List(c *gin.Context) {
	actor := middleware.GetActor(c)

	drafts, err := h.drafts.List(actor.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, drafts)
}

// Delete handles DELETE /api/v1/drafts/:id
// @Summary Delete a draft
// @Tags drafts
// @Produce json
// @Param id path int true "Draft ID"
// @Success 200 {object} common.APIResponse
// @Failure 401 {object} common.APIResponse
// @Security BearerAuth
// @Router /drafts/{id} [delete]
func (h *DraftHandler) Delete(c *gin.Context) {
	actor := middleware.GetActor(c)

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid draft ID", err)
		return
	}

	if err := h.drafts.Delete(id, actor.ID); err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"deleted": true})
}
