package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/groveboard/grove-backend/internal/common"
	"github.com/groveboard/grove-backend/internal/middleware"
	"github.com/groveboard/grove-backend/internal/service"
)

// AttachmentHandler handles attachment staging for compose sessions
type AttachmentHandler struct {
	staging service.StagingService
}

// NewAttachmentHandler creates a new AttachmentHandler
func NewAttachmentHandler(staging service.StagingService) *AttachmentHandler {
	return &AttachmentHandler{staging: staging}
}

// stagingContext resolves the editing context the upload belongs to.
// "post" is the generic new-post bucket; "msg<N>" binds to an edit.
func stagingContext(c *gin.Context) string {
	if ctx := c.Query("context"); ctx != "" {
		return ctx
	}
	return "post"
}

// Upload handles POST /api/v1/attachments
// @Summary Stage a file upload
// @Description Holds the file in the staging area until the owning message is published
// @Tags attachments
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to stage"
// @Param context query string false "Editing context (default post)"
// @Success 200 {object} common.APIResponse{data=domain.StagedAttachment}
// @Failure 400 {object} common.APIResponse
// @Router /attachments [post]
func (h *AttachmentHandler) Upload(c *gin.Context) {
	actor := middleware.GetActor(c)

	file, err := c.FormFile("file")
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Missing file", err)
		return
	}

	staged, err := h.staging.Stage(c.Request.Context(), actor.ID, stagingContext(c), file)
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, staged)
}

// List handles GET /api/v1/attachments
// @Summary List staged files
// @Tags attachments
// @Produce json
// @Param context query string false "Editing context (default post)"
// @Success 200 {object} common.APIResponse{data=[]domain.StagedAttachment}
// @Router /attachments [get]
func (h *AttachmentHandler) List(c *gin.Context) {
	actor := middleware.GetActor(c)

	staged, err := h.staging.List(c.Request.Context(), actor.ID, stagingContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, staged)
}

// Discard handles DELETE /api/v1/attachments/:key
// @Summary Discard a staged file
// @Tags attachments
// @Produce json
// @Param key path string true "Staging key"
// @Param context query string false "Editing context (default post)"
// @Success 200 {object} common.APIResponse
// @Failure 404 {object} common.APIResponse
// @Router /attachments/{key} [delete]
func (h *AttachmentHandler) Discard(c *gin.Context) {
	actor := middleware.GetActor(c)

	if err := h.staging.Discard(c.Request.Context(), actor.ID, stagingContext(c), c.Param("key")); err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"discarded": true})
}

// DiscardAll handles DELETE /api/v1/attachments
// @Summary Discard all staged files in a context
// @Tags attachments
// @Produce json
// @Param context query string false "Editing context (default post)"
// @Success 200 {object} common.APIResponse
// @Router /attachments [delete]
func (h *AttachmentHandler) DiscardAll(c *gin.Context) {
	actor := middleware.GetActor(c)

	if err := h.staging.DiscardAll(c.Request.Context(), actor.ID, stagingContext(c)); err != nil {
		respondError(c, err)
		return
	}
	common.SuccessResponse(c, gin.H{"discarded": true})
}
