package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/groveboard/grove-backend/internal/handler"
	"github.com/groveboard/grove-backend/internal/middleware"
	"github.com/groveboard/grove-backend/pkg/jwt"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	composeHandler *handler.ComposeHandler,
	attachmentHandler *handler.AttachmentHandler,
	draftHandler *handler.DraftHandler,
	jwtManager *jwt.Manager,
) {
	api := router.Group("/api/v1")

	// Compose and publish. Optional auth: boards that allow guest
	// posting accept unauthenticated submissions with name/email.
	boards := api.Group("/boards", middleware.OptionalJWTAuth(jwtManager))
	boards.GET("/:board_id/compose", composeHandler.Render)
	boards.POST("/:board_id/posts", composeHandler.Submit)

	// Attachment staging area
	attachments := api.Group("/attachments", middleware.OptionalJWTAuth(jwtManager))
	attachments.POST("", attachmentHandler.Upload)
	attachments.GET("", attachmentHandler.List)
	attachments.DELETE("", attachmentHandler.DiscardAll)
	attachments.DELETE("/:key", attachmentHandler.Discard)

	// Drafts (members only)
	drafts := api.Group("/drafts", middleware.JWTAuth(jwtManager))
	drafts.POST("", draftHandler.Save)
	drafts.GET("", draftHandler.List)
	drafts.DELETE("/:id", draftHandler.Delete)
}
