package common

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/groveboard/grove-backend/internal/domain"
)

// APIResponse standard API response structure
type APIResponse struct {
	Data  interface{} `json:"data"`
	Error *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SuccessResponse returns a successful JSON response
func SuccessResponse(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Data: data})
}

// ErrorResponse returns an error JSON response
func ErrorResponse(c *gin.Context, status int, message string, err error) {
	c.JSON(status, gin.H{
		"error": &ErrorInfo{
			Code:    getErrorCode(status),
			Message: message,
		},
	})
}

// PostErrorsResponse returns the accumulated submission problems plus a
// fresh submit token so the client can re-render the compose form and
// resubmit in one round trip.
func PostErrorsResponse(c *gin.Context, errs *domain.PostErrors, token string) {
	c.JSON(http.StatusUnprocessableEntity, gin.H{
		"error": &ErrorInfo{
			Code:    "POST_ERRORS",
			Message: "submission has problems",
		},
		"post_errors": errs.Items(),
		"token":       token,
	})
}

// getErrorCode generates error code from HTTP status
func getErrorCode(status int) string {
	switch status {
	case 400:
		return "BAD_REQUEST"
	case 401:
		return "UNAUTHORIZED"
	case 403:
		return "FORBIDDEN"
	case 404:
		return "NOT_FOUND"
	case 409:
		return "CONFLICT"
	case 422:
		return "UNPROCESSABLE"
	case 423:
		return "LOCKED"
	case 429:
		return "TOO_MANY_REQUESTS"
	case 500:
		return "INTERNAL_SERVER_ERROR"
	default:
		return "ERROR"
	}
}
