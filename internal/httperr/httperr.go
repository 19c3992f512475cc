package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Detail is one error entry in the response envelope.
type Detail struct {
	Detail string `json:"detail"`
}

// Response is the single error envelope every endpoint returns. Clients never
// have to probe alternative shapes: errors always live at errors[].detail.
type Response struct {
	Errors []Detail `json:"errors"`
}

// New builds an envelope from one or more messages.
func New(messages ...string) Response {
	details := make([]Detail, 0, len(messages))
	for _, m := range messages {
		details = append(details, Detail{Detail: m})
	}
	return Response{Errors: details}
}

// Abort writes the envelope and stops the handler chain.
func Abort(c *gin.Context, status int, messages ...string) {
	c.AbortWithStatusJSON(status, New(messages...))
}

// BadRequest writes a 400 envelope.
func BadRequest(c *gin.Context, messages ...string) {
	Abort(c, http.StatusBadRequest, messages...)
}

// NotFound writes a 404 envelope.
func NotFound(c *gin.Context, message string) {
	Abort(c, http.StatusNotFound, message)
}

// Unauthorized writes a 401 envelope; clients clear credentials on this.
func Unauthorized(c *gin.Context, message string) {
	Abort(c, http.StatusUnauthorized, message)
}

// Forbidden writes a 403 envelope.
func Forbidden(c *gin.Context, message string) {
	Abort(c, http.StatusForbidden, message)
}

// Conflict writes a 409 envelope.
func Conflict(c *gin.Context, message string) {
	Abort(c, http.StatusConflict, message)
}

// Internal writes a 500 envelope.
func Internal(c *gin.Context, err error) {
	Abort(c, http.StatusInternalServerError, err.Error())
}
