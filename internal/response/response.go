package response

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ErrorResponse is the envelope for every non-2xx response.
type ErrorResponse struct {
	Error     ErrorBody `json:"error"`
	RequestID string    `json:"request_id"`
}

// ErrorBody represents a structured error response. Row echoes the offending
// CSV record on ingest failures.
type ErrorBody struct {
	Code    ErrCode           `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Row     map[string]string `json:"row,omitempty"`
}

// ────────────────────────────────────────────────────────────────────────────
// Helper builders
// ────────────────────────────────────────────────────────────────────────────

// Success sends data as the JSON body. Successful responses are not wrapped.
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// Fail sends an error response with the code's default message.
func Fail(c *gin.Context, statusCode int, code ErrCode) {
	FailWith(c, statusCode, ErrorBody{Code: code, Message: GetMessage(code)})
}

// FailWithMessage sends an error response whose message is specific to this
// failure, e.g. naming the missing CSV column.
func FailWithMessage(c *gin.Context, statusCode int, code ErrCode, message string) {
	FailWith(c, statusCode, ErrorBody{Code: code, Message: message})
}

// FailWithFields sends an error response with field-level validation details.
func FailWithFields(c *gin.Context, statusCode int, code ErrCode, fields map[string]string) {
	FailWith(c, statusCode, ErrorBody{Code: code, Message: GetMessage(code), Fields: fields})
}

// FailWith sends a fully specified error body.
func FailWith(c *gin.Context, statusCode int, body ErrorBody) {
	c.JSON(statusCode, ErrorResponse{Error: body, RequestID: requestID(c)})
}

// AbortFail aborts the middleware chain and sends an error response.
func AbortFail(c *gin.Context, statusCode int, code ErrCode) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{
		Error:     ErrorBody{Code: code, Message: GetMessage(code)},
		RequestID: requestID(c),
	})
}

// ────────────────────────────────────────────────────────────────────────────
// Internal helpers
// ────────────────────────────────────────────────────────────────────────────

func requestID(c *gin.Context) string {
	if id := c.GetString(ContextKeyRequestID); id != "" {
		return id
	}
	return uuid.New().String() // Fallback if middleware not applied
}
