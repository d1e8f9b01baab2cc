package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stemsi/course-catalog/internal/response"
)

// HeaderIngestToken carries the shared secret for catalog uploads.
const HeaderIngestToken = "X-Ingest-Token"

// RequireIngestToken rejects requests whose X-Ingest-Token does not equal
// token. An empty configured token rejects everything.
func RequireIngestToken(token string) gin.HandlerFunc {
	want := []byte(token)
	return func(c *gin.Context) {
		got := []byte(c.GetHeader(HeaderIngestToken))
		if len(want) == 0 || subtle.ConstantTimeCompare(got, want) != 1 {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrUnauthorized)
			return
		}
		c.Next()
	}
}
