package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequestIDMiddleware_GeneratesID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) {
		Fail(c, http.StatusNotFound, ErrNotFound)
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))

	id := w.Header().Get(HeaderRequestID)
	require.NotEmpty(t, id)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, id, body.RequestID)
	assert.Equal(t, ErrNotFound, body.Error.Code)
	assert.Equal(t, GetMessage(ErrNotFound), body.Error.Message)
}

func TestRequestIDMiddleware_ReusesClientID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { Success(c, http.StatusOK, gin.H{"ok": true}) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "trace-123")
	w := serve(r, req)
	assert.Equal(t, "trace-123", w.Header().Get(HeaderRequestID))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, strings.Repeat("x", maxClientRequestIDLen+1))
	w = serve(r, req)
	assert.Len(t, w.Header().Get(HeaderRequestID), 36, "oversized id replaced by a uuid")
}

func TestSuccess_IsNotWrapped(t *testing.T) {
	r := gin.New()
	r.GET("/", func(c *gin.Context) { Success(c, http.StatusOK, gin.H{"status": "ok"}) })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestFailVariants(t *testing.T) {
	r := gin.New()
	r.GET("/fields", func(c *gin.Context) {
		FailWithFields(c, http.StatusBadRequest, ErrValidation, map[string]string{"question": "question is a required field"})
	})
	r.GET("/message", func(c *gin.Context) {
		FailWithMessage(c, http.StatusBadRequest, ErrMissingColumn, "Missing column rating")
	})
	r.GET("/row", func(c *gin.Context) {
		FailWith(c, http.StatusBadRequest, ErrorBody{
			Code:    ErrInvalidRow,
			Message: "invalid row at line 3",
			Row:     map[string]string{"course_id": "X1"},
		})
	})
	r.GET("/abort", func(c *gin.Context) {
		AbortFail(c, http.StatusUnauthorized, ErrUnauthorized)
	})

	tests := []struct {
		path   string
		status int
		check  func(t *testing.T, body ErrorBody)
	}{
		{"/fields", http.StatusBadRequest, func(t *testing.T, b ErrorBody) {
			assert.Equal(t, ErrValidation, b.Code)
			assert.Contains(t, b.Fields, "question")
			assert.Nil(t, b.Row)
		}},
		{"/message", http.StatusBadRequest, func(t *testing.T, b ErrorBody) {
			assert.Equal(t, "Missing column rating", b.Message)
		}},
		{"/row", http.StatusBadRequest, func(t *testing.T, b ErrorBody) {
			assert.Equal(t, "X1", b.Row["course_id"])
		}},
		{"/abort", http.StatusUnauthorized, func(t *testing.T, b ErrorBody) {
			assert.Equal(t, ErrUnauthorized, b.Code)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := serve(r, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body.RequestID)
			tt.check(t, body.Error)
		})
	}
}

func TestGetMessage_Unknown(t *testing.T) {
	assert.Equal(t, "Unexpected error", GetMessage("SOMETHING_ELSE"))
}
