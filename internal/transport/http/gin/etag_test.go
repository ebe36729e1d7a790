package httpgin

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSONWithCache(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/thing", func(c *gin.Context) {
		writeJSONWithCache(c, http.StatusOK, gin.H{"answer": 42}, "public, max-age=15", true)
	})

	// first request returns the body plus ETag
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/thing", nil))

	require.Equal(t, http.StatusOK, w.Code)
	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag)
	assert.Equal(t, "public, max-age=15", w.Header().Get("Cache-Control"))
	assert.JSONEq(t, `{"answer":42}`, w.Body.String())

	// replaying the ETag gets a 304 with no body
	req := httptest.NewRequest(http.MethodGet, "/thing", nil)
	req.Header.Set("If-None-Match", etag)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Empty(t, w.Body.String())
}
