package httpgin

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func etagTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/payload", func(c *gin.Context) {
		writeJSONWithCache(c, http.StatusOK, gin.H{"value": 42}, "private, max-age=30", true)
	})
	return r
}

func TestWriteJSONWithCacheSetsHeaders(t *testing.T) {
	r := etagTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/payload", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "private, max-age=30", w.Header().Get("Cache-Control"))

	tag := w.Header().Get("ETag")
	require.NotEmpty(t, tag)
	assert.True(t, tag[0] == 'W', "expected a weak ETag, got %s", tag)
	assert.JSONEq(t, `{"value":42}`, w.Body.String())
}

func TestWriteJSONWithCacheHonorsIfNoneMatch(t *testing.T) {
	r := etagTestRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/payload", nil))
	tag := w.Header().Get("ETag")
	require.NotEmpty(t, tag)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/payload", nil)
	req.Header.Set("If-None-Match", tag)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Empty(t, w.Body.String())
}
