package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"backoffice/internal/auth"
	intconfig "backoffice/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func testRouter(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)
	return NewRouter(intconfig.Env{StorageDir: t.TempDir(), StoragePublicURL: "/storage"}, auth.NewIssuer("test-secret"))
}

func TestHealth(t *testing.T) {
	r := testRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestRecentSearchesNeedSession(t *testing.T) {
	r := testRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/recent-searches", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUnknownRoute(t *testing.T) {
	r := testRouter(t)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "route not found")
}

func TestRoutesListingIsAdminOnly(t *testing.T) {
	r := testRouter(t)
	iss := auth.NewIssuer("test-secret")
	tok, err := iss.IssueToken("1", "a@x.io", "admin")
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/_routes", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/inquiries/board")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/_routes", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
