package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"backoffice/internal/domain"
	"backoffice/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.RequestID())
	return r
}

func doJSON(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var rdr io.Reader
	if body != "" {
		rdr = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestRespondDomainErrorStatusCodes(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{domain.ValidationError{Msg: "bad"}, http.StatusBadRequest, "validation_error"},
		{domain.NotFoundError{Resource: "Agency"}, http.StatusNotFound, "not_found"},
		{domain.ConflictError{Resource: "inquiry"}, http.StatusConflict, "conflict"},
		{domain.UpstreamError{Service: "gemini", Msg: "down"}, http.StatusBadGateway, "upstream_error"},
		{domain.InternalError{Msg: "boom"}, http.StatusInternalServerError, "internal_error"},
		{domain.SchemaMismatchError{Table: "agencies", Msg: "mismatch", Suggestion: "migrate"}, http.StatusInternalServerError, "schema_mismatch"},
		{errors.New("raw"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		r := newEngine()
		r.GET("/x", func(c *gin.Context) { RespondDomainError(c, tc.err) })
		w := doJSON(r, http.MethodGet, "/x", "")
		assert.Equal(t, tc.status, w.Code, "%T", tc.err)
		body := decode(t, w)
		assert.Equal(t, tc.code, body["code"])
		assert.NotEmpty(t, body["request_id"])
	}
}

func TestRespondDomainErrorHidesUnexpected(t *testing.T) {
	r := newEngine()
	r.GET("/x", func(c *gin.Context) { RespondDomainError(c, errors.New("dsn password=secret")) })
	body := decode(t, doJSON(r, http.MethodGet, "/x", ""))
	assert.Equal(t, "internal server error", body["error"])
}

type stubGenerator struct{ out string }

func (g stubGenerator) GenerateJSON(context.Context, string) (string, error) { return g.out, nil }

func TestProcessPNRRequiresText(t *testing.T) {
	r := newEngine()
	r.POST("/api/pnr/process", ProcessPNR)

	w := doJSON(r, http.MethodPost, "/api/pnr/process", `{"pnrText":"  "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "PNR text is required", body["error"])
}

func TestProcessPNRMalformedBody(t *testing.T) {
	r := newEngine()
	r.POST("/api/pnr/process", ProcessPNR)

	w := doJSON(r, http.MethodPost, "/api/pnr/process", `{"pnrText":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "invalid payload", body["error"])
	assert.NotEmpty(t, body["details"])

	w = doJSON(r, http.MethodPost, "/api/pnr/process", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "PNR text is required", decode(t, w)["error"])
}

func TestProcessPNRBadModelAnswer(t *testing.T) {
	SetDependencies(Dependencies{PNR: stubGenerator{out: `{"pnr_number":""}`}})
	defer SetDependencies(Dependencies{})

	r := newEngine()
	r.POST("/api/pnr/process", ProcessPNR)

	w := doJSON(r, http.MethodPost, "/api/pnr/process", `{"pnrText":"RLOC ABC123 SYDLHR"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	body := decode(t, w)
	assert.Contains(t, body["error"], "Validation Failed: ")
	assert.Contains(t, body["error"], "pnr_number: PNR Number is required")
}

func TestImportRouteContentUnknownSection(t *testing.T) {
	r := newEngine()
	r.POST("/api/flight-routes/content/:section", ImportRouteContent)

	w := doJSON(r, http.MethodPost, "/api/flight-routes/content/faq", `{"rows":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", decode(t, w)["code"])
}

func TestEmptyBodyRejected(t *testing.T) {
	r := newEngine()
	r.POST("/api/inquiries", CreateInquiry)

	w := doJSON(r, http.MethodPost, "/api/inquiries", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "request body is empty", decode(t, w)["error"])
}

func TestStreamChangesWithoutHub(t *testing.T) {
	SetDependencies(Dependencies{})
	r := newEngine()
	r.GET("/api/realtime/:table", StreamChanges)

	w := doJSON(r, http.MethodGet, "/api/realtime/media", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
