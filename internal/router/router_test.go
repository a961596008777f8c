package router_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"docextract/internal/domain"
	"docextract/internal/handler"
	"docextract/internal/metrics"
	"docextract/internal/router"
	"docextract/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setup(svc *mocks.MockExtractionService) *gin.Engine {
	return router.Setup(
		zap.NewNop(),
		[]string{"http://localhost:3000"},
		handler.NewExtractionHandler(svc, 25),
		handler.NewHealthHandler(nil),
		metrics.New().Handler(),
	)
}

func TestSetup_Routes(t *testing.T) {
	svc := new(mocks.MockExtractionService)
	svc.On("Score", mock.Anything, mock.Anything).Return(&domain.DocumentConfidenceReport{DocType: "invoice"}, nil)
	r := setup(svc)

	tests := []struct {
		method, path, body string
		want               int
	}{
		{http.MethodGet, "/healthz", "", http.StatusOK},
		{http.MethodGet, "/readyz", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodPost, "/api/v1/scores", `{"doc_type":"invoice","extracted_data":{"a":1}}`, http.StatusOK},
		{http.MethodGet, "/api/v1/unknown", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
			assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
		})
	}
}

func TestSetup_CORSPreflight(t *testing.T) {
	r := setup(new(mocks.MockExtractionService))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodOptions, "/api/v1/extractions", http.NoBody)
	req.Header.Set("Origin", "http://localhost:3000")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
