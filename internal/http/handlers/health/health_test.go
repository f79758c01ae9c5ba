package health

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apihealth "github.com/magabrotheeeer/cloud-console/internal/health"
)

type stubService struct{ st apihealth.Status }

func (s stubService) Status() apihealth.Status { return s.st }

func TestHealthHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := apihealth.Status{Started: true, Up: false, CheckedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Error: "timeout"}

	w := httptest.NewRecorder()
	New(logger, stubService{st: st}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"up":false`)
	assert.Contains(t, w.Body.String(), `"error":"timeout"`)
}
