package console

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/cloud-console/internal/models"
	"github.com/magabrotheeeer/cloud-console/internal/problem"
	"github.com/magabrotheeeer/cloud-console/internal/routing"
)

type MockService struct{ mock.Mock }

func (m *MockService) Navigate(ctx context.Context, sessionID string, user models.User, path, rawQuery string) (routing.Decision, error) {
	args := m.Called(ctx, sessionID, user, path, rawQuery)
	return args.Get(0).(routing.Decision), args.Error(1)
}

func TestConsoleHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>console</html>"), 0o600))

	t.Run("redirect keeps query verbatim", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Navigate", mock.Anything, "", models.User{}, "/connections", "a=1&b=%20").
			Return(routing.Decision{Kind: routing.KindRedirect, Location: "/workspaces/w1/connections?a=1&b=%20"}, nil)

		w := httptest.NewRecorder()
		New(logger, svc, dir).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/connections?a=1&b=%20", nil))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/workspaces/w1/connections?a=1&b=%20", w.Header().Get("Location"))
	})

	t.Run("main route serves the app shell", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Navigate", mock.Anything, "", models.User{}, "/workspaces/w1/settings", "").
			Return(routing.Decision{Kind: routing.KindMain, WorkspaceID: "w1"}, nil)

		w := httptest.NewRecorder()
		New(logger, svc, dir).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/workspaces/w1/settings", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, string(routing.KindMain), w.Header().Get(RouteHeader))
		assert.Contains(t, w.Body.String(), "console")
	})

	t.Run("no workspaces", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Navigate", mock.Anything, "", models.User{}, "/", "").
			Return(routing.Decision{}, problem.Wrap(http.StatusNotFound, "no workspaces available", routing.ErrNoWorkspaces))

		w := httptest.NewRecorder()
		New(logger, svc, dir).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, problem.ContentType, w.Header().Get("Content-Type"))
	})
}
