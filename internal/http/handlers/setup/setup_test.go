package setup

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/cloud-console/internal/models"
)

type MockService struct{ mock.Mock }

func (m *MockService) CompleteSetup(ctx context.Context) (models.InstanceConfiguration, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.InstanceConfiguration), args.Error(1)
}

func TestSetupHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("success", func(t *testing.T) {
		svc := new(MockService)
		svc.On("CompleteSetup", mock.Anything).Return(models.InstanceConfiguration{InitialSetupComplete: true}, nil).Once()

		w := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/instance_configuration/setup", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"initialSetupComplete":true}`, w.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("failure", func(t *testing.T) {
		svc := new(MockService)
		svc.On("CompleteSetup", mock.Anything).Return(models.InstanceConfiguration{}, errors.New("db down"))

		w := httptest.NewRecorder()
		New(logger, svc).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/instance_configuration/setup", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
