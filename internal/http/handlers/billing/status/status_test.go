package status

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/cloud-console/internal/billing"
	"github.com/magabrotheeeer/cloud-console/internal/models"
	"github.com/magabrotheeeer/cloud-console/internal/problem"
	"github.com/magabrotheeeer/cloud-console/internal/services/billingstatus"
)

type MockService struct{ mock.Mock }

func (m *MockService) Status(ctx context.Context, workspaceID uuid.UUID, user models.User) (billingstatus.Status, error) {
	args := m.Called(ctx, workspaceID, user)
	return args.Get(0).(billingstatus.Status), args.Error(1)
}

func TestStatusHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	wsID := uuid.New()

	tests := []struct {
		name           string
		param          string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:  "success",
			param: wsID.String(),
			setupMock: func(m *MockService) {
				m.On("Status", mock.Anything, wsID, models.User{}).Return(billingstatus.Status{
					WorkspaceID:    wsID,
					BannerSeverity: billing.SeverityWarning,
					CreditLevel:    billing.CreditLevelLow,
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"bannerSeverity":"warning"`,
		},
		{
			name:           "invalid id",
			param:          "abc",
			setupMock:      func(*MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid workspace id"`,
		},
		{
			name:  "unknown workspace",
			param: wsID.String(),
			setupMock: func(m *MockService) {
				m.On("Status", mock.Anything, wsID, models.User{}).
					Return(billingstatus.Status{}, problem.NotFound("workspace not found"))
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"status":404`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/workspaces/"+tt.param+"/billing", nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("workspaceID", tt.param)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			w := httptest.NewRecorder()

			New(logger, svc).ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
