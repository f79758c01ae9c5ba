package workspaces

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/cloud-console/internal/cache"
	"github.com/magabrotheeeer/cloud-console/internal/featureflag"
	"github.com/magabrotheeeer/cloud-console/internal/models"
	"github.com/magabrotheeeer/cloud-console/internal/problem"
	"github.com/magabrotheeeer/cloud-console/internal/routing"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) ListWorkspaces(ctx context.Context) ([]models.Workspace, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Workspace), args.Error(1)
}
func (m *RepoMock) GetInstanceConfiguration(ctx context.Context) (models.InstanceConfiguration, error) {
	args := m.Called(ctx)
	return args.Get(0).(models.InstanceConfiguration), args.Error(1)
}
func (m *RepoMock) SetInitialSetupComplete(ctx context.Context, complete bool) error {
	return m.Called(ctx, complete).Error(0)
}

type FlagsMock struct{ mock.Mock }

func (m *FlagsMock) Bool(ctx context.Context, key string, def bool) bool {
	return m.Called(ctx, key, def).Bool(0)
}

type IdentifierMock struct{ mock.Mock }

func (m *IdentifierMock) Identify(ctx context.Context, userID uuid.UUID, ws models.Workspace) {
	m.Called(ctx, userID, ws)
}

type HealthMock struct{ mock.Mock }

func (m *HealthMock) Trigger() { m.Called() }

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

type fixture struct {
	svc      *Service
	repo     *RepoMock
	flags    *FlagsMock
	ident    *IdentifierMock
	health   *HealthMock
	mr       *miniredis.Miniredis
	cache    *cache.Cache
	user     models.User
	session  string
	ws1, ws2 models.Workspace
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	f := &fixture{
		repo:    new(RepoMock),
		flags:   new(FlagsMock),
		ident:   new(IdentifierMock),
		health:  new(HealthMock),
		mr:      mr,
		cache:   &cache.Cache{Db: client},
		user:    models.User{ID: uuid.New(), Email: "jane@acme.io"},
		session: "session-1",
		ws1:     models.Workspace{ID: uuid.New(), CustomerID: uuid.New(), Name: "first"},
		ws2:     models.Workspace{ID: uuid.New(), CustomerID: uuid.New(), Name: "second"},
	}
	f.svc = NewService(f.repo, f.cache, f.flags, f.ident, f.health, time.Minute, time.Hour, newNoopLogger())
	return f
}

func TestService_List_UsesCache(t *testing.T) {
	f := newFixture(t)
	f.repo.On("ListWorkspaces", mock.Anything).Return([]models.Workspace{f.ws1, f.ws2}, nil).Once()

	ctx := context.Background()
	first, err := f.svc.List(ctx)
	require.NoError(t, err)
	second, err := f.svc.List(ctx)
	require.NoError(t, err)

	assert.Equal(t, []models.Workspace{f.ws1, f.ws2}, first)
	assert.Equal(t, first, second)
	f.repo.AssertExpectations(t)
}

func TestService_List_RepoError(t *testing.T) {
	f := newFixture(t)
	f.repo.On("ListWorkspaces", mock.Anything).Return(nil, errors.New("db down"))

	_, err := f.svc.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workspaces.List")
}

func TestService_CompleteSetup(t *testing.T) {
	f := newFixture(t)
	f.repo.On("SetInitialSetupComplete", mock.Anything, true).Return(nil).Once()

	cfg, err := f.svc.CompleteSetup(context.Background())
	require.NoError(t, err)
	assert.True(t, cfg.InitialSetupComplete)
	f.repo.AssertExpectations(t)
}

func TestService_Enter_IdentifiesOncePerWorkspaceChange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.health.On("Trigger").Return()
	f.ident.On("Identify", mock.Anything, f.user.ID, f.ws1).Return().Once()
	f.ident.On("Identify", mock.Anything, f.user.ID, f.ws2).Return().Once()

	// ключ предыдущего рабочего пространства
	require.NoError(t, f.cache.Set(ctx, cache.WorkspaceKey(f.ws1.ID.String(), "cloud"), 1, time.Minute))

	f.svc.Enter(ctx, f.session, f.user, f.ws1)
	f.svc.Enter(ctx, f.session, f.user, f.ws1)
	assert.True(t, f.mr.Exists(cache.WorkspaceKey(f.ws1.ID.String(), "cloud")))

	f.svc.Enter(ctx, f.session, f.user, f.ws2)
	assert.False(t, f.mr.Exists(cache.WorkspaceKey(f.ws1.ID.String(), "cloud")),
		"keys of the previous workspace must be removed")

	f.ident.AssertExpectations(t)
	f.health.AssertNumberOfCalls(t, "Trigger", 3)
}

func TestService_Enter_SwitchClearsAllPreviousKeys(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.health.On("Trigger").Return()
	f.ident.On("Identify", mock.Anything, f.user.ID, mock.Anything).Return()

	f.svc.Enter(ctx, f.session, f.user, f.ws1)
	for i := range 250 {
		key := cache.WorkspaceKey(f.ws1.ID.String(), "item", strconv.Itoa(i))
		require.NoError(t, f.cache.Set(ctx, key, i, time.Minute))
	}
	require.NoError(t, f.cache.Set(ctx, cache.WorkspaceKey(f.ws2.ID.String(), "cloud"), 1, time.Minute))

	f.svc.Enter(ctx, f.session, f.user, f.ws2)

	keys, err := f.cache.Db.Keys(ctx, cache.WorkspaceKey(f.ws1.ID.String())+"*").Result()
	require.NoError(t, err)
	assert.Empty(t, keys)
	assert.True(t, f.mr.Exists(cache.WorkspaceKey(f.ws2.ID.String(), "cloud")))
}

func TestService_Enter_CacheDownStillIdentifies(t *testing.T) {
	f := newFixture(t)
	f.mr.Close()

	f.health.On("Trigger").Return()
	f.ident.On("Identify", mock.Anything, f.user.ID, f.ws1).Return().Once()

	f.svc.Enter(context.Background(), f.session, f.user, f.ws1)
	f.ident.AssertExpectations(t)
}

func TestService_Navigate(t *testing.T) {
	tests := []struct {
		name       string
		setup      bool
		path       string
		query      string
		newUI      bool
		list       func(f *fixture) []models.Workspace
		wantKind   routing.Kind
		wantLoc    func(f *fixture) string
		wantStatus int
		wantEnter  bool
	}{
		{
			name:     "setup incomplete",
			path:     "/connections",
			wantKind: routing.KindRedirect,
			wantLoc:  func(*fixture) string { return "/setup" },
		},
		{
			name:     "legacy path redirects to first workspace",
			setup:    true,
			path:     "/connections",
			query:    "foo=bar",
			list:     func(f *fixture) []models.Workspace { return []models.Workspace{f.ws1, f.ws2} },
			wantKind: routing.KindRedirect,
			wantLoc: func(f *fixture) string {
				return "/workspaces/" + f.ws1.ID.String() + "/connections?foo=bar"
			},
		},
		{
			name:       "no workspaces",
			setup:      true,
			path:       "/connections",
			list:       func(*fixture) []models.Workspace { return []models.Workspace{} },
			wantStatus: http.StatusNotFound,
		},
		{
			name:     "new workspaces ui",
			setup:    true,
			path:     "/workspaces",
			newUI:    true,
			list:     func(f *fixture) []models.Workspace { return []models.Workspace{f.ws1} },
			wantKind: routing.KindWorkspaces,
		},
		{
			name:      "scoped route enters workspace",
			setup:     true,
			path:      "/workspaces/{ws2}/settings",
			list:      func(f *fixture) []models.Workspace { return []models.Workspace{f.ws1, f.ws2} },
			wantKind:  routing.KindMain,
			wantEnter: true,
		},
		{
			name:      "upper-case workspace id enters workspace",
			setup:     true,
			path:      "/workspaces/{WS2}/settings",
			list:      func(f *fixture) []models.Workspace { return []models.Workspace{f.ws1, f.ws2} },
			wantKind:  routing.KindMain,
			wantEnter: true,
		},
		{
			name:       "unknown workspace",
			setup:      true,
			path:       "/workspaces/" + uuid.NewString() + "/settings",
			list:       func(f *fixture) []models.Workspace { return []models.Workspace{f.ws1} },
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.repo.On("GetInstanceConfiguration", mock.Anything).
				Return(models.InstanceConfiguration{InitialSetupComplete: tt.setup}, nil)
			f.flags.On("Bool", mock.Anything, featureflag.NewWorkspacesUI, false).Return(tt.newUI)
			if tt.list != nil {
				f.repo.On("ListWorkspaces", mock.Anything).Return(tt.list(f), nil)
			}
			if tt.wantEnter {
				f.health.On("Trigger").Return().Once()
				f.ident.On("Identify", mock.Anything, f.user.ID, f.ws2).Return().Once()
			}

			path := strings.NewReplacer(
				"{ws2}", f.ws2.ID.String(),
				"{WS2}", strings.ToUpper(f.ws2.ID.String()),
			).Replace(tt.path)

			d, err := f.svc.Navigate(context.Background(), f.session, f.user, path, tt.query)
			if tt.wantStatus != 0 {
				p, ok := problem.As(err)
				require.True(t, ok, "expected problem, got %v", err)
				assert.Equal(t, tt.wantStatus, p.StatusCode())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, d.Kind)
			if tt.wantLoc != nil {
				assert.Equal(t, tt.wantLoc(f), d.Location)
			}
			f.ident.AssertExpectations(t)
			f.health.AssertExpectations(t)
			if !tt.setup {
				f.repo.AssertNotCalled(t, "ListWorkspaces", mock.Anything)
			}
		})
	}
}

func TestService_Navigate_NoWorkspacesKeepsSentinel(t *testing.T) {
	f := newFixture(t)
	f.repo.On("GetInstanceConfiguration", mock.Anything).
		Return(models.InstanceConfiguration{InitialSetupComplete: true}, nil)
	f.repo.On("ListWorkspaces", mock.Anything).Return([]models.Workspace{}, nil)
	f.flags.On("Bool", mock.Anything, featureflag.NewWorkspacesUI, false).Return(false)

	_, err := f.svc.Navigate(context.Background(), f.session, f.user, "/", "")
	assert.ErrorIs(t, err, routing.ErrNoWorkspaces)
}
