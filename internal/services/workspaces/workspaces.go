// Package workspaces содержит сценарии работы с рабочими пространствами:
// листинг, первичную настройку, навигацию консоли и вход в рабочее
// пространство с его побочными эффектами.
package workspaces

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/cloud-console/internal/cache"
	"github.com/magabrotheeeer/cloud-console/internal/featureflag"
	"github.com/magabrotheeeer/cloud-console/internal/lib/sl"
	"github.com/magabrotheeeer/cloud-console/internal/metrics"
	"github.com/magabrotheeeer/cloud-console/internal/models"
	"github.com/magabrotheeeer/cloud-console/internal/problem"
	"github.com/magabrotheeeer/cloud-console/internal/routing"
)

const listCacheKey = "workspaces:list"

// Repository определяет методы хранилища, нужные сервису.
type Repository interface {
	ListWorkspaces(ctx context.Context) ([]models.Workspace, error)
	GetInstanceConfiguration(ctx context.Context) (models.InstanceConfiguration, error)
	SetInitialSetupComplete(ctx context.Context, complete bool) error
}

// Cache описывает методы кэша и сессионного хранилища.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
	// InvalidateWorkspace удаляет все ключи рабочего пространства.
	InvalidateWorkspace(ctx context.Context, workspaceID string) (int, error)
	// SwapSessionWorkspace записывает рабочее пространство сессии и возвращает предыдущее.
	SwapSessionWorkspace(ctx context.Context, sessionID, workspaceID string, ttl time.Duration) (string, error)
}

// Flags читает флаги функций.
type Flags interface {
	Bool(ctx context.Context, key string, def bool) bool
}

// Identifier регистрирует контекст аналитики пользователя.
type Identifier interface {
	Identify(ctx context.Context, userID uuid.UUID, ws models.Workspace)
}

// HealthTrigger запускает опрос доступности API.
type HealthTrigger interface {
	Trigger()
}

// Service реализует сценарии рабочих пространств.
type Service struct {
	repo       Repository
	cache      Cache
	flags      Flags
	identifier Identifier
	health     HealthTrigger
	ttl        time.Duration
	sessionTTL time.Duration
	log        *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, c Cache, flags Flags, identifier Identifier, health HealthTrigger,
	ttl, sessionTTL time.Duration, log *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		cache:      c,
		flags:      flags,
		identifier: identifier,
		health:     health,
		ttl:        ttl,
		sessionTTL: sessionTTL,
		log:        log,
	}
}

// List возвращает рабочие пространства в порядке листинга. Результат кэшируется.
func (s *Service) List(ctx context.Context) ([]models.Workspace, error) {
	const op = "workspaces.List"
	log := s.log.With(slog.String("op", op))

	var cached []models.Workspace
	found, err := s.cache.Get(ctx, listCacheKey, &cached)
	if err != nil {
		log.Warn("failed to read workspaces from cache", sl.Err(err))
	} else if found {
		return cached, nil
	}

	list, err := s.repo.ListWorkspaces(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if list == nil {
		list = []models.Workspace{}
	}
	if err := s.cache.Set(ctx, listCacheKey, list, s.ttl); err != nil {
		log.Warn("failed to cache workspaces", sl.Err(err))
	}
	return list, nil
}

// InstanceConfiguration возвращает конфигурацию развёртывания. Не кэшируется:
// завершение настройки должно быть видно сразу.
func (s *Service) InstanceConfiguration(ctx context.Context) (models.InstanceConfiguration, error) {
	const op = "workspaces.InstanceConfiguration"
	cfg, err := s.repo.GetInstanceConfiguration(ctx)
	if err != nil {
		return models.InstanceConfiguration{}, fmt.Errorf("%s: %w", op, err)
	}
	return cfg, nil
}

// CompleteSetup отмечает первичную настройку завершённой.
func (s *Service) CompleteSetup(ctx context.Context) (models.InstanceConfiguration, error) {
	const op = "workspaces.CompleteSetup"
	if err := s.repo.SetInitialSetupComplete(ctx, true); err != nil {
		return models.InstanceConfiguration{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Invalidate(ctx, listCacheKey); err != nil {
		s.log.Warn("failed to invalidate workspaces cache", slog.String("op", op), sl.Err(err))
	}
	return models.InstanceConfiguration{InitialSetupComplete: true}, nil
}

// Enter фиксирует вход сессии в рабочее пространство ws. При смене
// рабочего пространства регистрирует контекст аналитики и очищает кэш
// предыдущего. Опрос доступности API запускается при первом входе.
func (s *Service) Enter(ctx context.Context, sessionID string, user models.User, ws models.Workspace) {
	const op = "workspaces.Enter"
	log := s.log.With(
		slog.String("op", op),
		sl.UUID("workspace_id", ws.ID),
	)

	s.health.Trigger()

	id := ws.ID.String()
	prev, err := s.cache.SwapSessionWorkspace(ctx, sessionID, id, s.sessionTTL)
	if err != nil {
		// без предыдущего значения регистрируем контекст повторно
		log.Warn("failed to swap session workspace", sl.Err(err))
		s.identifier.Identify(ctx, user.ID, ws)
		return
	}
	if prev == id {
		return
	}

	s.identifier.Identify(ctx, user.ID, ws)
	if prev == "" {
		return
	}

	metrics.WorkspaceSwitches.Inc()
	n, err := s.cache.InvalidateWorkspace(ctx, prev)
	if err != nil {
		log.Warn("failed to invalidate previous workspace cache", slog.String("previous", prev), sl.Err(err))
		return
	}
	log.Debug("previous workspace cache invalidated", slog.String("previous", prev), slog.Int("keys", n))
}

// Navigate решает, что показать по пути path. Для маршрутов внутри
// рабочего пространства выполняется вход в него.
func (s *Service) Navigate(ctx context.Context, sessionID string, user models.User, path, rawQuery string) (routing.Decision, error) {
	const op = "workspaces.Navigate"

	cfg, err := s.InstanceConfiguration(ctx)
	if err != nil {
		return routing.Decision{}, fmt.Errorf("%s: %w", op, err)
	}

	req := routing.Request{
		Path:                 path,
		RawQuery:             rawQuery,
		InitialSetupComplete: cfg.InitialSetupComplete,
		NewWorkspacesUI:      s.flags.Bool(ctx, featureflag.NewWorkspacesUI, false),
	}
	var list []models.Workspace
	if cfg.InitialSetupComplete {
		list, err = s.List(ctx)
		if err != nil {
			return routing.Decision{}, fmt.Errorf("%s: %w", op, err)
		}
		req.Workspaces = list
	}

	decision, err := routing.Resolve(req)
	if errors.Is(err, routing.ErrNoWorkspaces) {
		return routing.Decision{}, problem.Wrap(http.StatusNotFound, "no workspaces available", err)
	}
	if err != nil {
		return routing.Decision{}, fmt.Errorf("%s: %w", op, err)
	}
	metrics.NavigationDecisions.WithLabelValues(string(decision.Kind)).Inc()

	if decision.Kind != routing.KindMain {
		return decision, nil
	}
	ws, ok := findWorkspace(list, decision.WorkspaceID)
	if !ok {
		return routing.Decision{}, problem.NotFound(fmt.Sprintf("workspace %s not found", decision.WorkspaceID))
	}
	s.Enter(ctx, sessionID, user, ws)
	return decision, nil
}

func findWorkspace(list []models.Workspace, id string) (models.Workspace, bool) {
	wsID, err := uuid.Parse(id)
	if err != nil {
		return models.Workspace{}, false
	}
	for _, ws := range list {
		if ws.ID == wsID {
			return ws, true
		}
	}
	return models.Workspace{}, false
}

var _ Cache = (*cache.Cache)(nil)
