// Package billingstatus собирает биллинговое состояние рабочего
// пространства для консоли: баннер, уровень кредитов и пробный период.
package billingstatus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/cloud-console/internal/billing"
	"github.com/magabrotheeeer/cloud-console/internal/cache"
	"github.com/magabrotheeeer/cloud-console/internal/featureflag"
	"github.com/magabrotheeeer/cloud-console/internal/lib/sl"
	"github.com/magabrotheeeer/cloud-console/internal/metrics"
	"github.com/magabrotheeeer/cloud-console/internal/models"
	"github.com/magabrotheeeer/cloud-console/internal/problem"
	"github.com/magabrotheeeer/cloud-console/internal/storage/repository"
)

// Repository определяет методы чтения биллинговых данных.
type Repository interface {
	GetCloudWorkspace(ctx context.Context, id uuid.UUID) (*models.CloudWorkspace, error)
	GetProgramStatus(ctx context.Context, workspaceID uuid.UUID) (models.ProgramStatus, error)
}

// Cache описывает методы для кэширования входных данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// Flags читает флаги функций.
type Flags interface {
	Bool(ctx context.Context, key string, def bool) bool
}

// Status биллинговое состояние рабочего пространства.
type Status struct {
	WorkspaceID      uuid.UUID               `json:"workspaceId"`
	BannerSeverity   billing.Severity        `json:"bannerSeverity"`
	CreditLevel      billing.CreditLevel     `json:"creditLevel"`
	RemainingCredits *float64                `json:"remainingCredits,omitempty"`
	Trial            billing.TrialState      `json:"trial"`
	BillingAttention bool                    `json:"billingAttention"`
	WorkspaceBanner  billing.WorkspaceBanner `json:"workspaceBanner"`
}

// Service вычисляет биллинговое состояние на каждый запрос.
type Service struct {
	repo      Repository
	cache     Cache
	flags     Flags
	threshold float64
	ttl       time.Duration
	log       *slog.Logger
}

// NewService создает новый экземпляр Service.
func NewService(repo Repository, c Cache, flags Flags, threshold float64, ttl time.Duration, log *slog.Logger) *Service {
	if threshold <= 0 {
		threshold = billing.LowBalanceCreditThreshold
	}
	return &Service{
		repo:      repo,
		cache:     c,
		flags:     flags,
		threshold: threshold,
		ttl:       ttl,
		log:       log,
	}
}

// Policy читает флаги один раз для одной оценки.
func (s *Service) Policy(ctx context.Context) billing.Policy {
	return billing.Policy{
		NewTrialPolicy:   s.flags.Bool(ctx, featureflag.NewTrialPolicy, false),
		SpeedyConnection: s.flags.Bool(ctx, featureflag.SpeedyConnection, false),
		CreditThreshold:  s.threshold,
	}
}

// Status возвращает биллинговое состояние рабочего пространства для пользователя.
func (s *Service) Status(ctx context.Context, workspaceID uuid.UUID, user models.User) (Status, error) {
	const op = "billingstatus.Status"

	ws, err := s.cloudWorkspace(ctx, workspaceID)
	if errors.Is(err, repository.ErrNotFound) {
		return Status{}, problem.Wrap(http.StatusNotFound, fmt.Sprintf("workspace %s not found", workspaceID), err)
	}
	if err != nil {
		return Status{}, fmt.Errorf("%s: %w", op, err)
	}
	program, err := s.programStatus(ctx, workspaceID)
	if err != nil {
		return Status{}, fmt.Errorf("%s: %w", op, err)
	}

	st := Evaluate(*ws, program, user, s.Policy(ctx))
	metrics.BannerSeverity.WithLabelValues(string(st.BannerSeverity)).Inc()
	return st, nil
}

// Evaluate вычисляет состояние по уже загруженным данным и политике.
func Evaluate(ws models.CloudWorkspace, program models.ProgramStatus, user models.User, policy billing.Policy) Status {
	if policy.CreditThreshold <= 0 {
		policy.CreditThreshold = billing.LowBalanceCreditThreshold
	}
	trial := billing.ResolveTrial(ws, policy.NewTrialPolicy)
	severity := billing.SelectBannerSeverity(billing.BannerInput{
		RemainingCredits:          ws.RemainingCredits,
		HasEligibleConnections:    program.HasEligibleConnections,
		HasNonEligibleConnections: program.HasNonEligibleConnections,
		IsEnrolled:                program.IsEnrolled,
		IsPreTrial:                trial.IsPreTrial,
		Threshold:                 policy.CreditThreshold,
	})

	return Status{
		WorkspaceID:      ws.ID,
		BannerSeverity:   severity,
		CreditLevel:      billing.CreditLevelOf(ws.RemainingCredits, policy.CreditThreshold),
		RemainingCredits: ws.RemainingCredits,
		Trial:            trial,
		BillingAttention: billing.NeedsBillingAttention(ws.RemainingCredits, policy.CreditThreshold),
		WorkspaceBanner:  billing.SelectWorkspaceBanner(policy.SpeedyConnection, trial, user.Email),
	}
}

func (s *Service) cloudWorkspace(ctx context.Context, id uuid.UUID) (*models.CloudWorkspace, error) {
	key := cache.WorkspaceKey(id.String(), "cloud")
	var cached models.CloudWorkspace
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("failed to read cloud workspace from cache", sl.Err(err))
	} else if found {
		return &cached, nil
	}

	ws, err := s.repo.GetCloudWorkspace(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, key, ws, s.ttl); err != nil {
		s.log.Warn("failed to cache cloud workspace", sl.Err(err))
	}
	return ws, nil
}

func (s *Service) programStatus(ctx context.Context, id uuid.UUID) (models.ProgramStatus, error) {
	key := cache.WorkspaceKey(id.String(), "program_status")
	var cached models.ProgramStatus
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("failed to read program status from cache", sl.Err(err))
	} else if found {
		return cached, nil
	}

	ps, err := s.repo.GetProgramStatus(ctx, id)
	if err != nil {
		return models.ProgramStatus{}, err
	}
	if err := s.cache.Set(ctx, key, ps, s.ttl); err != nil {
		s.log.Warn("failed to cache program status", sl.Err(err))
	}
	return ps, nil
}
