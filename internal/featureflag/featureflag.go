// Package featureflag читает флаги функций консоли.
//
// Порядок поиска: переопределение из конфигурации, кэш Redis, таблица
// feature_flags, значение по умолчанию. Ошибка на любом шаге не прерывает
// запрос: флаг получает значение по умолчанию.
package featureflag

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/cloud-console/internal/lib/sl"
)

// Известные флаги консоли.
const (
	NewTrialPolicy   = "billing.newTrialPolicy"
	NewWorkspacesUI  = "workspaces.newWorkspacesUI"
	SpeedyConnection = "experiment.speedyConnection"
)

// Store описывает постоянное хранилище флагов.
type Store interface {
	// GetFeatureFlag возвращает значение флага и признак его наличия.
	GetFeatureFlag(ctx context.Context, key string) (enabled bool, found bool, err error)
}

// Cache описывает методы для кэширования значений флагов.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}

// Service отвечает за чтение флагов.
type Service struct {
	overrides map[string]bool
	store     Store
	cache     Cache
	ttl       time.Duration
	log       *slog.Logger
}

// New создает Service. cache может быть nil.
func New(overrides map[string]bool, store Store, cache Cache, ttl time.Duration, log *slog.Logger) *Service {
	return &Service{
		overrides: overrides,
		store:     store,
		cache:     cache,
		ttl:       ttl,
		log:       log,
	}
}

func cacheKey(key string) string {
	return "flag:" + key
}

// Bool возвращает значение флага key или def, если флаг нигде не задан.
func (s *Service) Bool(ctx context.Context, key string, def bool) bool {
	const op = "featureflag.Bool"
	log := s.log.With(slog.String("op", op), slog.String("flag", key))

	if v, ok := s.overrides[key]; ok {
		return v
	}

	if s.cache != nil {
		var cached bool
		found, err := s.cache.Get(ctx, cacheKey(key), &cached)
		if err != nil {
			log.Warn("failed to read flag from cache", sl.Err(err))
		} else if found {
			return cached
		}
	}

	if s.store == nil {
		return def
	}
	enabled, found, err := s.store.GetFeatureFlag(ctx, key)
	if err != nil {
		log.Warn("failed to read flag, using default", sl.Err(err))
		return def
	}
	if !found {
		enabled = def
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey(key), enabled, s.ttl); err != nil {
			log.Warn("failed to cache flag", sl.Err(err))
		}
	}
	return enabled
}
