// Package health периодически опрашивает API конфигурации и хранит
// результат последней проверки.
package health

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/magabrotheeeer/cloud-console/internal/lib/sl"
	"github.com/magabrotheeeer/cloud-console/internal/metrics"
)

// Status результат последней проверки.
type Status struct {
	Started   bool      `json:"started"`
	Up        bool      `json:"up"`
	CheckedAt time.Time `json:"checked_at,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Poller запускает проверки по расписанию после первого Trigger.
type Poller struct {
	probe    Probe
	interval time.Duration
	timeout  time.Duration
	log      *slog.Logger

	cron   *cron.Cron
	once   sync.Once
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.RWMutex
	status Status
}

// NewPoller создает Poller. Расписание не запускается до вызова Trigger.
func NewPoller(probe Probe, interval, timeout time.Duration, log *slog.Logger) *Poller {
	ctx, cancel := context.WithCancel(context.Background())
	return &Poller{
		probe:    probe,
		interval: interval,
		timeout:  timeout,
		log:      log,
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Trigger запускает расписание и немедленную проверку. Повторные вызовы
// ничего не делают.
func (p *Poller) Trigger() {
	p.once.Do(func() {
		const op = "health.Trigger"
		if _, err := p.cron.AddFunc(fmt.Sprintf("@every %s", p.interval), p.check); err != nil {
			p.log.Error("failed to schedule health check", slog.String("op", op), sl.Err(err))
			return
		}
		p.mu.Lock()
		p.status.Started = true
		p.mu.Unlock()

		p.cron.Start()
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			p.check()
		}()
	})
}

// Status возвращает результат последней проверки.
func (p *Poller) Status() Status {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.status
}

// Stop останавливает расписание и дожидается выполняющихся проверок.
func (p *Poller) Stop() {
	p.cancel()
	<-p.cron.Stop().Done()
	p.wg.Wait()
}

func (p *Poller) check() {
	const op = "health.check"
	ctx, cancel := context.WithTimeout(p.ctx, p.timeout)
	defer cancel()

	err := p.probe.Check(ctx)

	p.mu.Lock()
	p.status.CheckedAt = time.Now()
	p.status.Up = err == nil
	p.status.Error = ""
	if err != nil {
		p.status.Error = err.Error()
	}
	p.mu.Unlock()

	if err != nil {
		metrics.HealthUp.Set(0)
		metrics.HealthChecks.WithLabelValues("down").Inc()
		p.log.Warn("config API is unavailable", slog.String("op", op), sl.Err(err))
		return
	}
	metrics.HealthUp.Set(1)
	metrics.HealthChecks.WithLabelValues("up").Inc()
}
