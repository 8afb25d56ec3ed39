// Package jobs runs periodic background work next to the HTTP server.
package jobs

import (
	"context"
	"time"

	"github.com/mallikarjuna-sindiri/sendy/internal/log"
	"github.com/mallikarjuna-sindiri/sendy/internal/metrics"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type LiveCounter interface {
	CountLiveDomains(ctx context.Context, now time.Time) (int64, error)
	CountLiveTokens(ctx context.Context, now time.Time) (int64, error)
}

// Scheduler refreshes the live domain and token gauges.
type Scheduler struct {
	c       *cron.Cron
	store   LiveCounter
	timeout time.Duration
}

func NewScheduler(store LiveCounter) *Scheduler {
	return &Scheduler{
		c:       cron.New(),
		store:   store,
		timeout: 10 * time.Second,
	}
}

// Start registers the stats job on schedule (robfig syntax, e.g. "@every 1m")
// and starts the cron loop.
func (s *Scheduler) Start(schedule string) error {
	if _, err := s.c.AddFunc(schedule, s.RefreshStats); err != nil {
		return err
	}
	s.c.Start()
	log.L().Info("cron scheduler started", zap.String("stats", schedule))
	return nil
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.c.Stop().Done()
}

func (s *Scheduler) RefreshStats() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	now := time.Now().UTC()

	domains, err := s.store.CountLiveDomains(ctx, now)
	if err != nil {
		log.L().Warn("count live domains failed", zap.Error(err))
		return
	}
	tokens, err := s.store.CountLiveTokens(ctx, now)
	if err != nil {
		log.L().Warn("count live tokens failed", zap.Error(err))
		return
	}
	metrics.LiveDomains.Set(float64(domains))
	metrics.LiveTokens.Set(float64(tokens))
}
