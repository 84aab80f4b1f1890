// Package jobs holds the scheduled background work.
package jobs

import (
	"context"
	"elearn_backend/pkg/logger"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// StaleOrderExpirer fails payment orders left unconfirmed for too long.
type StaleOrderExpirer interface {
	ExpireStale(ctx context.Context, olderThan time.Duration) (int64, error)
}

// PaymentSweeper periodically expires abandoned Razorpay orders.
type PaymentSweeper struct {
	payments StaleOrderExpirer
	expiry   atomic.Int64
	cron     *cron.Cron
}

func NewPaymentSweeper(payments StaleOrderExpirer, expireAfter time.Duration) *PaymentSweeper {
	s := &PaymentSweeper{payments: payments, cron: cron.New()}
	s.SetExpiry(expireAfter)
	return s
}

// SetExpiry changes the age after which orders are failed. Zero pauses sweeping.
func (s *PaymentSweeper) SetExpiry(d time.Duration) {
	s.expiry.Store(int64(d))
}

func (s *PaymentSweeper) Expiry() time.Duration {
	return time.Duration(s.expiry.Load())
}

// RunOnce performs a single sweep and reports how many orders were failed.
func (s *PaymentSweeper) RunOnce(ctx context.Context) (int64, error) {
	expiry := s.Expiry()
	if expiry <= 0 {
		return 0, nil
	}
	return s.payments.ExpireStale(ctx, expiry)
}

// Start registers the sweep under a robfig/cron schedule such as "@every 10m".
func (s *PaymentSweeper) Start(schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		n, err := s.RunOnce(context.Background())
		if err != nil {
			logger.Log.Error("payment sweep failed", zap.Error(err))
			return
		}
		logger.Log.Debug("payment sweep finished", zap.Int64("expired", n))
	})
	if err != nil {
		return err
	}
	s.cron.Start()
	logger.Log.Info("payment sweeper started", zap.String("schedule", schedule), zap.Duration("expireAfter", s.Expiry()))
	return nil
}

// Stop waits for a running sweep to finish or ctx to expire.
func (s *PaymentSweeper) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}
