package scheduler

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"raffledapp/internal/contract"
	"raffledapp/internal/ledger"
	"raffledapp/internal/logger"
)

// BlockInterval is the simulated distance between the execution steps of
// consecutive deferred calls.
const BlockInterval = time.Second

// Scheduler drains the host's deferred-call queue: each unresolved draw ends
// with the contract scheduling a finalize retry, and the scheduler re-invokes
// the contract as its own operating identity in a fresh execution step.
type Scheduler struct {
	ctx      context.Context
	host     *ledger.Host
	contract *contract.Contract
	interval time.Duration
}

func NewScheduler(ctx context.Context, host *ledger.Host, c *contract.Contract, interval time.Duration) *Scheduler {
	return &Scheduler{
		ctx:      ctx,
		host:     host,
		contract: c,
		interval: interval,
	}
}

// Run polls for deferred calls until the context is cancelled.
func (s *Scheduler) Run() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			logger.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.Drain()
		}
	}
}

// Drain executes every queued deferred call, each as its own execution step.
// A retry whose raffle has already been finalized elsewhere fails the
// record-exists precondition and is dropped as a no-op.
func (s *Scheduler) Drain() {
	for {
		call, ok := s.host.TakeDeferredCall()
		if !ok {
			return
		}

		s.host.AdvanceBlockTime(ledger.Timestamp(BlockInterval.Nanoseconds()))

		err := s.host.Execute(ledger.Call{
			Caller: s.host.ContractAccount(),
			Gas:    call.Budget,
		}, func(ctx ledger.Context) error {
			return s.contract.FinalizeRaffle(ctx, string(call.RaffleID))
		})

		switch {
		case errors.Is(err, contract.ErrUnknownRaffle):
			logger.Debug("deferred finalize arrived after the raffle was settled, skipping",
				zap.String("raffle", string(call.RaffleID)))
		case err != nil:
			logger.Warn("deferred finalize aborted",
				zap.String("raffle", string(call.RaffleID)),
				zap.Error(err))
		}
	}
}
