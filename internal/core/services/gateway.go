package services

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// OutcomeSource returns a sample in [0,1)
type OutcomeSource func() float64

// RandomOutcome is an OutcomeSource backed by a locked math/rand source
func RandomOutcome() OutcomeSource {
	var mu sync.Mutex
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	return func() float64 {
		mu.Lock()
		defer mu.Unlock()
		return r.Float64()
	}
}

// FixedOutcome always approves or always rejects
func FixedOutcome(approve bool) OutcomeSource {
	return func() float64 {
		if approve {
			return 0
		}
		return 1
	}
}

// SimulatedGateway approves a payment with a fixed probability after a
// fixed delay. It never talks to a real processor.
type SimulatedGateway struct {
	delay        time.Duration
	approvalRate float64
	source       OutcomeSource
}

// NewSimulatedGateway creates a simulated gateway
func NewSimulatedGateway(delay time.Duration, approvalRate float64, source OutcomeSource) *SimulatedGateway {
	if source == nil {
		source = RandomOutcome()
	}
	return &SimulatedGateway{
		delay:        delay,
		approvalRate: approvalRate,
		source:       source,
	}
}

// Evaluate blocks for the configured delay and returns the outcome.
// Amount and method do not influence the decision.
func (g *SimulatedGateway) Evaluate(ctx context.Context, _ decimal.Decimal, _ string) (bool, error) {
	if g.delay > 0 {
		timer := time.NewTimer(g.delay)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}

	return g.source() < g.approvalRate, nil
}
