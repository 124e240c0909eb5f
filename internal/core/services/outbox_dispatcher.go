package services

import (
	"context"
	"log"
	"sync"
	"time"

	"payments-api/internal/adapters/persistence/repositories"
	"payments-api/internal/config"

	"github.com/robfig/cron/v3"
)

const notifyTimeout = 10 * time.Second

// OutboxDispatcher delivers committed outbox events to the notifier.
// It runs right after a Kick and on the configured cron schedule;
// delivered events are purged daily once past retention.
type OutboxDispatcher struct {
	outboxRepo repositories.OutboxRepository
	notifier   Notifier
	cfg        config.OutboxConfig
	cron       *cron.Cron
	kick       chan struct{}
	stopChan   chan struct{}
	done       chan struct{}
	flushMu    sync.Mutex
	stopOnce   sync.Once
	started    bool
	now        func() time.Time
}

// NewOutboxDispatcher creates a new dispatcher
func NewOutboxDispatcher(outboxRepo repositories.OutboxRepository, notifier Notifier, cfg config.OutboxConfig) *OutboxDispatcher {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	return &OutboxDispatcher{
		outboxRepo: outboxRepo,
		notifier:   notifier,
		cfg:        cfg,
		cron:       cron.New(),
		kick:       make(chan struct{}, 1),
		stopChan:   make(chan struct{}),
		done:       make(chan struct{}),
		now:        time.Now,
	}
}

// Start registers the cron jobs and launches the kick worker
func (d *OutboxDispatcher) Start() error {
	if _, err := d.cron.AddFunc(d.cfg.Schedule, d.sweep); err != nil {
		return err
	}
	if _, err := d.cron.AddFunc("@daily", d.purge); err != nil {
		return err
	}
	d.cron.Start()

	d.started = true
	go d.runKickLoop()

	log.Printf("🚀 OutboxDispatcher started [schedule: %s]", d.cfg.Schedule)
	return nil
}

// Stop waits for running jobs and stops the worker
func (d *OutboxDispatcher) Stop() {
	if !d.started {
		return
	}
	d.stopOnce.Do(func() {
		<-d.cron.Stop().Done()
		close(d.stopChan)
		<-d.done
		log.Println("🛑 OutboxDispatcher stopped")
	})
}

// Kick requests a delivery pass. It never blocks.
func (d *OutboxDispatcher) Kick() {
	select {
	case d.kick <- struct{}{}:
	default:
	}
}

func (d *OutboxDispatcher) runKickLoop() {
	defer close(d.done)

	for {
		select {
		case <-d.kick:
			d.sweep()
		case <-d.stopChan:
			return
		}
	}
}

func (d *OutboxDispatcher) sweep() {
	if _, _, err := d.Flush(context.Background()); err != nil {
		log.Printf("❌ Outbox flush error: %v", err)
	}
}

func (d *OutboxDispatcher) purge() {
	n, err := d.Purge(context.Background())
	if err != nil {
		log.Printf("❌ Outbox purge error: %v", err)
		return
	}
	if n > 0 {
		log.Printf("🗑️ Purged %d delivered outbox events", n)
	}
}

// Flush delivers one batch of pending events. Notifier failures are
// recorded on the event and never returned.
func (d *OutboxDispatcher) Flush(ctx context.Context) (sent, failed int, err error) {
	d.flushMu.Lock()
	defer d.flushMu.Unlock()

	events, err := d.outboxRepo.ListDeliverable(ctx, d.cfg.BatchSize, d.cfg.MaxAttempts)
	if err != nil {
		return 0, 0, err
	}

	for _, event := range events {
		notifyCtx, cancel := context.WithTimeout(ctx, notifyTimeout)
		notifyErr := d.notifier.Notify(notifyCtx, event.Notification())
		cancel()

		if notifyErr != nil {
			failed++
			log.Printf("⚠️ Notification %s (%s) to %s failed, attempt %d/%d: %v",
				event.Key, event.Kind, event.Recipient, event.Attempts+1, d.cfg.MaxAttempts, notifyErr)
			if err := d.outboxRepo.MarkFailed(ctx, event.ID, notifyErr.Error()); err != nil {
				return sent, failed, err
			}
			continue
		}

		sent++
		if err := d.outboxRepo.MarkSent(ctx, event.ID, d.now()); err != nil {
			return sent, failed, err
		}
	}

	if sent > 0 {
		log.Printf("📤 Delivered %d notifications", sent)
	}
	return sent, failed, nil
}

// Purge deletes delivered events older than the retention window
func (d *OutboxDispatcher) Purge(ctx context.Context) (int64, error) {
	if d.cfg.Retention <= 0 {
		return 0, nil
	}
	return d.outboxRepo.PurgeSent(ctx, d.now().Add(-d.cfg.Retention))
}
