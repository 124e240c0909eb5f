package notify

import (
	"context"
	"log"

	"payments-api/internal/core/domain"
)

// LogNotifier writes notifications to the process log. It is the
// fallback when no delivery channel is configured.
type LogNotifier struct{}

// Notify logs msg
func (LogNotifier) Notify(_ context.Context, msg domain.Notification) error {
	log.Printf("✉️ [%s] to=%s subject=%q key=%s", msg.Kind, msg.Address, msg.Subject, msg.Key)
	return nil
}
