package notify

import (
	"context"
	"errors"

	"payments-api/internal/core/domain"
	"payments-api/internal/core/services"
)

// Multi fans a notification out to every notifier and joins their errors
type Multi []services.Notifier

// Notify delivers msg to all notifiers, even after a failure
func (m Multi) Notify(ctx context.Context, msg domain.Notification) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
