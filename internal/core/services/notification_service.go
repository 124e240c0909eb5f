package services

import (
	"fmt"
	"time"

	"payments-api/internal/core/domain"

	"github.com/google/uuid"
)

const notificationTimeLayout = "2006-01-02 15:04:05 MST"

// newEvent stamps a notification with a fresh idempotency key
func newEvent(kind domain.OutboxKind, aggregateID uint, to *domain.User, subject, body string) *domain.OutboxEvent {
	return &domain.OutboxEvent{
		Key:         uuid.NewString(),
		Kind:        kind,
		AggregateID: aggregateID,
		Recipient:   to.Email,
		Subject:     subject,
		Body:        body,
		Status:      domain.OutboxPending,
	}
}

// WelcomeNotification is sent once after registration
func WelcomeNotification(user *domain.User) *domain.OutboxEvent {
	body := fmt.Sprintf(`Hello %s,

Thank you for registering with the Payments API!

Your account has been created. You can now log in and start creating payments.

If you have any questions, just reply to this email.

Regards,
The Payments API team`,
		user.Username,
	)

	return newEvent(domain.KindUserRegistered, user.ID, user, "Welcome to the Payments API", body)
}

// PaymentCreatedNotification confirms a new payment request
func PaymentCreatedNotification(user *domain.User, p *domain.Payment) *domain.OutboxEvent {
	body := fmt.Sprintf(`Hello %s,

We received your payment request:
Payment ID: %d
Amount: %s %s
Method: %s
Status: %s
Created at: %s

We will let you know once the payment has been processed.
Thank you for using our platform.`,
		user.Username,
		p.ID,
		p.Amount.StringFixed(2),
		p.Currency,
		p.Method,
		p.Status,
		p.CreatedAt.UTC().Format(notificationTimeLayout),
	)

	return newEvent(domain.KindPaymentCreated, p.ID, user, "Payment created", body)
}

// PaymentProcessedNotification reports the gateway outcome
func PaymentProcessedNotification(user *domain.User, p *domain.Payment) *domain.OutboxEvent {
	processedAt := time.Time{}
	if p.ProcessedAt != nil {
		processedAt = *p.ProcessedAt
	}

	body := fmt.Sprintf(`Hello %s,

Your payment was processed with the following result:
Status: %s
Amount: %s %s
Method: %s
Processed at: %s

Thank you for using our platform.`,
		user.Username,
		p.Status,
		p.Amount.StringFixed(2),
		p.Currency,
		p.Method,
		processedAt.UTC().Format(notificationTimeLayout),
	)

	return newEvent(domain.KindPaymentProcessed, p.ID, user, "Your payment result", body)
}
