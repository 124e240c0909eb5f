package domain

import "time"

// Role represents user role in the system
type Role string

const (
	RoleUser Role = "USER"
)

// User represents a registered account in the domain layer
type User struct {
	ID           uint
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// OutboxKind identifies the notification an outbox event carries
type OutboxKind string

const (
	KindUserRegistered   OutboxKind = "user.registered"
	KindPaymentCreated   OutboxKind = "payment.created"
	KindPaymentProcessed OutboxKind = "payment.processed"
)

// OutboxStatus is the delivery state of an outbox event
type OutboxStatus string

const (
	OutboxPending OutboxStatus = "PENDING"
	OutboxSent    OutboxStatus = "SENT"
	OutboxFailed  OutboxStatus = "FAILED"
)

// OutboxEvent is a notification recorded in the same transaction as the
// state change it describes and delivered after commit.
type OutboxEvent struct {
	ID          uint
	Key         string
	Kind        OutboxKind
	AggregateID uint
	Recipient   string
	Subject     string
	Body        string
	Status      OutboxStatus
	Attempts    int
	LastError   string
	CreatedAt   time.Time
	SentAt      *time.Time
}

// Notification is a message handed to a notifier
type Notification struct {
	Key     string
	Kind    OutboxKind
	Address string
	Subject string
	Body    string
}

// Notification returns the message an outbox event delivers
func (e *OutboxEvent) Notification() Notification {
	return Notification{
		Key:     e.Key,
		Kind:    e.Kind,
		Address: e.Recipient,
		Subject: e.Subject,
		Body:    e.Body,
	}
}
