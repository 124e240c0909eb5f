package models

import (
	"time"

	"payments-api/internal/core/domain"

	"github.com/shopspring/decimal"
)

// Payment represents payments table
type Payment struct {
	ID          uint            `gorm:"primaryKey"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	Currency    string          `gorm:"size:10;not null"`
	Method      string          `gorm:"size:50;not null"`
	Status      string          `gorm:"size:20;not null;index;default:'PENDING'"`
	CreatedAt   time.Time       `gorm:"not null"`
	ProcessedAt *time.Time
	OwnerID     *uint `gorm:"index"`
	Owner       *User `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

func (Payment) TableName() string {
	return "payments"
}

// ToDomain converts the row into a domain payment
func (p *Payment) ToDomain() *domain.Payment {
	return &domain.Payment{
		ID:          p.ID,
		Amount:      p.Amount,
		Currency:    p.Currency,
		Method:      p.Method,
		Status:      domain.PaymentStatus(p.Status),
		CreatedAt:   p.CreatedAt,
		ProcessedAt: p.ProcessedAt,
		OwnerID:     p.OwnerID,
	}
}

// PaymentFromDomain builds a row from a domain payment
func PaymentFromDomain(p *domain.Payment) *Payment {
	return &Payment{
		ID:          p.ID,
		Amount:      p.Amount,
		Currency:    p.Currency,
		Method:      p.Method,
		Status:      string(p.Status),
		CreatedAt:   p.CreatedAt,
		ProcessedAt: p.ProcessedAt,
		OwnerID:     p.OwnerID,
	}
}
