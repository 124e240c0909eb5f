package repositories

import (
	"context"
	"errors"

	"payments-api/internal/adapters/persistence/models"
	"payments-api/internal/core/domain"

	"gorm.io/gorm"
)

// paymentRepository implements PaymentRepository interface
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new payment repository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// Create inserts a payment and its outbox events
func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment, events PaymentEvents) (*domain.Payment, error) {
	row := models.PaymentFromDomain(payment)
	row.ID = 0

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(row).Error; err != nil {
			return err
		}
		if events == nil {
			return nil
		}
		return insertEvents(tx, events(row.ToDomain()))
	})
	if err != nil {
		return nil, err
	}

	return row.ToDomain(), nil
}

// GetByID gets a payment by ID
func (r *paymentRepository) GetByID(ctx context.Context, id uint) (*domain.Payment, error) {
	return findPayment(r.db.WithContext(ctx).Where("id = ?", id))
}

// GetByIDForOwner gets a payment by ID only when ownerID owns it
func (r *paymentRepository) GetByIDForOwner(ctx context.Context, id, ownerID uint) (*domain.Payment, error) {
	return findPayment(r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID))
}

// ListByOwner lists the owner's payments, newest first
func (r *paymentRepository) ListByOwner(ctx context.Context, ownerID uint) ([]*domain.Payment, error) {
	var rows []*models.Payment
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	payments := make([]*domain.Payment, 0, len(rows))
	for _, row := range rows {
		payments = append(payments, row.ToDomain())
	}
	return payments, nil
}

// Transition is a compare-and-swap on status: the update only applies
// to a row that is still PENDING.
func (r *paymentRepository) Transition(ctx context.Context, next *domain.Payment, events PaymentEvents) (*domain.Payment, bool, error) {
	var (
		result  *domain.Payment
		applied bool
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Payment{}).
			Where("id = ? AND status = ?", next.ID, string(domain.StatusPending)).
			Updates(map[string]interface{}{
				"status":       string(next.Status),
				"processed_at": next.ProcessedAt,
			})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected == 0 {
			current, err := findPayment(tx.Where("id = ?", next.ID))
			if err != nil {
				return err
			}
			result = current
			return nil
		}

		result = next
		applied = true
		if events == nil {
			return nil
		}
		return insertEvents(tx, events(next))
	})
	if err != nil {
		return nil, false, err
	}

	return result, applied, nil
}

// Delete removes a payment regardless of owner
func (r *paymentRepository) Delete(ctx context.Context, id uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Payment{})
	return res.RowsAffected, res.Error
}

// DeleteForOwner removes a payment only when ownerID owns it
func (r *paymentRepository) DeleteForOwner(ctx context.Context, id, ownerID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, ownerID).Delete(&models.Payment{})
	return res.RowsAffected, res.Error
}

func findPayment(q *gorm.DB) (*domain.Payment, error) {
	var row models.Payment
	if err := q.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, err
	}
	return row.ToDomain(), nil
}
