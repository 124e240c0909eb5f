package config

import (
	"log"

	"payments-api/internal/adapters/persistence/models"
	"payments-api/internal/pkg/password"

	"gorm.io/gorm"
)

const (
	demoUsername = "demo"
	demoEmail    = "demo@payments.local"
	demoPassword = "demo12345"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedDemoUser(); err != nil {
		return err
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedDemoUser creates a login for local development. It is never
// enabled by default in prod mode.
func (s *Seeder) seedDemoUser() error {
	var count int64
	if err := s.db.Model(&models.User{}).Where("username = ?", demoUsername).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hashedPassword, err := password.Hash(demoPassword)
	if err != nil {
		return err
	}

	demo := &models.User{
		Username: demoUsername,
		Email:    demoEmail,
		Password: hashedPassword,
		Role:     "USER",
	}
	if err := s.db.Create(demo).Error; err != nil {
		return err
	}

	log.Printf("✅ Demo user created: %s / %s", demoUsername, demoPassword)
	return nil
}
