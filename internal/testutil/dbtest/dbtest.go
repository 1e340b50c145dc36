// Package dbtest opens throwaway in-memory sqlite databases for tests that
// exercise real transactions instead of mocks. Schema and clock seeding go
// through the same Migrate the server uses.
package dbtest

import (
	"testing"
	"time"

	"lendsim/internal/adapter/repository/mysql"
	"lendsim/internal/domain/uow"
	"lendsim/internal/domain/user"
	infradb "lendsim/internal/infrastructure/db"
	"lendsim/pkg/id"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open creates an in-memory sqlite database, migrates the full schema, and
// seeds the simulated clock at initialSimTime.
func Open(t *testing.T, initialSimTime time.Time) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := infradb.Migrate(db, initialSimTime); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// Repos builds the full repository set plus the unit of work on top of db.
func Repos(db *gorm.DB) (uow.Repos, uow.UnitOfWork) {
	r := uow.Repos{
		Users:    mysql.NewUserRepository(db),
		Loans:    mysql.NewLoanRepository(db),
		Payments: mysql.NewPaymentRepository(db),
		Actions:  mysql.NewAdminActionRepository(db),
		Clock:    mysql.NewSimClockRepository(db),
	}
	return r, mysql.NewGormUoW(db)
}

// SeedUser inserts a borrower with the given credit score and returns it.
func SeedUser(t *testing.T, db *gorm.DB, creditScore int) *user.User {
	t.Helper()
	u := &user.User{
		UserID:      id.NewID32(),
		Username:    id.NewID32()[:12],
		Email:       id.NewID32()[:8] + "@example.com",
		FullName:    "Test Borrower",
		Role:        user.RoleUser,
		CreditScore: creditScore,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}
