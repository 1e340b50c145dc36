package db

import (
	"log"
	"time"

	"lendsim/internal/domain/adminaction"
	"lendsim/internal/domain/loan"
	"lendsim/internal/domain/payment"
	"lendsim/internal/domain/simclock"
	"lendsim/internal/domain/user"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func OpenGorm(dsn string) (*gorm.DB, error) {
	return OpenGormWithDialector(mysql.Open(dsn))
}

func OpenGormWithDialector(dial gorm.Dialector) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}
	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	log.Println("gorm: connected")
	return db, nil
}

// Migrate creates the five ledger tables and seeds the simulated clock row
// if it does not exist yet.
func Migrate(db *gorm.DB, initialSimTime time.Time) error {
	if err := db.AutoMigrate(
		&user.User{},
		&loan.Loan{},
		&payment.Payment{},
		&adminaction.Log{},
		&simclock.SystemTime{},
	); err != nil {
		return err
	}
	var n int64
	if err := db.Model(&simclock.SystemTime{}).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		row := simclock.SystemTime{ID: 1, CurrentSimulatedDatetime: initialSimTime.UTC()}
		return db.Create(&row).Error
	}
	return nil
}
