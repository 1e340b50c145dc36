package user

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("user not found")

type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// Credit score bounds; every adjustment is clamped to this band.
const (
	MinCreditScore = 300
	MaxCreditScore = 850
)

type User struct {
	ID            uint64         `gorm:"primaryKey;column:id" json:"-"`
	UserID        string         `gorm:"size:32;uniqueIndex:ux_users_user_id_active" json:"user_id"`
	Username      string         `gorm:"size:30;uniqueIndex:ux_users_username_active" json:"username"`
	Email         string         `gorm:"size:255" json:"email"`
	FullName      string         `gorm:"size:255" json:"full_name"`
	Role          Role           `gorm:"size:16;default:'user'" json:"role"`
	CreditScore   int            `gorm:"default:500" json:"credit_score"`
	MonthlyIncome float64        `gorm:"type:decimal(18,2)" json:"monthly_income"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string { return "users" }
