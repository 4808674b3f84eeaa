package models

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Role is the portal a user is routed to after login.
type Role string

const (
	RoleStudent Role = "Student"
	RoleFaculty Role = "Faculty"
	RoleAdmin   Role = "Admin"
)

// ParseRole returns the Role for s and whether it is known.
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleStudent, RoleFaculty, RoleAdmin:
		return r, true
	}
	return "", false
}

// User is a portal account. Students and faculty submit grievances,
// admins triage them.
type User struct {
	ID            string  `gorm:"primaryKey;type:uuid" json:"id"`
	Email         string  `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash  []byte  `gorm:"not null" json:"-"`
	Role          Role    `gorm:"type:text;not null" json:"role"`
	FullName      string  `gorm:"not null" json:"full_name"`
	InstitutionID string  `gorm:"not null" json:"institution_id"` // roll number or employee code
	Department    *string `json:"department,omitempty"`
	Language      string  `gorm:"type:text;default:'en'" json:"language"`
	// TelegramChatID is set once the user links the notification bot.
	TelegramChatID *int64    `gorm:"uniqueIndex" json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID for the user if ID is not set yet.
func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.Language == "" {
		u.Language = "en"
	}
	return
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasTelegram reports whether status notifications can be delivered.
func (u *User) HasTelegram() bool {
	return u.TelegramChatID != nil && *u.TelegramChatID != 0
}
