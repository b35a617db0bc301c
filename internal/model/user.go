package model

import (
	"time"
)

type UserRole string

const (
	Student UserRole = "Student"
	Admin   UserRole = "Admin"
)

type User struct {
	BaseModel
	Name             string     `gorm:"size:100;not null" json:"name"`
	Email            string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Mobile           string     `gorm:"size:20" json:"mobile"`
	PasswordHash     string     `gorm:"size:100;not null" json:"-"`
	SecurityQuestion string     `gorm:"size:255" json:"-"`
	SecurityAnswer   string     `gorm:"size:255" json:"-"`
	LastLogin        *time.Time `json:"lastLogin,omitempty"`
	Marks            string     `gorm:"type:text" json:"marks"`
	Notes            string     `gorm:"type:text" json:"notes"`
}

func (User) TableName() string {
	return "users"
}

// Login is one successful sign-in, kept for the admin dashboard.
type Login struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"index" json:"userId"`
	Email     string    `gorm:"size:100;index;not null" json:"email"`
	LoginTime time.Time `gorm:"index" json:"time"`
	IPAddress string    `gorm:"size:64" json:"ipAddress"`
}

func (Login) TableName() string {
	return "logins"
}
