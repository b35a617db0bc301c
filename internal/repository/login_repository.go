package repository

import (
	"college_chatbot_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type LoginRepository struct {
	DB *gorm.DB
}

func NewLoginRepository(db *gorm.DB) *LoginRepository {
	return &LoginRepository{DB: db}
}

type LoginView struct {
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Time  time.Time `json:"time"`
}

func (r *LoginRepository) Create(login *model.Login) error {
	return r.DB.Create(login).Error
}

// Recent lists the latest student logins, newest first.
func (r *LoginRepository) Recent(limit int, staffDomain string) ([]LoginView, error) {
	var out []LoginView
	q := r.DB.Table("logins").
		Select("users.name AS name, logins.email AS email, logins.login_time AS time").
		Joins("JOIN users ON logins.user_id = users.id")
	if staffDomain != "" {
		q = q.Where("logins.email NOT LIKE ?", "%"+staffDomain)
	}
	err := q.Order("logins.login_time DESC").Limit(limit).Scan(&out).Error
	return out, err
}
