package repository

import (
	"college_chatbot_backend/internal/model"
	"strings"
	"time"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) UpdateLastLogin(userID uint, at time.Time) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_login", at).
		Error
}

// ListStudents returns every user whose email is outside the staff domain.
func (r *UserRepository) ListStudents(staffDomain string) ([]model.User, error) {
	var users []model.User
	q := r.DB.Order("id ASC")
	if staffDomain != "" {
		q = q.Where("email NOT LIKE ?", "%"+staffDomain)
	}
	err := q.Find(&users).Error
	return users, err
}

func (r *UserRepository) UpdateMarks(email, marks string, notes *string) (int64, error) {
	updates := map[string]interface{}{"marks": marks}
	if notes != nil {
		updates["notes"] = *notes
	}
	res := r.DB.Model(&model.User{}).Where("email = ?", email).Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *UserRepository) FindWithoutName() ([]model.User, error) {
	var users []model.User
	err := r.DB.Where("name IS NULL OR TRIM(name) = ''").Find(&users).Error
	return users, err
}

func (r *UserRepository) UpdateName(userID uint, name string) error {
	return r.DB.Model(&model.User{}).Where("id = ?", userID).Update("name", name).Error
}

// BackfillCreatedAt sets created_at on rows imported without one.
func (r *UserRepository) BackfillCreatedAt(at time.Time) (int64, error) {
	res := r.DB.Model(&model.User{}).
		Where("created_at IS NULL OR created_at = ''").
		Update("created_at", at)
	return res.RowsAffected, res.Error
}

// DeleteWithActivity removes a user together with their logins, history and chat
// log rows in one transaction. It returns the number of user rows removed.
func (r *UserRepository) DeleteWithActivity(email string) (int64, error) {
	var deleted int64
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("email = ?", email).Delete(&model.User{})
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected

		if err := tx.Where("email = ?", email).Delete(&model.Login{}).Error; err != nil {
			return err
		}
		if err := tx.Where("username = ? OR role = ?", email, email).Delete(&model.History{}).Error; err != nil {
			return err
		}
		handle := email
		if i := strings.Index(email, "@"); i > 0 {
			handle = email[:i]
		}
		return tx.Where("user = ? OR user = ?", email, handle).Delete(&model.ChatLog{}).Error
	})
	return deleted, err
}
