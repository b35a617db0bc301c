package repository

import (
	"college_chatbot_backend/internal/model"
	"context"

	"gorm.io/gorm"
)

type AdminFAQRepository struct {
	DB *gorm.DB
}

func NewAdminFAQRepository(db *gorm.DB) *AdminFAQRepository {
	return &AdminFAQRepository{DB: db}
}

func (r *AdminFAQRepository) Create(faq *model.AdminFAQ) error {
	return r.DB.Create(faq).Error
}

func (r *AdminFAQRepository) ListNewestFirst(ctx context.Context) ([]model.AdminFAQ, error) {
	var faqs []model.AdminFAQ
	err := r.DB.WithContext(ctx).Order("id DESC").Find(&faqs).Error
	return faqs, err
}

func (r *AdminFAQRepository) Delete(id uint) (int64, error) {
	res := r.DB.Delete(&model.AdminFAQ{}, id)
	return res.RowsAffected, res.Error
}
