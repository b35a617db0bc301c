package repository

import (
	"college_chatbot_backend/internal/model"

	"gorm.io/gorm"
)

type HistoryRepository struct {
	DB *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{DB: db}
}

func (r *HistoryRepository) Create(item *model.History) error {
	return r.DB.Create(item).Error
}

// Page returns one page of a user's history, newest first. Pages start at 1.
func (r *HistoryRepository) Page(username string, page, size int) ([]model.History, int64, error) {
	var items []model.History
	var total int64

	if err := r.DB.Model(&model.History{}).Where("username = ?", username).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.DB.Where("username = ?", username).
		Order("id DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&items).Error
	return items, total, err
}

func (r *HistoryRepository) DeleteByTS(username, ts string) (int64, error) {
	res := r.DB.Where("username = ? AND ts = ?", username, ts).Delete(&model.History{})
	return res.RowsAffected, res.Error
}

func (r *HistoryRepository) Clear(username string) (int64, error) {
	res := r.DB.Where("username = ?", username).Delete(&model.History{})
	return res.RowsAffected, res.Error
}
