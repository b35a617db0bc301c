package repository

import (
	"college_chatbot_backend/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UnansweredRepository struct {
	DB *gorm.DB
}

func NewUnansweredRepository(db *gorm.DB) *UnansweredRepository {
	return &UnansweredRepository{DB: db}
}

// RecordUnanswered queues question. The unique index on question turns repeats into
// no-ops.
func (r *UnansweredRepository) RecordUnanswered(ctx context.Context, question string) error {
	_, err := r.Record(ctx, question, time.Time{})
	return err
}

// Record inserts question with the given timestamp (now when zero) and reports
// whether a row was added.
func (r *UnansweredRepository) Record(ctx context.Context, question string, at time.Time) (bool, error) {
	row := &model.UnansweredQuery{Question: question, CreatedAt: at}
	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "question"}}, DoNothing: true}).
		Create(row)
	return res.RowsAffected > 0, res.Error
}

func (r *UnansweredRepository) List() ([]model.UnansweredQuery, error) {
	var out []model.UnansweredQuery
	err := r.DB.Order("id DESC").Find(&out).Error
	return out, err
}

func (r *UnansweredRepository) FindByID(id uint) (*model.UnansweredQuery, error) {
	var q model.UnansweredQuery
	err := r.DB.First(&q, id).Error
	return &q, err
}

// AnswerAndPromote marks the query answered and stores faq for future lookups. Both
// writes commit together or not at all.
func (r *UnansweredRepository) AnswerAndPromote(id uint, answer, answeredBy string, faq *model.AdminFAQ) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		now := time.Now().UTC()
		res := tx.Model(&model.UnansweredQuery{}).
			Where("id = ?", id).
			Updates(map[string]interface{}{
				"answer":      answer,
				"answered":    true,
				"answered_at": now,
				"answered_by": answeredBy,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return tx.Create(faq).Error
	})
}
