package repository

import (
	"college_chatbot_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type ChatLogRepository struct {
	DB *gorm.DB
}

func NewChatLogRepository(db *gorm.DB) *ChatLogRepository {
	return &ChatLogRepository{DB: db}
}

func (r *ChatLogRepository) Create(entry *model.ChatLog) error {
	return r.DB.Create(entry).Error
}

// List returns the log in append order.
func (r *ChatLogRepository) List() ([]model.ChatLog, error) {
	var logs []model.ChatLog
	err := r.DB.Order("timestamp ASC").Find(&logs).Error
	return logs, err
}

func (r *ChatLogRepository) Clear() error {
	return r.DB.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.ChatLog{}).Error
}

// byRef matches an entry by id, or by its RFC 3339 timestamp as older clients send.
func byRef(db *gorm.DB, ref string) *gorm.DB {
	if ts, err := time.Parse(time.RFC3339Nano, ref); err == nil {
		return db.Where("id = ? OR timestamp = ?", ref, ts.UTC())
	}
	return db.Where("id = ?", ref)
}

func (r *ChatLogRepository) Reply(ref, reply, answeredBy string) (int64, error) {
	now := time.Now().UTC()
	res := byRef(r.DB.Model(&model.ChatLog{}), ref).Updates(map[string]interface{}{
		"bot_msg":     reply,
		"answered_by": answeredBy,
		"answered_at": now,
	})
	return res.RowsAffected, res.Error
}

func (r *ChatLogRepository) Delete(ref string) (int64, error) {
	res := byRef(r.DB, ref).Delete(&model.ChatLog{})
	return res.RowsAffected, res.Error
}
