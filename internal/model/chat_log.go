package model

import "time"

// ChatLog is one persisted (question, answer) exchange. Entries are append-only
// except for admin replies, which overwrite BotMsg.
type ChatLog struct {
	ID         string     `gorm:"primaryKey;size:36" json:"id"`
	Timestamp  time.Time  `gorm:"index" json:"ts"`
	User       string     `gorm:"size:100;index" json:"user"`
	UserMsg    string     `gorm:"type:text" json:"user_msg"`
	BotMsg     string     `gorm:"type:text" json:"bot_msg"`
	Source     string     `gorm:"size:20" json:"source,omitempty"`
	Offline    bool       `json:"offline"`
	AnsweredBy string     `gorm:"size:100" json:"answered_by,omitempty"`
	AnsweredAt *time.Time `json:"answered_at,omitempty"`
}

func (ChatLog) TableName() string {
	return "chat_logs"
}

// History is a single chat bubble in a user's personal history.
type History struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"-"`
	Username string `gorm:"size:100;index" json:"-"`
	Role     string `gorm:"size:20" json:"-"`
	Sender   string `gorm:"size:20" json:"from"`
	Text     string `gorm:"type:text" json:"text"`
	TS       string `gorm:"column:ts;size:40;index" json:"ts"`
}

func (History) TableName() string {
	return "histories"
}

type Setting struct {
	Key       string    `gorm:"primaryKey;size:100" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Setting) TableName() string {
	return "settings"
}
