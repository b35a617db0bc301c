package model

import "time"

// AdminFAQ is an admin-authored answer. Rows are consulted newest first and take
// precedence over every static data source.
type AdminFAQ struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Question  string    `gorm:"type:text;not null" json:"question"`
	Answer    string    `gorm:"type:text;not null" json:"answer"`
	Keywords  string    `gorm:"type:text" json:"keywords"` // comma separated
	CreatedAt time.Time `json:"ts"`
}

func (AdminFAQ) TableName() string {
	return "admin_faqs"
}

// UnansweredQuery is a question no source could answer, queued for admin review.
// Question text is unique: recording the same question twice is a no-op.
type UnansweredQuery struct {
	ID         uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Question   string     `gorm:"type:text;not null;uniqueIndex" json:"question"`
	Answer     string     `gorm:"type:text" json:"answer"`
	Answered   bool       `gorm:"not null;default:false" json:"answered"`
	CreatedAt  time.Time  `json:"ts"`
	AnsweredAt *time.Time `json:"answered_at"`
	AnsweredBy string     `gorm:"size:100" json:"answered_by"`
}

func (UnansweredQuery) TableName() string {
	return "unanswered_queries"
}
