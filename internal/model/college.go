package model

// College reference tables curated by admins. Every table is keyed by its natural
// key so an update is an insert-or-replace.

type GeneralInfo struct {
	Key   string `gorm:"primaryKey;size:191" json:"key"`
	Value string `gorm:"type:text" json:"value"`
}

func (GeneralInfo) TableName() string {
	return "general_info"
}

type Course struct {
	CourseCode string `gorm:"primaryKey;size:50" json:"course_code"`
	CourseName string `gorm:"size:255" json:"course_name"`
	Details    string `gorm:"type:text" json:"details"`
}

func (Course) TableName() string {
	return "courses"
}

type Faculty struct {
	FacultyID  string `gorm:"primaryKey;size:50" json:"faculty_id"`
	Name       string `gorm:"size:255" json:"name"`
	Department string `gorm:"size:100" json:"department"`
	Details    string `gorm:"type:text" json:"details"`
}

func (Faculty) TableName() string {
	return "faculty"
}

type FeeStructure struct {
	CourseType string `gorm:"primaryKey;size:100" json:"course_type"`
	Amount     string `gorm:"size:100" json:"amount"`
	Details    string `gorm:"type:text" json:"details"`
}

func (FeeStructure) TableName() string {
	return "fee_structure"
}

type Timetable struct {
	Day       string `gorm:"primaryKey;size:20" json:"day"`
	TimeSlot  string `gorm:"primaryKey;size:50" json:"time_slot"`
	CourseID  string `gorm:"primaryKey;size:50" json:"course_id"`
	FacultyID string `gorm:"size:50" json:"faculty_id"`
	Room      string `gorm:"size:50" json:"room"`
}

func (Timetable) TableName() string {
	return "timetable"
}
