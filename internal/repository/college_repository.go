package repository

import (
	"college_chatbot_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CollegeRepository owns the curated reference tables: general_info, courses,
// faculty, fee_structure and timetable.
type CollegeRepository struct {
	DB *gorm.DB
}

func NewCollegeRepository(db *gorm.DB) *CollegeRepository {
	return &CollegeRepository{DB: db}
}

func (r *CollegeRepository) GeneralInfo() (map[string]string, error) {
	var rows []model.GeneralInfo
	if err := r.DB.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]string, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Value
	}
	return out, nil
}

func (r *CollegeRepository) Courses() ([]model.Course, error) {
	var rows []model.Course
	err := r.DB.Order("course_code").Find(&rows).Error
	return rows, err
}

func (r *CollegeRepository) Faculty() ([]model.Faculty, error) {
	var rows []model.Faculty
	err := r.DB.Order("faculty_id").Find(&rows).Error
	return rows, err
}

func (r *CollegeRepository) FeeStructure() ([]model.FeeStructure, error) {
	var rows []model.FeeStructure
	err := r.DB.Order("course_type").Find(&rows).Error
	return rows, err
}

func (r *CollegeRepository) Timetable() ([]model.Timetable, error) {
	var rows []model.Timetable
	err := r.DB.Order("day, time_slot").Find(&rows).Error
	return rows, err
}

// UpsertWithMirror inserts or replaces row by its primary key and, when mirror is
// not nil, adds it as an admin FAQ. Both writes share one transaction.
func (r *CollegeRepository) UpsertWithMirror(row interface{}, mirror *model.AdminFAQ) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(row).Error; err != nil {
			return err
		}
		if mirror == nil {
			return nil
		}
		return tx.Create(mirror).Error
	})
}

// DeleteRow removes row by the primary key values set on it.
func (r *CollegeRepository) DeleteRow(row interface{}) (int64, error) {
	res := r.DB.Delete(row)
	return res.RowsAffected, res.Error
}
