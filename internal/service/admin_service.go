package service

import (
	"college_chatbot_backend/internal/config"
	"college_chatbot_backend/internal/model"
	"college_chatbot_backend/internal/qa"
	"college_chatbot_backend/internal/repository"
	"college_chatbot_backend/internal/util"
	"college_chatbot_backend/pkg/logger"
	"errors"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// College tables editable through the admin data endpoint.
const (
	TableGeneralInfo  = "general_info"
	TableCourses      = "courses"
	TableFaculty      = "faculty"
	TableFeeStructure = "fee_structure"
	TableTimetable    = "timetable"
)

// Data actions. Insert is accepted and behaves as update.
const (
	ActionRead   = "read"
	ActionInsert = "insert"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// MissingFieldError reports a required key absent from a data request.
type MissingFieldError struct {
	Message string
}

func (e *MissingFieldError) Error() string { return e.Message }

func (e *MissingFieldError) Is(target error) bool { return target == util.ErrMissingKey }

// ActionFailedError reports a write that changed nothing, e.g. deleting a missing row.
type ActionFailedError struct {
	Action string
}

func (e *ActionFailedError) Error() string { return capitalize(e.Action) + " failed" }

type AdminService struct {
	FAQRepo        *repository.AdminFAQRepository
	UnansweredRepo *repository.UnansweredRepository
	CollegeRepo    *repository.CollegeRepository
	UserRepo       *repository.UserRepository
	LoginRepo      *repository.LoginRepository
	Cfg            *config.Config
}

func NewAdminService(faqRepo *repository.AdminFAQRepository, unansweredRepo *repository.UnansweredRepository,
	collegeRepo *repository.CollegeRepository, userRepo *repository.UserRepository,
	loginRepo *repository.LoginRepository, cfg *config.Config) *AdminService {
	return &AdminService{
		FAQRepo:        faqRepo,
		UnansweredRepo: unansweredRepo,
		CollegeRepo:    collegeRepo,
		UserRepo:       userRepo,
		LoginRepo:      loginRepo,
		Cfg:            cfg,
	}
}

// normalizeKeywords lowercases each comma-separated keyword and drops empty ones.
func normalizeKeywords(raw string) string {
	var out []string
	for _, k := range strings.Split(raw, ",") {
		if k = qa.Normalize(k); k != "" {
			out = append(out, k)
		}
	}
	return strings.Join(out, ",")
}

func newAdminFAQ(question, answer, keywords string) *model.AdminFAQ {
	return &model.AdminFAQ{
		Question: qa.Normalize(question),
		Answer:   strings.TrimSpace(answer),
		Keywords: normalizeKeywords(keywords),
	}
}

// Admin FAQs

func (s *AdminService) ListFAQs(ctx context.Context) ([]model.AdminFAQ, error) {
	return s.FAQRepo.ListNewestFirst(ctx)
}

func (s *AdminService) CreateFAQ(question, answer, keywords string) (*model.AdminFAQ, error) {
	faq := newAdminFAQ(question, answer, keywords)
	if faq.Question == "" || faq.Answer == "" {
		return nil, &MissingFieldError{Message: "missing parameters"}
	}
	if err := s.FAQRepo.Create(faq); err != nil {
		return nil, err
	}
	return faq, nil
}

func (s *AdminService) DeleteFAQ(id uint) error {
	n, err := s.FAQRepo.Delete(id)
	if err != nil {
		return err
	}
	if n == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Unanswered queue

func (s *AdminService) ListUnanswered() ([]model.UnansweredQuery, error) {
	return s.UnansweredRepo.List()
}

// AnswerUnanswered marks the query answered and promotes it to an admin FAQ so
// the next identical question is answered directly. question overrides the stored
// question text when set.
func (s *AdminService) AnswerUnanswered(id uint, answer, question, keywords, adminEmail string) error {
	if strings.TrimSpace(answer) == "" {
		return &MissingFieldError{Message: "missing parameters"}
	}
	row, err := s.UnansweredRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQueryNotFound
		}
		return err
	}
	if strings.TrimSpace(question) == "" {
		question = row.Question
	}

	err = s.UnansweredRepo.AnswerAndPromote(id, answer, adminEmail, newAdminFAQ(question, answer, keywords))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrQueryNotFound
	}
	return err
}

// College data

type CollegeData struct {
	GeneralInfo  map[string]string    `json:"general_info"`
	Courses      []model.Course       `json:"courses"`
	Faculty      []model.Faculty      `json:"faculty"`
	FeeStructure []model.FeeStructure `json:"fee_structure"`
	Timetable    []model.Timetable    `json:"timetable"`
}

func (s *AdminService) AllData() (*CollegeData, error) {
	var (
		out CollegeData
		err error
	)
	if out.GeneralInfo, err = s.CollegeRepo.GeneralInfo(); err != nil {
		return nil, err
	}
	if out.Courses, err = s.CollegeRepo.Courses(); err != nil {
		return nil, err
	}
	if out.Faculty, err = s.CollegeRepo.Faculty(); err != nil {
		return nil, err
	}
	if out.FeeStructure, err = s.CollegeRepo.FeeStructure(); err != nil {
		return nil, err
	}
	if out.Timetable, err = s.CollegeRepo.Timetable(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *AdminService) ReadTable(table string) (interface{}, error) {
	switch table {
	case TableGeneralInfo:
		return s.CollegeRepo.GeneralInfo()
	case TableCourses:
		return s.CollegeRepo.Courses()
	case TableFaculty:
		return s.CollegeRepo.Faculty()
	case TableFeeStructure:
		return s.CollegeRepo.FeeStructure()
	case TableTimetable:
		return s.CollegeRepo.Timetable()
	}
	return nil, util.ErrUnknownTable
}

// DataRequest is a write against one college table. Fields are looked up in Data
// first, then in the top level of the request body.
type DataRequest struct {
	Table  string
	Action string
	Data   map[string]interface{}
	Top    map[string]interface{}
}

func (r DataRequest) field(name string) string {
	if v := stringValue(r.Data[name]); v != "" {
		return v
	}
	return stringValue(r.Top[name])
}

func stringValue(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}

// WriteTable applies an update or delete and returns the success message. Updates
// are insert-or-replace and also store an admin FAQ mirroring the row, in the same
// transaction.
func (s *AdminService) WriteTable(req DataRequest) (string, error) {
	action := strings.ToLower(strings.TrimSpace(req.Action))
	if action == "" || action == ActionInsert {
		action = ActionUpdate
	}

	row, mirror, err := buildRow(req)
	if err != nil {
		return "", err
	}

	switch action {
	case ActionUpdate:
		if err := s.CollegeRepo.UpsertWithMirror(row, mirror); err != nil {
			return "", err
		}
	case ActionDelete:
		n, err := s.CollegeRepo.DeleteRow(row)
		if err != nil {
			return "", err
		}
		if n == 0 {
			return "", &ActionFailedError{Action: action}
		}
	default:
		return "", &ActionFailedError{Action: action}
	}

	logger.Log.Info("College data changed",
		zap.String("table", req.Table),
		zap.String("action", action))
	return capitalize(action) + " successful", nil
}

// buildRow maps a request onto the table model and the admin FAQ that mirrors it.
func buildRow(req DataRequest) (interface{}, *model.AdminFAQ, error) {
	mirror := func(question, answer, keywords string) *model.AdminFAQ {
		return &model.AdminFAQ{
			Question: question,
			Answer:   strings.TrimSpace(answer),
			Keywords: keywords,
		}
	}

	switch req.Table {
	case TableGeneralInfo:
		key, value := req.field("key"), req.field("value")
		if key == "" {
			return nil, nil, &MissingFieldError{Message: "missing key"}
		}
		return &model.GeneralInfo{Key: key, Value: value}, mirror(key, value, ""), nil

	case TableCourses:
		code, name, details := req.field("course_code"), req.field("course_name"), req.field("details")
		if code == "" {
			return nil, nil, &MissingFieldError{Message: "missing course_code"}
		}
		return &model.Course{CourseCode: code, CourseName: name, Details: details},
			mirror(code, name+"\n\n"+details, name), nil

	case TableFaculty:
		id, name := req.field("faculty_id"), req.field("name")
		dept, details := req.field("department"), req.field("details")
		if id == "" {
			return nil, nil, &MissingFieldError{Message: "missing faculty_id"}
		}
		return &model.Faculty{FacultyID: id, Name: name, Department: dept, Details: details},
			mirror(id, fmt.Sprintf("%s (%s)\n\n%s", name, dept, details), name), nil

	case TableFeeStructure:
		courseType, amount, details := req.field("course_type"), req.field("amount"), req.field("details")
		if courseType == "" {
			return nil, nil, &MissingFieldError{Message: "missing course_type"}
		}
		return &model.FeeStructure{CourseType: courseType, Amount: amount, Details: details},
			mirror(courseType, fmt.Sprintf("Fees for %s: %s\n\n%s", courseType, amount, details), ""), nil

	case TableTimetable:
		day, slot, course := req.field("day"), req.field("time_slot"), req.field("course_id")
		faculty, room := req.field("faculty_id"), req.field("room")
		if day == "" || slot == "" || course == "" {
			return nil, nil, &MissingFieldError{Message: "missing timetable keys"}
		}
		return &model.Timetable{Day: day, TimeSlot: slot, CourseID: course, FacultyID: faculty, Room: room},
			mirror(fmt.Sprintf("%s %s %s", course, day, slot),
				fmt.Sprintf("Timetable: %s %s - %s in %s (Faculty: %s)", day, slot, course, room, faculty),
				course), nil
	}
	return nil, nil, util.ErrUnknownTable
}

// Students

type StudentView struct {
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Marks      string    `json:"marks"`
	Notes      string    `json:"notes"`
	Registered time.Time `json:"registered"`
}

func (s *AdminService) ListStudents() ([]StudentView, error) {
	users, err := s.UserRepo.ListStudents(s.Cfg.Auth.StaffDomain)
	if err != nil {
		return nil, err
	}
	out := make([]StudentView, 0, len(users))
	for _, u := range users {
		out = append(out, StudentView{
			Name:       u.Name,
			Email:      u.Email,
			Marks:      u.Marks,
			Notes:      u.Notes,
			Registered: u.CreatedAt,
		})
	}
	return out, nil
}

func (s *AdminService) UpdateStudent(email, marks string, notes *string) error {
	if strings.TrimSpace(email) == "" {
		return &MissingFieldError{Message: "email required"}
	}
	n, err := s.UserRepo.UpdateMarks(email, marks, notes)
	if err != nil {
		return err
	}
	if n == 0 {
		return util.ErrUserNotFound
	}
	return nil
}

func (s *AdminService) DeleteStudent(email string) error {
	if strings.TrimSpace(email) == "" {
		return &MissingFieldError{Message: "email required"}
	}
	if s.Cfg.Auth.IsAdmin(email) {
		return util.ErrPermissionDenied
	}
	n, err := s.UserRepo.DeleteWithActivity(email)
	if err != nil {
		return err
	}
	if n == 0 {
		return util.ErrUserNotFound
	}
	return nil
}

// NameFromEmail turns "john.doe_x@..." into "John Doe X".
func NameFromEmail(email string) string {
	handle := email
	if i := strings.Index(handle, "@"); i >= 0 {
		handle = handle[:i]
	}
	handle = strings.NewReplacer(".", " ", "_", " ").Replace(handle)
	words := strings.Fields(handle)
	for i, w := range words {
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

// MigrateNames fills in a display name for users registered without one.
func (s *AdminService) MigrateNames() (int, error) {
	users, err := s.UserRepo.FindWithoutName()
	if err != nil {
		return 0, err
	}
	updated := 0
	for _, u := range users {
		name := NameFromEmail(u.Email)
		if name == "" {
			continue
		}
		if err := s.UserRepo.UpdateName(u.ID, name); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}

func (s *AdminService) RecentLogins() ([]repository.LoginView, error) {
	return s.LoginRepo.Recent(util.RecentLoginsLimit, s.Cfg.Auth.StaffDomain)
}
