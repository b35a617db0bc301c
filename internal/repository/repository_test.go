package repository

import (
	"college_chatbot_backend/internal/model"
	"college_chatbot_backend/pkg/database"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	require.NoError(t, repo.Create(&model.User{Name: "A", Email: "a@example.com", PasswordHash: "x"}))
	err := repo.Create(&model.User{Name: "B", Email: "a@example.com", PasswordHash: "y"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestUserRepositoryStudentsAndNames(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))
	require.NoError(t, repo.Create(&model.User{Name: "Staff", Email: "admin@mmec.edu", PasswordHash: "x"}))
	require.NoError(t, repo.Create(&model.User{Name: " ", Email: "ravi.kumar@example.com", PasswordHash: "x"}))

	students, err := repo.ListStudents("@mmec.edu")
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "ravi.kumar@example.com", students[0].Email)

	nameless, err := repo.FindWithoutName()
	require.NoError(t, err)
	require.Len(t, nameless, 1)

	notes := "needs follow-up"
	n, err := repo.UpdateMarks("ravi.kumar@example.com", "88", &notes)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	u, err := repo.FindByEmail("ravi.kumar@example.com")
	require.NoError(t, err)
	assert.Equal(t, "88", u.Marks)
	assert.Equal(t, "needs follow-up", u.Notes)
}

func TestUserRepositoryDeleteWithActivity(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	u := &model.User{Name: "S", Email: "s@example.com", PasswordHash: "x"}
	require.NoError(t, users.Create(u))
	require.NoError(t, NewLoginRepository(db).Create(&model.Login{UserID: u.ID, Email: u.Email, LoginTime: time.Now()}))
	require.NoError(t, NewHistoryRepository(db).Create(&model.History{Username: u.Email, Sender: "user", Text: "hi", TS: "1"}))
	require.NoError(t, NewChatLogRepository(db).Create(&model.ChatLog{ID: "l1", Timestamp: time.Now(), User: "s", UserMsg: "q"}))
	require.NoError(t, NewChatLogRepository(db).Create(&model.ChatLog{ID: "l2", Timestamp: time.Now(), User: "other", UserMsg: "q"}))

	n, err := users.DeleteWithActivity(u.Email)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var count int64
	db.Model(&model.Login{}).Count(&count)
	assert.Zero(t, count)
	db.Model(&model.History{}).Count(&count)
	assert.Zero(t, count)
	logs, err := NewChatLogRepository(db).List()
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "l2", logs[0].ID)
}

func TestLoginRepositoryRecent(t *testing.T) {
	db := newTestDB(t)
	users := NewUserRepository(db)
	logins := NewLoginRepository(db)

	student := &model.User{Name: "Student", Email: "st@example.com", PasswordHash: "x"}
	staff := &model.User{Name: "Staff", Email: "admin@mmec.edu", PasswordHash: "x"}
	require.NoError(t, users.Create(student))
	require.NoError(t, users.Create(staff))

	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, logins.Create(&model.Login{UserID: student.ID, Email: student.Email, LoginTime: base}))
	require.NoError(t, logins.Create(&model.Login{UserID: student.ID, Email: student.Email, LoginTime: base.Add(time.Hour)}))
	require.NoError(t, logins.Create(&model.Login{UserID: staff.ID, Email: staff.Email, LoginTime: base.Add(2 * time.Hour)}))

	recent, err := logins.Recent(20, "@mmec.edu")
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "Student", recent[0].Name)
	assert.True(t, recent[0].Time.After(recent[1].Time))
}

func TestUnansweredRepositoryDedupeAndPromote(t *testing.T) {
	db := newTestDB(t)
	repo := NewUnansweredRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.RecordUnanswered(ctx, "Who is the principal?"))
	require.NoError(t, repo.RecordUnanswered(ctx, "Who is the principal?"))
	added, err := repo.Record(ctx, "Bus timings?", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, added)

	list, err := repo.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Bus timings?", list[0].Question)

	target := list[1]
	faq := &model.AdminFAQ{Question: target.Question, Answer: "Dr. Rao."}
	require.NoError(t, repo.AnswerAndPromote(target.ID, "Dr. Rao.", "admin@mmec.edu", faq))

	got, err := repo.FindByID(target.ID)
	require.NoError(t, err)
	assert.True(t, got.Answered)
	assert.Equal(t, "admin@mmec.edu", got.AnsweredBy)
	require.NotNil(t, got.AnsweredAt)

	faqs, err := NewAdminFAQRepository(db).ListNewestFirst(ctx)
	require.NoError(t, err)
	require.Len(t, faqs, 1)
	assert.Equal(t, "Dr. Rao.", faqs[0].Answer)
}

func TestUnansweredRepositoryPromoteMissingRollsBack(t *testing.T) {
	db := newTestDB(t)
	repo := NewUnansweredRepository(db)

	err := repo.AnswerAndPromote(999, "a", "admin", &model.AdminFAQ{Question: "q", Answer: "a"})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	faqs, err := NewAdminFAQRepository(db).ListNewestFirst(context.Background())
	require.NoError(t, err)
	assert.Empty(t, faqs)
}

func TestChatLogRepositoryReplyDelete(t *testing.T) {
	repo := NewChatLogRepository(newTestDB(t))
	ts := time.Date(2024, 3, 2, 10, 30, 0, 123000000, time.UTC)
	require.NoError(t, repo.Create(&model.ChatLog{ID: "abc", Timestamp: ts, User: "u", UserMsg: "q"}))

	n, err := repo.Reply("abc", "answer", "admin@mmec.edu")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	logs, err := repo.List()
	require.NoError(t, err)
	assert.Equal(t, "answer", logs[0].BotMsg)
	assert.Equal(t, "admin@mmec.edu", logs[0].AnsweredBy)

	n, err = repo.Reply("missing", "x", "y")
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = repo.Delete("abc")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	require.NoError(t, repo.Clear())
}

func TestHistoryRepositoryPaging(t *testing.T) {
	repo := NewHistoryRepository(newTestDB(t))
	for _, ts := range []string{"t1", "t2", "t3"} {
		require.NoError(t, repo.Create(&model.History{Username: "u", Sender: "user", Text: "m" + ts, TS: ts}))
	}
	require.NoError(t, repo.Create(&model.History{Username: "other", Sender: "user", Text: "x", TS: "t9"}))

	items, total, err := repo.Page("u", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, items, 2)
	assert.Equal(t, "t3", items[0].TS)

	items, _, err = repo.Page("u", 2, 2)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "t1", items[0].TS)

	n, err := repo.DeleteByTS("u", "t2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.Clear("u")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestCollegeRepositoryUpsertWithMirror(t *testing.T) {
	db := newTestDB(t)
	repo := NewCollegeRepository(db)

	course := &model.Course{CourseCode: "CS101", CourseName: "Programming", Details: "Intro"}
	require.NoError(t, repo.UpsertWithMirror(course, &model.AdminFAQ{Question: "CS101", Answer: "Programming\n\nIntro"}))

	updated := &model.Course{CourseCode: "CS101", CourseName: "Programming in C", Details: "Intro"}
	require.NoError(t, repo.UpsertWithMirror(updated, nil))

	courses, err := repo.Courses()
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Programming in C", courses[0].CourseName)

	require.NoError(t, repo.UpsertWithMirror(&model.Timetable{Day: "Mon", TimeSlot: "9-10", CourseID: "CS101", Room: "A1"}, nil))
	require.NoError(t, repo.UpsertWithMirror(&model.Timetable{Day: "Mon", TimeSlot: "9-10", CourseID: "CS101", Room: "B2"}, nil))
	tt, err := repo.Timetable()
	require.NoError(t, err)
	require.Len(t, tt, 1)
	assert.Equal(t, "B2", tt[0].Room)

	n, err := repo.DeleteRow(&model.Course{CourseCode: "CS101"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	faqs, err := NewAdminFAQRepository(db).ListNewestFirst(context.Background())
	require.NoError(t, err)
	assert.Len(t, faqs, 1)
}

func TestCollegeRepositoryMirrorFailureRollsBack(t *testing.T) {
	db := newTestDB(t)
	repo := NewCollegeRepository(db)

	existing := &model.AdminFAQ{Question: "q", Answer: "a"}
	require.NoError(t, NewAdminFAQRepository(db).Create(existing))

	// reusing the primary key makes the mirror insert fail
	err := repo.UpsertWithMirror(&model.GeneralInfo{Key: "principal", Value: "Dr. Rao"},
		&model.AdminFAQ{ID: existing.ID, Question: "principal", Answer: "Dr. Rao"})
	require.Error(t, err)

	info, err := repo.GeneralInfo()
	require.NoError(t, err)
	assert.Empty(t, info)
}

func TestSettingRepository(t *testing.T) {
	repo := NewSettingRepository(newTestDB(t))

	_, ok, err := repo.Get("allow_external_queries")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Set("allow_external_queries", "false"))
	require.NoError(t, repo.Set("allow_external_queries", "true"))

	v, ok, err := repo.Get("allow_external_queries")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)
}
