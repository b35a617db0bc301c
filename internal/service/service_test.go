package service

import (
	"college_chatbot_backend/internal/config"
	"college_chatbot_backend/internal/model"
	"college_chatbot_backend/internal/qa"
	"college_chatbot_backend/internal/repository"
	"college_chatbot_backend/internal/session"
	"college_chatbot_backend/internal/util"
	"college_chatbot_backend/pkg/database"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

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

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		JWT:         config.JWTConfig{Secret: "test-secret-that-is-long-enough-1234", ExpireTime: time.Hour},
		Auth:        config.AuthConfig{AdminEmails: []string{"admin@mmec.edu"}, StaffDomain: "@mmec.edu", DefaultAdminName: "Administrator", DefaultAdminPassword: "Admin@123"},
		CollegeData: config.CollegeDataConfig{Dir: t.TempDir()},
		AI:          config.AIConfig{MaxAnswerChars: 400},
	}
}

type fakeProvider struct {
	name      string
	available bool
	answer    string
	err       error
	calls     int
	lastCtx   string
}

func (f *fakeProvider) Name() string    { return f.name }
func (f *fakeProvider) Available() bool { return f.available }
func (f *fakeProvider) Generate(_ context.Context, _, siteContext string) (string, error) {
	f.calls++
	f.lastCtx = siteContext
	return f.answer, f.err
}

type staticPolicy bool

func (p staticPolicy) ExternalAllowed() bool { return bool(p) }

func TestAIServiceNoProvider(t *testing.T) {
	ai := NewAIServiceWithProviders(staticPolicy(true), &fakeProvider{name: "gemini"})
	_, err := ai.Answer(context.Background(), "hello", "")
	assert.ErrorIs(t, err, ErrAINotConfigured)
	assert.False(t, ai.Usable())
}

func TestAIServiceDisallowedSkipsProviders(t *testing.T) {
	p := &fakeProvider{name: "gemini", available: true, answer: "hi"}
	ai := NewAIServiceWithProviders(staticPolicy(false), p)

	_, err := ai.Answer(context.Background(), "hello", "")
	assert.ErrorIs(t, err, ErrAINotConfigured)
	assert.Zero(t, p.calls)
	assert.False(t, ai.Status().ProviderAvailable)
}

func TestAIServiceFallsBackToSecondProvider(t *testing.T) {
	primary := &fakeProvider{name: "gemini", available: true, err: errors.New("quota")}
	secondary := &fakeProvider{name: "openai", available: true, answer: "The library opens at 9."}
	ai := NewAIServiceWithProviders(staticPolicy(true), primary, secondary)

	text, err := ai.Answer(context.Background(), "library hours", "")
	require.NoError(t, err)
	assert.Equal(t, "The library opens at 9.", text)
	assert.Equal(t, 1, primary.calls)

	st := ai.Status()
	assert.True(t, st.ProviderAvailable)
	assert.True(t, st.GeminiKeyPresent)
	assert.True(t, st.OpenAIPresent)
}

func TestAIServiceAllProvidersFail(t *testing.T) {
	ai := NewAIServiceWithProviders(staticPolicy(true),
		&fakeProvider{name: "gemini", available: true, err: errors.New("boom")},
		&fakeProvider{name: "openai", available: true, answer: "   "},
	)
	_, err := ai.Answer(context.Background(), "q", "")
	assert.ErrorIs(t, err, ErrAIProvider)
}

func TestOpenAIProviderRequest(t *testing.T) {
	var got ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Admissions open in June."}}]}`))
	}))
	defer srv.Close()

	p := NewOpenAIProvider(srv.URL, "sk-test", "")
	text, err := p.Generate(context.Background(), "when are admissions?", "From site:\nadmissions")
	require.NoError(t, err)
	assert.Equal(t, "Admissions open in June.", text)

	assert.Equal(t, "gpt-3.5-turbo", got.Model)
	assert.Equal(t, 300, got.MaxTokens)
	assert.InDelta(t, 0.2, got.Temperature, 1e-9)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Contains(t, got.Messages[0].Content, "Maratha Mandal Engineering College")
	assert.Contains(t, got.Messages[0].Content, "From site:")
	assert.Equal(t, "when are admissions?", got.Messages[1].Content)
}

func TestOpenAIProviderHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"bad key"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewOpenAIProvider(srv.URL, "sk-bad", "").Generate(context.Background(), "q", "")
	assert.Error(t, err)
}

func TestBuildPrompt(t *testing.T) {
	p := buildPrompt("fees?", "From x:\ntext")
	assert.True(t, strings.HasPrefix(p, systemPrompt+"\n"))
	assert.Contains(t, p, "Additional context from MMEC website:\nFrom x:\ntext\n\n")
	assert.True(t, strings.HasSuffix(p, "User: fees?"))
	assert.Equal(t, systemPrompt+"\nUser: hi", buildPrompt("hi", ""))
}

type fakeScraper struct{ calls int }

func (f *fakeScraper) Scrape(context.Context, string) string {
	f.calls++
	return "From https://www.mmec.edu.in:\nwelcome"
}

func TestAISourceFailures(t *testing.T) {
	q := qa.NewQuery("who won the toss", "student")

	src := NewAISource(NewAIServiceWithProviders(staticPolicy(true)), &fakeScraper{}, 400)
	_, _, err := src.Lookup(context.Background(), q)
	var failure *qa.Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, MsgAINotConfigured, failure.Message)

	src = NewAISource(NewAIServiceWithProviders(staticPolicy(true),
		&fakeProvider{name: "gemini", available: true, err: errors.New("503")}), nil, 400)
	_, _, err = src.Lookup(context.Background(), q)
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, MsgAIProviderError, failure.Message)
}

func TestAISourceScrapesOnlyWhenUsable(t *testing.T) {
	scraper := &fakeScraper{}
	src := NewAISource(NewAIServiceWithProviders(staticPolicy(false),
		&fakeProvider{name: "gemini", available: true}), scraper, 400)
	_, _, _ = src.Lookup(context.Background(), qa.NewQuery("admission dates", ""))
	assert.Zero(t, scraper.calls)

	p := &fakeProvider{name: "gemini", available: true, answer: "Note: Admissions start in June."}
	src = NewAISource(NewAIServiceWithProviders(staticPolicy(true), p), scraper, 400)
	answer, ok, err := src.Lookup(context.Background(), qa.NewQuery("admission dates", ""))
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Admissions start in June.", answer)
	assert.Equal(t, 1, scraper.calls)
	assert.Contains(t, p.lastCtx, "welcome")
}

func TestLogServiceAppend(t *testing.T) {
	svc := NewLogService(repository.NewChatLogRepository(newTestDB(t)))

	skipped, err := svc.Append(AppendLogRequest{User: "ravi", UserMsg: "fees", BotMsg: "Found relevant data in fees.json. Use the panel."})
	require.NoError(t, err)
	assert.True(t, skipped)

	skipped, err = svc.Append(AppendLogRequest{User: "ravi", UserMsg: "hi", BotMsg: "ok"})
	require.NoError(t, err)
	assert.False(t, skipped)

	skipped, err = svc.Append(AppendLogRequest{User: "ravi", UserMsg: "library", BotMsg: "- The library opens at 9."})
	require.NoError(t, err)
	assert.False(t, skipped)

	logs, err := svc.List()
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "", logs[0].BotMsg)
	assert.Equal(t, "The library opens at 9.", logs[1].BotMsg)
	for _, l := range logs {
		assert.False(t, qa.ContainsBoilerplate(l.BotMsg))
	}

	require.NoError(t, svc.Reply(logs[0].ID, "We are open till 5.", "admin@mmec.edu"))
	assert.ErrorIs(t, svc.Delete("missing"), util.ErrLogNotFound)
	require.NoError(t, svc.Delete(logs[1].ID))

	logs, err = svc.List()
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "We are open till 5.", logs[0].BotMsg)
	assert.Equal(t, "admin@mmec.edu", logs[0].AnsweredBy)
}

func TestLogServiceChecksOnlyBotReply(t *testing.T) {
	svc := NewLogService(repository.NewChatLogRepository(newTestDB(t)))

	question := "My ID card was not found in the library, what do I do?"
	skipped, err := svc.Append(AppendLogRequest{User: "ravi", UserMsg: question, BotMsg: "Visit the admin office with your fee receipt."})
	require.NoError(t, err)
	assert.False(t, skipped)

	// four runes but more than five bytes
	skipped, err = svc.Append(AppendLogRequest{User: "ravi", UserMsg: "hello", BotMsg: "ಧನ್ಯ"})
	require.NoError(t, err)
	assert.False(t, skipped)

	logs, err := svc.List()
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, question, logs[0].UserMsg)
	assert.Equal(t, "Visit the admin office with your fee receipt.", logs[0].BotMsg)
	assert.Equal(t, "", logs[1].BotMsg)
}

func TestFixedAnswersNeverReachTheLog(t *testing.T) {
	svc := NewLogService(repository.NewChatLogRepository(newTestDB(t)))

	for _, msg := range []string{qa.RefusalMessage, MsgAINotConfigured, MsgAIProviderError} {
		skipped, err := svc.Append(AppendLogRequest{User: "ravi", UserMsg: "question", BotMsg: msg})
		require.NoError(t, err)
		assert.True(t, skipped, msg)
	}

	logs, err := svc.List()
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestHistoryServiceAppendAndPage(t *testing.T) {
	svc := NewHistoryService(repository.NewHistoryRepository(newTestDB(t)))

	skipped, err := svc.Append(AppendHistoryRequest{User: "ravi", From: "bot", Text: "Error contacting AI provider. Try again later."})
	require.NoError(t, err)
	assert.True(t, skipped)

	for i, text := range []string{"first", "second", "third"} {
		_, err := svc.Append(AppendHistoryRequest{User: "ravi", From: "user", Text: text, TS: time.Date(2025, 1, 1, 0, i, 0, 0, time.UTC).Format(time.RFC3339)})
		require.NoError(t, err)
	}

	items, total, page, size, err := svc.Page("ravi", 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, 1, page)
	assert.Equal(t, 2, size)
	require.Len(t, items, 2)
	assert.Equal(t, "third", items[0].Text)

	n, err := svc.Delete("ravi", items[0].TS)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = svc.Delete("ravi", "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func newAuthService(t *testing.T, db *gorm.DB) *AuthService {
	return NewAuthService(repository.NewUserRepository(db), repository.NewLoginRepository(db), session.NewMemoryStore(), testConfig(t))
}

func TestAuthRegisterLoginLogout(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db)
	ctx := context.Background()

	_, err := svc.Register(RegisterRequest{Name: "Ravi", Email: "ravi@example.com", Password: "secret"})
	require.NoError(t, err)
	_, err = svc.Register(RegisterRequest{Name: "Ravi", Email: "ravi@example.com", Password: "other"})
	assert.ErrorIs(t, err, util.ErrUserExists)

	_, err = svc.Login(ctx, LoginRequest{Email: "ravi@example.com", Password: "wrong"}, "127.0.0.1")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	res, err := svc.Login(ctx, LoginRequest{Email: "ravi@example.com", Password: "secret"}, "10.0.0.7")
	require.NoError(t, err)
	assert.Equal(t, model.Student, res.Role)

	claims, err := svc.Authenticate(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, "ravi@example.com", claims.Email)

	var logins []model.Login
	require.NoError(t, db.Find(&logins).Error)
	require.Len(t, logins, 1)
	assert.Equal(t, "10.0.0.7", logins[0].IPAddress)

	require.NoError(t, svc.Logout(ctx, claims))
	_, err = svc.Authenticate(ctx, res.Token)
	assert.ErrorIs(t, err, util.ErrSessionExpired)
}

func TestAuthSeedAdmin(t *testing.T) {
	svc := newAuthService(t, newTestDB(t))
	require.NoError(t, svc.SeedAdmin())
	require.NoError(t, svc.SeedAdmin())

	res, err := svc.Login(context.Background(), LoginRequest{Email: "admin@mmec.edu", Password: "Admin@123"}, "")
	require.NoError(t, err)
	assert.Equal(t, model.Admin, res.Role)
	assert.Equal(t, "Administrator", res.User.Name)
}

func newAdminService(t *testing.T, db *gorm.DB) *AdminService {
	return NewAdminService(
		repository.NewAdminFAQRepository(db),
		repository.NewUnansweredRepository(db),
		repository.NewCollegeRepository(db),
		repository.NewUserRepository(db),
		repository.NewLoginRepository(db),
		testConfig(t),
	)
}

func TestAdminWriteTableMirrorsFAQ(t *testing.T) {
	svc := newAdminService(t, newTestDB(t))
	ctx := context.Background()

	msg, err := svc.WriteTable(DataRequest{
		Table:  TableFeeStructure,
		Action: "insert",
		Data:   map[string]interface{}{"course_type": "B.E.", "details": "per year"},
		Top:    map[string]interface{}{"amount": 95000.0},
	})
	require.NoError(t, err)
	assert.Equal(t, "Update successful", msg)

	fees, err := svc.CollegeRepo.FeeStructure()
	require.NoError(t, err)
	require.Len(t, fees, 1)
	assert.Equal(t, "95000", fees[0].Amount)

	faqs, err := svc.ListFAQs(ctx)
	require.NoError(t, err)
	require.Len(t, faqs, 1)
	assert.Equal(t, "B.E.", faqs[0].Question)
	assert.Equal(t, "Fees for B.E.: 95000\n\nper year", faqs[0].Answer)

	msg, err = svc.WriteTable(DataRequest{
		Table:  TableTimetable,
		Action: "update",
		Data:   map[string]interface{}{"day": "Mon", "time_slot": "9-10", "course_id": "CS101", "room": "A1", "faculty_id": "F7"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Update successful", msg)
	faqs, err = svc.ListFAQs(ctx)
	require.NoError(t, err)
	assert.Equal(t, "CS101 Mon 9-10", faqs[0].Question)
	assert.Equal(t, "Timetable: Mon 9-10 - CS101 in A1 (Faculty: F7)", faqs[0].Answer)
	assert.Equal(t, "CS101", faqs[0].Keywords)
}

func TestAdminWriteTableErrors(t *testing.T) {
	svc := newAdminService(t, newTestDB(t))

	_, err := svc.WriteTable(DataRequest{Table: TableCourses, Action: "update", Data: map[string]interface{}{"course_name": "CSE"}})
	assert.ErrorIs(t, err, util.ErrMissingKey)
	assert.EqualError(t, err, "missing course_code")

	_, err = svc.WriteTable(DataRequest{Table: TableTimetable, Data: map[string]interface{}{"day": "Mon"}})
	assert.EqualError(t, err, "missing timetable keys")

	_, err = svc.WriteTable(DataRequest{Table: "hostels", Action: "update"})
	assert.ErrorIs(t, err, util.ErrUnknownTable)

	_, err = svc.WriteTable(DataRequest{Table: TableGeneralInfo, Action: "delete", Data: map[string]interface{}{"key": "nope"}})
	assert.EqualError(t, err, "Delete failed")

	_, err = svc.ReadTable("hostels")
	assert.ErrorIs(t, err, util.ErrUnknownTable)
}

func TestAdminAnswerUnansweredPromotes(t *testing.T) {
	db := newTestDB(t)
	svc := newAdminService(t, db)
	ctx := context.Background()

	added, err := svc.UnansweredRepo.Record(ctx, "Is there a hostel for girls?", time.Now())
	require.NoError(t, err)
	require.True(t, added)
	rows, err := svc.ListUnanswered()
	require.NoError(t, err)
	require.Len(t, rows, 1)

	assert.ErrorIs(t, svc.AnswerUnanswered(999, "x", "", "", "admin@mmec.edu"), util.ErrQueryNotFound)
	require.NoError(t, svc.AnswerUnanswered(rows[0].ID, "Yes, on campus.", "", " Hostel , ", "admin@mmec.edu"))

	faqs, err := svc.ListFAQs(ctx)
	require.NoError(t, err)
	require.Len(t, faqs, 1)
	assert.Equal(t, "is there a hostel for girls?", faqs[0].Question)
	assert.Equal(t, "hostel", faqs[0].Keywords)

	answer, ok := qa.MatchAdminFAQ(faqs, qa.Normalize("Is there a hostel for girls?"))
	assert.True(t, ok)
	assert.Equal(t, "Yes, on campus.", answer)

	rows, err = svc.ListUnanswered()
	require.NoError(t, err)
	assert.True(t, rows[0].Answered)
	assert.Equal(t, "admin@mmec.edu", rows[0].AnsweredBy)
}

func TestAdminCreateFAQValidation(t *testing.T) {
	svc := newAdminService(t, newTestDB(t))
	_, err := svc.CreateFAQ("  ", "answer", "")
	assert.EqualError(t, err, "missing parameters")

	faq, err := svc.CreateFAQ("What about MMEC canteen?", "Open 8 to 6.", "canteen,food")
	require.NoError(t, err)
	assert.Equal(t, "what about maratha mandal engineering college canteen?", faq.Question)
	require.NoError(t, svc.DeleteFAQ(faq.ID))
	assert.ErrorIs(t, svc.DeleteFAQ(faq.ID), gorm.ErrRecordNotFound)
}

func TestAdminStudents(t *testing.T) {
	db := newTestDB(t)
	svc := newAdminService(t, db)
	users := repository.NewUserRepository(db)
	require.NoError(t, users.Create(&model.User{Name: "", Email: "asha.k_rao@example.com", PasswordHash: "x"}))
	require.NoError(t, users.Create(&model.User{Name: "Admin", Email: "admin@mmec.edu", PasswordHash: "x"}))

	n, err := svc.MigrateNames()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	students, err := svc.ListStudents()
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "Asha K Rao", students[0].Name)

	require.NoError(t, svc.UpdateStudent("asha.k_rao@example.com", "91", nil))
	assert.ErrorIs(t, svc.UpdateStudent("ghost@example.com", "1", nil), util.ErrUserNotFound)
	assert.ErrorIs(t, svc.DeleteStudent("admin@mmec.edu"), util.ErrPermissionDenied)
	require.NoError(t, svc.DeleteStudent("asha.k_rao@example.com"))

	students, err = svc.ListStudents()
	require.NoError(t, err)
	assert.Empty(t, students)
}

func TestNameFromEmail(t *testing.T) {
	assert.Equal(t, "John Doe", NameFromEmail("john.doe@example.com"))
	assert.Equal(t, "A B C", NameFromEmail("a_b.c@x.org"))
	assert.Equal(t, "", NameFromEmail("@x.org"))
}

func TestSettingServiceToggle(t *testing.T) {
	svc := NewSettingService(repository.NewSettingRepository(newTestDB(t)), config.AIConfig{})
	assert.True(t, svc.ExternalAllowed())

	allowed, err := svc.ToggleExternal()
	require.NoError(t, err)
	assert.False(t, allowed)
	assert.False(t, svc.ExternalAllowed())

	svc.UpdateConfig(config.AIConfig{AllowExternalQueries: "yes"})
	assert.True(t, svc.ExternalAllowed())
	svc.UpdateConfig(config.AIConfig{AllowExternalQueries: "off"})
	assert.False(t, svc.ExternalAllowed())
}

func TestBackfill(t *testing.T) {
	db := newTestDB(t)
	logs := repository.NewChatLogRepository(db)
	unanswered := repository.NewUnansweredRepository(db)
	users := repository.NewUserRepository(db)

	require.NoError(t, logs.Create(&model.ChatLog{ID: "1", Timestamp: time.Now(), UserMsg: "bus routes?", BotMsg: ""}))
	require.NoError(t, logs.Create(&model.ChatLog{ID: "2", Timestamp: time.Now(), UserMsg: "fees?", BotMsg: "The fee is 95000."}))
	legacy := []model.ChatLog{
		{UserMsg: "bus routes?", BotMsg: "Info NOT FOUND"},
		{UserMsg: "hostel?", BotMsg: "Found relevant data in hostel.json."},
	}

	report, err := NewBackfillService(logs, unanswered, users).Run(context.Background(), legacy)
	require.NoError(t, err)
	assert.Equal(t, 4, report.Scanned)
	assert.Equal(t, 2, report.UnansweredAdded)

	assert.True(t, IsUnansweredLog("  "))
	assert.False(t, IsUnansweredLog("The fee is 95000."))
}

func TestScraperPagesFor(t *testing.T) {
	s := NewScraperService(config.ScrapeConfig{Enabled: true, BaseURL: "https://www.mmec.edu.in/"})
	assert.Equal(t, []string{"https://www.mmec.edu.in"}, s.PagesFor("hello"))
	assert.Equal(t, []string{
		"https://www.mmec.edu.in/admission",
		"https://www.mmec.edu.in/fee-structure",
		"https://www.mmec.edu.in/courses",
	}, s.PagesFor("admission fee for course and placement"))
}

func TestScraperScrapeAndCrawl(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><style>p{}</style></head><body><h1>Welcome</h1>
			<script>var x = 1;</script><a href="/about?ref=home">About</a><a href="https://elsewhere.example/">x</a></body></html>`))
	})
	mux.HandleFunc("/about", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><p>Founded   in 1979.</p><a href="/">Home</a></body></html>`))
	})
	mux.HandleFunc("/fee-structure", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<p>Fees are listed here.</p>`))
	})
	mux.HandleFunc("/contact", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<p>ಸಂಪರ್ಕ ವಿಳಾಸ ಬೆಳಗಾವಿ</p>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	s := NewScraperService(config.ScrapeConfig{Enabled: true, BaseURL: srv.URL, MaxChars: 10})
	got := s.Scrape(context.Background(), "fee details")
	assert.Equal(t, "From "+srv.URL+"/fee-structure:\nFees are l", got)

	got = s.Scrape(context.Background(), "contact address")
	body := strings.TrimPrefix(got, "From "+srv.URL+"/contact:\n")
	assert.True(t, utf8.ValidString(body))
	assert.Equal(t, 10, utf8.RuneCountInString(body))
	assert.True(t, strings.HasPrefix("ಸಂಪರ್ಕ ವಿಳಾಸ ಬೆಳಗಾವಿ", body))

	pages, err := s.Crawl(context.Background(), 40)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, srv.URL, pages[0].URL)
	assert.Equal(t, "Welcome About x", pages[0].Text)
	assert.Equal(t, srv.URL+"/about", pages[1].URL)
	assert.Equal(t, "Founded in 1979. Home", pages[1].Text)

	disabled := NewScraperService(config.ScrapeConfig{Enabled: false, BaseURL: srv.URL})
	assert.Empty(t, disabled.Scrape(context.Background(), "fee"))
}

func TestStorageSaveDataFile(t *testing.T) {
	svc := &StorageService{Dir: filepath.Join(t.TempDir(), "college_info")}

	name, err := svc.SaveDataFile(context.Background(), "../../etc/info.md", strings.NewReader("# MMEC"), "text/markdown")
	require.NoError(t, err)
	assert.Equal(t, "info.md", name)

	raw, err := os.ReadFile(filepath.Join(svc.Dir, "info.md"))
	require.NoError(t, err)
	assert.Equal(t, "# MMEC", string(raw))

	_, err = svc.SaveDataFile(context.Background(), "run.sh", strings.NewReader(""), "")
	assert.ErrorIs(t, err, util.ErrInvalidFileName)

	files, err := svc.ListFiles()
	require.NoError(t, err)
	assert.Equal(t, []string{"info.md"}, files)
}
