package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/examine-api/internal/auth"
	"github.com/yourusername/examine-api/internal/domain/entity"
	"github.com/yourusername/examine-api/internal/middleware"
	"github.com/yourusername/examine-api/internal/repository/memory"
	"github.com/yourusername/examine-api/internal/service"
	"github.com/yourusername/examine-api/internal/service/attempt"
	"github.com/yourusername/examine-api/internal/service/report"
	"github.com/yourusername/examine-api/internal/websocket"
	jwtauth "github.com/yourusername/examine-api/pkg/auth"
)

const adminPassword = "admin-pass-123"

func init() {
	gin.SetMode(gin.TestMode)
}

type capturingMailer struct {
	mu   sync.Mutex
	to   []string
	fail error
}

func (m *capturingMailer) SendReport(ctx context.Context, toEmail string, msg service.ReportEmail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.to = append(m.to, toEmail)
	return nil
}

type testEnv struct {
	router *gin.Engine
	bank   *memory.QuestionBank
	fail   *memory.Failures
	mailer *capturingMailer
	tokens *jwtauth.AdminTokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	fail := &memory.Failures{}
	bank := memory.NewQuestionBank(memory.WithFailures(fail))
	bank.Seed(entity.Subject{ID: "subj-1", Name: "Physics"}, entity.Quiz{
		ID:   "quiz-1",
		Name: "Kinematics Basics",
		Questions: []entity.Question{
			{ID: "q1", Text: "Unit of velocity?", Options: entity.StringArray{"m/s", "m", "s", "kg"}, CorrectAnswer: 0, Explanation: "Distance over time."},
			{ID: "q2", Text: "Unit of mass?", Options: entity.StringArray{"N", "kg", "J", "W"}, CorrectAnswer: 1},
		},
	})

	catalog := service.NewCatalogService(bank, nil, time.Minute)
	mailer := &capturingMailer{}
	reports := service.NewReportService(service.ReportBranding{ProductName: "AspireExamine", Tagline: "Your Path to Success"},
		report.FixedMeasurer{CharWidth: 2}, nil, mailer)

	authenticator, err := auth.NewSharedSecretAuthenticator("", adminPassword)
	require.NoError(t, err)
	tokens, err := jwtauth.NewAdminTokenService("handler-test-secret-0123", time.Hour)
	require.NoError(t, err)

	registry := attempt.NewRegistry(nil)
	routes := &Routes{
		Registry:    registry,
		Auth:        middleware.NewAuthMiddleware(tokens),
		RateLimiter: middleware.NewRateLimiter(nil),
		Session:     NewSessionHandler(registry, catalog),
		Catalog:     NewCatalogHandler(catalog),
		Attempt:     NewAttemptHandler(catalog),
		Report:      NewReportHandler(reports),
		Admin:       NewAdminHandler(service.NewAdminService(authenticator, tokens), catalog),
		WS:          NewWSHandler(registry, websocket.ClientConfig{TickInterval: 10 * time.Millisecond}, nil),
	}

	router := gin.New()
	routes.Register(router)
	return &testEnv{router: router, bank: bank, fail: fail, mailer: mailer, tokens: tokens}
}

func (e *testEnv) do(method, path string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) newSession(t *testing.T) string {
	t.Helper()
	w := e.do(http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := parseJSONResponse(t, w)
	assert.EqualValues(t, 1, resp["quiz_count"])
	return resp["session_id"].(string)
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	token, _, err := e.tokens.GenerateToken()
	require.NoError(t, err)
	return "Bearer " + token
}

// parseJSONResponse парсит JSON ответ из *httptest.ResponseRecorder
func parseJSONResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	require.NoError(t, err, "Response body should be valid JSON: %s", w.Body.String())
	return resp
}

func TestAttemptFlow(t *testing.T) {
	env := newTestEnv(t)
	sid := env.newSession(t)
	base := "/api/sessions/" + sid + "/attempt"

	// До старта попытки
	w := env.do(http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "not_started", parseJSONResponse(t, w)["state"])

	w = env.do(http.MethodPut, base+"/answers", gin.H{"question_id": "q1", "option": 0})
	assert.Equal(t, http.StatusConflict, w.Code, "ответ без попытки")

	// Старт
	w = env.do(http.MethodPost, base, gin.H{"quiz_id": "quiz-1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	started := parseJSONResponse(t, w)
	assert.Equal(t, "in_progress", started["state"])
	questions := started["quiz"].(map[string]interface{})["questions"].([]interface{})
	require.Len(t, questions, 2)
	_, revealed := questions[0].(map[string]interface{})["correct_answer"]
	assert.False(t, revealed, "правильный ответ скрыт до завершения")

	// Ответы и отметки
	w = env.do(http.MethodPut, base+"/answers", gin.H{"question_id": "q1", "option": 0})
	assert.Equal(t, http.StatusOK, w.Code)
	w = env.do(http.MethodPut, base+"/answers", gin.H{"question_id": "q1", "option": 9})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "вариант вне диапазона")
	w = env.do(http.MethodPut, base+"/answers", gin.H{"question_id": "nope", "option": 0})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "чужой вопрос")
	w = env.do(http.MethodPut, base+"/answers", gin.H{"question_id": "q1"})
	assert.Equal(t, http.StatusBadRequest, w.Code, "без option")

	w = env.do(http.MethodPost, base+"/marks", gin.H{"question_id": "q2"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, parseJSONResponse(t, w)["marked"])

	w = env.do(http.MethodGet, base+"/score", nil)
	assert.Equal(t, http.StatusConflict, w.Code, "итоги до завершения")

	w = env.do(http.MethodPut, base+"/aspirant", gin.H{"name": "  Asha  "})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Asha", parseJSONResponse(t, w)["aspirant_name"])

	// Завершение
	w = env.do(http.MethodPost, base+"/end", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	score := parseJSONResponse(t, w)["score"].(map[string]interface{})
	assert.EqualValues(t, 2, score["total_questions"])
	assert.EqualValues(t, 1, score["correct"])
	assert.EqualValues(t, 1, score["unattempted"])
	assert.EqualValues(t, 1, score["marked"])
	assert.EqualValues(t, 50, score["percentage"])

	// После завершения
	w = env.do(http.MethodPut, base+"/answers", gin.H{"question_id": "q2", "option": 1})
	assert.Equal(t, http.StatusConflict, w.Code)
	w = env.do(http.MethodPost, base+"/end", nil)
	assert.Equal(t, http.StatusConflict, w.Code, "повторное завершение")

	w = env.do(http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)
	ended := parseJSONResponse(t, w)
	questions = ended["quiz"].(map[string]interface{})["questions"].([]interface{})
	assert.EqualValues(t, 0, questions[0].(map[string]interface{})["correct_answer"], "ответы открыты после завершения")

	w = env.do(http.MethodGet, base+"/score", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 50, parseJSONResponse(t, w)["percentage"])
}

func TestStartAttempt_UnknownQuiz(t *testing.T) {
	env := newTestEnv(t)
	sid := env.newSession(t)

	w := env.do(http.MethodPost, "/api/sessions/"+sid+"/attempt", gin.H{"quiz_id": "missing"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestEndAttempt_BeforeStart(t *testing.T) {
	env := newTestEnv(t)
	sid := env.newSession(t)
	base := "/api/sessions/" + sid + "/attempt"

	w := env.do(http.MethodPost, base+"/end", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	require.Equal(t, http.StatusCreated, env.do(http.MethodPost, base, gin.H{"quiz_id": "quiz-1"}).Code)
	w = env.do(http.MethodPost, base+"/end", gin.H{"end_time": time.Now().Add(-time.Hour)})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "конец раньше начала")
}

func TestReportEndpoints(t *testing.T) {
	env := newTestEnv(t)
	sid := env.newSession(t)
	base := "/api/sessions/" + sid + "/attempt"

	w := env.do(http.MethodGet, base+"/report", nil)
	assert.Equal(t, http.StatusConflict, w.Code, "отчет до завершения")

	require.Equal(t, http.StatusCreated, env.do(http.MethodPost, base, gin.H{"quiz_id": "quiz-1"}).Code)
	require.Equal(t, http.StatusOK, env.do(http.MethodPut, base+"/answers", gin.H{"question_id": "q2", "option": 3}).Code)
	require.Equal(t, http.StatusOK, env.do(http.MethodPost, base+"/end", nil).Code)

	t.Run("pdf", func(t *testing.T) {
		w := env.do(http.MethodGet, base+"/report", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "Kinematics-Basics-result.pdf")
		assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
	})

	t.Run("xlsx", func(t *testing.T) {
		w := env.do(http.MethodGet, base+"/report?format=xlsx", nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Disposition"), "Kinematics-Basics-result.xlsx")
		assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")), "xlsx — zip-архив")
	})

	t.Run("неизвестный формат", func(t *testing.T) {
		w := env.do(http.MethodGet, base+"/report?format=doc", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("email", func(t *testing.T) {
		w := env.do(http.MethodPost, base+"/report/email", gin.H{"email": "aspirant@example.com"})
		require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
		assert.Equal(t, []string{"aspirant@example.com"}, env.mailer.to)

		w = env.do(http.MethodPost, base+"/report/email", gin.H{"email": "not-an-email"})
		assert.Equal(t, http.StatusBadRequest, w.Code)

		env.mailer.fail = errors.New("smtp down")
		w = env.do(http.MethodPost, base+"/report/email", gin.H{"email": "aspirant@example.com"})
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, "delivery_failed", parseJSONResponse(t, w)["error_type"])
	})
}

func TestDeleteSession(t *testing.T) {
	env := newTestEnv(t)
	sid := env.newSession(t)

	w := env.do(http.MethodDelete, "/api/sessions/"+sid, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(http.MethodGet, "/api/sessions/"+sid+"/attempt", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodGet, "/api/sessions/not-a-uuid/attempt", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalogEndpoints(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(http.MethodGet, "/api/subjects", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Physics")

	w = env.do(http.MethodGet, "/api/subjects/subj-1/quiz-sets", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "quiz-1")

	w = env.do(http.MethodGet, "/api/quizzes", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "correct_answer")
	assert.NotContains(t, w.Body.String(), "Distance over time.", "пояснения скрыты")

	env.fail.List = errors.New("connection refused")
	w = env.do(http.MethodGet, "/api/quizzes", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, "store_error", parseJSONResponse(t, w)["error_type"])
}

func TestCreateSession_CatalogUnavailable(t *testing.T) {
	env := newTestEnv(t)
	env.fail.List = errors.New("connection refused")

	w := env.do(http.MethodPost, "/api/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	resp := parseJSONResponse(t, w)
	assert.NotEmpty(t, resp["session_id"])
	assert.NotEmpty(t, resp["catalog_error"])
}

func TestAdminEndpoints(t *testing.T) {
	env := newTestEnv(t)

	t.Run("вход", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/admin/login", gin.H{"password": "wrong"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = env.do(http.MethodPost, "/api/admin/login", gin.H{"password": adminPassword})
		require.Equal(t, http.StatusOK, w.Code)
		token := parseJSONResponse(t, w)["access_token"].(string)

		w = env.do(http.MethodPost, "/api/admin/subjects", gin.H{"name": "Chemistry"}, "Authorization", "Bearer "+token)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("без токена", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/admin/subjects", gin.H{"name": "Biology"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("дубликат предмета", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/admin/subjects", gin.H{"name": "physics"}, "Authorization", env.adminToken(t))
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	validQuiz := func() gin.H {
		return gin.H{
			"name":       "Dynamics",
			"subject_id": "subj-1",
			"questions": []gin.H{
				{"text": "Unit of force?", "options": []string{"N", "J", "W", "Pa"}, "correct_answer": 0, "explanation": "Newton."},
			},
		}
	}

	t.Run("невалидный набор", func(t *testing.T) {
		quiz := validQuiz()
		quiz["questions"] = []gin.H{{"text": "Q?", "options": []string{"a", "b", "c"}, "correct_answer": 0}}
		w := env.do(http.MethodPost, "/api/admin/quizzes", quiz, "Authorization", env.adminToken(t))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("создание набора", func(t *testing.T) {
		w := env.do(http.MethodPost, "/api/admin/quizzes", validQuiz(), "Authorization", env.adminToken(t))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		resp := parseJSONResponse(t, w)
		assert.Equal(t, "Dynamics", resp["name"])
		assert.EqualValues(t, 1, resp["question_count"])

		w = env.do(http.MethodGet, "/api/quizzes", nil)
		assert.True(t, strings.Contains(w.Body.String(), "Dynamics"), "каталог обновлен")
	})

	t.Run("частичное сохранение", func(t *testing.T) {
		env.fail.CreateQuestions = errors.New("insert failed")
		defer func() { env.fail.CreateQuestions = nil }()

		w := env.do(http.MethodPost, "/api/admin/quizzes", validQuiz(), "Authorization", env.adminToken(t))
		require.Equal(t, http.StatusMultiStatus, w.Code)
		resp := parseJSONResponse(t, w)
		assert.Equal(t, "partial_write", resp["error_type"])
		assert.NotEmpty(t, resp["orphan_id"])
	})
}
