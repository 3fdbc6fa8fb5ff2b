package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"vocab_drill_backend/internal/config"
	"vocab_drill_backend/internal/util"
	"vocab_drill_backend/pkg/database"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	cfg := &config.Config{
		Server:   config.ServerConfig{Mode: "test"},
		JWT:      config.JWTConfig{Secret: testSecret, ExpireTime: time.Hour},
		Practice: config.PracticeConfig{DueLimit: 10, AllowTypo: true},
		CORS:     config.CORSConfig{AllowedOrigins: []string{"*"}},
	}
	return New(cfg, db, nil)
}

func adminToken(t *testing.T, role string) string {
	t.Helper()
	token, err := util.GenerateJWT("tester", role, testSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func do(t *testing.T, a *App, method, path string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

func seedBody() map[string]interface{} {
	return map[string]interface{}{
		"words": []map[string]interface{}{
			{
				"text":         "aller",
				"partOfSpeech": "verb",
				"level":        "A1",
				"sentences": []map[string]string{
					{"text": "Je vais au parc.", "cloze": "Je ___ au parc."},
				},
			},
		},
	}
}

func TestHealth(t *testing.T) {
	a := newTestApp(t)
	rec, env := do(t, a, http.MethodGet, "/api/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"cache":"disabled"`)
}

func TestAdminRoutesRequireAdminToken(t *testing.T) {
	a := newTestApp(t)

	rec, _ := do(t, a, http.MethodPost, "/api/admin/vocabulary/seed", seedBody(), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = do(t, a, http.MethodPost, "/api/admin/vocabulary/seed", seedBody(),
		map[string]string{"Authorization": "Bearer " + adminToken(t, "learner")})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = do(t, a, http.MethodGet, "/api/admin/vocabulary", nil,
		map[string]string{"Authorization": "Bearer not-a-token"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPracticeFlow(t *testing.T) {
	a := newTestApp(t)
	auth := map[string]string{"Authorization": "Bearer " + adminToken(t, util.RoleAdmin)}

	rec, env := do(t, a, http.MethodPost, "/api/admin/vocabulary/seed", seedBody(), auth)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Contains(t, string(env.Data), `"wordsCreated":1`)

	rec, env = do(t, a, http.MethodGet, "/api/admin/vocabulary?limit=5", nil, auth)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"total":1`)

	rec, env = do(t, a, http.MethodGet, "/api/practice/due", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var due struct {
		Count int `json:"count"`
		Items []struct {
			WordID uint `json:"wordId"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &due))
	require.Equal(t, 1, due.Count)
	wordID := due.Items[0].WordID

	rec, env = do(t, a, http.MethodGet, "/api/practice/next", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var question struct {
		WordID     uint   `json:"wordId"`
		SentenceID uint   `json:"sentenceId"`
		Cloze      string `json:"cloze"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &question))
	assert.Equal(t, wordID, question.WordID)
	assert.Equal(t, "Je ___ au parc.", question.Cloze)
	assert.NotContains(t, string(env.Data), "aller")

	rec, env = do(t, a, http.MethodPost, "/api/practice/answers", map[string]interface{}{
		"wordId":     wordID,
		"sentenceId": question.SentenceID,
		"userInput":  "Aller",
		"latencyMs":  900,
	}, map[string]string{util.SessionHeader: "session-1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "session-1", rec.Header().Get(util.SessionHeader))
	var graded struct {
		SessionID string `json:"sessionId"`
		Correct   bool   `json:"correct"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &graded))
	assert.True(t, graded.Correct)
	assert.Equal(t, "session-1", graded.SessionID)

	// 刚答对，不再到期
	rec, env = do(t, a, http.MethodGet, "/api/practice/next", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"done":true}`, string(env.Data))
	assert.Equal(t, "No words due for review", env.Message)

	rec, env = do(t, a, http.MethodGet, "/api/practice/dashboard", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"totalWords":1`)
	assert.Contains(t, string(env.Data), `"attempts":1`)

	rec, env = do(t, a, http.MethodGet, "/api/sessions/session-1/attempts", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"total":1`)

	rec, env = do(t, a, http.MethodGet, "/api/sessions/session-1/summary", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var summary struct {
		TotalAttempts     int    `json:"totalAttempts"`
		CorrectCount      int    `json:"correctCount"`
		LinguisticInsight string `json:"linguisticInsight"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, 1, summary.TotalAttempts)
	assert.Equal(t, 1, summary.CorrectCount)
	// 未配置模型密钥时使用固定文案
	assert.Equal(t, "Practice makes perfect. Keep working on the patterns you struggle with.", summary.LinguisticInsight)
}

func TestPracticeErrors(t *testing.T) {
	a := newTestApp(t)

	rec, _ := do(t, a, http.MethodPost, "/api/practice/answers", map[string]interface{}{"userInput": "x"}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, a, http.MethodPost, "/api/practice/answers", map[string]interface{}{"wordId": 42, "userInput": "x"}, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, a, http.MethodGet, "/api/sessions/unknown/summary", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env := do(t, a, http.MethodGet, "/api/practice/due?limit=abc", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(env.Data), `"count":0`)
}

func TestNextQuestionWithoutSentencesOrModel(t *testing.T) {
	a := newTestApp(t)
	auth := map[string]string{"Authorization": "Bearer " + adminToken(t, util.RoleAdmin)}

	rec, _ := do(t, a, http.MethodPost, "/api/admin/vocabulary/seed", map[string]interface{}{
		"words": []map[string]interface{}{{"text": "faire", "partOfSpeech": "verb"}},
	}, auth)
	require.Equal(t, http.StatusCreated, rec.Code)

	// 没有例句且无法生成时返回 503
	rec, _ = do(t, a, http.MethodGet, "/api/practice/next", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	a := newTestApp(t)
	do(t, a, http.MethodGet, "/api/health", nil, nil)

	rec, _ := do(t, a, http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}
