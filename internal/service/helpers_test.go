package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
	"vocab_drill_backend/internal/model"
	"vocab_drill_backend/internal/repository"
	"vocab_drill_backend/pkg/database"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var t0 = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// newTestDB 每个测试独立的内存库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func seedWord(t *testing.T, db *gorm.DB, text string, pos model.PartOfSpeech) *model.Word {
	t.Helper()
	w := &model.Word{Text: text, PartOfSpeech: pos, Level: model.LevelA1}
	require.NoError(t, db.Create(w).Error)
	return w
}

func seedMemory(t *testing.T, db *gorm.DB, rec model.MemoryRecord) *model.MemoryRecord {
	t.Helper()
	require.NoError(t, db.Create(&rec).Error)
	return &rec
}

// stubGenerator 记录调用次数，可配置返回
type stubGenerator struct {
	sentences []GeneratedSentence
	err       error
	calls     atomic.Int32

	mu       sync.Mutex
	requests []SentenceRequest
}

func (g *stubGenerator) GenerateSentences(_ context.Context, req SentenceRequest) ([]GeneratedSentence, error) {
	g.calls.Add(1)
	g.mu.Lock()
	g.requests = append(g.requests, req)
	g.mu.Unlock()
	if g.err != nil {
		return nil, g.err
	}
	return g.sentences, nil
}

type stubInsights struct {
	text  string
	err   error
	calls atomic.Int32

	mu   sync.Mutex
	last InsightRequest
}

func (s *stubInsights) GenerateInsight(ctx context.Context, req InsightRequest) (string, error) {
	s.calls.Add(1)
	s.mu.Lock()
	s.last = req
	s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.text, s.err
}

var errUpstream = errors.New("upstream down")

type testRepos struct {
	word     *repository.WordRepository
	memory   *repository.MemoryRepository
	sentence *repository.SentenceRepository
	attempt  *repository.AttemptRepository
	summary  *repository.SummaryRepository
}

func newTestRepos(db *gorm.DB) testRepos {
	return testRepos{
		word:     repository.NewWordRepository(db),
		memory:   repository.NewMemoryRepository(db),
		sentence: repository.NewSentenceRepository(db),
		attempt:  repository.NewAttemptRepository(db),
		summary:  repository.NewSummaryRepository(db),
	}
}
