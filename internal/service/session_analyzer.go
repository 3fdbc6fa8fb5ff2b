package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"vocab_drill_backend/internal/model"
	"vocab_drill_backend/internal/repository"
	"vocab_drill_backend/internal/util"
	"vocab_drill_backend/pkg/logger"
	"vocab_drill_backend/pkg/monitoring"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	strengthMinAttempts = 3
	maxStrengths        = 3
	weaknessMinFailures = 2
	maxWeaknesses       = 2
	headlineMinFailures = 3

	StrengthContext = "improving"
	WeaknessPattern = "hesitation"

	InsightFallback = "Practice makes perfect. Keep working on the patterns you struggle with."
)

// SessionStats 单次会话的聚合数据
type SessionStats struct {
	Total         int
	Correct       int
	ErrorTally    []model.ErrorTally
	Confusions    []ConfusionPair
	AvgResponseMs float64
	StartedAt     time.Time
	EndedAt       time.Time
}

// TopConfusion 出现次数最多的混淆，次数相同取最先出现的
func (s SessionStats) TopConfusion() *ConfusionPair {
	var top *ConfusionPair
	for i := range s.Confusions {
		if top == nil || s.Confusions[i].Count > top.Count {
			top = &s.Confusions[i]
		}
	}
	if top == nil {
		return nil
	}
	c := *top
	return &c
}

// ComputeStats attempts 需按时间升序
func ComputeStats(attempts []model.Attempt) SessionStats {
	stats := SessionStats{Total: len(attempts)}
	if len(attempts) == 0 {
		return stats
	}
	stats.StartedAt = attempts[0].AttemptedAt
	stats.EndedAt = attempts[len(attempts)-1].AttemptedAt

	categoryIdx := map[model.ErrorCategory]int{}
	type confusionKey struct{ input, expected string }
	confusionIdx := map[confusionKey]int{}
	var latency int64

	for _, a := range attempts {
		latency += int64(a.ResponseTimeMs)
		if a.IsCorrect {
			stats.Correct++
			continue
		}
		if a.ErrorCategory != nil {
			if i, ok := categoryIdx[*a.ErrorCategory]; ok {
				stats.ErrorTally[i].Count++
			} else {
				categoryIdx[*a.ErrorCategory] = len(stats.ErrorTally)
				stats.ErrorTally = append(stats.ErrorTally, model.ErrorTally{Category: *a.ErrorCategory, Count: 1})
			}
		}
		if a.ConfusedWith != nil && *a.ConfusedWith != "" {
			key := confusionKey{*a.ConfusedWith, a.CorrectAnswer}
			if i, ok := confusionIdx[key]; ok {
				stats.Confusions[i].Count++
			} else {
				confusionIdx[key] = len(stats.Confusions)
				stats.Confusions = append(stats.Confusions, ConfusionPair{
					Input:    *a.ConfusedWith,
					Expected: a.CorrectAnswer,
					Count:    1,
				})
			}
		}
	}
	stats.AvgResponseMs = float64(latency) / float64(len(attempts))
	return stats
}

type wordTally struct {
	wordID  uint
	total   int
	correct int
}

// groupByWord 按单词首次出现顺序分组
func groupByWord(attempts []model.Attempt, onlyWrong bool) []*wordTally {
	idx := map[uint]*wordTally{}
	var order []*wordTally
	for _, a := range attempts {
		if onlyWrong && a.IsCorrect {
			continue
		}
		t, ok := idx[a.WordID]
		if !ok {
			t = &wordTally{wordID: a.WordID}
			idx[a.WordID] = t
			order = append(order, t)
		}
		t.total++
		if a.IsCorrect {
			t.correct++
		}
	}
	return order
}

// DetectStrengths 至少 3 次作答且正确率不低于 80%，保持首次出现顺序，最多 3 条
func DetectStrengths(attempts []model.Attempt, words map[uint]model.Word) []model.StrengthFinding {
	out := make([]model.StrengthFinding, 0, maxStrengths)
	for _, t := range groupByWord(attempts, false) {
		if len(out) == maxStrengths {
			break
		}
		// correct/total >= 0.8
		if t.total < strengthMinAttempts || t.correct*5 < t.total*4 {
			continue
		}
		w, ok := words[t.wordID]
		if !ok {
			continue
		}
		out = append(out, model.StrengthFinding{
			Word:     w.Text,
			Accuracy: fmt.Sprintf("%d/%d", t.correct, t.total),
			Context:  StrengthContext,
		})
	}
	return out
}

// DetectWeaknesses 答错至少 2 次的单词，最多 2 条
func DetectWeaknesses(attempts []model.Attempt, words map[uint]model.Word) []model.WeaknessFinding {
	out := make([]model.WeaknessFinding, 0, maxWeaknesses)
	for _, t := range groupByWord(attempts, true) {
		if len(out) == maxWeaknesses {
			break
		}
		if t.total < weaknessMinFailures {
			continue
		}
		w, ok := words[t.wordID]
		if !ok {
			continue
		}
		out = append(out, model.WeaknessFinding{
			Word:    w.Text,
			Pattern: WeaknessPattern,
			Count:   t.total,
		})
	}
	return out
}

// GenerateHeadline 弱项优先于强项
func GenerateHeadline(strengths []model.StrengthFinding, weaknesses []model.WeaknessFinding) string {
	if len(weaknesses) > 0 && weaknesses[0].Count >= headlineMinFailures {
		return fmt.Sprintf("You're still working through %s, that's the hardest part.", weaknesses[0].Word)
	}
	if len(strengths) > 0 {
		return fmt.Sprintf("You stopped hesitating on %s, it's becoming automatic.", strengths[0].Word)
	}
	return "You're building consistency across your vocabulary."
}

func GenerateNextFocus(weaknesses []model.WeaknessFinding) string {
	if len(weaknesses) == 0 {
		return "Next session: New vocabulary awaits."
	}
	return fmt.Sprintf("Next session will focus on '%s' in different contexts.", weaknesses[0].Word)
}

type SessionAnalyzer struct {
	Ledger      *LedgerService
	WordRepo    *repository.WordRepository
	SummaryRepo *repository.SummaryRepository
	Insights    InsightGenerator
	Cache       *SummaryCache

	// 同一进程内同一会话只计算一次，跨进程由 CreateIfAbsent 保证
	group singleflight.Group
}

func NewSessionAnalyzer(
	ledger *LedgerService,
	wordRepo *repository.WordRepository,
	summaryRepo *repository.SummaryRepository,
	insights InsightGenerator,
	cache *SummaryCache,
) *SessionAnalyzer {
	return &SessionAnalyzer{
		Ledger:      ledger,
		WordRepo:    wordRepo,
		SummaryRepo: summaryRepo,
		Insights:    insights,
		Cache:       cache,
	}
}

// Summarize 已有总结直接返回；否则聚合作答流水并只插入一次
func (a *SessionAnalyzer) Summarize(ctx context.Context, sessionID string) (*model.SessionSummary, error) {
	if cached, ok := a.Cache.Get(ctx, sessionID); ok {
		monitoring.SummaryRequests.WithLabelValues("cache").Inc()
		return cached, nil
	}

	existing, err := a.SummaryRepo.FindBySessionID(sessionID)
	if err == nil {
		monitoring.SummaryRequests.WithLabelValues("store").Inc()
		a.Cache.Set(ctx, existing)
		return existing, nil
	}
	if !errors.Is(err, util.ErrSummaryNotFound) {
		return nil, err
	}

	// 结果被所有等待者共享，不随首个请求取消
	shared := context.WithoutCancel(ctx)
	v, err, _ := a.group.Do(sessionID, func() (interface{}, error) {
		return a.compute(shared, sessionID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.SessionSummary), nil
}

// compute 聚合作答流水并原子写入
func (a *SessionAnalyzer) compute(ctx context.Context, sessionID string) (*model.SessionSummary, error) {
	attempts, err := a.Ledger.Attempts(sessionID)
	if err != nil {
		return nil, err
	}
	if len(attempts) == 0 {
		return nil, fmt.Errorf("%w: %s", util.ErrEmptySession, sessionID)
	}

	stats := ComputeStats(attempts)

	wordIDs := make([]uint, 0, len(attempts))
	seen := map[uint]bool{}
	for _, at := range attempts {
		if !seen[at.WordID] {
			seen[at.WordID] = true
			wordIDs = append(wordIDs, at.WordID)
		}
	}
	words, err := a.WordRepo.FindByIDs(wordIDs)
	if err != nil {
		return nil, err
	}

	strengths := DetectStrengths(attempts, words)
	weaknesses := DetectWeaknesses(attempts, words)
	breakdown := stats.ErrorTally
	if breakdown == nil {
		breakdown = []model.ErrorTally{}
	}

	summary := &model.SessionSummary{
		SessionID:         sessionID,
		StartedAt:         stats.StartedAt,
		EndedAt:           stats.EndedAt,
		TotalAttempts:     stats.Total,
		CorrectCount:      stats.Correct,
		AvgResponseMs:     stats.AvgResponseMs,
		ErrorBreakdown:    breakdown,
		Headline:          GenerateHeadline(strengths, weaknesses),
		Strengths:         strengths,
		Weaknesses:        weaknesses,
		LinguisticInsight: a.linguisticInsight(ctx, stats),
		NextFocus:         GenerateNextFocus(weaknesses),
	}

	stored, created, err := a.SummaryRepo.CreateIfAbsent(summary)
	if err != nil {
		return nil, err
	}
	if created {
		monitoring.SummaryRequests.WithLabelValues("computed").Inc()
	} else {
		// 并发请求已先写入，返回对方的结果
		monitoring.SummaryRequests.WithLabelValues("store").Inc()
		logger.Log.Debug("Session summary already created concurrently", zap.String("sessionId", sessionID))
	}

	a.Cache.Set(ctx, stored)
	return stored, nil
}

// linguisticInsight 失败时返回固定文案，不影响总结生成
func (a *SessionAnalyzer) linguisticInsight(ctx context.Context, stats SessionStats) string {
	if a.Insights == nil {
		monitoring.InsightFallbacks.Inc()
		return InsightFallback
	}

	insight, err := a.Insights.GenerateInsight(ctx, InsightRequest{
		TotalAttempts: stats.Total,
		CorrectCount:  stats.Correct,
		ErrorTally:    stats.ErrorTally,
		TopConfusion:  stats.TopConfusion(),
	})
	if err != nil || insight == "" {
		monitoring.InsightFallbacks.Inc()
		logger.Log.Warn("Linguistic insight unavailable, using fallback", zap.Error(err))
		return InsightFallback
	}
	return insight
}
