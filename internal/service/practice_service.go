package service

import (
	"context"
	"math/rand"
	"strings"
	"time"
	"vocab_drill_backend/internal/model"
	"vocab_drill_backend/internal/repository"
	"vocab_drill_backend/internal/util"
	"vocab_drill_backend/pkg/logger"
	"vocab_drill_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type DueItem struct {
	model.MemoryRecord
	Word model.Word `json:"word"`
}

// Question 填空题，不包含答案
type Question struct {
	WordID       uint               `json:"wordId"`
	SentenceID   uint               `json:"sentenceId"`
	Cloze        string             `json:"cloze"`
	Tense        string             `json:"tense,omitempty"`
	Translation  string             `json:"translation,omitempty"`
	PartOfSpeech model.PartOfSpeech `json:"partOfSpeech"`
	Level        model.CEFRLevel    `json:"level"`
	Strength     int                `json:"strength"`
}

type GradeRequest struct {
	WordID     uint   `json:"wordId" binding:"required"`
	SentenceID uint   `json:"sentenceId"`
	UserInput  string `json:"userInput" binding:"max=255"`
	SessionID  string `json:"sessionId"`
	LatencyMs  int    `json:"latencyMs" binding:"gte=0"`
}

type GradeResult struct {
	SessionID     string              `json:"sessionId"`
	Correct       bool                `json:"correct"`
	CorrectAnswer string              `json:"correctAnswer"`
	NextReviewAt  time.Time           `json:"nextReviewAt"`
	ErrorCategory model.ErrorCategory `json:"errorCategory,omitempty"`
	Escalation    *Escalation         `json:"escalation,omitempty"`
}

// PracticeService 出题与判分流程
type PracticeService struct {
	DB           *gorm.DB
	WordRepo     *repository.WordRepository
	MemoryRepo   *repository.MemoryRepository
	SentenceRepo *repository.SentenceRepository
	Scheduler    *SchedulerService
	Ledger       *LedgerService
	Drill        *DrillService
	Sentences    *SentenceService
	AllowTypo    bool
	pick         func(n int) int
}

func NewPracticeService(
	db *gorm.DB,
	wordRepo *repository.WordRepository,
	memoryRepo *repository.MemoryRepository,
	sentenceRepo *repository.SentenceRepository,
	scheduler *SchedulerService,
	ledger *LedgerService,
	drill *DrillService,
	sentences *SentenceService,
	allowTypo bool,
) *PracticeService {
	return &PracticeService{
		DB:           db,
		WordRepo:     wordRepo,
		MemoryRepo:   memoryRepo,
		SentenceRepo: sentenceRepo,
		Scheduler:    scheduler,
		Ledger:       ledger,
		Drill:        drill,
		Sentences:    sentences,
		AllowTypo:    allowTypo,
		pick:         rand.Intn,
	}
}

// DueItems 到期的复习项及其单词
func (s *PracticeService) DueItems(limit int) ([]DueItem, error) {
	records, err := s.Scheduler.DueItems(limit)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, len(records))
	for i, r := range records {
		ids[i] = r.WordID
	}
	words, err := s.WordRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}

	items := make([]DueItem, 0, len(records))
	for _, r := range records {
		w, ok := words[r.WordID]
		if !ok {
			return nil, util.ErrWordNotFound
		}
		items = append(items, DueItem{MemoryRecord: r, Word: w})
	}
	return items, nil
}

// NextQuestion 取最需要复习的单词出题；没有到期项时返回 nil
func (s *PracticeService) NextQuestion(ctx context.Context) (*Question, error) {
	due, err := s.Scheduler.DueItems(1)
	if err != nil {
		return nil, err
	}
	if len(due) == 0 {
		return nil, nil
	}
	rec := due[0]

	word, err := s.WordRepo.FindByID(rec.WordID)
	if err != nil {
		return nil, err
	}

	sentences, err := s.Sentences.EnsureSentences(ctx, word)
	if err != nil {
		return nil, err
	}
	if len(sentences) == 0 {
		return nil, util.ErrNoContent
	}

	sentence := sentences[s.pick(len(sentences))]
	return &Question{
		WordID:       word.ID,
		SentenceID:   sentence.ID,
		Cloze:        sentence.ClozeText,
		Tense:        sentence.Tense,
		Translation:  sentence.Translation,
		PartOfSpeech: word.PartOfSpeech,
		Level:        word.Level,
		Strength:     rec.Strength,
	}, nil
}

// GradeAnswer 判分、写流水、更新调度状态。
// 升级判断基于计入本次错误后的计数；触发专项练习时只累计错误，不降级也不重排复习时间
func (s *PracticeService) GradeAnswer(ctx context.Context, req GradeRequest) (*GradeResult, error) {
	word, err := s.WordRepo.FindByID(req.WordID)
	if err != nil {
		return nil, err
	}
	if req.SentenceID != 0 {
		sentence, err := s.SentenceRepo.FindByID(req.SentenceID)
		if err != nil {
			return nil, err
		}
		if sentence.WordID != word.ID {
			return nil, util.ErrSentenceNotFound
		}
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = model.NewSessionID()
	}

	result := &GradeResult{
		SessionID:     sessionID,
		CorrectAnswer: word.Text,
	}
	escalate := false

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		rec, err := s.MemoryRepo.WithTx(tx).FindByWordID(word.ID)
		if err != nil {
			return err
		}

		correct := ValidateAnswer(req.UserInput, word.Text, s.AllowTypo)
		attempt := &model.Attempt{
			SessionID:      sessionID,
			WordID:         word.ID,
			SentenceID:     req.SentenceID,
			UserInput:      req.UserInput,
			CorrectAnswer:  word.Text,
			IsCorrect:      correct,
			ResponseTimeMs: req.LatencyMs,
		}
		if !correct {
			category := ClassifyError(req.UserInput, word.Text)
			input := req.UserInput
			attempt.ErrorCategory = &category
			attempt.ConfusedWith = &input
			result.ErrorCategory = category
			counted := *rec
			counted.ErrorCount++
			escalate = ShouldEscalate(&counted, word)
		}

		if err := s.Ledger.WithTx(tx).Record(attempt); err != nil {
			return err
		}

		scheduler := s.Scheduler.WithTx(tx)
		switch {
		case correct:
			err = scheduler.RecordCorrect(rec)
		case escalate:
			err = scheduler.RecordMiss(rec)
		default:
			err = scheduler.RecordWrong(rec)
		}
		if err != nil {
			return err
		}

		result.Correct = correct
		result.NextReviewAt = rec.NextReviewAt
		return nil
	})
	if err != nil {
		return nil, err
	}

	switch {
	case result.Correct:
		monitoring.AnswersGraded.WithLabelValues("correct").Inc()
	case escalate:
		monitoring.AnswersGraded.WithLabelValues("escalated").Inc()
	default:
		monitoring.AnswersGraded.WithLabelValues("wrong").Inc()
	}
	if !result.Correct {
		monitoring.AnswerErrors.WithLabelValues(string(result.ErrorCategory)).Inc()
	}

	// 模型调用放在事务之外
	if escalate {
		logger.Log.Info("Escalating to verb drill",
			zap.Uint("wordId", word.ID),
			zap.String("sessionId", sessionID),
		)
		result.Escalation = s.Drill.BuildDrill(ctx, word)
	}
	return result, nil
}

// SessionAttempts 会话作答流水
func (s *PracticeService) SessionAttempts(sessionID string) ([]model.Attempt, error) {
	return s.Ledger.Attempts(sessionID)
}
