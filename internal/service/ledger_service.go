package service

import (
	"fmt"
	"strings"
	"time"
	"vocab_drill_backend/internal/model"
	"vocab_drill_backend/internal/repository"
	"vocab_drill_backend/internal/util"

	"gorm.io/gorm"
)

// LedgerService 作答流水，只追加
type LedgerService struct {
	AttemptRepo *repository.AttemptRepository
	Now         func() time.Time
}

func NewLedgerService(attemptRepo *repository.AttemptRepository) *LedgerService {
	return &LedgerService{
		AttemptRepo: attemptRepo,
		Now:         func() time.Time { return time.Now().UTC() },
	}
}

func (s *LedgerService) WithTx(tx *gorm.DB) *LedgerService {
	return &LedgerService{AttemptRepo: s.AttemptRepo.WithTx(tx), Now: s.Now}
}

func (s *LedgerService) Record(attempt *model.Attempt) error {
	if attempt.ID != 0 {
		return fmt.Errorf("%w: attempt %d already recorded", util.ErrInvalidAttempt, attempt.ID)
	}
	if strings.TrimSpace(attempt.SessionID) == "" {
		return fmt.Errorf("%w: missing session id", util.ErrInvalidAttempt)
	}
	if attempt.WordID == 0 {
		return fmt.Errorf("%w: missing word id", util.ErrInvalidAttempt)
	}
	if attempt.IsCorrect && (attempt.ErrorCategory != nil || attempt.ConfusedWith != nil) {
		return fmt.Errorf("%w: correct attempt cannot carry an error category", util.ErrInvalidAttempt)
	}
	if attempt.ErrorCategory != nil && !attempt.ErrorCategory.Valid() {
		return fmt.Errorf("%w: error category %q", util.ErrInvalidEnum, *attempt.ErrorCategory)
	}
	if attempt.AttemptedAt.IsZero() {
		attempt.AttemptedAt = s.Now()
	}
	return s.AttemptRepo.Create(attempt)
}

func (s *LedgerService) Attempts(sessionID string) ([]model.Attempt, error) {
	return s.AttemptRepo.FindBySession(sessionID)
}
