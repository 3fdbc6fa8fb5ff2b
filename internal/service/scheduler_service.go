package service

import (
	"time"
	"vocab_drill_backend/internal/model"
	"vocab_drill_backend/internal/repository"

	"gorm.io/gorm"
)

// ReviewLadder 按强度索引的复习间隔
var ReviewLadder = [...]time.Duration{
	5 * time.Minute,
	2 * time.Hour,
	4 * time.Hour,
	24 * time.Hour,
	3 * 24 * time.Hour,
	7 * 24 * time.Hour,
	21 * 24 * time.Hour,
}

const MaxStrength = len(ReviewLadder) - 1

// IntervalFor 强度越界时截断到阶梯两端
func IntervalFor(strength int) time.Duration {
	return ReviewLadder[clampStrength(strength)]
}

func clampStrength(s int) int {
	return max(0, min(s, MaxStrength))
}

// ApplyCorrect 答对：升一级，按新强度安排下次复习
func ApplyCorrect(rec *model.MemoryRecord, now time.Time) {
	rec.Strength = clampStrength(rec.Strength + 1)
	rec.SuccessStreak++
	rec.SuccessCount++
	rec.LastSeenAt = now
	rec.NextReviewAt = now.Add(ReviewLadder[rec.Strength])
}

// ApplyWrong 答错：降一级，且总是回到最短间隔
func ApplyWrong(rec *model.MemoryRecord, now time.Time) {
	rec.Strength = clampStrength(rec.Strength - 1)
	rec.SuccessStreak = 0
	rec.ErrorCount++
	rec.LastSeenAt = now
	rec.NextReviewAt = now.Add(ReviewLadder[0])
}

// ApplyMiss 只记错误，不动强度和复习时间；专项练习轮次使用
func ApplyMiss(rec *model.MemoryRecord, now time.Time) {
	rec.SuccessStreak = 0
	rec.ErrorCount++
	rec.LastSeenAt = now
}

type SchedulerService struct {
	MemoryRepo *repository.MemoryRepository
	Now        func() time.Time
}

func NewSchedulerService(memoryRepo *repository.MemoryRepository) *SchedulerService {
	return &SchedulerService{
		MemoryRepo: memoryRepo,
		Now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *SchedulerService) WithTx(tx *gorm.DB) *SchedulerService {
	return &SchedulerService{
		MemoryRepo: s.MemoryRepo.WithTx(tx),
		Now:        s.Now,
	}
}

// DueItems 没有到期项时返回空切片
func (s *SchedulerService) DueItems(limit int) ([]model.MemoryRecord, error) {
	if limit <= 0 {
		return []model.MemoryRecord{}, nil
	}
	return s.MemoryRepo.FindDue(s.Now(), limit)
}

func (s *SchedulerService) RecordCorrect(rec *model.MemoryRecord) error {
	next := *rec
	ApplyCorrect(&next, s.Now())
	if err := s.MemoryRepo.SaveTransition(&next); err != nil {
		return err
	}
	*rec = next
	return nil
}

func (s *SchedulerService) RecordWrong(rec *model.MemoryRecord) error {
	next := *rec
	ApplyWrong(&next, s.Now())
	if err := s.MemoryRepo.SaveTransition(&next); err != nil {
		return err
	}
	*rec = next
	return nil
}

func (s *SchedulerService) RecordMiss(rec *model.MemoryRecord) error {
	next := *rec
	ApplyMiss(&next, s.Now())
	if err := s.MemoryRepo.SaveTransition(&next); err != nil {
		return err
	}
	*rec = next
	return nil
}
