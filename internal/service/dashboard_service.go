package service

import (
	"time"
	"vocab_drill_backend/internal/repository"
)

// MasteredStrength 达到该强度视为已掌握
const MasteredStrength = 5

type DashboardService struct {
	Repo *repository.DashboardRepository
	Now  func() time.Time
}

func NewDashboardService(repo *repository.DashboardRepository) *DashboardService {
	return &DashboardService{Repo: repo, Now: time.Now}
}

type Dashboard struct {
	TotalWords   int64                    `json:"totalWords"`
	DueNow       int64                    `json:"dueNow"`
	Mastered     int64                    `json:"mastered"`
	Strengths    []int64                  `json:"strengthDistribution"`
	Today        TodayStats               `json:"today"`
	TroubleWords []repository.TroubleWord `json:"troubleWords"`
}

type TodayStats struct {
	Attempts int64   `json:"attempts"`
	Correct  int64   `json:"correct"`
	Accuracy float64 `json:"accuracy"`
}

func (s *DashboardService) GetDashboard() (*Dashboard, error) {
	now := s.Now().UTC()

	total, err := s.Repo.CountWords()
	if err != nil {
		return nil, err
	}

	due, err := s.Repo.CountDue(now)
	if err != nil {
		return nil, err
	}

	// 下标即强度，缺失的档位补 0
	buckets, err := s.Repo.StrengthDistribution()
	if err != nil {
		return nil, err
	}
	strengths := make([]int64, MaxStrength+1)
	var mastered int64
	for _, b := range buckets {
		st := clampStrength(b.Strength)
		strengths[st] += b.Count
		if st >= MasteredStrength {
			mastered += b.Count
		}
	}

	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	attempts, correct, err := s.Repo.AttemptStatsSince(midnight)
	if err != nil {
		return nil, err
	}
	today := TodayStats{Attempts: attempts, Correct: correct}
	if attempts > 0 {
		today.Accuracy = float64(correct) / float64(attempts)
	}

	trouble, err := s.Repo.TroubleWords(5)
	if err != nil {
		return nil, err
	}
	if trouble == nil {
		trouble = []repository.TroubleWord{}
	}

	return &Dashboard{
		TotalWords:   total,
		DueNow:       due,
		Mastered:     mastered,
		Strengths:    strengths,
		Today:        today,
		TroubleWords: trouble,
	}, nil
}
