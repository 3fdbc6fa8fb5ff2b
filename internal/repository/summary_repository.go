package repository

import (
	"errors"
	"vocab_drill_backend/internal/model"
	"vocab_drill_backend/internal/util"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SummaryRepository struct {
	DB *gorm.DB
}

func NewSummaryRepository(db *gorm.DB) *SummaryRepository {
	return &SummaryRepository{DB: db}
}

func (r *SummaryRepository) FindBySessionID(sessionID string) (*model.SessionSummary, error) {
	var s model.SessionSummary
	if err := r.DB.Where("session_id = ?", sessionID).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSummaryNotFound
		}
		return nil, err
	}
	return &s, nil
}

// CreateIfAbsent 原子插入；session_id 冲突时保留已有记录，并返回库中最终的那一条
func (r *SummaryRepository) CreateIfAbsent(summary *model.SessionSummary) (*model.SessionSummary, bool, error) {
	res := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoNothing: true,
	}).Create(summary)
	if res.Error != nil {
		return nil, false, res.Error
	}

	stored, err := r.FindBySessionID(summary.SessionID)
	if err != nil {
		return nil, false, err
	}
	return stored, res.RowsAffected == 1, nil
}
