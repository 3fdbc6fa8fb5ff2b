package repository

import (
	"vocab_drill_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) WithTx(tx *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: tx}
}

func (r *AttemptRepository) Create(attempt *model.Attempt) error {
	return r.DB.Create(attempt).Error
}

// FindBySession 按时间顺序返回会话内所有作答
func (r *AttemptRepository) FindBySession(sessionID string) ([]model.Attempt, error) {
	var attempts []model.Attempt
	err := r.DB.Where("session_id = ?", sessionID).
		Order("attempted_at ASC").
		Order("id ASC").
		Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) CountBySession(sessionID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Attempt{}).Where("session_id = ?", sessionID).Count(&count).Error
	return count, err
}
