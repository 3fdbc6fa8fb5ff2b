package repository

import (
	"errors"
	"time"
	"vocab_drill_backend/internal/model"
	"vocab_drill_backend/internal/util"

	"gorm.io/gorm"
)

type MemoryRepository struct {
	DB *gorm.DB
}

func NewMemoryRepository(db *gorm.DB) *MemoryRepository {
	return &MemoryRepository{DB: db}
}

func (r *MemoryRepository) WithTx(tx *gorm.DB) *MemoryRepository {
	return &MemoryRepository{DB: tx}
}

func (r *MemoryRepository) Create(record *model.MemoryRecord) error {
	return r.DB.Create(record).Error
}

func (r *MemoryRepository) FindByWordID(wordID uint) (*model.MemoryRecord, error) {
	var m model.MemoryRecord
	if err := r.DB.Where("word_id = ?", wordID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrMemoryRecordNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *MemoryRepository) FindByWordIDs(wordIDs []uint) (map[uint]model.MemoryRecord, error) {
	out := make(map[uint]model.MemoryRecord, len(wordIDs))
	if len(wordIDs) == 0 {
		return out, nil
	}
	var records []model.MemoryRecord
	if err := r.DB.Where("word_id IN ?", wordIDs).Find(&records).Error; err != nil {
		return nil, err
	}
	for _, m := range records {
		out[m.WordID] = m
	}
	return out, nil
}

// FindDue 到期记录：先弱后强，同强度按到期时间先后
func (r *MemoryRepository) FindDue(now time.Time, limit int) ([]model.MemoryRecord, error) {
	records := make([]model.MemoryRecord, 0, limit)
	err := r.DB.Where("next_review_at <= ?", now).
		Order("strength ASC").
		Order("next_review_at ASC").
		Order("id ASC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

func (r *MemoryRepository) CountDue(now time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&model.MemoryRecord{}).Where("next_review_at <= ?", now).Count(&count).Error
	return count, err
}

// SaveTransition 单条 UPDATE 写入全部调度字段
func (r *MemoryRepository) SaveTransition(record *model.MemoryRecord) error {
	res := r.DB.Model(&model.MemoryRecord{}).
		Where("id = ?", record.ID).
		Updates(map[string]interface{}{
			"strength":       record.Strength,
			"error_count":    record.ErrorCount,
			"success_streak": record.SuccessStreak,
			"success_count":  record.SuccessCount,
			"last_seen_at":   record.LastSeenAt,
			"next_review_at": record.NextReviewAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrMemoryRecordNotFound
	}
	return nil
}
