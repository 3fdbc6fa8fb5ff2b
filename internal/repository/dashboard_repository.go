package repository

import (
	"time"
	"vocab_drill_backend/internal/model"

	"gorm.io/gorm"
)

type DashboardRepository struct {
	DB *gorm.DB
}

func NewDashboardRepository(db *gorm.DB) *DashboardRepository {
	return &DashboardRepository{DB: db}
}

type StrengthBucket struct {
	Strength int   `json:"strength"`
	Count    int64 `json:"count"`
}

// TroubleWord 累计错误最多的单词
type TroubleWord struct {
	WordID     uint   `json:"wordId"`
	Text       string `json:"text"`
	Strength   int    `json:"strength"`
	ErrorCount int    `json:"errorCount"`
}

func (r *DashboardRepository) CountWords() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Word{}).Count(&count).Error
	return count, err
}

func (r *DashboardRepository) CountDue(now time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&model.MemoryRecord{}).Where("next_review_at <= ?", now).Count(&count).Error
	return count, err
}

func (r *DashboardRepository) StrengthDistribution() ([]StrengthBucket, error) {
	var buckets []StrengthBucket
	err := r.DB.Model(&model.MemoryRecord{}).
		Select("strength, COUNT(*) AS count").
		Group("strength").
		Order("strength ASC").
		Scan(&buckets).Error
	return buckets, err
}

// AttemptStatsSince 返回 since 之后的作答总数与答对数
func (r *DashboardRepository) AttemptStatsSince(since time.Time) (total, correct int64, err error) {
	if err = r.DB.Model(&model.Attempt{}).Where("attempted_at >= ?", since).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	err = r.DB.Model(&model.Attempt{}).
		Where("attempted_at >= ? AND is_correct = ?", since, true).
		Count(&correct).Error
	return total, correct, err
}

func (r *DashboardRepository) TroubleWords(limit int) ([]TroubleWord, error) {
	var rows []TroubleWord
	err := r.DB.Table("memory_records AS m").
		Select("w.id AS word_id, w.text, m.strength, m.error_count").
		Joins("JOIN words AS w ON w.id = m.word_id AND w.deleted_at IS NULL").
		Where("m.error_count > 0").
		Order("m.error_count DESC").
		Order("w.id ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}
