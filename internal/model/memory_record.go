package model

import "time"

// MemoryRecord 每个单词唯一一条复习状态
// swagger:model MemoryRecord
type MemoryRecord struct {
	BaseModel

	WordID        uint      `gorm:"uniqueIndex;not null" json:"wordId"`
	Strength      int       `gorm:"not null;default:0" json:"strength"`
	ErrorCount    int       `gorm:"not null;default:0" json:"errorCount"`
	SuccessStreak int       `gorm:"not null;default:0" json:"successStreak"`
	SuccessCount  int       `gorm:"not null;default:0" json:"successCount"` // 累计答对次数，不会清零
	LastSeenAt    time.Time `json:"lastSeenAt"`
	NextReviewAt  time.Time `gorm:"index" json:"nextReviewAt"`
}

func (MemoryRecord) TableName() string {
	return "memory_records"
}

func (m *MemoryRecord) IsDue(now time.Time) bool {
	return !m.NextReviewAt.After(now)
}
