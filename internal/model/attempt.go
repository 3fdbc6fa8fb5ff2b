package model

import "time"

// Attempt 练习记录，只追加不修改
// swagger:model Attempt
type Attempt struct {
	ID             uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID      string         `gorm:"type:varchar(64);index;not null" json:"sessionId"`
	WordID         uint           `gorm:"index;not null" json:"wordId"`
	SentenceID     uint           `json:"sentenceId"`
	UserInput      string         `gorm:"type:varchar(255)" json:"userInput"`
	CorrectAnswer  string         `gorm:"type:varchar(128)" json:"correctAnswer"`
	IsCorrect      bool           `json:"isCorrect"`
	ResponseTimeMs int            `json:"responseTimeMs"`
	ErrorCategory  *ErrorCategory `gorm:"type:varchar(16)" json:"errorCategory,omitempty"`
	ConfusedWith   *string        `gorm:"type:varchar(255)" json:"confusedWith,omitempty"`
	AttemptedAt    time.Time      `gorm:"index;not null" json:"attemptedAt"`
}

func (Attempt) TableName() string {
	return "session_attempts"
}
