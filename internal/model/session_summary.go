package model

import (
	"time"

	"gorm.io/datatypes"
)

type StrengthFinding struct {
	Word     string `json:"word"`
	Accuracy string `json:"accuracy"`
	Context  string `json:"context"`
}

type WeaknessFinding struct {
	Word    string `json:"word"`
	Pattern string `json:"pattern"`
	Count   int    `json:"count"`
}

type ErrorTally struct {
	Category ErrorCategory `json:"category"`
	Count    int           `json:"count"`
}

// SessionSummary 会话总结，创建后不再修改
// swagger:model SessionSummary
type SessionSummary struct {
	ID                uint                                 `gorm:"primaryKey;autoIncrement" json:"id"`
	SessionID         string                               `gorm:"type:varchar(64);uniqueIndex;not null" json:"sessionId"`
	StartedAt         time.Time                            `json:"startedAt"`
	EndedAt           time.Time                            `json:"endedAt"`
	TotalAttempts     int                                  `json:"totalAttempts"`
	CorrectCount      int                                  `json:"correctCount"`
	AvgResponseMs     float64                              `json:"avgResponseMs"`
	ErrorBreakdown    datatypes.JSONSlice[ErrorTally]      `json:"errorBreakdown"`
	Headline          string                               `gorm:"type:text" json:"headline"`
	Strengths         datatypes.JSONSlice[StrengthFinding] `json:"strengths"`
	Weaknesses        datatypes.JSONSlice[WeaknessFinding] `json:"weaknesses"`
	LinguisticInsight string                               `gorm:"type:text" json:"linguisticInsight"`
	NextFocus         string                               `gorm:"type:text" json:"nextFocus"`
	CreatedAt         time.Time                            `json:"createdAt"`
}

func (SessionSummary) TableName() string {
	return "session_summaries"
}
