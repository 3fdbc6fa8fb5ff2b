package model

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

// swagger:model Sentence
type Sentence struct {
	BaseModel

	WordID      uint           `gorm:"index;not null" json:"wordId"`
	Text        string         `gorm:"type:text;not null" json:"text"`
	ClozeText   string         `gorm:"type:text;not null" json:"clozeText"`
	Tense       string         `gorm:"type:varchar(64)" json:"tense,omitempty"`
	Source      SentenceSource `gorm:"type:varchar(16);not null;default:manual" json:"source"`
	Translation string         `gorm:"type:text" json:"translation,omitempty"`
}

func (Sentence) TableName() string {
	return "sentences"
}

// SentenceEmbedding 仅在 PostgreSQL + pgvector 下迁移
type SentenceEmbedding struct {
	SentenceID uint            `gorm:"primaryKey" json:"sentenceId"`
	Embedding  pgvector.Vector `gorm:"type:vector(1536);not null" json:"-"`
	Model      string          `gorm:"type:varchar(64)" json:"model"`
	CreatedAt  time.Time       `json:"createdAt"`
}

func (SentenceEmbedding) TableName() string {
	return "sentence_embeddings"
}
