package model

// swagger:model Word
type Word struct {
	BaseModel

	Text         string       `gorm:"type:varchar(128);uniqueIndex;not null" json:"text"`
	PartOfSpeech PartOfSpeech `gorm:"type:varchar(16);not null" json:"partOfSpeech"`
	Level        CEFRLevel    `gorm:"type:varchar(4);not null;default:A1" json:"level"`
	Translation  string       `gorm:"type:varchar(255)" json:"translation"`
}

func (Word) TableName() string {
	return "words"
}

func (w *Word) IsVerb() bool {
	return w.PartOfSpeech == PartOfSpeechVerb
}
