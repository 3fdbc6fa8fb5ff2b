package service

import (
	"context"
	"vocab_drill_backend/internal/model"
	"vocab_drill_backend/internal/util"
	"vocab_drill_backend/pkg/logger"

	"go.uber.org/zap"
)

const MinErrorsForDrill = 2

// ShouldEscalate 动词、累计错误不少于 2 次、且从未答对过
func ShouldEscalate(rec *model.MemoryRecord, word *model.Word) bool {
	return word.IsVerb() &&
		rec.ErrorCount >= MinErrorsForDrill &&
		rec.SuccessCount == 0
}

// Escalation 本轮改为动词专项练习
type Escalation struct {
	NextAction     string              `json:"nextAction"`
	DrillSentences []GeneratedSentence `json:"drillSentences"`
	NoContent      bool                `json:"noContent,omitempty"`
}

type DrillService struct {
	Generator SentenceGenerator
	Count     int
}

func NewDrillService(generator SentenceGenerator, count int) *DrillService {
	if count <= 0 {
		count = 10
	}
	return &DrillService{Generator: generator, Count: count}
}

// BuildDrill 生成失败时返回空列表并标记 NoContent
func (s *DrillService) BuildDrill(ctx context.Context, word *model.Word) *Escalation {
	esc := &Escalation{
		NextAction:     util.NextActionVerbDrill,
		DrillSentences: []GeneratedSentence{},
	}

	if s.Generator == nil {
		esc.NoContent = true
		return esc
	}

	sentences, err := s.Generator.GenerateSentences(ctx, SentenceRequest{
		Word:         word.Text,
		PartOfSpeech: word.PartOfSpeech,
		Level:        word.Level,
		Count:        s.Count,
		Drill:        true,
	})
	if err != nil {
		logger.Log.Warn("Drill generation failed",
			zap.Uint("wordId", word.ID),
			zap.String("word", word.Text),
			zap.Error(err),
		)
		esc.NoContent = true
		return esc
	}

	if len(sentences) > s.Count {
		sentences = sentences[:s.Count]
	}
	esc.DrillSentences = sentences
	esc.NoContent = len(sentences) == 0
	return esc
}
