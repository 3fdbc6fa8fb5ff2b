package service

import (
	"context"
	"fmt"
	"vocab_drill_backend/internal/model"
	"vocab_drill_backend/internal/repository"
	"vocab_drill_backend/internal/util"
	"vocab_drill_backend/pkg/logger"
	"vocab_drill_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// SentenceService 例句获取：库中没有时检索相似例句作为上下文再生成
type SentenceService struct {
	SentenceRepo *repository.SentenceRepository
	Generator    SentenceGenerator
	Embedder     Embedder
	Count        int
	TopK         int
}

func NewSentenceService(
	sentenceRepo *repository.SentenceRepository,
	generator SentenceGenerator,
	embedder Embedder,
	count, topK int,
) *SentenceService {
	if count <= 0 {
		count = 5
	}
	if topK <= 0 {
		topK = 5
	}
	return &SentenceService{
		SentenceRepo: sentenceRepo,
		Generator:    generator,
		Embedder:     embedder,
		Count:        count,
		TopK:         topK,
	}
}

// EnsureSentences 返回单词的例句，必要时生成并入库
func (s *SentenceService) EnsureSentences(ctx context.Context, word *model.Word) ([]model.Sentence, error) {
	existing, err := s.SentenceRepo.FindByWordID(word.ID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return existing, nil
	}

	generated, genErr := s.generate(ctx, word)
	if genErr != nil {
		return nil, fmt.Errorf("%w for %q: %w", util.ErrNoContent, word.Text, genErr)
	}

	rows := make([]*model.Sentence, 0, len(generated))
	for _, g := range generated {
		rows = append(rows, &model.Sentence{
			WordID:    word.ID,
			Text:      g.Text,
			ClozeText: g.Cloze,
			Tense:     g.Tense,
			Source:    model.SourceLLM,
		})
	}
	if err := s.SentenceRepo.Create(rows); err != nil {
		return nil, err
	}
	s.embedSentences(ctx, rows)

	return s.SentenceRepo.FindByWordID(word.ID)
}

func (s *SentenceService) generate(ctx context.Context, word *model.Word) ([]GeneratedSentence, error) {
	if s.Generator == nil {
		return nil, fmt.Errorf("%w: no sentence generator configured", util.ErrUpstreamUnavailable)
	}

	req := SentenceRequest{
		Word:         word.Text,
		PartOfSpeech: word.PartOfSpeech,
		Level:        word.Level,
		Count:        s.Count,
	}

	if examples := s.retrieveContext(ctx, word); len(examples) > 0 {
		req.Context = examples
		sentences, err := s.Generator.GenerateSentences(ctx, req)
		if err == nil {
			monitoring.SentenceGeneration.WithLabelValues("rag", "ok").Inc()
			return sentences, nil
		}
		monitoring.SentenceGeneration.WithLabelValues("rag", "failed").Inc()
		logger.Log.Warn("Contextual generation failed, falling back to basic prompt",
			zap.String("word", word.Text),
			zap.Error(err),
		)
		req.Context = nil
	}

	sentences, err := s.Generator.GenerateSentences(ctx, req)
	if err != nil {
		monitoring.SentenceGeneration.WithLabelValues("basic", "failed").Inc()
		return nil, err
	}
	monitoring.SentenceGeneration.WithLabelValues("basic", "ok").Inc()
	return sentences, nil
}

// retrieveContext 检索失败只记录日志，返回空上下文
func (s *SentenceService) retrieveContext(ctx context.Context, word *model.Word) []model.Sentence {
	if s.Embedder == nil || !s.SentenceRepo.SupportsVectors() {
		return nil
	}
	query := fmt.Sprintf("sentences using the French word %s", word.Text)
	vectors, err := s.Embedder.Embed(ctx, []string{query})
	if err != nil || len(vectors) == 0 {
		logger.Log.Warn("Query embedding failed, generating without context", zap.String("word", word.Text), zap.Error(err))
		return nil
	}

	similar, err := s.SentenceRepo.SearchSimilar(vectors[0], s.TopK)
	if err != nil {
		logger.Log.Warn("Vector search failed", zap.String("word", word.Text), zap.Error(err))
		return nil
	}
	return similar
}

// embedSentences 为新例句补向量，失败不影响主流程
func (s *SentenceService) embedSentences(ctx context.Context, rows []*model.Sentence) {
	if s.Embedder == nil || len(rows) == 0 || !s.SentenceRepo.SupportsVectors() {
		return
	}
	if _, err := s.BackfillEmbeddings(ctx, rows); err != nil {
		logger.Log.Warn("Failed to embed generated sentences", zap.Error(err))
	}
}

// BackfillEmbeddings 批量写入例句向量，返回成功条数
func (s *SentenceService) BackfillEmbeddings(ctx context.Context, rows []*model.Sentence) (int, error) {
	if s.Embedder == nil {
		return 0, fmt.Errorf("%w: no embedder configured", util.ErrUpstreamUnavailable)
	}
	if !s.SentenceRepo.SupportsVectors() {
		return 0, util.ErrVectorSearchUnsupported
	}
	texts := make([]string, len(rows))
	for i, r := range rows {
		texts[i] = r.Text
	}
	vectors, err := s.Embedder.Embed(ctx, texts)
	if err != nil {
		return 0, err
	}

	stored := 0
	for i, r := range rows {
		if i >= len(vectors) || len(vectors[i]) == 0 {
			continue
		}
		if err := s.SentenceRepo.UpsertEmbedding(r.ID, vectors[i], s.Embedder.EmbeddingModel()); err != nil {
			return stored, err
		}
		stored++
	}
	return stored, nil
}
