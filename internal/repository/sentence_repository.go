package repository

import (
	"errors"
	"vocab_drill_backend/internal/model"
	"vocab_drill_backend/internal/util"

	"github.com/pgvector/pgvector-go"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SentenceRepository struct {
	DB *gorm.DB
}

func NewSentenceRepository(db *gorm.DB) *SentenceRepository {
	return &SentenceRepository{DB: db}
}

func (r *SentenceRepository) WithTx(tx *gorm.DB) *SentenceRepository {
	return &SentenceRepository{DB: tx}
}

// Create 批量插入后回填 ID
func (r *SentenceRepository) Create(sentences []*model.Sentence) error {
	if len(sentences) == 0 {
		return nil
	}
	return r.DB.Create(sentences).Error
}

func (r *SentenceRepository) FindByID(id uint) (*model.Sentence, error) {
	var s model.Sentence
	if err := r.DB.First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSentenceNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *SentenceRepository) FindByWordID(wordID uint) ([]model.Sentence, error) {
	var sentences []model.Sentence
	err := r.DB.Where("word_id = ?", wordID).Order("id ASC").Find(&sentences).Error
	return sentences, err
}

func (r *SentenceRepository) CountByWordID(wordID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Sentence{}).Where("word_id = ?", wordID).Count(&count).Error
	return count, err
}

func (r *SentenceRepository) SupportsVectors() bool {
	return r.DB.Dialector.Name() == "postgres"
}

// UpsertEmbedding 写入或覆盖例句向量
func (r *SentenceRepository) UpsertEmbedding(sentenceID uint, embedding []float32, modelName string) error {
	if !r.SupportsVectors() {
		return util.ErrVectorSearchUnsupported
	}
	row := model.SentenceEmbedding{
		SentenceID: sentenceID,
		Embedding:  pgvector.NewVector(embedding),
		Model:      modelName,
	}
	err := r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "sentence_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"embedding", "model"}),
	}).Create(&row).Error
	return pkgerrors.Wrapf(err, "failed to upsert embedding for sentence %d", sentenceID)
}

// SearchSimilar 余弦距离最近的例句
func (r *SentenceRepository) SearchSimilar(embedding []float32, topK int) ([]model.Sentence, error) {
	if !r.SupportsVectors() {
		return nil, util.ErrVectorSearchUnsupported
	}
	var sentences []model.Sentence
	err := r.DB.
		Joins("JOIN sentence_embeddings e ON e.sentence_id = sentences.id").
		Clauses(clause.OrderBy{
			Expression: clause.Expr{SQL: "e.embedding <=> ?", Vars: []interface{}{pgvector.NewVector(embedding)}},
		}).
		Limit(topK).
		Find(&sentences).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "vector search failed")
	}
	return sentences, nil
}

// FindWithoutEmbedding 尚未生成向量的例句
func (r *SentenceRepository) FindWithoutEmbedding(limit int) ([]model.Sentence, error) {
	if !r.SupportsVectors() {
		return nil, util.ErrVectorSearchUnsupported
	}
	var sentences []model.Sentence
	err := r.DB.
		Joins("LEFT JOIN sentence_embeddings e ON e.sentence_id = sentences.id").
		Where("e.sentence_id IS NULL").
		Order("sentences.id ASC").
		Limit(limit).
		Find(&sentences).Error
	return sentences, err
}
