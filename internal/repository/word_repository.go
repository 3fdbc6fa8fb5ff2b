package repository

import (
	"errors"
	"vocab_drill_backend/internal/model"
	"vocab_drill_backend/internal/util"

	"gorm.io/gorm"
)

type WordRepository struct {
	DB *gorm.DB
}

func NewWordRepository(db *gorm.DB) *WordRepository {
	return &WordRepository{DB: db}
}

func (r *WordRepository) WithTx(tx *gorm.DB) *WordRepository {
	return &WordRepository{DB: tx}
}

func (r *WordRepository) Create(word *model.Word) error {
	return r.DB.Create(word).Error
}

func (r *WordRepository) Update(word *model.Word) error {
	return r.DB.Save(word).Error
}

func (r *WordRepository) FindByID(id uint) (*model.Word, error) {
	var w model.Word
	if err := r.DB.First(&w, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrWordNotFound
		}
		return nil, err
	}
	return &w, nil
}

func (r *WordRepository) FindByText(text string) (*model.Word, error) {
	var w model.Word
	if err := r.DB.Where("text = ?", text).First(&w).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrWordNotFound
		}
		return nil, err
	}
	return &w, nil
}

// FindByIDs 返回 id -> Word，缺失的 id 不报错
func (r *WordRepository) FindByIDs(ids []uint) (map[uint]model.Word, error) {
	out := make(map[uint]model.Word, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var words []model.Word
	if err := r.DB.Where("id IN ?", ids).Find(&words).Error; err != nil {
		return nil, err
	}
	for _, w := range words {
		out[w.ID] = w
	}
	return out, nil
}

func (r *WordRepository) List(offset, limit int) ([]model.Word, int64, error) {
	var (
		words []model.Word
		total int64
	)
	if err := r.DB.Model(&model.Word{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.DB.Order("id ASC").Offset(offset).Limit(limit).Find(&words).Error
	return words, total, err
}
