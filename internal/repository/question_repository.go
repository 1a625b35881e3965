package repository

import (
	"adultna_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) Create(question *model.InterviewQuestion) error {
	return r.DB.Create(question).Error
}

func (r *QuestionRepository) FindByID(id uint) (*model.InterviewQuestion, error) {
	var q model.InterviewQuestion
	err := r.DB.First(&q, id).Error
	return &q, err
}

func (r *QuestionRepository) List(page, limit int, category string) ([]model.InterviewQuestion, int64, error) {
	var qs []model.InterviewQuestion
	var total int64
	query := r.DB.Model(&model.InterviewQuestion{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("`order` asc, created_at desc").Offset(offset).Limit(limit).Find(&qs).Error
	return qs, total, err
}

// ListEnabledGeneral returns the enabled general question pool.
func (r *QuestionRepository) ListEnabledGeneral() ([]model.InterviewQuestion, error) {
	var qs []model.InterviewQuestion
	err := r.DB.Where("enabled = ? AND is_general = ?", true, true).
		Order("`order` asc").Find(&qs).Error
	return qs, err
}

// ListEnabledByCategory returns the enabled role-specific pool for a category.
func (r *QuestionRepository) ListEnabledByCategory(category string) ([]model.InterviewQuestion, error) {
	var qs []model.InterviewQuestion
	query := r.DB.Where("enabled = ? AND is_general = ?", true, false)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	err := query.Order("`order` asc").Find(&qs).Error
	return qs, err
}

func (r *QuestionRepository) Update(question *model.InterviewQuestion) error {
	return r.DB.Save(question).Error
}

func (r *QuestionRepository) Delete(id uint) error {
	return r.DB.Delete(&model.InterviewQuestion{}, id).Error
}
