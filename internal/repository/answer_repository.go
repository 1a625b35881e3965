package repository

import (
	"adultna_backend/internal/model"

	"gorm.io/gorm"
)

type AnswerRepository struct {
	DB *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) *AnswerRepository {
	return &AnswerRepository{DB: db}
}

// RecordGrade persists the accepted grading submission. The unique index on
// session_question_id keeps the record append-only at one row per question.
func (r *AnswerRepository) RecordGrade(answer *model.GradedAnswer) error {
	return r.DB.Create(answer).Error
}

func (r *AnswerRepository) ListBySession(sessionID string) ([]model.GradedAnswer, error) {
	var answers []model.GradedAnswer
	err := r.DB.Where("session_id = ?", sessionID).Order("created_at asc").Find(&answers).Error
	return answers, err
}

func (r *AnswerRepository) FindBySessionQuestion(sessionQuestionID string) (*model.GradedAnswer, error) {
	var a model.GradedAnswer
	err := r.DB.Where("session_question_id = ?", sessionQuestionID).First(&a).Error
	return &a, err
}

func (r *AnswerRepository) CreateRecording(rec *model.InterviewRecording) error {
	return r.DB.Create(rec).Error
}

func (r *AnswerRepository) ListRecordings(sessionID string) ([]model.InterviewRecording, error) {
	var recs []model.InterviewRecording
	err := r.DB.Where("session_id = ?", sessionID).Order("created_at asc").Find(&recs).Error
	return recs, err
}
