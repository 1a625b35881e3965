package repository

import (
	"time"

	"adultna_backend/internal/model"

	"gorm.io/gorm"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

func (r *SessionRepository) Create(session *model.InterviewSession, questions []model.SessionQuestion) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(session).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].SessionID = session.ID
		}
		if len(questions) > 0 {
			if err := tx.Create(&questions).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SessionRepository) FindByID(id string) (*model.InterviewSession, error) {
	var s model.InterviewSession
	err := r.DB.First(&s, "id = ?", id).Error
	return &s, err
}

func (r *SessionRepository) ListByUser(userID uint, page, limit int) ([]model.InterviewSession, int64, error) {
	var ss []model.InterviewSession
	var total int64
	query := r.DB.Model(&model.InterviewSession{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("started_at desc").Offset(offset).Limit(limit).Find(&ss).Error
	return ss, total, err
}

func (r *SessionRepository) ListQuestions(sessionID string) ([]model.SessionQuestion, error) {
	var qs []model.SessionQuestion
	err := r.DB.Where("session_id = ?", sessionID).Find(&qs).Error
	return qs, err
}

func (r *SessionRepository) UpdateStatus(sessionID, status string) error {
	updates := map[string]interface{}{"status": status}
	if status == model.SessionCompleted || status == model.SessionAbandoned {
		now := time.Now()
		updates["completed_at"] = &now
	}
	return r.DB.Model(&model.InterviewSession{}).
		Where("id = ?", sessionID).
		Updates(updates).
		Error
}
