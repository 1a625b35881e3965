package service

import (
	"errors"

	"adultna_backend/internal/model"
	"adultna_backend/internal/repository"
	"adultna_backend/internal/util"

	"gorm.io/gorm"
)

type QuestionBankService struct {
	Repo *repository.QuestionRepository
}

func NewQuestionBankService(repo *repository.QuestionRepository) *QuestionBankService {
	return &QuestionBankService{Repo: repo}
}

type QuestionRequest struct {
	Category  string `json:"category"`
	Text      string `json:"text" binding:"required"`
	IsGeneral bool   `json:"isGeneral"`
	Order     int    `json:"order"`
	Enabled   *bool  `json:"enabled"`
}

func (s *QuestionBankService) CreateQuestion(req QuestionRequest) (*model.InterviewQuestion, error) {
	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	q := &model.InterviewQuestion{
		Category:  req.Category,
		Text:      req.Text,
		IsGeneral: req.IsGeneral,
		Order:     req.Order,
		Enabled:   enabled,
	}
	if err := s.Repo.Create(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionBankService) ListQuestions(page, limit int, category string) ([]model.InterviewQuestion, int64, error) {
	return s.Repo.List(page, limit, category)
}

// mapQuestionErr turns gorm's not-found into the domain sentinel.
func mapQuestionErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrQuestionNotFound
	}
	return err
}

func (s *QuestionBankService) GetQuestion(id uint) (*model.InterviewQuestion, error) {
	q, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, mapQuestionErr(err)
	}
	return q, nil
}

func (s *QuestionBankService) UpdateQuestion(id uint, req QuestionRequest) (*model.InterviewQuestion, error) {
	q, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, mapQuestionErr(err)
	}

	q.Category = req.Category
	q.Text = req.Text
	q.IsGeneral = req.IsGeneral
	q.Order = req.Order
	if req.Enabled != nil {
		q.Enabled = *req.Enabled
	}
	if err := s.Repo.Update(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionBankService) DeleteQuestion(id uint) error {
	return s.Repo.Delete(id)
}

// PickForSession assembles the question pool for a new interview session:
// every enabled general question plus the role-specific pool for the given
// category, snapshotted into SessionQuestion rows.
func (s *QuestionBankService) PickForSession(category string) ([]model.SessionQuestion, error) {
	general, err := s.Repo.ListEnabledGeneral()
	if err != nil {
		return nil, err
	}
	specific, err := s.Repo.ListEnabledByCategory(category)
	if err != nil {
		return nil, err
	}

	picked := make([]model.SessionQuestion, 0, len(general)+len(specific))
	for _, q := range append(general, specific...) {
		picked = append(picked, model.SessionQuestion{
			QuestionID: q.ID,
			Text:       q.Text,
			IsGeneral:  q.IsGeneral,
			Order:      q.Order,
		})
	}
	return picked, nil
}
