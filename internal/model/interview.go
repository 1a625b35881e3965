package model

import (
	"time"
)

const (
	SessionActive    = "active"
	SessionCompleted = "completed"
	SessionAbandoned = "abandoned"
)

// InterviewQuestion is a question-bank entry managed by admins.
// swagger:model InterviewQuestion
type InterviewQuestion struct {
	BaseModel
	Category  string `gorm:"size:100;index" json:"category"`
	Text      string `gorm:"type:text;not null" json:"text"`
	IsGeneral bool   `gorm:"default:false" json:"isGeneral"`
	Order     int    `gorm:"default:0" json:"order"`
	Enabled   bool   `gorm:"default:true" json:"enabled"`
}

func (InterviewQuestion) TableName() string {
	return "interview_questions"
}

// swagger:model InterviewSession
type InterviewSession struct {
	UUIDBase
	UserID      uint       `gorm:"index;type:bigint unsigned" json:"userId"`
	User        *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	JobTitle    string     `gorm:"size:255" json:"jobTitle"`
	Status      string     `gorm:"size:20;default:'active'" json:"status"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (InterviewSession) TableName() string {
	return "interview_sessions"
}

// SessionQuestion is the per-session snapshot of a bank question. Order and
// IsGeneral are frozen at session start so later bank edits cannot reshuffle a
// session in progress.
// swagger:model SessionQuestion
type SessionQuestion struct {
	UUIDBase
	SessionID  string `gorm:"index;type:varchar(36)" json:"sessionId"`
	QuestionID uint   `gorm:"index;type:bigint unsigned" json:"questionId"`
	Text       string `gorm:"type:text;not null" json:"text"`
	IsGeneral  bool   `gorm:"default:false" json:"isGeneral"`
	Order      int    `gorm:"default:0" json:"order"`
}

func (SessionQuestion) TableName() string {
	return "session_questions"
}

// GradedAnswer records one accepted grading submission. At most one row per
// session question.
// swagger:model GradedAnswer
type GradedAnswer struct {
	UUIDBase
	SessionID         string `gorm:"index;type:varchar(36)" json:"sessionId"`
	SessionQuestionID string `gorm:"uniqueIndex;type:varchar(36)" json:"sessionQuestionId"`
	UserAnswer        string `gorm:"type:text" json:"userAnswer"`
	RemoteGradeID     string `gorm:"size:64" json:"remoteGradeId"`
}

func (GradedAnswer) TableName() string {
	return "graded_answers"
}

// swagger:model InterviewRecording
type InterviewRecording struct {
	UUIDBase
	SessionID string  `gorm:"index;type:varchar(36)" json:"sessionId"`
	UserID    uint    `gorm:"index;type:bigint unsigned" json:"userId"`
	FileURL   string  `gorm:"size:255" json:"fileUrl"`
	Duration  float64 `gorm:"default:0" json:"duration"`
	Format    string  `gorm:"size:50" json:"format"`
	Size      int64   `gorm:"default:0" json:"size"`
}

func (InterviewRecording) TableName() string {
	return "interview_recordings"
}
