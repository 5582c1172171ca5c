package domain

import (
	"fmt"
	"time"
)

// ApplicationStatus статус отклика. Порядок значений фиксирован.
type ApplicationStatus string

const (
	StatusApplied    ApplicationStatus = "applied"
	StatusScreening  ApplicationStatus = "screening"
	StatusInterview  ApplicationStatus = "interview"
	StatusAssessment ApplicationStatus = "assessment"
	StatusOffer      ApplicationStatus = "offer"
	StatusHired      ApplicationStatus = "hired"
	StatusRejected   ApplicationStatus = "rejected"
	StatusWithdrawn  ApplicationStatus = "withdrawn"
)

// ApplicationStatuses все статусы по порядку
var ApplicationStatuses = []ApplicationStatus{
	StatusApplied,
	StatusScreening,
	StatusInterview,
	StatusAssessment,
	StatusOffer,
	StatusHired,
	StatusRejected,
	StatusWithdrawn,
}

// Rank возвращает позицию статуса или -1 для неизвестного
func (s ApplicationStatus) Rank() int {
	for i, st := range ApplicationStatuses {
		if st == s {
			return i
		}
	}
	return -1
}

// Valid сообщает, известен ли статус
func (s ApplicationStatus) Valid() bool {
	return s.Rank() >= 0
}

// Terminal сообщает, завершен ли процесс найма
func (s ApplicationStatus) Terminal() bool {
	return s == StatusHired || s == StatusRejected || s == StatusWithdrawn
}

// ParseApplicationStatus разбирает статус
func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	st := ApplicationStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("неизвестный статус отклика: %q", s)
	}
	return st, nil
}

// Application отклик соискателя
type Application struct {
	ID              ID                  `json:"id"`
	Job             *Job                `json:"job,omitempty"`
	JobTitle        string              `json:"job_title,omitempty"`
	ApplicantName   string              `json:"applicant_name,omitempty"`
	Status          ApplicationStatus   `json:"status"`
	CoverLetter     string              `json:"cover_letter,omitempty"`
	ResumeURL       string              `json:"resume_url,omitempty"`
	EmployerNotes   string              `json:"employer_notes,omitempty"`
	RejectionReason string              `json:"rejection_reason,omitempty"`
	AppliedDate     string              `json:"applied_date,omitempty"`
	Answers         []ApplicationAnswer `json:"answers,omitempty"`
	StatusHistory   []StatusChange      `json:"status_history,omitempty"`
}

// StatusChange запись истории статусов. История только дополняется.
type StatusChange struct {
	ID        ID                `json:"id,omitempty"`
	Status    ApplicationStatus `json:"status"`
	Notes     string            `json:"notes,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// WithStatus возвращает копию отклика с новым статусом и дописанной историей
func (a Application) WithStatus(status ApplicationStatus, notes string, at time.Time) Application {
	history := make([]StatusChange, len(a.StatusHistory), len(a.StatusHistory)+1)
	copy(history, a.StatusHistory)
	a.StatusHistory = append(history, StatusChange{Status: status, Notes: notes, CreatedAt: at})
	a.Status = status
	return a
}

// ApplicationAnswer ответ на вопрос анкеты
type ApplicationAnswer struct {
	Question ID     `json:"question"`
	Answer   string `json:"answer"`
}

// ApplicationQuestion вопрос анкеты вакансии
type ApplicationQuestion struct {
	ID           ID     `json:"id,omitempty"`
	Question     string `json:"question"`
	Description  string `json:"description,omitempty"`
	QuestionType string `json:"question_type"`
	Options      string `json:"options,omitempty"`
	IsRequired   bool   `json:"is_required"`
	DisplayOrder int    `json:"display_order"`
}

// ApplicationStats количество откликов по статусам
type ApplicationStats struct {
	Total      int `json:"total"`
	Applied    int `json:"applied"`
	Screening  int `json:"screening"`
	Interview  int `json:"interview"`
	Assessment int `json:"assessment"`
	Offer      int `json:"offer"`
	Hired      int `json:"hired"`
	Rejected   int `json:"rejected"`
	Withdrawn  int `json:"withdrawn"`
}

// ApplicationSubmission данные нового отклика
type ApplicationSubmission struct {
	Job         ID                  `json:"job"`
	CoverLetter string              `json:"cover_letter,omitempty"`
	Answers     []ApplicationAnswer `json:"answers,omitempty"`
}
