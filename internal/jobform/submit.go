package jobform

import (
	"context"
	"strings"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/domain"
	pkgerrors "github.com/TechiHub-io/TechihubReact-sub000/pkg/errors"
)

// Payload тело запроса создания или изменения вакансии администратором
type Payload struct {
	Title                   string            `json:"title"`
	Description             string            `json:"description"`
	Responsibilities        string            `json:"responsibilities"`
	Requirements            string            `json:"requirements"`
	Benefits                string            `json:"benefits"`
	Location                string            `json:"location"`
	IsRemote                bool              `json:"is_remote"`
	IsHybrid                bool              `json:"is_hybrid"`
	Category                string            `json:"category"`
	JobType                 string            `json:"job_type"`
	EducationLevel          string            `json:"education_level"`
	ExperienceLevel         string            `json:"experience_level"`
	MinSalary               *float64          `json:"min_salary,omitempty"`
	MaxSalary               *float64          `json:"max_salary,omitempty"`
	SalaryCurrency          string            `json:"salary_currency"`
	IsSalaryVisible         bool              `json:"is_salary_visible"`
	ApplicationDeadline     string            `json:"application_deadline,omitempty"`
	RequiredSkills          []domain.JobSkill `json:"required_skills"`
	CompanyID               domain.ID         `json:"company_id"`
	UseInternalApplication  bool              `json:"use_internal_application"`
	ApplicationURL          string            `json:"application_url"`
	ApplicationEmail        string            `json:"application_email"`
	ApplicationInstructions string            `json:"application_instructions"`
	PostedByAdmin           bool              `json:"posted_by_admin"`
	IsActive                *bool             `json:"is_active,omitempty"`
}

// Payload собирает тело запроса. Поля способов отклика заполняются только для выбранных способов.
func (f *Form) Payload() Payload {
	d := f.Data
	p := Payload{
		Title:                   strings.TrimSpace(d.Title),
		Description:             d.Description,
		Responsibilities:        d.Responsibilities,
		Requirements:            d.Requirements,
		Benefits:                d.Benefits,
		Location:                d.Location,
		IsRemote:                d.IsRemote,
		IsHybrid:                d.IsHybrid,
		Category:                d.Category,
		JobType:                 d.JobType,
		EducationLevel:          d.EducationLevel,
		ExperienceLevel:         d.ExperienceLevel,
		SalaryCurrency:          d.SalaryCurrency,
		IsSalaryVisible:         d.IsSalaryVisible,
		ApplicationDeadline:     d.ApplicationDeadline,
		RequiredSkills:          make([]domain.JobSkill, 0, len(d.Skills)),
		CompanyID:               d.CompanyID,
		UseInternalApplication:  d.hasMethod(domain.MethodInternal),
		ApplicationInstructions: d.Instructions,
		PostedByAdmin:           true,
	}
	if p.SalaryCurrency == "" {
		p.SalaryCurrency = "USD"
	}
	if v, ok := salary(d.MinSalary); ok && d.MinSalary != "" {
		p.MinSalary = &v
	}
	if v, ok := salary(d.MaxSalary); ok && d.MaxSalary != "" {
		p.MaxSalary = &v
	}
	if d.hasMethod(domain.MethodExternalURL) {
		p.ApplicationURL = strings.TrimSpace(d.ApplicationURL)
	}
	if d.hasMethod(domain.MethodEmail) {
		p.ApplicationEmail = strings.TrimSpace(d.ApplicationEmail)
	}
	for _, s := range d.Skills {
		p.RequiredSkills = append(p.RequiredSkills, domain.JobSkill{Skill: strings.TrimSpace(s.Name), IsRequired: s.IsRequired})
	}
	if f.Editing() {
		active := d.IsActive
		p.IsActive = &active
	}
	return p
}

// Submitter отправляет вакансию администратора на сервер
type Submitter interface {
	CreateAdminJob(ctx context.Context, payload any) (*domain.Job, error)
	UpdateAdminJob(ctx context.Context, id domain.ID, payload any) (*domain.Job, error)
}

// Submit проверяет форму и создает или обновляет вакансию. После создания форма
// очищается для следующей вакансии, после изменения текущие значения становятся исходными.
func (f *Form) Submit(ctx context.Context, s Submitter) (*domain.Job, error) {
	if f.access != nil && !f.access.IsSuperAdmin() {
		return nil, pkgerrors.New(pkgerrors.ErrForbidden, "Super admin access required")
	}
	if !f.Validate() {
		field, _ := f.FirstErrorField()
		return nil, pkgerrors.New(pkgerrors.ErrValidation, "Please fix the highlighted errors").
			WithDetails(string(field) + ": " + f.Errors[field].Message)
	}
	if !f.CanSubmit() {
		return nil, pkgerrors.New(pkgerrors.ErrValidation, "Company selection is required")
	}

	payload := f.Payload()
	if f.Editing() {
		job, err := s.UpdateAdminJob(ctx, f.jobID, payload)
		if err != nil {
			return nil, err
		}
		f.initial = f.Data.normalized()
		return job, nil
	}

	job, err := s.CreateAdminJob(ctx, payload)
	if err != nil {
		return nil, err
	}
	f.clearForNext()
	return job, nil
}
