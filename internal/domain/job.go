package domain

// Job вакансия
type Job struct {
	ID                      ID          `json:"id"`
	Company                 *CompanyRef `json:"company,omitempty"`
	CompanyName             string      `json:"company_name,omitempty"`
	Title                   string      `json:"title"`
	Slug                    string      `json:"slug,omitempty"`
	Description             string      `json:"description"`
	Responsibilities        string      `json:"responsibilities,omitempty"`
	Requirements            string      `json:"requirements,omitempty"`
	Benefits                string      `json:"benefits,omitempty"`
	Location                string      `json:"location,omitempty"`
	IsRemote                bool        `json:"is_remote"`
	IsHybrid                bool        `json:"is_hybrid,omitempty"`
	Category                string      `json:"category,omitempty"`
	JobType                 string      `json:"job_type,omitempty"`
	EducationLevel          string      `json:"education_level,omitempty"`
	ExperienceLevel         string      `json:"experience_level,omitempty"`
	MinSalary               *float64    `json:"min_salary,omitempty"`
	MaxSalary               *float64    `json:"max_salary,omitempty"`
	SalaryCurrency          string      `json:"salary_currency,omitempty"`
	IsSalaryVisible         bool        `json:"is_salary_visible,omitempty"`
	ApplicationDeadline     string      `json:"application_deadline,omitempty"`
	IsActive                bool        `json:"is_active"`
	IsFeatured              bool        `json:"is_featured,omitempty"`
	UseInternalApplication  bool        `json:"use_internal_application"`
	ApplicationURL          string      `json:"application_url,omitempty"`
	ApplicationEmail        string      `json:"application_email,omitempty"`
	ApplicationInstructions string      `json:"application_instructions,omitempty"`
	RequiredSkills          []JobSkill  `json:"required_skills,omitempty"`
	PostedByAdmin           bool        `json:"posted_by_admin,omitempty"`
	IsSaved                 bool        `json:"is_saved,omitempty"`
	ApplicationCount        int         `json:"application_count,omitempty"`
	ViewCount               int         `json:"view_count,omitempty"`
	CreatedAt               string      `json:"created_at,omitempty"`
}

// CompanyID возвращает идентификатор компании вакансии
func (j *Job) CompanyID() ID {
	if j == nil || j.Company == nil {
		return ""
	}
	return j.Company.ID
}

// JobSkill навык вакансии
type JobSkill struct {
	ID         ID     `json:"id,omitempty"`
	Skill      string `json:"skill"`
	IsRequired bool   `json:"is_required"`
}

// SavedJob сохраненная вакансия
type SavedJob struct {
	ID        ID     `json:"id"`
	Job       Job    `json:"job"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// ApplicationMethod способ отклика на вакансию
type ApplicationMethod string

const (
	MethodInternal    ApplicationMethod = "internal"
	MethodExternalURL ApplicationMethod = "external_url"
	MethodEmail       ApplicationMethod = "email"
)

// ApplicationMethods все способы отклика в порядке показа
var ApplicationMethods = []ApplicationMethod{MethodInternal, MethodExternalURL, MethodEmail}

// Methods выводит выбранные способы отклика из полей вакансии
func (j *Job) Methods() []ApplicationMethod {
	var methods []ApplicationMethod
	if j.UseInternalApplication {
		methods = append(methods, MethodInternal)
	}
	if j.ApplicationURL != "" {
		methods = append(methods, MethodExternalURL)
	}
	if j.ApplicationEmail != "" {
		methods = append(methods, MethodEmail)
	}
	return methods
}
