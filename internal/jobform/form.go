package jobform

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/domain"
	pkgerrors "github.com/TechiHub-io/TechihubReact-sub000/pkg/errors"
	"github.com/TechiHub-io/TechihubReact-sub000/pkg/validation"
)

// DateLayout формат срока подачи откликов
const DateLayout = "2006-01-02"

// Skill навык в форме
type Skill struct {
	Name       string `json:"name" yaml:"name"`
	IsRequired bool   `json:"is_required" yaml:"is_required"`
}

// Data значения полей формы
type Data struct {
	Title               string                     `json:"title" yaml:"title"`
	Description         string                     `json:"description" yaml:"description"`
	Responsibilities    string                     `json:"responsibilities" yaml:"responsibilities"`
	Requirements        string                     `json:"requirements" yaml:"requirements"`
	Benefits            string                     `json:"benefits" yaml:"benefits"`
	Location            string                     `json:"location" yaml:"location"`
	IsRemote            bool                       `json:"is_remote" yaml:"is_remote"`
	IsHybrid            bool                       `json:"is_hybrid" yaml:"is_hybrid"`
	Category            string                     `json:"category" yaml:"category"`
	JobType             string                     `json:"job_type" yaml:"job_type"`
	EducationLevel      string                     `json:"education_level" yaml:"education_level"`
	ExperienceLevel     string                     `json:"experience_level" yaml:"experience_level"`
	MinSalary           string                     `json:"min_salary" yaml:"min_salary"`
	MaxSalary           string                     `json:"max_salary" yaml:"max_salary"`
	SalaryCurrency      string                     `json:"salary_currency" yaml:"salary_currency"`
	IsSalaryVisible     bool                       `json:"is_salary_visible" yaml:"is_salary_visible"`
	ApplicationDeadline string                     `json:"application_deadline" yaml:"application_deadline"`
	Skills              []Skill                    `json:"skills" yaml:"skills"`
	CompanyID           domain.ID                  `json:"companyId" yaml:"company_id"`
	ApplicationMethods  []domain.ApplicationMethod `json:"applicationMethods" yaml:"application_methods"`
	ApplicationURL      string                     `json:"applicationUrl" yaml:"application_url"`
	ApplicationEmail    string                     `json:"applicationEmail" yaml:"application_email"`
	Instructions        string                     `json:"application_instructions" yaml:"application_instructions"`
	IsActive            bool                       `json:"is_active" yaml:"is_active"`
}

// DefaultData значения новой вакансии
func DefaultData() Data {
	return Data{
		JobType:            "full_time",
		EducationLevel:     "bachelor",
		ExperienceLevel:    "mid",
		SalaryCurrency:     "USD",
		IsSalaryVisible:    true,
		Skills:             []Skill{},
		ApplicationMethods: []domain.ApplicationMethod{domain.MethodInternal},
		IsActive:           true,
	}
}

func (d Data) normalized() Data {
	d.Skills = slices.Clone(d.Skills)
	if d.Skills == nil {
		d.Skills = []Skill{}
	}
	d.ApplicationMethods = slices.Clone(d.ApplicationMethods)
	if d.ApplicationMethods == nil {
		d.ApplicationMethods = []domain.ApplicationMethod{}
	}
	return d
}

func (d Data) hasMethod(m domain.ApplicationMethod) bool {
	return slices.Contains(d.ApplicationMethods, m)
}

// AccessChecker права текущего пользователя на размещение вакансий
type AccessChecker interface {
	IsSuperAdmin() bool
	HasCompanyAccess(id domain.ID) bool
}

// Access права по пользователю и списку доступных компаний.
// Пустой список Companies означает доступ ко всем компаниям.
type Access struct {
	User      *domain.User
	Companies []domain.Company
}

// IsSuperAdmin сообщает, является ли пользователь суперадминистратором
func (a Access) IsSuperAdmin() bool {
	return a.User.IsSuperAdmin()
}

// HasCompanyAccess сообщает, может ли пользователь размещать вакансии компании
func (a Access) HasCompanyAccess(id domain.ID) bool {
	if !a.IsSuperAdmin() {
		return false
	}
	if len(a.Companies) == 0 {
		return true
	}
	return slices.ContainsFunc(a.Companies, func(c domain.Company) bool { return c.ID == id })
}

// Option настройка формы
type Option func(*Form)

// WithAccess задает проверку прав
func WithAccess(a AccessChecker) Option {
	return func(f *Form) { f.access = a }
}

// WithClock задает часы для проверки срока подачи откликов
func WithClock(now func() time.Time) Option {
	return func(f *Form) { f.now = now }
}

// Form состояние формы: значения, ошибки полей и исходный снимок для поиска изменений.
// Не предназначена для одновременного использования из нескольких горутин.
type Form struct {
	Data   Data
	Errors map[Field]FieldError

	initial   Data
	jobID     domain.ID
	access    AccessChecker
	now       func() time.Time
	validator *validation.Validator
}

// New создает форму новой вакансии
func New(opts ...Option) *Form {
	f := &Form{
		Data:      DefaultData(),
		Errors:    make(map[Field]FieldError),
		now:       time.Now,
		validator: validation.NewValidator(),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.initial = f.Data.normalized()
	return f
}

// JobID идентификатор редактируемой вакансии, пустой для новой
func (f *Form) JobID() domain.ID { return f.jobID }

// Editing сообщает, редактируется ли существующая вакансия
func (f *Form) Editing() bool { return !f.jobID.IsZero() }

// Set изменяет поле и сразу проверяет его
func (f *Form) Set(field Field, value any) error {
	if err := f.assign(field, value); err != nil {
		return err
	}
	f.ValidateField(field)
	switch field {
	case FieldMinSalary:
		if f.Data.MaxSalary != "" {
			f.ValidateField(FieldMaxSalary)
		}
	case FieldApplicationMethods:
		f.ValidateField(FieldApplicationURL)
		f.ValidateField(FieldApplicationEmail)
	}
	return nil
}

func (f *Form) assign(field Field, value any) error {
	if field == FieldApplicationMethods {
		methods, ok := value.([]domain.ApplicationMethod)
		if !ok {
			return fmt.Errorf("поле %s: ожидается []domain.ApplicationMethod, получено %T", field, value)
		}
		f.Data.ApplicationMethods = slices.Clone(methods)
		return nil
	}
	if field == FieldSkills {
		skills, ok := value.([]Skill)
		if !ok {
			return fmt.Errorf("поле %s: ожидается []Skill, получено %T", field, value)
		}
		f.Data.Skills = slices.Clone(skills)
		return nil
	}

	var s string
	switch v := value.(type) {
	case string:
		s = v
	case domain.ID:
		s = string(v)
	default:
		return fmt.Errorf("поле %s: ожидается строка, получено %T", field, value)
	}

	switch field {
	case FieldCompanyID:
		f.Data.CompanyID = domain.ID(s)
	case FieldApplicationURL:
		f.Data.ApplicationURL = s
	case FieldApplicationEmail:
		f.Data.ApplicationEmail = s
	case FieldTitle:
		f.Data.Title = s
	case FieldDescription:
		f.Data.Description = s
	case FieldResponsibilities:
		f.Data.Responsibilities = s
	case FieldRequirements:
		f.Data.Requirements = s
	case FieldBenefits:
		f.Data.Benefits = s
	case FieldCategory:
		f.Data.Category = s
	case FieldLocation:
		f.Data.Location = s
	case FieldMinSalary:
		f.Data.MinSalary = s
	case FieldMaxSalary:
		f.Data.MaxSalary = s
	case FieldApplicationDeadline:
		f.Data.ApplicationDeadline = s
	default:
		return fmt.Errorf("неизвестное поле %q", field)
	}
	return nil
}

// ValidateField проверяет поле и обновляет его ошибку
func (f *Form) ValidateField(field Field) *FieldError {
	fe := f.check(field)
	if fe == nil {
		delete(f.Errors, field)
		return nil
	}
	f.Errors[field] = *fe
	return fe
}

// Validate проверяет все поля, возвращает true при отсутствии ошибок
func (f *Form) Validate() bool {
	for _, field := range Fields {
		f.ValidateField(field)
	}
	return !f.HasErrors()
}

// HasErrors сообщает о наличии ошибок полей
func (f *Form) HasErrors() bool {
	return len(f.Errors) > 0
}

// FirstErrorField первое поле с ошибкой в порядке проверки
func (f *Form) FirstErrorField() (Field, bool) {
	for _, field := range Fields {
		if _, ok := f.Errors[field]; ok {
			return field, true
		}
	}
	return "", false
}

// ClearErrors сбрасывает ошибки полей
func (f *Form) ClearErrors() {
	f.Errors = make(map[Field]FieldError)
}

func fieldErr(kind ErrorKind, format string, args ...any) *FieldError {
	return &FieldError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (f *Form) check(field Field) *FieldError {
	d := f.Data
	switch field {
	case FieldCompanyID:
		if err := f.validator.ValidateRequired(d.CompanyID.String(), string(field)); err != nil {
			return fieldErr(KindRequired, "Company selection is required for admin job posting")
		}
		if f.access != nil && !f.access.HasCompanyAccess(d.CompanyID) {
			return fieldErr(KindAccess, "You do not have access to the selected company")
		}

	case FieldApplicationMethods:
		if len(d.ApplicationMethods) == 0 {
			return fieldErr(KindRequired, "At least one application method must be selected")
		}
		var invalid []string
		for _, m := range d.ApplicationMethods {
			if !slices.Contains(domain.ApplicationMethods, m) {
				invalid = append(invalid, string(m))
			}
		}
		if len(invalid) > 0 {
			return fieldErr(KindInvalid, "Invalid application methods: %s", strings.Join(invalid, ", "))
		}

	case FieldApplicationURL:
		if !d.hasMethod(domain.MethodExternalURL) {
			return nil
		}
		u := strings.TrimSpace(d.ApplicationURL)
		if u == "" {
			return fieldErr(KindRequired, "Application URL is required when external URL method is selected")
		}
		if err := f.validator.ValidateURL(u, []string{"http", "https"}); err != nil {
			return fieldErr(KindInvalid, "Please enter a valid URL (e.g., https://company.com/apply)")
		}

	case FieldApplicationEmail:
		if !d.hasMethod(domain.MethodEmail) {
			return nil
		}
		e := strings.TrimSpace(d.ApplicationEmail)
		if e == "" {
			return fieldErr(KindRequired, "Application email is required when email method is selected")
		}
		if err := f.validator.ValidateEmail(e); err != nil {
			return fieldErr(KindInvalid, "Please enter a valid email address")
		}

	case FieldTitle:
		if f.validator.ValidateRequired(d.Title, string(field)) != nil {
			return fieldErr(KindRequired, "Job title is required")
		}
		return length("Title", utf8.RuneCountInString(d.Title), Limits[FieldTitle])

	case FieldDescription:
		n := CharCount(d.Description)
		if n == 0 {
			return fieldErr(KindRequired, "Job description is required")
		}
		return length("Description", n, Limits[FieldDescription])

	case FieldResponsibilities:
		return optionalLength("Responsibilities", CharCount(d.Responsibilities), Limits[field])
	case FieldRequirements:
		return optionalLength("Requirements", CharCount(d.Requirements), Limits[field])
	case FieldBenefits:
		return optionalLength("Benefits", CharCount(d.Benefits), Limits[field])

	case FieldCategory:
		if f.validator.ValidateRequired(d.Category, string(field)) != nil {
			return fieldErr(KindRequired, "Job category is required")
		}

	case FieldLocation:
		return optionalLength("Location", utf8.RuneCountInString(d.Location), Limits[field])

	case FieldMinSalary:
		if d.MinSalary == "" {
			return nil
		}
		if _, ok := salary(d.MinSalary); !ok {
			return fieldErr(KindInvalid, "Minimum salary must be a positive number")
		}

	case FieldMaxSalary:
		if d.MaxSalary == "" {
			return nil
		}
		maxV, ok := salary(d.MaxSalary)
		if !ok {
			return fieldErr(KindInvalid, "Maximum salary must be a positive number")
		}
		if minV, ok := salary(d.MinSalary); ok && minV > 0 {
			if f.validator.ValidateRange(minV, maxV, string(field)) != nil {
				return fieldErr(KindRange, "Maximum salary must be greater than minimum salary")
			}
		}

	case FieldApplicationDeadline:
		if d.ApplicationDeadline == "" {
			return nil
		}
		date, err := time.ParseInLocation(DateLayout, d.ApplicationDeadline, time.UTC)
		if err != nil {
			return fieldErr(KindInvalid, "Application deadline must be a valid date")
		}
		now := f.now().UTC()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if f.validator.WithClock(func() time.Time { return today }).ValidateFuture(date, string(field)) != nil {
			return fieldErr(KindRange, "Application deadline must be in the future")
		}

	case FieldSkills:
		return checkSkills(d.Skills)
	}
	return nil
}

func length(label string, n int, l Limit) *FieldError {
	if n < l.Min {
		return fieldErr(KindTooShort, "%s must be at least %d characters", label, l.Min)
	}
	if n > l.Max {
		return fieldErr(KindTooLong, "%s must not exceed %d characters", label, l.Max)
	}
	return nil
}

func optionalLength(label string, n int, l Limit) *FieldError {
	if n == 0 {
		return nil
	}
	return length(label, n, l)
}

func salary(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

func checkSkills(skills []Skill) *FieldError {
	if len(skills) > MaxSkills {
		return fieldErr(KindLimit, "Maximum %d skills allowed", MaxSkills)
	}
	seen := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		name := strings.TrimSpace(s.Name)
		if name == "" || utf8.RuneCountInString(s.Name) > MaxSkillName {
			return fieldErr(KindInvalid, "All skills must have valid names (1-%d characters)", MaxSkillName)
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			return fieldErr(KindDuplicate, "Duplicate skills are not allowed")
		}
		seen[key] = struct{}{}
	}
	return nil
}

// AddSkill добавляет навык. Совпадение без учета регистра игнорируется,
// превышение лимита отклоняется с записью ошибки поля.
func (f *Form) AddSkill(name string, required bool) (bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, nil
	}
	if utf8.RuneCountInString(name) > MaxSkillName {
		fe := fieldErr(KindInvalid, "All skills must have valid names (1-%d characters)", MaxSkillName)
		f.Errors[FieldSkills] = *fe
		return false, fe
	}
	if len(f.Data.Skills) >= MaxSkills {
		fe := fieldErr(KindLimit, "Maximum %d skills allowed", MaxSkills)
		f.Errors[FieldSkills] = *fe
		return false, fe
	}
	if f.skillIndex(name) >= 0 {
		return false, nil
	}
	f.Data.Skills = append(f.Data.Skills, Skill{Name: name, IsRequired: required})
	f.ValidateField(FieldSkills)
	return true, nil
}

// RemoveSkill удаляет навык по имени без учета регистра
func (f *Form) RemoveSkill(name string) bool {
	i := f.skillIndex(strings.TrimSpace(name))
	if i < 0 {
		return false
	}
	f.Data.Skills = slices.Delete(f.Data.Skills, i, i+1)
	f.ValidateField(FieldSkills)
	return true
}

func (f *Form) skillIndex(name string) int {
	return slices.IndexFunc(f.Data.Skills, func(s Skill) bool {
		return strings.EqualFold(strings.TrimSpace(s.Name), name)
	})
}

// HasUnsavedChanges сравнивает текущие значения с исходным снимком
func (f *Form) HasUnsavedChanges() bool {
	return !reflect.DeepEqual(f.Data.normalized(), f.initial)
}

// CanSubmit сообщает, можно ли отправить форму: нет ошибок и выбрана компания
func (f *Form) CanSubmit() bool {
	return !f.HasErrors() && !f.Data.CompanyID.IsZero()
}

// LoadJob загружает вакансию для редактирования. Изменять здесь можно только
// вакансии, размещенные администратором.
func (f *Form) LoadJob(job *domain.Job) error {
	if job == nil {
		return pkgerrors.New(pkgerrors.ErrNotFound, "Job not found")
	}
	if !job.PostedByAdmin {
		return pkgerrors.New(pkgerrors.ErrForbidden, "This job was not posted by an admin and cannot be edited here")
	}
	if f.access != nil && !f.access.HasCompanyAccess(job.CompanyID()) {
		return pkgerrors.New(pkgerrors.ErrForbidden, "You do not have access to this job's company")
	}

	d := Data{
		Title:               job.Title,
		Description:         job.Description,
		Responsibilities:    job.Responsibilities,
		Requirements:        job.Requirements,
		Benefits:            job.Benefits,
		Location:            job.Location,
		IsRemote:            job.IsRemote,
		IsHybrid:            job.IsHybrid,
		Category:            job.Category,
		JobType:             job.JobType,
		EducationLevel:      job.EducationLevel,
		ExperienceLevel:     job.ExperienceLevel,
		MinSalary:           formatSalary(job.MinSalary),
		MaxSalary:           formatSalary(job.MaxSalary),
		SalaryCurrency:      job.SalaryCurrency,
		IsSalaryVisible:     job.IsSalaryVisible,
		ApplicationDeadline: deadlineDate(job.ApplicationDeadline),
		Skills:              make([]Skill, 0, len(job.RequiredSkills)),
		CompanyID:           job.CompanyID(),
		ApplicationMethods:  job.Methods(),
		ApplicationURL:      job.ApplicationURL,
		ApplicationEmail:    job.ApplicationEmail,
		Instructions:        job.ApplicationInstructions,
		IsActive:            job.IsActive,
	}
	if d.SalaryCurrency == "" {
		d.SalaryCurrency = "USD"
	}
	if len(d.ApplicationMethods) == 0 {
		d.ApplicationMethods = []domain.ApplicationMethod{domain.MethodInternal}
	}
	for _, s := range job.RequiredSkills {
		d.Skills = append(d.Skills, Skill{Name: s.Skill, IsRequired: s.IsRequired})
	}

	f.Data = d
	f.initial = d.normalized()
	f.jobID = job.ID
	f.ClearErrors()
	return nil
}

func formatSalary(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func deadlineDate(s string) string {
	if len(s) > len(DateLayout) {
		return s[:len(DateLayout)]
	}
	return s
}

// Reset возвращает значения к исходному снимку и сбрасывает ошибки
func (f *Form) Reset() {
	f.Data = f.initial.normalized()
	f.ClearErrors()
}

// clearForNext очищает содержимое после создания вакансии, сохраняя общие настройки
func (f *Form) clearForNext() {
	d := f.Data
	d.Title, d.Description, d.Responsibilities = "", "", ""
	d.Requirements, d.Benefits, d.Location = "", "", ""
	d.Skills = []Skill{}
	d.CompanyID = ""
	d.ApplicationMethods = []domain.ApplicationMethod{domain.MethodInternal}
	d.ApplicationURL, d.ApplicationEmail = "", ""
	f.Data = d
	f.initial = d.normalized()
	f.ClearErrors()
}
