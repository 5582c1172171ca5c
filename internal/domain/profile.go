package domain

// CompletedProfileThreshold минимальная сила профиля для флага завершенного профиля
const CompletedProfileThreshold = 20

// Profile профиль соискателя
type Profile struct {
	ID              ID              `json:"id"`
	ProfilePicture  string          `json:"profile_picture,omitempty"`
	Bio             string          `json:"bio,omitempty"`
	JobTitle        string          `json:"job_title,omitempty"`
	YearsExperience int             `json:"years_experience,omitempty"`
	Country         string          `json:"country,omitempty"`
	SalaryMin       *float64        `json:"salary_min,omitempty"`
	SalaryMax       *float64        `json:"salary_max,omitempty"`
	SalaryCurrency  string          `json:"salary_currency,omitempty"`
	ProfileStrength int             `json:"profile_strength"`
	Experiences     []Experience    `json:"experiences,omitempty"`
	Education       []Education     `json:"education,omitempty"`
	Skills          []ProfileSkill  `json:"skills,omitempty"`
	Certifications  []Certification `json:"certifications,omitempty"`
	PortfolioItems  []PortfolioItem `json:"portfolio_items,omitempty"`
}

// Completed сообщает, достаточно ли заполнен профиль.
// strict включает строгое сравнение, как при входе через соцсети.
func (p *Profile) Completed(strict bool) bool {
	if p == nil {
		return false
	}
	if strict {
		return p.ProfileStrength > CompletedProfileThreshold
	}
	return p.ProfileStrength >= CompletedProfileThreshold
}

// Experience опыт работы
type Experience struct {
	ID          ID     `json:"id,omitempty"`
	CompanyName string `json:"company_name"`
	JobTitle    string `json:"job_title"`
	Location    string `json:"location,omitempty"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date,omitempty"`
	CurrentJob  bool   `json:"current_job"`
	Description string `json:"description,omitempty"`
}

// Education образование
type Education struct {
	ID           ID     `json:"id,omitempty"`
	Institution  string `json:"institution"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"field_of_study"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date,omitempty"`
	Current      bool   `json:"current"`
}

// ProfileSkill навык соискателя
type ProfileSkill struct {
	ID    ID     `json:"id,omitempty"`
	Name  string `json:"name"`
	Level string `json:"level,omitempty"`
}

// Certification сертификат
type Certification struct {
	ID            ID     `json:"id,omitempty"`
	Name          string `json:"name"`
	Institution   string `json:"institution"`
	YearAwarded   int    `json:"year_awarded,omitempty"`
	CredentialURL string `json:"credential_url,omitempty"`
}

// PortfolioItem элемент портфолио
type PortfolioItem struct {
	ID          ID     `json:"id,omitempty"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
}

// AnalyticsData аналитика работодателя
type AnalyticsData struct {
	JobViews          []JobViewStat     `json:"job_views"`
	ApplicationStats  ApplicationFunnel `json:"application_stats"`
	JobPerformance    []map[string]any  `json:"job_performance"`
	TopSources        []map[string]any  `json:"top_sources"`
	DailyApplications []map[string]any  `json:"daily_applications"`
}

// JobViewStat просмотры вакансии
type JobViewStat struct {
	Job   ID     `json:"job,omitempty"`
	Title string `json:"title,omitempty"`
	Date  string `json:"date,omitempty"`
	Views int    `json:"views"`
}

// ApplicationFunnel воронка откликов
type ApplicationFunnel struct {
	StatusBreakdown []map[string]any `json:"status_breakdown"`
	TimeToHire      float64          `json:"time_to_hire"`
	ConversionRate  float64          `json:"conversion_rate"`
}
