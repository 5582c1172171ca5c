// Package search синхронизирует фильтры поиска вакансий, строку запроса URL
// и последнюю загруженную страницу результатов.
package search

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/domain"
)

// DefaultPageSize размер страницы поиска по умолчанию
const DefaultPageSize = 10

// Параметры строки запроса страницы поиска
const (
	ParamQuery           = "q"
	ParamLocation        = "location"
	ParamRemote          = "remote"
	ParamJobType         = "job_type"
	ParamExperienceLevel = "experience_level"
	ParamMinSalary       = "min_salary"
	ParamMaxSalary       = "max_salary"
	ParamSkills          = "skills"
	ParamPostedWithin    = "posted_within"
	ParamEducationLevel  = "education_level"
	ParamPage            = "page"
	ParamPageSize        = "page_size"
)

// Filters состояние фильтров поиска. Не сохраняется, отражается в URL.
type Filters struct {
	Query           string   `json:"q,omitempty" yaml:"q,omitempty"`
	Location        string   `json:"location,omitempty" yaml:"location,omitempty"`
	Remote          bool     `json:"remote,omitempty" yaml:"remote,omitempty"`
	JobType         string   `json:"job_type,omitempty" yaml:"job_type,omitempty"`
	ExperienceLevel string   `json:"experience_level,omitempty" yaml:"experience_level,omitempty"`
	MinSalary       string   `json:"min_salary,omitempty" yaml:"min_salary,omitempty"`
	MaxSalary       string   `json:"max_salary,omitempty" yaml:"max_salary,omitempty"`
	Skills          []string `json:"skills,omitempty" yaml:"skills,omitempty"`
	PostedWithin    string   `json:"posted_within,omitempty" yaml:"posted_within,omitempty"`
	EducationLevel  string   `json:"education_level,omitempty" yaml:"education_level,omitempty"`
	Page            int      `json:"page" yaml:"page"`
	PageSize        int      `json:"page_size" yaml:"page_size"`
}

// Defaults фильтры без условий, первая страница
func Defaults() Filters {
	return Filters{Skills: []string{}, Page: 1, PageSize: DefaultPageSize}
}

// ParseQuery разбирает строку запроса страницы поиска. Неизвестные параметры игнорируются,
// некорректный номер страницы дает первую страницу.
func ParseQuery(q url.Values) Filters {
	f := Defaults()
	f.Query = strings.TrimSpace(q.Get(ParamQuery))
	f.Location = q.Get(ParamLocation)
	f.Remote = q.Get(ParamRemote) == "true"
	f.JobType = q.Get(ParamJobType)
	f.ExperienceLevel = q.Get(ParamExperienceLevel)
	f.MinSalary = q.Get(ParamMinSalary)
	f.MaxSalary = q.Get(ParamMaxSalary)
	f.PostedWithin = q.Get(ParamPostedWithin)
	f.EducationLevel = q.Get(ParamEducationLevel)

	for _, s := range strings.Split(q.Get(ParamSkills), ",") {
		if s = strings.TrimSpace(s); s != "" && !slices.Contains(f.Skills, s) {
			f.Skills = append(f.Skills, s)
		}
	}

	if p, err := strconv.Atoi(q.Get(ParamPage)); err == nil && p > 0 {
		f.Page = p
	}
	if ps, err := strconv.Atoi(q.Get(ParamPageSize)); err == nil && ps > 0 {
		f.PageSize = ps
	}
	return f
}

// Values строка запроса для URL: пустые значения и значения по умолчанию опущены
func (f Filters) Values() url.Values {
	v := f.criteria("q")
	if f.Page > 1 {
		v.Set(ParamPage, strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 && f.PageSize != DefaultPageSize {
		v.Set(ParamPageSize, strconv.Itoa(f.PageSize))
	}
	return v
}

// APIQuery параметры запроса списка вакансий. Текст поиска передается как search,
// страница и ее размер передаются всегда.
func (f Filters) APIQuery() url.Values {
	v := f.criteria("search")
	page, size := f.Page, f.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	v.Set(ParamPage, strconv.Itoa(page))
	v.Set(ParamPageSize, strconv.Itoa(size))
	return v
}

func (f Filters) criteria(queryParam string) url.Values {
	v := url.Values{}
	set := func(key, value string) {
		if value = strings.TrimSpace(value); value != "" {
			v.Set(key, value)
		}
	}
	set(queryParam, f.Query)
	set(ParamLocation, f.Location)
	if f.Remote {
		v.Set(ParamRemote, "true")
	}
	set(ParamJobType, f.JobType)
	set(ParamExperienceLevel, f.ExperienceLevel)
	set(ParamMinSalary, f.MinSalary)
	set(ParamMaxSalary, f.MaxSalary)
	set(ParamSkills, strings.Join(f.Skills, ","))
	set(ParamPostedWithin, f.PostedWithin)
	set(ParamEducationLevel, f.EducationLevel)
	return v
}

// Params условия поиска для сохранения. Страница не сохраняется.
func (f Filters) Params() map[string]string {
	v := f.criteria(ParamQuery)
	out := make(map[string]string, len(v))
	for k := range v {
		out[k] = v.Get(k)
	}
	return out
}

// FromSaved фильтры сохраненного поиска с первой страницы
func FromSaved(s domain.SavedSearch) Filters {
	q := s.Query()
	q.Del(ParamPage)
	return ParseQuery(q)
}

// SameCriteria сравнивает фильтры без учета страницы и ее размера
func (f Filters) SameCriteria(o Filters) bool {
	a, b := f, o
	return a.Query == b.Query &&
		a.Location == b.Location &&
		a.Remote == b.Remote &&
		a.JobType == b.JobType &&
		a.ExperienceLevel == b.ExperienceLevel &&
		a.MinSalary == b.MinSalary &&
		a.MaxSalary == b.MaxSalary &&
		a.PostedWithin == b.PostedWithin &&
		a.EducationLevel == b.EducationLevel &&
		slices.Equal(a.Skills, b.Skills)
}

// Active число заданных условий поиска
func (f Filters) Active() int {
	return len(f.criteria("q"))
}

func (f Filters) clone() Filters {
	f.Skills = slices.Clone(f.Skills)
	if f.Skills == nil {
		f.Skills = []string{}
	}
	return f
}
