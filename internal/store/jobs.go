package store

import (
	"context"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/domain"
	pkgerrors "github.com/TechiHub-io/TechihubReact-sub000/pkg/errors"
)

// jobsQuery собирает параметры списка вакансий: фильтры среза поверх переданных,
// пустые значения отбрасываются, работодатель видит только вакансии своей компании
func jobsQuery(st State, filters map[string]string, page, pageSize int) (url.Values, map[string]string) {
	merged := make(map[string]string, len(st.Jobs.Filters)+len(filters))
	for k, v := range st.Jobs.Filters {
		merged[k] = v
	}
	for k, v := range filters {
		merged[k] = v
	}
	for k, v := range merged {
		if strings.TrimSpace(v) == "" {
			delete(merged, k)
		}
	}

	q := url.Values{}
	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		q.Set(k, merged[k])
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))

	if st.Auth.IsEmployer && st.Company.Company != nil && !st.Company.Company.ID.IsZero() {
		q.Set("company", st.Company.Company.ID.String())
	}
	return q, merged
}

type jobsPage struct {
	view     domain.PageView[domain.Job]
	filters  map[string]string
	page     int
	pageSize int
}

// FetchJobs загружает страницу вакансий. Нулевые page и pageSize берутся из текущей пагинации.
func (s *Store) FetchJobs(ctx context.Context, filters map[string]string, page, pageSize int) (domain.PageView[domain.Job], error) {
	cur := s.State()
	if page < 1 {
		page = cur.Jobs.Pagination.Page
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = cur.Jobs.Pagination.PageSize
	}
	if pageSize < 1 {
		pageSize = defaultJobsPageSize
	}
	q, merged := jobsQuery(cur, filters, page, pageSize)

	res, err := run(ctx, s, "fetch_jobs", jobsStatus, func(ctx context.Context) (jobsPage, error) {
		view, err := s.api.ListJobs(ctx, q)
		return jobsPage{view: view, filters: merged, page: page, pageSize: pageSize}, err
	}, func(st *State, res jobsPage) {
		st.Jobs.Jobs = res.view.Items
		st.Jobs.Filters = res.filters
		st.Jobs.Pagination = Pagination{
			Page:       res.page,
			PageSize:   res.pageSize,
			TotalCount: res.view.TotalCount,
			TotalPages: res.view.TotalPages(res.pageSize),
		}
	})
	return res.view, err
}

// SearchJobs выполняет поиск по готовому запросу без изменения среза вакансий
func (s *Store) SearchJobs(ctx context.Context, query url.Values) (domain.PageView[domain.Job], error) {
	view, err := s.api.ListJobs(ctx, query)
	s.metrics.ObserveAction("search_jobs", err)
	return view, err
}

// SetJobFilters заменяет фильтры вакансий
func (s *Store) SetJobFilters(filters map[string]string) {
	s.Update(func(st *State) {
		st.Jobs.Filters = make(map[string]string, len(filters))
		for k, v := range filters {
			st.Jobs.Filters[k] = v
		}
		st.Jobs.Pagination.Page = 1
	})
}

// FetchJob загружает вакансию
func (s *Store) FetchJob(ctx context.Context, id domain.ID) (*domain.Job, error) {
	return run(ctx, s, "fetch_job", jobsStatus, func(ctx context.Context) (*domain.Job, error) {
		return s.api.GetJob(ctx, id)
	}, func(st *State, job *domain.Job) {
		st.Jobs.CurrentJob = job
	})
}

// CreateJob создает вакансию и добавляет ее в начало списка
func (s *Store) CreateJob(ctx context.Context, payload any) (*domain.Job, error) {
	return run(ctx, s, "create_job", jobsStatus, func(ctx context.Context) (*domain.Job, error) {
		return s.api.CreateJob(ctx, payload)
	}, func(st *State, job *domain.Job) {
		st.Jobs.Jobs = append([]domain.Job{*job}, st.Jobs.Jobs...)
		st.Jobs.CurrentJob = job
	})
}

// UpdateJob обновляет вакансию в списке и текущую вакансию
func (s *Store) UpdateJob(ctx context.Context, id domain.ID, payload any) (*domain.Job, error) {
	return run(ctx, s, "update_job", jobsStatus, func(ctx context.Context) (*domain.Job, error) {
		return s.api.UpdateJob(ctx, id, payload)
	}, func(st *State, job *domain.Job) {
		replaceJob(st, id, func(*domain.Job) domain.Job { return *job })
		st.Jobs.CurrentJob = job
	})
}

// DeleteJob удаляет вакансию
func (s *Store) DeleteJob(ctx context.Context, id domain.ID) error {
	return exec(ctx, s, "delete_job", jobsStatus, func(ctx context.Context) error {
		return s.api.DeleteJob(ctx, id)
	}, func(st *State) {
		st.Jobs.Jobs = removeJob(st.Jobs.Jobs, id)
		st.Jobs.AdminJobs = removeJob(st.Jobs.AdminJobs, id)
		if st.Jobs.CurrentJob != nil && st.Jobs.CurrentJob.ID == id {
			st.Jobs.CurrentJob = nil
		}
	})
}

// ActivateJob публикует вакансию
func (s *Store) ActivateJob(ctx context.Context, id domain.ID) error {
	return exec(ctx, s, "activate_job", jobsStatus, func(ctx context.Context) error {
		return s.api.ActivateJob(ctx, id)
	}, func(st *State) { setJobActive(st, id, true) })
}

// DeactivateJob снимает вакансию с публикации
func (s *Store) DeactivateJob(ctx context.Context, id domain.ID) error {
	return exec(ctx, s, "deactivate_job", jobsStatus, func(ctx context.Context) error {
		return s.api.DeactivateJob(ctx, id)
	}, func(st *State) { setJobActive(st, id, false) })
}

// ToggleJobStatus публикует или снимает вакансию
func (s *Store) ToggleJobStatus(ctx context.Context, id domain.ID, active bool) error {
	if active {
		return s.ActivateJob(ctx, id)
	}
	return s.DeactivateJob(ctx, id)
}

// AddJobSkill добавляет навык вакансии
func (s *Store) AddJobSkill(ctx context.Context, id domain.ID, skill domain.JobSkill) (*domain.JobSkill, error) {
	return run(ctx, s, "add_job_skill", jobsStatus, func(ctx context.Context) (*domain.JobSkill, error) {
		return s.api.AddJobSkill(ctx, id, skill)
	}, func(st *State, added *domain.JobSkill) {
		if st.Jobs.CurrentJob != nil && st.Jobs.CurrentJob.ID == id {
			st.Jobs.CurrentJob.RequiredSkills = append(st.Jobs.CurrentJob.RequiredSkills, *added)
		}
	})
}

// FetchSavedJobs загружает избранные вакансии
func (s *Store) FetchSavedJobs(ctx context.Context) ([]domain.SavedJob, error) {
	view, err := run(ctx, s, "fetch_saved_jobs", jobsStatus, func(ctx context.Context) (domain.PageView[domain.SavedJob], error) {
		return s.api.ListSavedJobs(ctx)
	}, func(st *State, view domain.PageView[domain.SavedJob]) {
		st.Jobs.SavedJobs = view.Items
	})
	return view.Items, err
}

// SaveJob добавляет вакансию в избранное
func (s *Store) SaveJob(ctx context.Context, id domain.ID) error {
	if err := s.requireAuth(); err != nil {
		return err
	}
	return exec(ctx, s, "save_job", jobsStatus, func(ctx context.Context) error {
		return s.api.SaveJob(ctx, id)
	}, func(st *State) {
		setJobSaved(st, id, true)
		if savedIndex(st.Jobs.SavedJobs, id) >= 0 {
			return
		}
		saved := domain.SavedJob{Job: domain.Job{ID: id}}
		for _, j := range st.Jobs.Jobs {
			if j.ID == id {
				saved.Job = j
				break
			}
		}
		saved.Job.IsSaved = true
		st.Jobs.SavedJobs = append(st.Jobs.SavedJobs, saved)
	})
}

// UnsaveJob удаляет вакансию из избранного
func (s *Store) UnsaveJob(ctx context.Context, id domain.ID) error {
	if err := s.requireAuth(); err != nil {
		return err
	}
	return exec(ctx, s, "unsave_job", jobsStatus, func(ctx context.Context) error {
		return s.api.UnsaveJob(ctx, id)
	}, func(st *State) {
		setJobSaved(st, id, false)
		if i := savedIndex(st.Jobs.SavedJobs, id); i >= 0 {
			st.Jobs.SavedJobs = append(st.Jobs.SavedJobs[:i], st.Jobs.SavedJobs[i+1:]...)
		}
	})
}

// IsJobSaved сообщает, есть ли вакансия в избранном
func (s *Store) IsJobSaved(id domain.ID) bool {
	st := s.State()
	return savedIndex(st.Jobs.SavedJobs, id) >= 0
}

// CreateAdminJob создает вакансию от имени администратора для выбранной компании
func (s *Store) CreateAdminJob(ctx context.Context, payload any) (*domain.Job, error) {
	if !s.State().Auth.User.IsSuperAdmin() {
		return nil, pkgerrors.New(pkgerrors.ErrForbidden, "Super admin access required")
	}
	return run(ctx, s, "create_admin_job", jobsStatus, func(ctx context.Context) (*domain.Job, error) {
		return s.api.AdminCreateJob(ctx, payload)
	}, func(st *State, job *domain.Job) {
		st.Jobs.AdminJobs = append([]domain.Job{*job}, st.Jobs.AdminJobs...)
		st.Jobs.CurrentJob = job
	})
}

// UpdateAdminJob обновляет вакансию, размещенную администратором
func (s *Store) UpdateAdminJob(ctx context.Context, id domain.ID, payload any) (*domain.Job, error) {
	if !s.State().Auth.User.IsSuperAdmin() {
		return nil, pkgerrors.New(pkgerrors.ErrForbidden, "Super admin access required")
	}
	return run(ctx, s, "update_admin_job", jobsStatus, func(ctx context.Context) (*domain.Job, error) {
		return s.api.AdminUpdateJob(ctx, id, payload)
	}, func(st *State, job *domain.Job) {
		replaceJob(st, id, func(*domain.Job) domain.Job { return *job })
		st.Jobs.CurrentJob = job
	})
}

// FetchAdminPostedJobs загружает вакансии, размещенные администратором
func (s *Store) FetchAdminPostedJobs(ctx context.Context, query url.Values) (domain.PageView[domain.Job], error) {
	return run(ctx, s, "fetch_admin_jobs", jobsStatus, func(ctx context.Context) (domain.PageView[domain.Job], error) {
		return s.api.AdminPostedJobs(ctx, query)
	}, func(st *State, view domain.PageView[domain.Job]) {
		st.Jobs.AdminJobs = view.Items
	})
}

func replaceJob(st *State, id domain.ID, fn func(*domain.Job) domain.Job) {
	for _, list := range [][]domain.Job{st.Jobs.Jobs, st.Jobs.AdminJobs} {
		for i := range list {
			if list[i].ID == id {
				list[i] = fn(&list[i])
			}
		}
	}
}

func removeJob(jobs []domain.Job, id domain.ID) []domain.Job {
	kept := jobs[:0]
	for _, j := range jobs {
		if j.ID != id {
			kept = append(kept, j)
		}
	}
	return kept
}

func setJobActive(st *State, id domain.ID, active bool) {
	replaceJob(st, id, func(j *domain.Job) domain.Job {
		j.IsActive = active
		return *j
	})
	if st.Jobs.CurrentJob != nil && st.Jobs.CurrentJob.ID == id {
		st.Jobs.CurrentJob.IsActive = active
	}
}

func setJobSaved(st *State, id domain.ID, saved bool) {
	replaceJob(st, id, func(j *domain.Job) domain.Job {
		j.IsSaved = saved
		return *j
	})
	if st.Jobs.CurrentJob != nil && st.Jobs.CurrentJob.ID == id {
		st.Jobs.CurrentJob.IsSaved = saved
	}
}

func savedIndex(saved []domain.SavedJob, id domain.ID) int {
	for i, sj := range saved {
		if sj.Job.ID == id {
			return i
		}
	}
	return -1
}
