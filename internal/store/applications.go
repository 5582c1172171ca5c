package store

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/api"
	"github.com/TechiHub-io/TechihubReact-sub000/internal/domain"
	pkgerrors "github.com/TechiHub-io/TechihubReact-sub000/pkg/errors"
	"github.com/TechiHub-io/TechihubReact-sub000/pkg/logger"
)

type applicationsPage struct {
	view     domain.PageView[domain.Application]
	filters  map[string]string
	page     int
	pageSize int
}

func applicationsQuery(filters map[string]string, page, pageSize int) url.Values {
	q := url.Values{}
	for k, v := range filters {
		if v != "" {
			q.Set(k, v)
		}
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	return q
}

func applyApplicationsPage(st *State, res applicationsPage) {
	st.Applications.Applications = res.view.Items
	st.Applications.Filters = res.filters
	st.Applications.Pagination = Pagination{
		Page:       res.page,
		PageSize:   res.pageSize,
		TotalCount: res.view.TotalCount,
		TotalPages: res.view.TotalPages(res.pageSize),
	}
}

// FetchApplications загружает отклики пользователя
func (s *Store) FetchApplications(ctx context.Context, filters map[string]string, page int) (domain.PageView[domain.Application], error) {
	if page < 1 {
		page = 1
	}
	pageSize := s.State().Applications.Pagination.PageSize
	if pageSize < 1 {
		pageSize = defaultJobsPageSize
	}
	res, err := run(ctx, s, "fetch_applications", applicationsStatus, func(ctx context.Context) (applicationsPage, error) {
		view, err := s.api.ListApplications(ctx, applicationsQuery(filters, page, pageSize))
		return applicationsPage{view: view, filters: filters, page: page, pageSize: pageSize}, err
	}, applyApplicationsPage)
	return res.view, err
}

// FetchJobApplications загружает отклики на вакансию
func (s *Store) FetchJobApplications(ctx context.Context, jobID domain.ID, filters map[string]string, page int) (domain.PageView[domain.Application], error) {
	if page < 1 {
		page = 1
	}
	pageSize := s.State().Applications.Pagination.PageSize
	if pageSize < 1 {
		pageSize = defaultJobsPageSize
	}
	res, err := run(ctx, s, "fetch_job_applications", applicationsStatus, func(ctx context.Context) (applicationsPage, error) {
		view, err := s.api.ListJobApplications(ctx, jobID, applicationsQuery(filters, page, pageSize))
		return applicationsPage{view: view, filters: filters, page: page, pageSize: pageSize}, err
	}, applyApplicationsPage)
	return res.view, err
}

// FetchApplication загружает отклик
func (s *Store) FetchApplication(ctx context.Context, id domain.ID) (*domain.Application, error) {
	return run(ctx, s, "fetch_application", applicationsStatus, func(ctx context.Context) (*domain.Application, error) {
		return s.api.GetApplication(ctx, id)
	}, func(st *State, app *domain.Application) {
		st.Applications.CurrentApplication = app
	})
}

// SubmitApplication отправляет отклик на вакансию
func (s *Store) SubmitApplication(ctx context.Context, sub domain.ApplicationSubmission) (*domain.Application, error) {
	if err := s.requireAuth(); err != nil {
		return nil, err
	}
	return run(ctx, s, "submit_application", applicationsStatus, func(ctx context.Context) (*domain.Application, error) {
		return s.api.SubmitApplication(ctx, sub)
	}, func(st *State, app *domain.Application) {
		st.Applications.Applications = append([]domain.Application{*app}, st.Applications.Applications...)
		st.Applications.CurrentApplication = app
	})
}

// UpdateApplicationStatus меняет статус отклика. Локальная история дополняется записью
// о смене, после чего обновляется статистика.
func (s *Store) UpdateApplicationStatus(ctx context.Context, id domain.ID, status domain.ApplicationStatus, notes string) (*domain.Application, error) {
	if !status.Valid() {
		return nil, pkgerrors.New(pkgerrors.ErrValidation, "Invalid application status").
			WithDetails("unknown status " + string(status))
	}
	at := s.now()
	app, err := run(ctx, s, "update_application_status", applicationsStatus, func(ctx context.Context) (*domain.Application, error) {
		return s.api.UpdateApplicationStatus(ctx, id, status, notes)
	}, func(st *State, updated *domain.Application) {
		for i := range st.Applications.Applications {
			if st.Applications.Applications[i].ID == id {
				st.Applications.Applications[i] = mergeApplication(st.Applications.Applications[i], updated, status, notes, at)
			}
		}
		if cur := st.Applications.CurrentApplication; cur != nil && cur.ID == id {
			merged := mergeApplication(*cur, updated, status, notes, at)
			st.Applications.CurrentApplication = &merged
		}
	})
	if err != nil {
		return nil, err
	}
	if _, err := s.FetchApplicationStats(ctx); err != nil {
		s.logger.Warn("не удалось обновить статистику откликов", logger.Error(err))
	}
	return app, nil
}

// mergeApplication накладывает ответ сервера на локальный отклик. Если сервер не вернул
// историю, локальная история дополняется.
func mergeApplication(local domain.Application, updated *domain.Application, status domain.ApplicationStatus, notes string, at time.Time) domain.Application {
	next := local.WithStatus(status, notes, at)
	if updated == nil {
		return next
	}
	if len(updated.StatusHistory) > len(next.StatusHistory) {
		next.StatusHistory = updated.StatusHistory
	}
	if updated.EmployerNotes != "" {
		next.EmployerNotes = updated.EmployerNotes
	}
	if updated.RejectionReason != "" {
		next.RejectionReason = updated.RejectionReason
	}
	return next
}

// WithdrawApplication отзывает отклик
func (s *Store) WithdrawApplication(ctx context.Context, id domain.ID) error {
	at := s.now()
	return exec(ctx, s, "withdraw_application", applicationsStatus, func(ctx context.Context) error {
		return s.api.WithdrawApplication(ctx, id)
	}, func(st *State) {
		for i := range st.Applications.Applications {
			if st.Applications.Applications[i].ID == id {
				st.Applications.Applications[i] = st.Applications.Applications[i].WithStatus(domain.StatusWithdrawn, "", at)
			}
		}
		if cur := st.Applications.CurrentApplication; cur != nil && cur.ID == id {
			next := cur.WithStatus(domain.StatusWithdrawn, "", at)
			st.Applications.CurrentApplication = &next
		}
	})
}

// FetchApplicationStats загружает количество откликов по статусам
func (s *Store) FetchApplicationStats(ctx context.Context) (domain.ApplicationStats, error) {
	r := s.State().Analytics.DateRange
	stats, err := run(ctx, s, "fetch_application_stats", applicationsStatus, func(ctx context.Context) (*domain.ApplicationStats, error) {
		return s.api.ApplicationStats(ctx, api.DateRange{From: r.From, To: r.To})
	}, func(st *State, stats *domain.ApplicationStats) {
		st.Applications.Stats = *stats
	})
	if err != nil {
		return domain.ApplicationStats{}, err
	}
	return *stats, nil
}

// FetchJobQuestions загружает вопросы анкеты вакансии
func (s *Store) FetchJobQuestions(ctx context.Context, jobID domain.ID) ([]domain.ApplicationQuestion, error) {
	return run(ctx, s, "fetch_job_questions", applicationsStatus, func(ctx context.Context) ([]domain.ApplicationQuestion, error) {
		return s.api.ListJobQuestions(ctx, jobID)
	}, func(st *State, qs []domain.ApplicationQuestion) {
		st.Applications.ApplicationQuestions = qs
	})
}

// CreateJobQuestion добавляет вопрос анкеты
func (s *Store) CreateJobQuestion(ctx context.Context, jobID domain.ID, q domain.ApplicationQuestion) (*domain.ApplicationQuestion, error) {
	return run(ctx, s, "create_job_question", applicationsStatus, func(ctx context.Context) (*domain.ApplicationQuestion, error) {
		return s.api.CreateJobQuestion(ctx, jobID, q)
	}, func(st *State, created *domain.ApplicationQuestion) {
		st.Applications.ApplicationQuestions = append(st.Applications.ApplicationQuestions, *created)
	})
}

// UpdateJobQuestion изменяет вопрос анкеты
func (s *Store) UpdateJobQuestion(ctx context.Context, questionID domain.ID, q domain.ApplicationQuestion) (*domain.ApplicationQuestion, error) {
	return run(ctx, s, "update_job_question", applicationsStatus, func(ctx context.Context) (*domain.ApplicationQuestion, error) {
		return s.api.UpdateJobQuestion(ctx, questionID, q)
	}, func(st *State, updated *domain.ApplicationQuestion) {
		for i := range st.Applications.ApplicationQuestions {
			if st.Applications.ApplicationQuestions[i].ID == questionID {
				st.Applications.ApplicationQuestions[i] = *updated
			}
		}
	})
}

// DeleteJobQuestion удаляет вопрос анкеты
func (s *Store) DeleteJobQuestion(ctx context.Context, questionID domain.ID) error {
	return exec(ctx, s, "delete_job_question", applicationsStatus, func(ctx context.Context) error {
		return s.api.DeleteJobQuestion(ctx, questionID)
	}, func(st *State) {
		kept := st.Applications.ApplicationQuestions[:0]
		for _, q := range st.Applications.ApplicationQuestions {
			if q.ID != questionID {
				kept = append(kept, q)
			}
		}
		st.Applications.ApplicationQuestions = kept
	})
}
