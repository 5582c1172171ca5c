package toggle

import (
	"context"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/domain"
)

// JobSaver сохраняет и убирает вакансию из избранного
type JobSaver interface {
	SaveJob(ctx context.Context, id domain.ID) error
	UnsaveJob(ctx context.Context, id domain.ID) error
}

// JobActivator включает и выключает публикацию вакансии
type JobActivator interface {
	ActivateJob(ctx context.Context, id domain.ID) error
	DeactivateJob(ctx context.Context, id domain.ID) error
}

// SaveJob действие переключателя избранного для вакансии
func SaveJob(s JobSaver, id domain.ID) Action {
	return func(ctx context.Context, next bool) error {
		if next {
			return s.SaveJob(ctx, id)
		}
		return s.UnsaveJob(ctx, id)
	}
}

// JobStatus действие переключателя активности вакансии
func JobStatus(s JobActivator, id domain.ID) Action {
	return func(ctx context.Context, next bool) error {
		if next {
			return s.ActivateJob(ctx, id)
		}
		return s.DeactivateJob(ctx, id)
	}
}
