package store

import (
	"context"
	"io"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/api"
	"github.com/TechiHub-io/TechihubReact-sub000/internal/domain"
	pkgerrors "github.com/TechiHub-io/TechihubReact-sub000/pkg/errors"
)

// FetchProfileID загружает идентификатор профиля текущего пользователя
func (s *Store) FetchProfileID(ctx context.Context) (domain.ID, error) {
	return run(ctx, s, "fetch_profile_id", profileStatus, func(ctx context.Context) (domain.ID, error) {
		return s.api.ProfileID(ctx)
	}, func(st *State, id domain.ID) {
		st.Profile.ProfileID = id
	})
}

// FetchProfile загружает профиль. Пустой id означает профиль текущего пользователя.
func (s *Store) FetchProfile(ctx context.Context, id domain.ID) (*domain.Profile, error) {
	if id.IsZero() {
		id = s.State().Profile.ProfileID
	}
	if id.IsZero() {
		var err error
		if id, err = s.FetchProfileID(ctx); err != nil {
			return nil, err
		}
	}
	return run(ctx, s, "fetch_profile", profileStatus, func(ctx context.Context) (*domain.Profile, error) {
		return s.api.GetProfile(ctx, id)
	}, applyProfile)
}

// applyProfile записывает профиль и раскладывает его разделы по срезу
func applyProfile(st *State, p *domain.Profile) {
	st.Profile.Profile = p
	st.Profile.ProfileID = p.ID
	st.Profile.HasCompletedProfile = p.Completed(false)
	st.Profile.Experiences = orEmpty(p.Experiences)
	st.Profile.Education = orEmpty(p.Education)
	st.Profile.Skills = orEmpty(p.Skills)
	st.Profile.Certifications = orEmpty(p.Certifications)
	st.Profile.PortfolioItems = orEmpty(p.PortfolioItems)
}

// CreateProfile создает профиль соискателя
func (s *Store) CreateProfile(ctx context.Context, p domain.Profile) (*domain.Profile, error) {
	return run(ctx, s, "create_profile", profileStatus, func(ctx context.Context) (*domain.Profile, error) {
		return s.api.CreateProfile(ctx, p)
	}, applyProfile)
}

// UpdateProfile частично обновляет профиль текущего пользователя
func (s *Store) UpdateProfile(ctx context.Context, fields map[string]any) (*domain.Profile, error) {
	id, err := s.profileID()
	if err != nil {
		return nil, err
	}
	return run(ctx, s, "update_profile", profileStatus, func(ctx context.Context) (*domain.Profile, error) {
		return s.api.UpdateProfile(ctx, id, fields)
	}, applyProfile)
}

// UploadProfilePicture загружает фото профиля
func (s *Store) UploadProfilePicture(ctx context.Context, filename string, content io.Reader) (*domain.Profile, error) {
	id, err := s.profileID()
	if err != nil {
		return nil, err
	}
	return run(ctx, s, "upload_profile_picture", profileStatus, func(ctx context.Context) (*domain.Profile, error) {
		return s.api.UploadProfilePicture(ctx, id, filename, content)
	}, func(st *State, p *domain.Profile) {
		if st.Profile.Profile != nil {
			st.Profile.Profile.ProfilePicture = p.ProfilePicture
		}
	})
}

// ResetProfileState сбрасывает срез профиля
func (s *Store) ResetProfileState() {
	s.Update(func(st *State) { st.Profile = s.initial().Profile })
}

func (s *Store) profileID() (domain.ID, error) {
	id := s.State().Profile.ProfileID
	if id.IsZero() {
		return "", pkgerrors.New(pkgerrors.ErrNotFound, "Profile not found")
	}
	return id, nil
}

// section описывает вложенный ресурс профиля и его место в состоянии
type section[T any] struct {
	name api.ProfileSection
	list func(*State) *[]T
	id   func(T) domain.ID
}

var (
	experiences = section[domain.Experience]{
		name: api.SectionExperiences,
		list: func(st *State) *[]domain.Experience { return &st.Profile.Experiences },
		id:   func(v domain.Experience) domain.ID { return v.ID },
	}
	education = section[domain.Education]{
		name: api.SectionEducation,
		list: func(st *State) *[]domain.Education { return &st.Profile.Education },
		id:   func(v domain.Education) domain.ID { return v.ID },
	}
	skills = section[domain.ProfileSkill]{
		name: api.SectionSkills,
		list: func(st *State) *[]domain.ProfileSkill { return &st.Profile.Skills },
		id:   func(v domain.ProfileSkill) domain.ID { return v.ID },
	}
	certifications = section[domain.Certification]{
		name: api.SectionCertifications,
		list: func(st *State) *[]domain.Certification { return &st.Profile.Certifications },
		id:   func(v domain.Certification) domain.ID { return v.ID },
	}
	portfolio = section[domain.PortfolioItem]{
		name: api.SectionPortfolio,
		list: func(st *State) *[]domain.PortfolioItem { return &st.Profile.PortfolioItems },
		id:   func(v domain.PortfolioItem) domain.ID { return v.ID },
	}
)

func addItem[T any](ctx context.Context, s *Store, sec section[T], item T) (T, error) {
	var zero T
	profileID, err := s.profileID()
	if err != nil {
		return zero, err
	}
	return run(ctx, s, "add_"+string(sec.name), profileStatus, func(ctx context.Context) (T, error) {
		var out T
		err := s.api.CreateProfileItem(ctx, profileID, sec.name, item, &out)
		return out, err
	}, func(st *State, created T) {
		list := sec.list(st)
		*list = append(*list, created)
	})
}

func updateItem[T any](ctx context.Context, s *Store, sec section[T], itemID domain.ID, item T) (T, error) {
	var zero T
	profileID, err := s.profileID()
	if err != nil {
		return zero, err
	}
	return run(ctx, s, "update_"+string(sec.name), profileStatus, func(ctx context.Context) (T, error) {
		var out T
		err := s.api.UpdateProfileItem(ctx, profileID, sec.name, itemID, item, &out)
		return out, err
	}, func(st *State, updated T) {
		list := *sec.list(st)
		for i := range list {
			if sec.id(list[i]) == itemID {
				list[i] = updated
			}
		}
	})
}

func deleteItem[T any](ctx context.Context, s *Store, sec section[T], itemID domain.ID) error {
	profileID, err := s.profileID()
	if err != nil {
		return err
	}
	return exec(ctx, s, "delete_"+string(sec.name), profileStatus, func(ctx context.Context) error {
		return s.api.DeleteProfileItem(ctx, profileID, sec.name, itemID)
	}, func(st *State) {
		list := sec.list(st)
		kept := (*list)[:0]
		for _, v := range *list {
			if sec.id(v) != itemID {
				kept = append(kept, v)
			}
		}
		*list = kept
	})
}

// AddExperience добавляет опыт работы
func (s *Store) AddExperience(ctx context.Context, v domain.Experience) (domain.Experience, error) {
	return addItem(ctx, s, experiences, v)
}

// UpdateExperience обновляет опыт работы
func (s *Store) UpdateExperience(ctx context.Context, id domain.ID, v domain.Experience) (domain.Experience, error) {
	return updateItem(ctx, s, experiences, id, v)
}

// DeleteExperience удаляет опыт работы
func (s *Store) DeleteExperience(ctx context.Context, id domain.ID) error {
	return deleteItem(ctx, s, experiences, id)
}

// AddEducation добавляет образование
func (s *Store) AddEducation(ctx context.Context, v domain.Education) (domain.Education, error) {
	return addItem(ctx, s, education, v)
}

// UpdateEducation обновляет образование
func (s *Store) UpdateEducation(ctx context.Context, id domain.ID, v domain.Education) (domain.Education, error) {
	return updateItem(ctx, s, education, id, v)
}

// DeleteEducation удаляет образование
func (s *Store) DeleteEducation(ctx context.Context, id domain.ID) error {
	return deleteItem(ctx, s, education, id)
}

// AddSkill добавляет навык
func (s *Store) AddSkill(ctx context.Context, v domain.ProfileSkill) (domain.ProfileSkill, error) {
	return addItem(ctx, s, skills, v)
}

// UpdateSkill обновляет навык
func (s *Store) UpdateSkill(ctx context.Context, id domain.ID, v domain.ProfileSkill) (domain.ProfileSkill, error) {
	return updateItem(ctx, s, skills, id, v)
}

// DeleteSkill удаляет навык
func (s *Store) DeleteSkill(ctx context.Context, id domain.ID) error {
	return deleteItem(ctx, s, skills, id)
}

// AddCertification добавляет сертификат
func (s *Store) AddCertification(ctx context.Context, v domain.Certification) (domain.Certification, error) {
	return addItem(ctx, s, certifications, v)
}

// UpdateCertification обновляет сертификат
func (s *Store) UpdateCertification(ctx context.Context, id domain.ID, v domain.Certification) (domain.Certification, error) {
	return updateItem(ctx, s, certifications, id, v)
}

// DeleteCertification удаляет сертификат
func (s *Store) DeleteCertification(ctx context.Context, id domain.ID) error {
	return deleteItem(ctx, s, certifications, id)
}

// AddPortfolioItem добавляет элемент портфолио
func (s *Store) AddPortfolioItem(ctx context.Context, v domain.PortfolioItem) (domain.PortfolioItem, error) {
	return addItem(ctx, s, portfolio, v)
}

// UpdatePortfolioItem обновляет элемент портфолио
func (s *Store) UpdatePortfolioItem(ctx context.Context, id domain.ID, v domain.PortfolioItem) (domain.PortfolioItem, error) {
	return updateItem(ctx, s, portfolio, id, v)
}

// DeletePortfolioItem удаляет элемент портфолио
func (s *Store) DeletePortfolioItem(ctx context.Context, id domain.ID) error {
	return deleteItem(ctx, s, portfolio, id)
}
