package store

import (
	"context"
	"io"
	"math"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/domain"
	pkgerrors "github.com/TechiHub-io/TechihubReact-sub000/pkg/errors"
)

// setupSteps число шагов настройки компании
const setupSteps = 5

// progressFor выводит шаги настройки из данных компании
func progressFor(c *domain.Company) SetupProgress {
	if c == nil {
		return SetupProgress{}
	}
	return SetupProgress{
		Details:  true,
		Benefits: len(c.Benefits) > 0,
		Logo:     c.Logo != "",
		Images:   len(c.Images) > 0,
	}
}

func (p SetupProgress) completed() int {
	n := 0
	for _, done := range []bool{p.Details, p.Benefits, p.Logo, p.Images, p.Team} {
		if done {
			n++
		}
	}
	return n
}

// activeCompanyID возвращает идентификатор выбранной компании
func (s *Store) activeCompanyID() (domain.ID, error) {
	st := s.State()
	if st.Company.Company == nil || st.Company.Company.ID.IsZero() {
		return "", pkgerrors.New(pkgerrors.ErrValidation, "No company selected")
	}
	return st.Company.Company.ID, nil
}

// setActiveCompany выбирает компанию и обновляет ее в списке компаний
func setActiveCompany(st *State, c *domain.Company) {
	st.Company.Company = c
	st.Company.SetupProgress = progressFor(c)
	if c == nil {
		return
	}
	for i := range st.Company.Companies {
		if st.Company.Companies[i].ID == c.ID {
			st.Company.Companies[i] = *c
			return
		}
	}
}

// FetchCompany загружает компанию и делает ее активной
func (s *Store) FetchCompany(ctx context.Context, id domain.ID) (*domain.Company, error) {
	return run(ctx, s, "fetch_company", companyStatus, func(ctx context.Context) (*domain.Company, error) {
		return s.api.GetCompany(ctx, id)
	}, setActiveCompany)
}

// FetchUserCompanies загружает компании пользователя. Если активная компания не выбрана
// или больше не принадлежит пользователю, выбирается первая.
func (s *Store) FetchUserCompanies(ctx context.Context) ([]domain.Company, error) {
	return run(ctx, s, "fetch_user_companies", companyStatus, func(ctx context.Context) ([]domain.Company, error) {
		return s.api.MyCompanies(ctx)
	}, func(st *State, companies []domain.Company) {
		st.Company.Companies = orEmpty(companies)
		if len(companies) == 0 {
			st.Company.Company = nil
			st.Company.SetupProgress = SetupProgress{}
			return
		}
		if st.Company.Company != nil {
			for _, c := range companies {
				if c.ID == st.Company.Company.ID {
					current := c
					setActiveCompany(st, &current)
					return
				}
			}
		}
		first := companies[0]
		setActiveCompany(st, &first)
	})
}

// SwitchCompany делает активной одну из компаний пользователя
func (s *Store) SwitchCompany(id domain.ID) error {
	found := false
	s.Update(func(st *State) {
		for _, c := range st.Company.Companies {
			if c.ID == id {
				company := c
				st.Company.Company = &company
				st.Company.SetupProgress = progressFor(&company)
				st.Team.TeamMembers = []domain.TeamMember{}
				st.Team.TeamInvitations = []domain.Invitation{}
				found = true
				return
			}
		}
	})
	if !found {
		return pkgerrors.New(pkgerrors.ErrNotFound, "Company not found")
	}
	return nil
}

// CreateCompany создает компанию и делает ее активной
func (s *Store) CreateCompany(ctx context.Context, company domain.Company) (*domain.Company, error) {
	return run(ctx, s, "create_company", companyStatus, func(ctx context.Context) (*domain.Company, error) {
		return s.api.CreateCompany(ctx, company)
	}, func(st *State, created *domain.Company) {
		st.Company.Companies = append(st.Company.Companies, *created)
		setActiveCompany(st, created)
		st.Company.CompanySetupStep = 2
		st.Profile.HasCompletedProfile = true
	})
}

// UpdateCompany обновляет данные компании
func (s *Store) UpdateCompany(ctx context.Context, id domain.ID, company domain.Company) (*domain.Company, error) {
	return run(ctx, s, "update_company", companyStatus, func(ctx context.Context) (*domain.Company, error) {
		return s.api.UpdateCompany(ctx, id, company)
	}, setActiveCompany)
}

// AddCompanyBenefit добавляет льготу активной компании
func (s *Store) AddCompanyBenefit(ctx context.Context, benefit domain.Benefit) (*domain.Benefit, error) {
	id, err := s.activeCompanyID()
	if err != nil {
		return nil, err
	}
	return run(ctx, s, "add_company_benefit", companyStatus, func(ctx context.Context) (*domain.Benefit, error) {
		return s.api.AddBenefit(ctx, id, benefit)
	}, func(st *State, added *domain.Benefit) {
		if st.Company.Company == nil || st.Company.Company.ID != id {
			return
		}
		st.Company.Company.Benefits = append(st.Company.Company.Benefits, *added)
		st.Company.SetupProgress.Benefits = true
	})
}

// UploadCompanyLogo загружает логотип активной компании
func (s *Store) UploadCompanyLogo(ctx context.Context, filename string, content io.Reader) (*domain.Company, error) {
	id, err := s.activeCompanyID()
	if err != nil {
		return nil, err
	}
	return run(ctx, s, "upload_company_logo", companyStatus, func(ctx context.Context) (*domain.Company, error) {
		return s.api.UploadLogo(ctx, id, filename, content)
	}, func(st *State, updated *domain.Company) {
		if st.Company.Company == nil || st.Company.Company.ID != id {
			return
		}
		st.Company.Company.Logo = updated.Logo
		st.Company.SetupProgress.Logo = updated.Logo != ""
	})
}

// AddCompanyImage добавляет изображение активной компании
func (s *Store) AddCompanyImage(ctx context.Context, filename string, content io.Reader, caption string) (*domain.CompanyImage, error) {
	id, err := s.activeCompanyID()
	if err != nil {
		return nil, err
	}
	return run(ctx, s, "add_company_image", companyStatus, func(ctx context.Context) (*domain.CompanyImage, error) {
		return s.api.AddImage(ctx, id, filename, content, caption)
	}, func(st *State, img *domain.CompanyImage) {
		if st.Company.Company == nil || st.Company.Company.ID != id {
			return
		}
		st.Company.Company.Images = append(st.Company.Company.Images, *img)
		st.Company.SetupProgress.Images = true
	})
}

// InviteTeamMember приглашает участника в активную компанию
func (s *Store) InviteTeamMember(ctx context.Context, email, role string) (*domain.Invitation, error) {
	id, err := s.activeCompanyID()
	if err != nil {
		return nil, err
	}
	return run(ctx, s, "invite_team_member", companyStatus, func(ctx context.Context) (*domain.Invitation, error) {
		return s.api.SendInvitation(ctx, id, email, role)
	}, func(st *State, inv *domain.Invitation) {
		st.Team.TeamInvitations = append(st.Team.TeamInvitations, *inv)
		st.Company.SetupProgress.Team = true
	})
}

// FetchCompanyMembers загружает участников активной компании
func (s *Store) FetchCompanyMembers(ctx context.Context) ([]domain.TeamMember, error) {
	id, err := s.activeCompanyID()
	if err != nil {
		return nil, err
	}
	return run(ctx, s, "fetch_company_members", companyStatus, func(ctx context.Context) ([]domain.TeamMember, error) {
		return s.api.ListMembers(ctx, id)
	}, func(st *State, members []domain.TeamMember) {
		st.Team.TeamMembers = members
		if len(members) > 1 {
			st.Company.SetupProgress.Team = true
		}
	})
}

// FetchCompanyInvitations загружает приглашения активной компании
func (s *Store) FetchCompanyInvitations(ctx context.Context) ([]domain.Invitation, error) {
	id, err := s.activeCompanyID()
	if err != nil {
		return nil, err
	}
	return run(ctx, s, "fetch_company_invitations", companyStatus, func(ctx context.Context) ([]domain.Invitation, error) {
		return s.api.ListInvitations(ctx, id)
	}, func(st *State, invs []domain.Invitation) {
		st.Team.TeamInvitations = invs
	})
}

// UpdateSetupProgress отмечает шаг настройки компании
func (s *Store) UpdateSetupProgress(patch func(p *SetupProgress)) {
	s.Update(func(st *State) {
		patch(&st.Company.SetupProgress)
	})
}

// SetCompanySetupStep задает текущий шаг мастера настройки
func (s *Store) SetCompanySetupStep(step int) {
	s.Update(func(st *State) { st.Company.CompanySetupStep = step })
}

// IsSetupComplete сообщает, завершена ли настройка: нужны данные компании
// и хотя бы один дополнительный шаг
func (s *Store) IsSetupComplete() bool {
	p := s.State().Company.SetupProgress
	return p.Details && (p.Benefits || p.Logo || p.Images || p.Team)
}

// SetupCompletionPercentage возвращает долю выполненных шагов в процентах
func (s *Store) SetupCompletionPercentage() int {
	p := s.State().Company.SetupProgress
	return int(math.Round(float64(p.completed()) / setupSteps * 100))
}

// ResetCompanyState сбрасывает срез компании и команды
func (s *Store) ResetCompanyState() {
	s.Update(func(st *State) {
		fresh := s.initial()
		st.Company = fresh.Company
		st.Team = fresh.Team
	})
}
