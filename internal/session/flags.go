package session

import (
	"strconv"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/domain"
)

// Flags подсказки маршрутизации, которые читаются вне хранилища состояния
type Flags struct {
	Token               string
	RefreshToken        string
	User                *domain.User
	CompanyID           domain.ID
	CompanyCount        int
	ProfileID           domain.ID
	HasCompletedProfile bool
	CompanySetupStep    int
	IsEmployer          bool
	IsAuthenticated     bool
	RegistrationType    string
}

// Change запись или удаление одной cookie
type Change struct {
	Name   string
	Value  string
	Remove bool
}

func set(name, value string) Change {
	return Change{Name: name, Value: value}
}

func remove(name string) Change {
	return Change{Name: name, Remove: true}
}

// DeriveCookies вычисляет cookie из сессии. Единственный путь записи cookie.
func DeriveCookies(f Flags) []Change {
	registration := remove(CookieRegistrationType)
	if f.RegistrationType != "" {
		registration = set(CookieRegistrationType, f.RegistrationType)
	}

	if !f.IsAuthenticated || f.Token == "" {
		return []Change{
			registration,
			remove(CookieAuthToken),
			remove(CookieRefreshToken),
			remove(CookieUserRole),
			remove(CookieHasCompany),
			remove(CookieCompanyID),
			remove(CookieHasMultipleCompanies),
			remove(CookieCompanySetupStep),
			remove(CookieHasCompletedProfile),
			remove(CookieProfileID),
		}
	}

	changes := []Change{registration, set(CookieAuthToken, f.Token)}
	if f.RefreshToken != "" {
		changes = append(changes, set(CookieRefreshToken, f.RefreshToken))
	} else {
		changes = append(changes, remove(CookieRefreshToken))
	}

	if f.User != nil {
		role := domain.RoleJobseeker
		if f.IsEmployer {
			role = domain.RoleEmployer
		}
		changes = append(changes, set(CookieUserRole, string(role)))
	} else {
		changes = append(changes, remove(CookieUserRole))
	}

	if f.IsEmployer {
		if !f.CompanyID.IsZero() {
			changes = append(changes,
				set(CookieHasCompany, "true"),
				set(CookieCompanyID, f.CompanyID.String()),
			)
		} else {
			changes = append(changes,
				set(CookieHasCompany, "false"),
				remove(CookieCompanyID),
			)
		}
		if f.CompanyCount > 1 {
			changes = append(changes, set(CookieHasMultipleCompanies, "true"))
		} else {
			changes = append(changes, remove(CookieHasMultipleCompanies))
		}
		if f.CompanySetupStep > 0 {
			changes = append(changes, set(CookieCompanySetupStep, strconv.Itoa(f.CompanySetupStep)))
		} else {
			changes = append(changes, remove(CookieCompanySetupStep))
		}
		changes = append(changes, remove(CookieHasCompletedProfile), remove(CookieProfileID))
		return changes
	}

	changes = append(changes,
		set(CookieHasCompany, "false"),
		remove(CookieCompanyID),
		remove(CookieHasMultipleCompanies),
		remove(CookieCompanySetupStep),
		set(CookieHasCompletedProfile, strconv.FormatBool(f.HasCompletedProfile)),
	)
	if !f.ProfileID.IsZero() {
		changes = append(changes, set(CookieProfileID, f.ProfileID.String()))
	} else {
		changes = append(changes, remove(CookieProfileID))
	}
	return changes
}
