package store

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/domain"
	"github.com/TechiHub-io/TechihubReact-sub000/internal/storage"
	"github.com/TechiHub-io/TechihubReact-sub000/pkg/logger"
)

// snapshotVersion версия формата снимка
const snapshotVersion = 0

// Snapshot поля состояния, которые переживают перезапуск. Остальное загружается заново.
type Snapshot struct {
	Token               string           `json:"token"`
	RefreshToken        string           `json:"refreshToken"`
	User                *domain.User     `json:"user"`
	IsAuthenticated     bool             `json:"isAuthenticated"`
	IsEmployer          bool             `json:"isEmployer"`
	Company             *domain.Company  `json:"company"`
	Companies           []domain.Company `json:"companies"`
	IsDarkMode          bool             `json:"isDarkMode"`
	UnreadCount         int              `json:"unreadCount"`
	Profile             *domain.Profile  `json:"profile"`
	HasCompletedProfile bool             `json:"hasCompletedProfile"`
}

type persisted struct {
	State   Snapshot `json:"state"`
	Version int      `json:"version"`
}

// SnapshotOf выбирает из состояния сохраняемые поля
func SnapshotOf(st State) Snapshot {
	return Snapshot{
		Token:               st.Auth.Token,
		RefreshToken:        st.Auth.RefreshToken,
		User:                st.Auth.User,
		IsAuthenticated:     st.Auth.IsAuthenticated,
		IsEmployer:          st.Auth.IsEmployer,
		Company:             st.Company.Company,
		Companies:           orEmpty(st.Company.Companies),
		IsDarkMode:          st.Theme.IsDarkMode,
		UnreadCount:         st.Messages.UnreadCount,
		Profile:             st.Profile.Profile,
		HasCompletedProfile: st.Profile.HasCompletedProfile,
	}
}

func encodeSnapshot(st State) ([]byte, error) {
	return json.Marshal(persisted{State: SnapshotOf(st), Version: snapshotVersion})
}

// LoadSnapshot читает снимок из хранилища. Поврежденные поля пропускаются по одному.
func (s *Store) LoadSnapshot(ctx context.Context) (Snapshot, bool, error) {
	var snap Snapshot

	data, err := s.storage.Get(ctx, s.key)
	if stderrors.Is(err, storage.ErrNotFound) {
		return snap, false, nil
	}
	if err != nil {
		return snap, false, fmt.Errorf("ошибка чтения снимка: %w", err)
	}

	var env struct {
		State map[string]json.RawMessage `json:"state"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		s.logger.Warn("снимок поврежден, используется исходное состояние", logger.Error(err))
		return snap, false, nil
	}

	fields := map[string]any{
		"token":               &snap.Token,
		"refreshToken":        &snap.RefreshToken,
		"user":                &snap.User,
		"isAuthenticated":     &snap.IsAuthenticated,
		"isEmployer":          &snap.IsEmployer,
		"company":             &snap.Company,
		"companies":           &snap.Companies,
		"isDarkMode":          &snap.IsDarkMode,
		"unreadCount":         &snap.UnreadCount,
		"profile":             &snap.Profile,
		"hasCompletedProfile": &snap.HasCompletedProfile,
	}
	for name, target := range fields {
		raw, ok := env.State[name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, target); err != nil {
			s.logger.Warn("поле снимка пропущено", logger.String("field", name), logger.Error(err))
		}
	}
	return snap, true, nil
}

// merge накладывает снимок на исходное состояние
func merge(base State, snap Snapshot) State {
	base.Auth.Token = snap.Token
	base.Auth.RefreshToken = snap.RefreshToken
	base.Auth.User = snap.User
	base.Auth.IsAuthenticated = snap.IsAuthenticated
	base.Auth.IsEmployer = snap.IsEmployer
	base.Company.Company = snap.Company
	base.Company.Companies = snap.Companies
	base.Messages.UnreadCount = snap.UnreadCount
	base.Profile.Profile = snap.Profile
	base.Profile.HasCompletedProfile = snap.HasCompletedProfile
	base.Theme.applyDarkMode(snap.IsDarkMode)
	if snap.Profile != nil {
		base.Profile.ProfileID = snap.Profile.ID
	}
	base.normalize()
	return base
}

// resetSessionCollections очищает данные, привязанные к пользователю
func resetSessionCollections(st *State) {
	st.Company.Company = nil
	st.Company.Companies = []domain.Company{}
	st.Jobs.Jobs = []domain.Job{}
	st.Jobs.SavedSearches = []domain.SavedSearch{}
	st.Applications.Applications = []domain.Application{}
	st.Team.TeamMembers = []domain.TeamMember{}
	st.Team.TeamInvitations = []domain.Invitation{}
	st.Messages.Conversations = []domain.Conversation{}
	st.Messages.Messages = []domain.Message{}
	st.Messages.UnreadCount = 0
}

// Rehydrate восстанавливает состояние из снимка при запуске.
// Если сохраненный или текущий пользователь неизвестен либо они различаются,
// данные прошлой сессии сбрасываются.
func (s *Store) Rehydrate(ctx context.Context) error {
	snap, found, err := s.LoadSnapshot(ctx)
	if err != nil {
		return err
	}

	merged := merge(s.initial(), snap)
	s.loadCookies(ctx)

	current, err := s.resolver.CurrentUserID(ctx)
	if err != nil {
		s.logger.Warn("не удалось определить текущего пользователя", logger.Error(err))
		current = ""
	}

	reset := merged.Auth.User == nil || current.IsZero() || merged.Auth.User.ID != current
	if reset {
		resetSessionCollections(&merged)
	}

	s.logger.Debug("состояние восстановлено",
		logger.Bool("snapshot_found", found),
		logger.Bool("session_reset", reset),
		logger.String("user_id", current.String()),
	)

	s.update(ctx, func(st *State) { *st = merged })
	return nil
}
