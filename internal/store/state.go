package store

import (
	"encoding/json"
	"time"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/domain"
)

// Status флаг загрузки и последняя ошибка среза
type Status struct {
	Loading bool   `json:"loading"`
	Error   string `json:"error"`
}

// Pagination постраничная навигация списка, страницы с 1
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"pageSize"`
	TotalPages int `json:"totalPages"`
	TotalCount int `json:"totalCount"`
}

// AuthState сессия пользователя
type AuthState struct {
	Status
	User              *domain.User `json:"user"`
	Token             string       `json:"token"`
	RefreshToken      string       `json:"refreshToken"`
	IsAuthenticated   bool         `json:"isAuthenticated"`
	IsEmployer        bool         `json:"isEmployer"`
	VerificationEmail string       `json:"verificationEmail"`
	RegistrationType  string       `json:"registrationType"`
	SessionValid      bool         `json:"sessionValid"`
}

// ProfileState профиль соискателя и его разделы
type ProfileState struct {
	Status
	Profile             *domain.Profile        `json:"profile"`
	ProfileID           domain.ID              `json:"profileId"`
	HasCompletedProfile bool                   `json:"hasCompletedProfile"`
	Experiences         []domain.Experience    `json:"experiences"`
	Education           []domain.Education     `json:"education"`
	Skills              []domain.ProfileSkill  `json:"skills"`
	Certifications      []domain.Certification `json:"certifications"`
	PortfolioItems      []domain.PortfolioItem `json:"portfolioItems"`
}

// JobsState вакансии, избранное и фильтры
type JobsState struct {
	Status
	Jobs          []domain.Job         `json:"jobs"`
	CurrentJob    *domain.Job          `json:"currentJob"`
	SavedJobs     []domain.SavedJob    `json:"savedJobs"`
	SavedSearches []domain.SavedSearch `json:"savedSearches"`
	AdminJobs     []domain.Job         `json:"adminJobs"`
	Filters       map[string]string    `json:"filters"`
	Pagination    Pagination           `json:"pagination"`
}

// ApplicationsState отклики и анкеты
type ApplicationsState struct {
	Status
	Applications         []domain.Application         `json:"applications"`
	CurrentApplication   *domain.Application          `json:"currentApplication"`
	ApplicationQuestions []domain.ApplicationQuestion `json:"applicationQuestions"`
	Stats                domain.ApplicationStats      `json:"stats"`
	Filters              map[string]string            `json:"filters"`
	Pagination           Pagination                   `json:"pagination"`
}

// SetupProgress шаги настройки компании
type SetupProgress struct {
	Details  bool `json:"details"`
	Benefits bool `json:"benefits"`
	Logo     bool `json:"logo"`
	Images   bool `json:"images"`
	Team     bool `json:"team"`
}

// CompanyState активная компания и компании пользователя
type CompanyState struct {
	Status
	Company          *domain.Company  `json:"company"`
	Companies        []domain.Company `json:"companies"`
	CompanySetupStep int              `json:"companySetupStep"`
	SetupProgress    SetupProgress    `json:"setupProgress"`
}

// TeamState участники и приглашения команды
type TeamState struct {
	Status
	TeamMembers     []domain.TeamMember `json:"teamMembers"`
	TeamInvitations []domain.Invitation `json:"teamInvitations"`
}

// MessagePagination постраничная загрузка сообщений
type MessagePagination struct {
	Page       int  `json:"page"`
	PageSize   int  `json:"pageSize"`
	TotalPages int  `json:"totalPages"`
	TotalCount int  `json:"totalCount"`
	HasMore    bool `json:"hasMore"`
}

// MessagesState переписки и сообщения
type MessagesState struct {
	Status
	Conversations       []domain.Conversation `json:"conversations"`
	CurrentConversation *domain.Conversation  `json:"currentConversation"`
	Messages            []domain.Message      `json:"messages"`
	UnreadCount         int                   `json:"unreadCount"`
	Pagination          MessagePagination     `json:"pagination"`
}

// DateRange период аналитики, даты в формате YYYY-MM-DD
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// AnalyticsState аналитика работодателя
type AnalyticsState struct {
	Status
	Data      domain.AnalyticsData `json:"analyticsData"`
	DateRange DateRange            `json:"dateRange"`
}

// Modal имя модального окна
type Modal string

const (
	ModalLogin       Modal = "loginModal"
	ModalRegister    Modal = "registerModal"
	ModalApplication Modal = "applicationModal"
	ModalJob         Modal = "jobModal"
	ModalMessage     Modal = "messageModal"
)

// Notification уведомление интерфейса
type Notification struct {
	ID       string        `json:"id"`
	Type     string        `json:"type"`
	Message  string        `json:"message"`
	Duration time.Duration `json:"duration"`
}

// UIState состояние интерфейса
type UIState struct {
	Modals        map[Modal]bool `json:"modals"`
	Notifications []Notification `json:"notifications"`
	SidebarOpen   bool           `json:"sidebarOpen"`
	IsLoading     bool           `json:"isLoading"`
	Error         string         `json:"error"`
}

// ThemeColors цвета темы
type ThemeColors struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
	Text       string `json:"text"`
}

// ThemeFonts шрифты темы
type ThemeFonts struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// ThemeState тема оформления
type ThemeState struct {
	IsDarkMode bool        `json:"isDarkMode"`
	Colors     ThemeColors `json:"colors"`
	Fonts      ThemeFonts  `json:"fonts"`
}

// State полное состояние клиента
type State struct {
	Auth         AuthState         `json:"auth"`
	Profile      ProfileState      `json:"profile"`
	Jobs         JobsState         `json:"jobs"`
	Applications ApplicationsState `json:"applications"`
	Company      CompanyState      `json:"company"`
	Team         TeamState         `json:"team"`
	Messages     MessagesState     `json:"messages"`
	Analytics    AnalyticsState    `json:"analytics"`
	UI           UIState           `json:"ui"`
	Theme        ThemeState        `json:"theme"`
}

const (
	defaultJobsPageSize     = 10
	defaultMessagesPageSize = 20
	messagesFetchPageSize   = 50
	analyticsWindow         = 30 * 24 * time.Hour
	dateLayout              = "2006-01-02"
)

func lightColors() ThemeColors {
	return ThemeColors{
		Primary:    "#0CCE68",
		Secondary:  "#364187",
		Accent:     "#88FF99",
		Background: "#FFFFFF",
		Text:       "#000000",
	}
}

func closedModals() map[Modal]bool {
	return map[Modal]bool{
		ModalLogin:       false,
		ModalRegister:    false,
		ModalApplication: false,
		ModalJob:         false,
		ModalMessage:     false,
	}
}

// Initial возвращает исходное состояние
func Initial() State {
	return initialAt(time.Now())
}

func initialAt(now time.Time) State {
	return State{
		Auth: AuthState{SessionValid: true},
		Profile: ProfileState{
			Experiences:    []domain.Experience{},
			Education:      []domain.Education{},
			Skills:         []domain.ProfileSkill{},
			Certifications: []domain.Certification{},
			PortfolioItems: []domain.PortfolioItem{},
		},
		Jobs: JobsState{
			Jobs:          []domain.Job{},
			SavedJobs:     []domain.SavedJob{},
			SavedSearches: []domain.SavedSearch{},
			AdminJobs:     []domain.Job{},
			Filters:       map[string]string{},
			Pagination:    Pagination{Page: 1, PageSize: defaultJobsPageSize},
		},
		Applications: ApplicationsState{
			Applications:         []domain.Application{},
			ApplicationQuestions: []domain.ApplicationQuestion{},
			Filters:              map[string]string{},
			Pagination:           Pagination{Page: 1, PageSize: defaultJobsPageSize},
		},
		Company: CompanyState{
			Companies:        []domain.Company{},
			CompanySetupStep: 1,
		},
		Team: TeamState{
			TeamMembers:     []domain.TeamMember{},
			TeamInvitations: []domain.Invitation{},
		},
		Messages: MessagesState{
			Conversations: []domain.Conversation{},
			Messages:      []domain.Message{},
			Pagination:    MessagePagination{Page: 1, PageSize: defaultMessagesPageSize},
		},
		Analytics: AnalyticsState{
			Data: domain.AnalyticsData{
				JobViews:          []domain.JobViewStat{},
				ApplicationStats:  domain.ApplicationFunnel{StatusBreakdown: []map[string]any{}},
				JobPerformance:    []map[string]any{},
				TopSources:        []map[string]any{},
				DailyApplications: []map[string]any{},
			},
			DateRange: DateRange{
				From: now.Add(-analyticsWindow).Format(dateLayout),
				To:   now.Format(dateLayout),
			},
		},
		UI: UIState{
			Modals:        closedModals(),
			Notifications: []Notification{},
			SidebarOpen:   true,
		},
		Theme: ThemeState{
			Colors: lightColors(),
			Fonts: ThemeFonts{
				Heading: "system-ui, -apple-system, sans-serif",
				Body:    "system-ui, -apple-system, sans-serif",
			},
		},
	}
}

// clone возвращает глубокую копию состояния
func (s State) clone() State {
	data, err := json.Marshal(s)
	if err != nil {
		panic("store: состояние не сериализуется: " + err.Error())
	}
	var out State
	if err := json.Unmarshal(data, &out); err != nil {
		panic("store: состояние не десериализуется: " + err.Error())
	}
	out.normalize()
	return out
}

// normalize заменяет nil коллекции пустыми
func (s *State) normalize() {
	s.Profile.Experiences = orEmpty(s.Profile.Experiences)
	s.Profile.Education = orEmpty(s.Profile.Education)
	s.Profile.Skills = orEmpty(s.Profile.Skills)
	s.Profile.Certifications = orEmpty(s.Profile.Certifications)
	s.Profile.PortfolioItems = orEmpty(s.Profile.PortfolioItems)

	s.Jobs.Jobs = orEmpty(s.Jobs.Jobs)
	s.Jobs.SavedJobs = orEmpty(s.Jobs.SavedJobs)
	s.Jobs.SavedSearches = orEmpty(s.Jobs.SavedSearches)
	s.Jobs.AdminJobs = orEmpty(s.Jobs.AdminJobs)
	if s.Jobs.Filters == nil {
		s.Jobs.Filters = map[string]string{}
	}

	s.Applications.Applications = orEmpty(s.Applications.Applications)
	s.Applications.ApplicationQuestions = orEmpty(s.Applications.ApplicationQuestions)
	if s.Applications.Filters == nil {
		s.Applications.Filters = map[string]string{}
	}

	s.Company.Companies = orEmpty(s.Company.Companies)
	s.Team.TeamMembers = orEmpty(s.Team.TeamMembers)
	s.Team.TeamInvitations = orEmpty(s.Team.TeamInvitations)
	s.Messages.Conversations = orEmpty(s.Messages.Conversations)
	s.Messages.Messages = orEmpty(s.Messages.Messages)

	s.Analytics.Data.JobViews = orEmpty(s.Analytics.Data.JobViews)
	s.Analytics.Data.ApplicationStats.StatusBreakdown = orEmpty(s.Analytics.Data.ApplicationStats.StatusBreakdown)
	s.Analytics.Data.JobPerformance = orEmpty(s.Analytics.Data.JobPerformance)
	s.Analytics.Data.TopSources = orEmpty(s.Analytics.Data.TopSources)
	s.Analytics.Data.DailyApplications = orEmpty(s.Analytics.Data.DailyApplications)

	if s.UI.Modals == nil {
		s.UI.Modals = closedModals()
	}
	s.UI.Notifications = orEmpty(s.UI.Notifications)
}

func orEmpty[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
