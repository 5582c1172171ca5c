package store

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/api"
	"github.com/TechiHub-io/TechihubReact-sub000/internal/session"
	"github.com/TechiHub-io/TechihubReact-sub000/internal/storage"
	pkgerrors "github.com/TechiHub-io/TechihubReact-sub000/pkg/errors"
	"github.com/TechiHub-io/TechihubReact-sub000/pkg/logger"
	"github.com/TechiHub-io/TechihubReact-sub000/pkg/metrics"
)

// DefaultKey ключ сводного снимка состояния в хранилище
const DefaultKey = "techhub-storage"

// LoginPath страница входа, на которую ведет выход
const LoginPath = "/auth/login"

// Navigator выполняет переходы вне хранилища
type Navigator interface {
	// Reload полная навигация с отбрасыванием состояния в памяти
	Reload(path string)
}

// NavigatorFunc адаптер функции к Navigator
type NavigatorFunc func(path string)

// Reload вызывает функцию
func (f NavigatorFunc) Reload(path string) {
	f(path)
}

// Deps зависимости хранилища состояния
type Deps struct {
	API       *api.Client
	Storage   storage.Storage
	Jar       *session.Jar
	Resolver  session.Resolver
	Navigator Navigator
	Logger    logger.Logger
	Metrics   *metrics.Metrics
	// Key ключ снимка, по умолчанию DefaultKey
	Key string
	// Host домен для удаления cookie при выходе
	Host string
	Now  func() time.Time
}

// Store единое состояние клиента. Изменяется только через Update и действия.
type Store struct {
	mu    sync.Mutex
	state State

	api       *api.Client
	storage   storage.Storage
	jar       *session.Jar
	resolver  session.Resolver
	navigator Navigator
	logger    logger.Logger
	metrics   *metrics.Metrics
	key       string
	host      string
	now       func() time.Time

	refreshMu sync.Mutex

	// persistMu упорядочивает записи в хранилище. Берется под mu, ввод-вывод идет уже без mu.
	persistMu sync.Mutex
	// cookies последние записанные значения, nil если неизвестны
	cookies map[string]session.Change

	subsMu  sync.Mutex
	subs    map[int]func(State)
	nextSub int

	resetHooks []func()
}

// New создает хранилище состояния
func New(d Deps) *Store {
	s := &Store{
		api:       d.API,
		storage:   d.Storage,
		jar:       d.Jar,
		resolver:  d.Resolver,
		navigator: d.Navigator,
		logger:    d.Logger,
		metrics:   d.Metrics,
		key:       d.Key,
		host:      d.Host,
		now:       d.Now,
		subs:      make(map[int]func(State)),
	}
	if s.storage == nil {
		s.storage = storage.NewMemory()
	}
	if s.jar == nil {
		s.jar = session.NewJar(s.storage, session.DefaultTTLPolicy, d.Host)
	}
	if s.resolver == nil {
		s.resolver = session.NewJWTResolver(s.jar)
	}
	if s.navigator == nil {
		s.navigator = NavigatorFunc(func(string) {})
	}
	if s.logger == nil {
		s.logger = logger.NewNop()
	}
	if s.key == "" {
		s.key = DefaultKey
	}
	if s.now == nil {
		s.now = time.Now
	}
	s.state = s.initial()
	return s
}

func (s *Store) initial() State {
	return initialAt(s.now())
}

// API возвращает клиент REST API
func (s *Store) API() *api.Client {
	return s.api
}

// Jar возвращает cookie клиента
func (s *Store) Jar() *session.Jar {
	return s.jar
}

// State возвращает копию текущего состояния
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// AccessToken возвращает текущий токен доступа
func (s *Store) AccessToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Auth.Token
}

// Subscribe подписывает fn на изменения состояния и возвращает функцию отписки
func (s *Store) Subscribe(fn func(State)) func() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn

	return func() {
		s.subsMu.Lock()
		defer s.subsMu.Unlock()
		delete(s.subs, id)
	}
}

// OnReset регистрирует функцию, вызываемую при выходе после сброса состояния
func (s *Store) OnReset(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetHooks = append(s.resetHooks, fn)
}

// Update применяет изменение к черновику состояния, сохраняет снимок, пересчитывает cookie
// и уведомляет подписчиков
func (s *Store) Update(fn func(*State)) {
	s.update(context.Background(), fn)
}

func (s *Store) update(ctx context.Context, fn func(*State)) {
	s.mu.Lock()
	draft := s.state.clone()
	fn(&draft)
	draft.normalize()
	s.state = draft
	data, err := encodeSnapshot(draft)
	changes := session.DeriveCookies(draft.flags())
	next := draft.clone()
	s.persistMu.Lock()
	s.mu.Unlock()

	s.persist(ctx, data, err, changes)
	s.persistMu.Unlock()

	s.notify(next)
}

func (s *Store) notify(st State) {
	s.subsMu.Lock()
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subsMu.Unlock()

	for _, fn := range subs {
		fn(st)
	}
}

// persist записывает снимок и cookie, значения которых изменились. Вызывается под persistMu.
func (s *Store) persist(ctx context.Context, data []byte, encodeErr error, changes []session.Change) {
	ctx = context.WithoutCancel(ctx)
	if encodeErr != nil {
		s.logger.Error("ошибка сериализации снимка", logger.Error(encodeErr))
	} else if err := s.storage.Set(ctx, s.key, data, 0); err != nil {
		s.logger.Warn("ошибка сохранения снимка", logger.String("key", s.key), logger.Error(err))
	}

	diff := make([]session.Change, 0, len(changes))
	for _, c := range changes {
		if prev, ok := s.cookies[c.Name]; !ok || prev != c {
			diff = append(diff, c)
		}
	}
	if len(diff) == 0 {
		return
	}
	if err := s.jar.Apply(ctx, diff); err != nil {
		s.logger.Warn("ошибка записи cookie", logger.Error(err))
		s.cookies = nil
		return
	}
	if s.cookies == nil {
		s.cookies = make(map[string]session.Change, len(session.KnownCookies))
	}
	for _, c := range diff {
		s.cookies[c.Name] = c
	}
}

// loadCookies запоминает cookie, уже лежащие в хранилище, чтобы не перезаписывать их
// и не продлевать срок жизни при каждом изменении
func (s *Store) loadCookies(ctx context.Context) {
	all, err := s.jar.All(ctx)
	if err != nil {
		s.logger.Warn("не удалось прочитать cookie", logger.Error(err))
		return
	}

	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	s.cookies = make(map[string]session.Change, len(session.KnownCookies))
	for _, name := range session.KnownCookies {
		if v, ok := all[name]; ok {
			s.cookies[name] = session.Change{Name: name, Value: v}
		} else {
			s.cookies[name] = session.Change{Name: name, Remove: true}
		}
	}
}

// flags собирает подсказки маршрутизации из сессии
func (s State) flags() session.Flags {
	f := session.Flags{
		Token:               s.Auth.Token,
		RefreshToken:        s.Auth.RefreshToken,
		User:                s.Auth.User,
		IsEmployer:          s.Auth.IsEmployer,
		IsAuthenticated:     s.Auth.IsAuthenticated,
		CompanyCount:        len(s.Company.Companies),
		ProfileID:           s.Profile.ProfileID,
		HasCompletedProfile: s.Profile.HasCompletedProfile,
		RegistrationType:    s.Auth.RegistrationType,
	}
	if s.Company.Company != nil {
		f.CompanyID = s.Company.Company.ID
	}
	if s.Auth.IsEmployer && s.Company.CompanySetupStep > 1 {
		f.CompanySetupStep = s.Company.CompanySetupStep
	}
	return f
}

// run выполняет действие по общему контракту: Loading и сброс ошибки до вызова,
// запись результата при успехе, нормализованное сообщение в Error при неудаче.
func run[T any](ctx context.Context, s *Store, action string, status func(*State) *Status, call func(context.Context) (T, error), apply func(*State, T)) (T, error) {
	s.update(ctx, func(st *State) {
		x := status(st)
		x.Loading = true
		x.Error = ""
	})

	start := s.now()
	res, err := call(ctx)
	s.metrics.ObserveAction(action, err)

	if err != nil {
		canceled := stderrors.Is(err, context.Canceled)
		msg := pkgerrors.Message(err)
		s.update(ctx, func(st *State) {
			x := status(st)
			x.Loading = false
			if !canceled {
				x.Error = msg
			}
		})
		if !canceled {
			s.logger.Warn("действие завершилось ошибкой",
				logger.String("action", action),
				logger.Error(err),
				logger.CtxField(ctx),
			)
		}
		var zero T
		return zero, err
	}

	s.update(ctx, func(st *State) {
		if apply != nil {
			apply(st, res)
		}
		status(st).Loading = false
	})
	s.logger.Debug("действие выполнено",
		logger.String("action", action),
		logger.Duration("took", s.now().Sub(start)),
	)
	return res, nil
}

// exec вариант run для действий без результата
func exec(ctx context.Context, s *Store, action string, status func(*State) *Status, call func(context.Context) error, apply func(*State)) error {
	_, err := run(ctx, s, action, status,
		func(ctx context.Context) (struct{}, error) { return struct{}{}, call(ctx) },
		func(st *State, _ struct{}) {
			if apply != nil {
				apply(st)
			}
		})
	return err
}

func authStatus(st *State) *Status { return &st.Auth.Status }
func profileStatus(st *State) *Status { return &st.Profile.Status }
func jobsStatus(st *State) *Status { return &st.Jobs.Status }
func applicationsStatus(st *State) *Status { return &st.Applications.Status }
func companyStatus(st *State) *Status { return &st.Company.Status }
func teamStatus(st *State) *Status { return &st.Team.Status }
func messagesStatus(st *State) *Status { return &st.Messages.Status }
func analyticsStatus(st *State) *Status { return &st.Analytics.Status }

// requireAuth возвращает ошибку, если нет токена доступа
func (s *Store) requireAuth() error {
	if s.AccessToken() == "" {
		return pkgerrors.New(pkgerrors.ErrUnauthorized, "Authentication required")
	}
	return nil
}
