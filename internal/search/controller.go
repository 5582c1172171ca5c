package search

import (
	"context"
	"net/url"
	"slices"
	"sync"

	"github.com/TechiHub-io/TechihubReact-sub000/internal/domain"
	"github.com/TechiHub-io/TechihubReact-sub000/pkg/logger"
)

// Searcher выполняет запрос списка вакансий
type Searcher interface {
	SearchJobs(ctx context.Context, query url.Values) (domain.PageView[domain.Job], error)
}

// Navigator заменяет текущий адрес без добавления записи в историю
type Navigator interface {
	Replace(url string)
}

// NavigatorFunc адаптер функции к Navigator
type NavigatorFunc func(url string)

// Replace вызывает функцию
func (f NavigatorFunc) Replace(url string) { f(url) }

// Result опубликованное состояние поиска
type Result struct {
	Filters    Filters
	View       domain.PageView[domain.Job]
	TotalPages int
	Loading    bool
	Err        error
}

// Controller держит фильтры, адрес страницы и последнюю страницу результатов согласованными
type Controller struct {
	mu          sync.Mutex
	searcher    Searcher
	nav         Navigator
	logger      logger.Logger
	path        string
	filters     Filters
	initialized bool
	result      Result
	cancel      context.CancelFunc
	gen         uint64
	subs        map[int]func(Result)
	nextSub     int
}

// NewController создает контроллер для страницы path
func NewController(path string, searcher Searcher, nav Navigator, log logger.Logger) *Controller {
	if nav == nil {
		nav = NavigatorFunc(func(string) {})
	}
	if log == nil {
		log = logger.NewNop()
	}
	f := Defaults()
	return &Controller{
		searcher: searcher,
		nav:      nav,
		logger:   log,
		path:     path,
		filters:  f,
		result:   Result{Filters: f, View: domain.PageView[domain.Job]{Items: []domain.Job{}}, TotalPages: 1},
		subs:     make(map[int]func(Result)),
	}
}

// Filters копия текущих фильтров
func (c *Controller) Filters() Filters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filters.clone()
}

// Result последнее опубликованное состояние
func (c *Controller) Result() Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	r := c.result
	r.Filters = r.Filters.clone()
	return r
}

// URL адрес страницы для текущих фильтров
func (c *Controller) URL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.urlLocked()
}

func (c *Controller) urlLocked() string {
	if q := c.filters.Values().Encode(); q != "" {
		return c.path + "?" + q
	}
	return c.path
}

// Subscribe регистрирует получателя результатов, возвращает функцию отписки
func (c *Controller) Subscribe(fn func(Result)) func() {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

// Init разбирает адрес один раз при открытии страницы и запускает поиск.
// Повторные вызовы ничего не делают и возвращают false.
func (c *Controller) Init(ctx context.Context, rawURL string) (bool, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false, err
	}

	c.mu.Lock()
	if c.initialized {
		c.mu.Unlock()
		return false, nil
	}
	c.initialized = true
	if u.Path != "" {
		c.path = u.Path
	}
	c.filters = ParseQuery(u.Query())
	c.mu.Unlock()

	c.logger.Debug("фильтры поиска прочитаны из адреса", logger.String("url", rawURL))
	_, err = c.Search(ctx)
	return true, err
}

// SetFilters изменяет фильтры. Изменение любого условия кроме страницы возвращает на первую страницу.
func (c *Controller) SetFilters(ctx context.Context, patch func(*Filters)) (domain.PageView[domain.Job], error) {
	return c.change(ctx, func(f *Filters) {
		prev := f.clone()
		patch(f)
		if !f.SameCriteria(prev) || f.PageSize != prev.PageSize {
			f.Page = 1
		}
	})
}

// SetPage переходит на страницу, остальные фильтры сохраняются
func (c *Controller) SetPage(ctx context.Context, page int) (domain.PageView[domain.Job], error) {
	if page < 1 {
		page = 1
	}
	return c.change(ctx, func(f *Filters) { f.Page = page })
}

// SetPageSize меняет размер страницы и возвращает на первую страницу
func (c *Controller) SetPageSize(ctx context.Context, size int) (domain.PageView[domain.Job], error) {
	if size < 1 {
		size = DefaultPageSize
	}
	return c.SetFilters(ctx, func(f *Filters) { f.PageSize = size })
}

// AddSkill добавляет навык в фильтр, повтор игнорируется
func (c *Controller) AddSkill(ctx context.Context, skill string) (domain.PageView[domain.Job], error) {
	return c.SetFilters(ctx, func(f *Filters) {
		if skill != "" && !slices.Contains(f.Skills, skill) {
			f.Skills = append(f.Skills, skill)
		}
	})
}

// RemoveSkill убирает навык из фильтра
func (c *Controller) RemoveSkill(ctx context.Context, skill string) (domain.PageView[domain.Job], error) {
	return c.SetFilters(ctx, func(f *Filters) {
		f.Skills = slices.DeleteFunc(f.Skills, func(s string) bool { return s == skill })
	})
}

// Clear сбрасывает фильтры и возвращает адрес без параметров
func (c *Controller) Clear(ctx context.Context) (domain.PageView[domain.Job], error) {
	return c.change(ctx, func(f *Filters) { *f = Defaults() })
}

// Restore заменяет фильтры целиком, например сохраненным поиском
func (c *Controller) Restore(ctx context.Context, f Filters) (domain.PageView[domain.Job], error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	return c.change(ctx, func(cur *Filters) { *cur = f.clone() })
}

// change применяет изменение, заменяет адрес в том же вызове и запускает поиск
func (c *Controller) change(ctx context.Context, fn func(*Filters)) (domain.PageView[domain.Job], error) {
	c.mu.Lock()
	next := c.filters.clone()
	fn(&next)
	c.filters = next
	c.initialized = true
	u := c.urlLocked()
	c.mu.Unlock()

	c.nav.Replace(u)
	return c.Search(ctx)
}

// Search загружает страницу для текущих фильтров. Предыдущий незавершенный поиск отменяется,
// его результат не публикуется.
func (c *Controller) Search(ctx context.Context) (domain.PageView[domain.Job], error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.cancel = cancel
	c.gen++
	gen := c.gen
	filters := c.filters.clone()
	c.result.Filters = filters
	c.result.Loading = true
	c.result.Err = nil
	c.mu.Unlock()

	view, err := c.searcher.SearchJobs(ctx, filters.APIQuery())

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		c.logger.Debug("устаревший результат поиска отброшен", logger.Int("page", filters.Page))
		if err == nil {
			err = context.Canceled
		}
		return view, err
	}
	c.cancel = nil
	c.result.Loading = false
	if err != nil {
		c.result.Err = err
	} else {
		c.result.View = view
		c.result.TotalPages = view.TotalPages(filters.PageSize)
	}
	r := c.result
	subs := make([]func(Result), 0, len(c.subs))
	for _, fn := range c.subs {
		subs = append(subs, fn)
	}
	c.mu.Unlock()

	if err != nil {
		c.logger.Warn("поиск завершился ошибкой", logger.Error(err))
	}
	for _, fn := range subs {
		fn(r)
	}
	return view, err
}
