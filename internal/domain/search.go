package domain

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// SavedSearch сохраненный поиск вакансий. Params параметры страницы поиска.
type SavedSearch struct {
	ID        ID             `json:"id"`
	Name      string         `json:"name"`
	Params    map[string]any `json:"search_params"`
	CreatedAt string         `json:"created_at,omitempty"`
}

// Query параметры поиска как строка запроса. Списки склеиваются через запятую,
// пустые значения пропускаются.
func (s SavedSearch) Query() url.Values {
	q := url.Values{}
	for key, raw := range s.Params {
		if v := paramString(raw); v != "" {
			q.Set(key, v)
		}
	}
	return q
}

// Summary параметры одной строкой в порядке ключей
func (s SavedSearch) Summary() string {
	q := s.Query()
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + q.Get(k)
	}
	return strings.Join(parts, " ")
}

func paramString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case bool:
		if !x {
			return ""
		}
		return "true"
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case []any:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			if s := paramString(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(x)
	}
}
