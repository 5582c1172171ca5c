package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PageView нормализованная страница списка
type PageView[T any] struct {
	Items       []T  `json:"items"`
	TotalCount  int  `json:"total_count"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

type envelope[T any] struct {
	Count    *int    `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// DecodePage разбирает ответ списка: голый массив или конверт {count,next,previous,results}
func DecodePage[T any](raw []byte) (PageView[T], error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return PageView[T]{Items: []T{}}, nil
	}

	if raw[0] == '[' {
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return PageView[T]{}, fmt.Errorf("ошибка разбора списка: %w", err)
		}
		if items == nil {
			items = []T{}
		}
		return PageView[T]{Items: items, TotalCount: len(items)}, nil
	}

	var env envelope[T]
	if err := json.Unmarshal(raw, &env); err != nil {
		return PageView[T]{}, fmt.Errorf("ошибка разбора страницы: %w", err)
	}

	page := PageView[T]{
		Items:       env.Results,
		HasNext:     env.Next != nil && *env.Next != "",
		HasPrevious: env.Previous != nil && *env.Previous != "",
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	if env.Count != nil {
		page.TotalCount = *env.Count
	} else {
		page.TotalCount = len(page.Items)
	}
	return page, nil
}

// TotalPages возвращает число страниц для размера страницы
func (p PageView[T]) TotalPages(pageSize int) int {
	if pageSize <= 0 || p.TotalCount == 0 {
		return 1
	}
	return (p.TotalCount + pageSize - 1) / pageSize
}
