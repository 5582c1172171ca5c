package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID идентификатор сущности API. Сервер отдает его то строкой, то числом.
type ID string

// String возвращает строковое представление
func (id ID) String() string {
	return string(id)
}

// IsZero сообщает, пустой ли идентификатор
func (id ID) IsZero() bool {
	return id == ""
}

// UnmarshalJSON принимает строку, число или null
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("некорректный идентификатор %s: %w", string(b), err)
	}
	*id = ID(n.String())
	return nil
}
