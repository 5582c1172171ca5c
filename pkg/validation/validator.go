package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// Validator предоставляет общие функции валидации
type Validator struct {
	now func() time.Time
}

// NewValidator создает новый Validator
func NewValidator() *Validator {
	return &Validator{now: time.Now}
}

// WithClock возвращает Validator с заданными часами
func (v *Validator) WithClock(now func() time.Time) *Validator {
	return &Validator{now: now}
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidateRequired проверяет, что строка не пустая после обрезки пробелов
func (v *Validator) ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s is required", fieldName)
	}
	return nil
}

// ValidateURL проверяет корректность URL
func (v *Validator) ValidateURL(target string, allowedSchemes []string) error {
	if target == "" {
		return fmt.Errorf("URL is required")
	}

	if strings.ContainsAny(target, " \t\n\r") {
		return fmt.Errorf("URL contains invalid whitespace characters")
	}

	parsedURL, err := url.Parse(target)
	if err != nil {
		return fmt.Errorf("invalid URL format: %w", err)
	}

	if len(allowedSchemes) > 0 {
		schemeValid := false
		for _, scheme := range allowedSchemes {
			if strings.EqualFold(parsedURL.Scheme, scheme) {
				schemeValid = true
				break
			}
		}
		if !schemeValid {
			return fmt.Errorf("URL must use one of allowed schemes %v, got: %q", allowedSchemes, parsedURL.Scheme)
		}
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("URL must have a valid host")
	}

	return nil
}

// ValidateEmail проверяет формат email адреса
func (v *Validator) ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !emailPattern.MatchString(email) {
		return fmt.Errorf("invalid email address: %s", email)
	}
	return nil
}

// ValidateEnum проверяет значение на соответствие enum
func (v *Validator) ValidateEnum(value string, allowedValues []string, fieldName string) error {
	if value == "" {
		return fmt.Errorf("%s is required", fieldName)
	}

	for _, allowed := range allowedValues {
		if value == allowed {
			return nil
		}
	}

	return fmt.Errorf("invalid %s: %s, allowed values: %v", fieldName, value, allowedValues)
}

// ValidateStringLength проверяет длину строки в символах
func (v *Validator) ValidateStringLength(value, fieldName string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if length < min {
		return fmt.Errorf("%s must be at least %d characters, got: %d", fieldName, min, length)
	}
	if length > max {
		return fmt.Errorf("%s must not exceed %d characters, got: %d", fieldName, max, length)
	}
	return nil
}

// ValidateFuture проверяет, что момент времени в будущем
func (v *Validator) ValidateFuture(ts time.Time, fieldName string) error {
	if ts.IsZero() {
		return fmt.Errorf("%s cannot be zero", fieldName)
	}
	if !ts.After(v.now()) {
		return fmt.Errorf("%s must be in the future", fieldName)
	}
	return nil
}

// ValidateRange проверяет, что max строго больше min
func (v *Validator) ValidateRange(min, max float64, fieldName string) error {
	if max <= min {
		return fmt.Errorf("%s: maximum must be greater than minimum", fieldName)
	}
	return nil
}
