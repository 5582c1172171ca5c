// Package jobform модель формы размещения вакансии администратором от имени компании.
package jobform

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Field поле формы
type Field string

const (
	FieldCompanyID           Field = "companyId"
	FieldApplicationMethods  Field = "applicationMethods"
	FieldApplicationURL      Field = "applicationUrl"
	FieldApplicationEmail    Field = "applicationEmail"
	FieldTitle               Field = "title"
	FieldDescription         Field = "description"
	FieldResponsibilities    Field = "responsibilities"
	FieldRequirements        Field = "requirements"
	FieldBenefits            Field = "benefits"
	FieldCategory            Field = "category"
	FieldLocation            Field = "location"
	FieldMinSalary           Field = "min_salary"
	FieldMaxSalary           Field = "max_salary"
	FieldApplicationDeadline Field = "application_deadline"
	FieldSkills              Field = "skills"
)

// Fields все поля в порядке проверки
var Fields = []Field{
	FieldCompanyID,
	FieldApplicationMethods,
	FieldApplicationURL,
	FieldApplicationEmail,
	FieldTitle,
	FieldDescription,
	FieldResponsibilities,
	FieldRequirements,
	FieldBenefits,
	FieldCategory,
	FieldLocation,
	FieldMinSalary,
	FieldMaxSalary,
	FieldApplicationDeadline,
	FieldSkills,
}

// Valid сообщает, входит ли поле в форму
func (f Field) Valid() bool {
	for _, v := range Fields {
		if v == f {
			return true
		}
	}
	return false
}

// ErrorKind вид ошибки поля
type ErrorKind string

const (
	KindRequired  ErrorKind = "required"
	KindTooShort  ErrorKind = "too_short"
	KindTooLong   ErrorKind = "too_long"
	KindInvalid   ErrorKind = "invalid"
	KindRange     ErrorKind = "range"
	KindAccess    ErrorKind = "access"
	KindDuplicate ErrorKind = "duplicate"
	KindLimit     ErrorKind = "limit"
)

// FieldError ошибка проверки поля
type FieldError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (e FieldError) Error() string { return e.Message }

// Limit ограничение длины текста поля
type Limit struct {
	Min int
	Max int
}

// Limits ограничения длины текстовых полей
var Limits = map[Field]Limit{
	FieldTitle:            {Min: 3, Max: 100},
	FieldDescription:      {Min: 50, Max: 5000},
	FieldResponsibilities: {Min: 20, Max: 3000},
	FieldRequirements:     {Min: 20, Max: 3000},
	FieldBenefits:         {Min: 10, Max: 2000},
	FieldLocation:         {Min: 2, Max: 100},
}

const (
	// MaxSkills наибольшее число навыков вакансии
	MaxSkills = 15
	// MaxSkillName наибольшая длина названия навыка
	MaxSkillName = 50
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// PlainText удаляет HTML-теги и крайние пробелы
func PlainText(html string) string {
	return strings.TrimSpace(tagPattern.ReplaceAllString(html, ""))
}

// CharCount число символов текста без HTML-тегов
func CharCount(html string) int {
	return utf8.RuneCountInString(PlainText(html))
}
