// Package output форматирует результаты команд: таблица, JSON, YAML.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v2"
)

// FormatType формат вывода
type FormatType string

const (
	FormatTable FormatType = "table"
	FormatJSON  FormatType = "json"
	FormatYAML  FormatType = "yaml"
)

// ParseFormat разбирает имя формата, неизвестное имя дает ошибку
func ParseFormat(s string) (FormatType, error) {
	switch f := FormatType(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unknown output format %q (table, json, yaml)", s)
	}
}

// Formatter форматирует данные в строку
type Formatter interface {
	Format(data any) (string, error)
}

// Tabular данные, которые умеют представить себя таблицей
type Tabular interface {
	Table() *TableData
}

// TableData данные для табличного вывода
type TableData struct {
	Headers []string
	Rows    [][]string
}

// NewTableData создает таблицу с заголовками
func NewTableData(headers ...string) *TableData {
	return &TableData{Headers: headers, Rows: make([][]string, 0)}
}

// AddRow добавляет строку
func (td *TableData) AddRow(cells ...string) {
	td.Rows = append(td.Rows, cells)
}

// String табличное представление, выровненное tabwriter
func (td *TableData) String() string {
	if len(td.Rows) == 0 {
		return "No data found"
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(td.Headers, "\t"))
	sep := make([]string, len(td.Headers))
	for i, h := range td.Headers {
		sep[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(w, strings.Join(sep, "\t"))
	for _, row := range td.Rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	w.Flush()
	return strings.TrimRight(b.String(), "\n")
}

// TableFormatter выводит таблицу для Tabular и поля структуры для прочих данных
type TableFormatter struct{}

func (TableFormatter) Format(data any) (string, error) {
	switch v := data.(type) {
	case Tabular:
		return v.Table().String(), nil
	case *TableData:
		return v.String(), nil
	case string:
		return v, nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return YAMLFormatter{}.Format(data)
	}
}

// JSONFormatter выводит JSON
type JSONFormatter struct {
	Pretty bool
}

func (f JSONFormatter) Format(data any) (string, error) {
	var (
		out []byte
		err error
	)
	if f.Pretty {
		out, err = json.MarshalIndent(data, "", "  ")
	} else {
		out, err = json.Marshal(data)
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return string(out), nil
}

// YAMLFormatter выводит YAML. Данные проходят через JSON, чтобы ключи совпадали с API.
type YAMLFormatter struct{}

func (YAMLFormatter) Format(data any) (string, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}

	var doc any
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		var ms yaml.MapSlice
		err = yaml.Unmarshal(raw, &ms)
		doc = ms
	} else {
		err = yaml.Unmarshal(raw, &doc)
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}

	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return strings.TrimRight(string(out), "\n"), nil
}

// GetFormatter возвращает форматировщик для формата
func GetFormatter(format FormatType) Formatter {
	switch format {
	case FormatJSON:
		return JSONFormatter{Pretty: true}
	case FormatYAML:
		return YAMLFormatter{}
	default:
		return TableFormatter{}
	}
}

// Printer пишет отформатированные данные в поток
type Printer struct {
	w         io.Writer
	formatter Formatter
	format    FormatType
}

// NewPrinter создает Printer для формата
func NewPrinter(w io.Writer, format FormatType) *Printer {
	return &Printer{w: w, formatter: GetFormatter(format), format: format}
}

// Format текущий формат
func (p *Printer) Format() FormatType { return p.format }

// Print форматирует и выводит данные с переводом строки
func (p *Printer) Print(data any) error {
	s, err := p.formatter.Format(data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(p.w, s)
	return err
}

// Message выводит текстовое сообщение. В JSON и YAML оно оборачивается в {"message": ...}.
func (p *Printer) Message(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if p.format == FormatTable {
		_, err := fmt.Fprintln(p.w, msg)
		return err
	}
	return p.Print(map[string]string{"message": msg})
}
