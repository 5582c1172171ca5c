package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	Name string `json:"name"`
	ID   int    `json:"id"`
}

type rows []row

func (r rows) Table() *TableData {
	t := NewTableData("ID", "NAME")
	for _, v := range r {
		t.AddRow(itoa(v.ID), v.Name)
	}
	return t
}

func itoa(i int) string {
	return string(rune('0' + i))
}

// TestParseFormat проверяет разбор имени формата
func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    FormatType
		wantErr bool
	}{
		{"", FormatTable, false},
		{"JSON", FormatJSON, false},
		{" yaml ", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

// TestTableFormatter проверяет табличный вывод
func TestTableFormatter(t *testing.T) {
	out, err := TableFormatter{}.Format(rows{{Name: "Go", ID: 1}, {Name: "Rust", ID: 2}})
	require.NoError(t, err)
	assert.Equal(t, "ID  NAME\n--  ----\n1   Go\n2   Rust", out)

	out, err = TableFormatter{}.Format(rows{})
	require.NoError(t, err)
	assert.Equal(t, "No data found", out)
}

// TestYAMLFormatter проверяет сохранение ключей и порядка полей
func TestYAMLFormatter(t *testing.T) {
	out, err := YAMLFormatter{}.Format(row{Name: "Go", ID: 1})
	require.NoError(t, err)
	assert.Equal(t, "name: Go\nid: 1", out)

	out, err = YAMLFormatter{}.Format([]string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, "- a\n- b", out)
}

// TestPrinter проверяет вывод через Printer
func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf, FormatJSON)
	require.NoError(t, p.Print(row{Name: "Go", ID: 1}))
	assert.JSONEq(t, `{"name":"Go","id":1}`, buf.String())

	buf.Reset()
	require.NoError(t, p.Message("saved %d", 3))
	assert.JSONEq(t, `{"message":"saved 3"}`, buf.String())

	buf.Reset()
	p = NewPrinter(&buf, FormatTable)
	require.NoError(t, p.Message("saved %d", 3))
	assert.Equal(t, "saved 3\n", buf.String())
}
