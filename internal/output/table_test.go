package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainOutput(t *testing.T) {
	t.Helper()
	SetNoColor(true)
	t.Cleanup(func() { SetNoColor(false) })
}

func renderLines(tbl *Table) []string {
	return strings.Split(strings.TrimRight(tbl.Render(), "\n"), "\n")
}

func TestVisualLen(t *testing.T) {
	tests := map[string]struct {
		in   string
		want int
	}{
		"empty":           {"", 0},
		"plain":           {"Walk", 4},
		"multibyte bar":   {"███░░", 5},
		"accented name":   {"Chloé", 5},
		"colored outcome": {"\x1b[32mgood\x1b[0m", 4},
		"stacked styles":  {"\x1b[1m\x1b[31mVet Visit\x1b[0m", 9},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.want, visualLen(tt.in))
		})
	}
}

func TestPad_NeverTruncates(t *testing.T) {
	assert.Equal(t, "Rex       ", pad("Rex", 10))
	assert.Equal(t, "Luna", pad("Luna", 4))
	assert.Equal(t, "Socialization", pad("Socialization", 5))

	styled := "\x1b[31mbad\x1b[0m"
	assert.Equal(t, 6, visualLen(pad(styled, 6)))
}

func TestTable_Render(t *testing.T) {
	plainOutput(t)

	tbl := NewTable("Dog", "Mood")
	tbl.AddRow("Rex", "good")
	tbl.AddRow("Luna", "okay")
	require.Equal(t, 2, tbl.Len())

	lines := renderLines(tbl)
	require.Len(t, lines, 4, "header, separator and two rows")
	assert.Contains(t, lines[0], "Dog")
	assert.Contains(t, lines[0], "Mood")
	assert.Contains(t, lines[1], "─")
	assert.Contains(t, lines[2], "Rex")
	assert.Contains(t, lines[3], "Luna")
	assert.Equal(t, tbl.Render(), tbl.String())
}

func TestTable_NoHeadersRendersNothing(t *testing.T) {
	assert.Empty(t, NewTable().Render())
}

func TestTable_RowShapeIsForgiving(t *testing.T) {
	plainOutput(t)

	tbl := NewTable("Activity", "Outcome", "Notes")
	tbl.AddRow("Walk")
	tbl.AddRow("Bath", "bad", "hates water", "ignored")

	lines := renderLines(tbl)
	require.Len(t, lines, 4)
	assert.NotContains(t, lines[3], "ignored")
	assert.Equal(t, visualLen(lines[2]), visualLen(lines[3]))
}

func TestTable_StyledCellsAlign(t *testing.T) {
	tbl := NewTable("Activity", "Outcome", "Count")
	tbl.AddRow("Walk", "\x1b[32mgood\x1b[0m", "7")
	tbl.AddRow("Grooming", "bad", "3")

	lines := renderLines(tbl)
	require.Len(t, lines, 4)
	assert.Equal(t, visualLen(lines[2]), visualLen(lines[3]))
}

func TestTable_Fprint(t *testing.T) {
	plainOutput(t)

	tbl := NewTable("Range")
	tbl.AddRow("2024-03")

	var buf bytes.Buffer
	tbl.Fprint(&buf)
	assert.Equal(t, tbl.Render(), buf.String())
}

func TestSetNoColor(t *testing.T) {
	SetNoColor(true)
	assert.True(t, IsNoColor())
	assert.NotContains(t, StyleHeader.Render("Insights"), "\x1b[")
	assert.Equal(t, "good", Outcome("good"))
	assert.Equal(t, "-", Outcome(""))

	SetNoColor(false)
	assert.False(t, IsNoColor())
}
