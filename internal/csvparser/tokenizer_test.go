package csvparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"plain", "a,b,c", []string{"a", "b", "c"}},
		{"quoted comma and escaped quotes", `A,"FRED MEYER, INC. ""Store""",C`, []string{"A", `FRED MEYER, INC. "Store"`, "C"}},
		{"trailing delimiter", "a,b,", []string{"a", "b", ""}},
		{"empty line", "", []string{""}},
		{"empty quoted field", `a,"",c`, []string{"a", "", "c"}},
		{"embedded newline", "\"line1\nline2\",x", []string{"line1\nline2", "x"}},
		{"whitespace kept", " a , b ", []string{" a ", " b "}},
		{"unicode", "café,naïve", []string{"café", "naïve"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitLine(tt.line))
		})
	}
}

func TestSplitLineWith(t *testing.T) {
	assert.Equal(t, []string{"SKU1", "Widget, blue", "4"}, SplitLineWith("SKU1|Widget, blue|4", '|'))
	assert.Equal(t, []string{"a", "b|c"}, SplitLineWith("a\t\"b|c\"", '\t'))
}

func TestSplitRecords(t *testing.T) {
	t.Run("skips blank lines and CR", func(t *testing.T) {
		got := SplitRecords("h1,h2\r\n\r\n1,2\r\n   \n3,4")
		assert.Equal(t, []string{"h1,h2", "1,2", "3,4"}, got)
	})

	t.Run("keeps quoted newline in one record", func(t *testing.T) {
		got := SplitRecords("name,qty\n\"ACME\nWEST\",4\n")
		assert.Equal(t, []string{"name,qty", "\"ACME\nWEST\",4"}, got)
	})

	t.Run("unbalanced quote falls back to plain lines", func(t *testing.T) {
		got := SplitRecords("desc,qty\n5\" screen,1\nknob,2")
		assert.Equal(t, []string{"desc,qty", "5\" screen,1", "knob,2"}, got)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Empty(t, SplitRecords(" \n\n"))
	})
}
