package csvio

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeLine(t *testing.T) {
	tests := []struct {
		name string
		line string
		want []string
	}{
		{"plain", "a,b,c", []string{"a", "b", "c"}},
		{"trims unquoted", " a , b ", []string{"a", "b"}},
		{"quoted comma", `"a,b",c`, []string{"a,b", "c"}},
		{"doubled quote", `"say ""hi""",x`, []string{`say "hi"`, "x"}},
		{"quoted keeps spaces", `" padded ",x`, []string{" padded ", "x"}},
		{"leading bom", "\uFEFFName,Value", []string{"Name", "Value"}},
		{"empty fields", "a,,c", []string{"a", "", "c"}},
		{"single field", "alone", []string{"alone"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, TokenizeLine(tc.line))
		})
	}
}

func TestTokenizePadsAndTruncatesRows(t *testing.T) {
	content := "Name,Status,Address\nDev1,ok\nDev2,down,10,extra"
	got := Tokenize(content, 0)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, []string{"Dev1", "ok", ""}, got.Rows[0])
	assert.Equal(t, []string{"Dev2", "down", "10"}, got.Rows[1])
}

func TestTokenizeDropsBlankLinesAndCRLF(t *testing.T) {
	content := "Name,Value\r\n\r\nheap.used,265 MB\r\n   \r\ncpu.usage,12%\r\n"
	got := Tokenize(content, 0)
	assert.Equal(t, []string{"Name", "Value"}, got.Header)
	require.Len(t, got.Rows, 2)
	assert.Equal(t, []string{"heap.used", "265 MB"}, got.Rows[0])
}

func TestTokenizeRowCap(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("Name,Value\n")
	for i := 0; i < 10; i++ {
		sb.WriteString("k,v\n")
	}
	got := Tokenize(sb.String(), 3)
	assert.Len(t, got.Rows, 3)
	assert.True(t, got.Truncated)

	got = Tokenize(sb.String(), 0)
	assert.Len(t, got.Rows, 10)
	assert.False(t, got.Truncated)
}

func TestValidateSize(t *testing.T) {
	assert.NoError(t, ValidateSize("abc", 3))
	err := ValidateSize("abcd", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
	assert.NoError(t, ValidateSize("anything", 0), "zero cap disables the check")
}

func TestHeaderFieldsDropsEmptyTokens(t *testing.T) {
	got := HeaderFields("\uFEFFName,,Value,\nrow1,a,b,c")
	assert.Equal(t, []string{"Name", "Value"}, got)

	assert.Nil(t, HeaderFields(""))
}
