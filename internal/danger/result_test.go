package danger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViolation_IsInline(t *testing.T) {
	tests := []struct {
		name string
		v    Violation
		want bool
	}{
		{name: "file and line", v: Violation{File: "a.ts", Line: 3}, want: true},
		{name: "file only", v: Violation{File: "a.ts"}, want: false},
		{name: "line only", v: Violation{Line: 3}, want: false},
		{name: "zero line", v: Violation{File: "a.ts", Line: 0}, want: false},
		{name: "neither", v: Violation{Message: "x"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.v.IsInline())
		})
	}
}

func TestResultSet_ResolvedMeta(t *testing.T) {
	assert.Equal(t, DefaultMeta(), ResultSet{}.ResolvedMeta())
	assert.Equal(t, DefaultMeta(), ResultSet{Meta: &Meta{RuntimeHref: "https://x"}}.ResolvedMeta())

	custom := Meta{RuntimeName: "danger-go", RuntimeHref: "https://example.com"}
	assert.Equal(t, custom, ResultSet{Meta: &custom}.ResolvedMeta())
}

func TestResultSet_Counts(t *testing.T) {
	rs := ResultSet{
		Fails:     []Violation{{Message: "a"}, {Message: ""}},
		Messages:  []Violation{{Message: "m"}},
		Markdowns: []Violation{{Message: "md"}},
	}
	assert.Equal(t, Counts{Fails: 2, Messages: 1, Markdowns: 1}, rs.Counts())
	assert.Equal(t, 4, rs.Counts().Total())
	assert.False(t, rs.IsEmpty())
	assert.True(t, rs.HasFails())
	assert.True(t, ResultSet{}.IsEmpty())
}
