package filter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSet(t *testing.T) {
	tests := []struct {
		name     string
		in       []string
		entries  string
		prefixes []string
		tags     []string
	}{
		{"default", nil, "0/7/", []string{"0/7/"}, []string{"0_7"}},
		{"empty entries skipped", []string{"", "  "}, "0/7/", []string{"0/7/"}, []string{"0_7"}},
		{"slash appended", []string{"0/7", "2/1/"}, "0/7/, 2/1/", []string{"0/7/", "2/1/"}, []string{"0_7", "2_1"}},
		{"duplicates kept", []string{"0/7/", "2/1/", "0/7"}, "0/7/, 2/1/, 0/7/", []string{"0/7/", "2/1/"}, []string{"0_7", "2_1"}},
		{"two digit groups", []string{"14/3/"}, "14/3/", []string{"14/3/"}, []string{"14_3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSet(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.entries, s.String())
			assert.Equal(t, tt.prefixes, s.Unique())
			assert.Equal(t, tt.tags, s.Tags())
			for _, p := range s.Unique() {
				assert.True(t, s.Match(p))
			}
		})
	}
}

func TestNewSetInvalid(t *testing.T) {
	tests := []struct {
		name string
		in   []string
	}{
		{"main group only", []string{"0/"}},
		{"full address", []string{"0/7/23"}},
		{"no slash", []string{"abc"}},
		{"too many", []string{"0/0/", "0/1/", "0/2/", "0/3/", "0/4/", "0/5/", "0/6/", "0/7/", "1/0/", "1/1/", "1/2/"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewSet(tt.in)
			var fe *Error
			assert.True(t, errors.As(err, &fe), "got %v", err)
		})
	}
}

func TestNewSetMaxPrefixes(t *testing.T) {
	in := []string{"0/0/", "0/1/", "0/2/", "0/3/", "0/4/", "0/5/", "0/6/", "0/7/", "1/0/", "1/1/"}
	s, err := NewSet(in)
	require.NoError(t, err)
	assert.Len(t, s.Unique(), MaxPrefixes)
}

func TestMatchIsExact(t *testing.T) {
	s, err := NewSet([]string{"1/1/"})
	require.NoError(t, err)

	assert.True(t, s.Match("1/1/"))
	assert.False(t, s.Match("11/1/"))
	assert.False(t, s.Match("1/11/"))
	assert.False(t, s.Match("1/1"))
}

func TestUniqueIsACopy(t *testing.T) {
	s, err := NewSet([]string{"0/7/"})
	require.NoError(t, err)

	p := s.Unique()
	p[0] = "9/9/"
	assert.Equal(t, []string{"0/7/"}, s.Unique())
	assert.True(t, s.Match("0/7/"))
	assert.Equal(t, "0/7/", s.String())
}
