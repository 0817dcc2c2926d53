package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		page, size         int
		wantOffset, wantLn int
	}{
		{1, 10, 0, 10},
		{3, 10, 20, 10},
		{0, 0, 0, DefaultPageSize},
		{2, 1000, MaxPageSize, MaxPageSize},
	}
	for _, tt := range tests {
		off, lim := Calculate(tt.page, tt.size)
		assert.Equal(t, tt.wantOffset, off)
		assert.Equal(t, tt.wantLn, lim)
	}
}

func TestParseID(t *testing.T) {
	id, ok := ParseID("42")
	assert.True(t, ok)
	assert.EqualValues(t, 42, id)

	for _, bad := range []string{"", "0", "-1", "abc"} {
		_, ok := ParseID(bad)
		assert.False(t, ok, bad)
	}
}

func TestNewPage(t *testing.T) {
	p := NewPage([]int{1, 2}, 2, 2, 2, 5)
	assert.Equal(t, Meta{Page: 2, Size: 2, Total: 5, TotalPages: 3, HasPrev: true, HasNext: true}, p.Meta)

	last := NewPage([]int{5}, 3, 4, 2, 5)
	assert.False(t, last.Meta.HasNext)
}
