package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPageParams(t *testing.T) {
	tests := []struct {
		page, size     string
		wantPage, want int
	}{
		{"1", "15", 1, 15},
		{"0", "15", 1, 15},
		{"abc", "x", 1, DefaultPageSize},
		{"3", "1000", 3, MaxPageSize},
	}
	for _, tt := range tests {
		p := NewPageParams(tt.page, tt.size)
		assert.Equal(t, tt.wantPage, p.Page)
		assert.Equal(t, tt.want, p.PageSize)
	}
}

func TestNewPageInfo(t *testing.T) {
	info := NewPageInfo(2, 15, 31)
	assert.Equal(t, 3, info.TotalPages)
	assert.True(t, info.HasNext)
	assert.True(t, info.HasPrev)
	assert.Equal(t, 1, info.PrevPage())
	assert.Equal(t, 3, info.NextPage())

	assert.Equal(t, 15, (&PageParams{Page: 2, PageSize: 15}).GetOffset())
}
