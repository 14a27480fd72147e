package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPageCount(t *testing.T) {
	assert.Equal(t, 1, PageCount(0, 10))
	assert.Equal(t, 1, PageCount(10, 10))
	assert.Equal(t, 2, PageCount(13, 10))
	assert.Equal(t, 1, PageCount(13, 20))
	assert.Equal(t, 1, PageCount(5, 0))
}

func TestResolvePageNumber(t *testing.T) {
	assert.Equal(t, 1, ResolvePageNumber("", 5))
	assert.Equal(t, 1, ResolvePageNumber("abc", 5))
	assert.Equal(t, 1, ResolvePageNumber("-3", 5))
	assert.Equal(t, 1, ResolvePageNumber("0", 5))
	assert.Equal(t, 3, ResolvePageNumber("3", 5))
	// past the end clamps to the last page
	assert.Equal(t, 5, ResolvePageNumber("99", 5))
}

func TestNewPage(t *testing.T) {
	items := []int{1, 2, 3}

	page := NewPage(items, 1, 10, 13)
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.HasNext)
	assert.False(t, page.HasPrev)

	page = NewPage(items, 2, 10, 13)
	assert.False(t, page.HasNext)
	assert.True(t, page.HasPrev)

	empty := NewPage([]int{}, 1, 10, 0)
	assert.Equal(t, 1, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}
