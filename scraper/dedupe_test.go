package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/sejmscraper/sejm"
)

func TestDeduplicate(t *testing.T) {
	raw := []sejm.Session{
		{Number: 3, Title: "third"},
		{Number: 1, Title: "first"},
		{Number: 0, Title: "missing"},
		{Number: 3, Title: "third again"},
		{Number: -2},
		{Number: 2, Title: "second"},
		{Number: 1, Title: "first again"},
	}

	result := Deduplicate(raw)
	require.Len(t, result.Sessions, 3)
	assert.Equal(t, []int{1, 2, 3}, Numbers(result.Sessions))
	assert.Equal(t, "first", result.Sessions[0].Title)
	assert.Equal(t, "third", result.Sessions[2].Title)
	assert.Equal(t, 2, result.Invalid)
	assert.Equal(t, 2, result.Duplicates)
}

func TestDeduplicate_Empty(t *testing.T) {
	result := Deduplicate(nil)
	assert.Empty(t, result.Sessions)
	assert.Zero(t, result.Invalid)
	assert.Zero(t, result.Duplicates)
	assert.Equal(t, []int{}, Numbers(result.Sessions))
}
