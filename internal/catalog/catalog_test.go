package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogIdentifiersAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range Styles() {
		require.False(t, seen[s.ID], "duplicate style %s", s.ID)
		seen[s.ID] = true
		assert.NotEmpty(t, s.Label)
		assert.NotEmpty(t, s.Prompt)
		assert.NotEmpty(t, s.Keywords)
	}
	assert.Len(t, seen, 12)

	seen = map[string]bool{}
	for _, r := range Rooms() {
		require.False(t, seen[r.ID], "duplicate room %s", r.ID)
		seen[r.ID] = true
	}
	assert.Len(t, seen, 8)
}

func TestLookup(t *testing.T) {
	s, ok := LookupStyle("japandi")
	require.True(t, ok)
	assert.Equal(t, "Japandi Zen", s.Label)

	_, ok = LookupStyle("brutalist")
	assert.False(t, ok)

	r, ok := LookupRoom(" kitchen ")
	require.True(t, ok)
	assert.Equal(t, "Kitchen", r.Label)

	_, ok = LookupRoom("garage")
	assert.False(t, ok)
}

func TestStylesReturnsCopy(t *testing.T) {
	list := Styles()
	list[0].Label = "changed"
	s, _ := LookupStyle(list[0].ID)
	assert.NotEqual(t, "changed", s.Label)
}

func TestImageKeywordsFallback(t *testing.T) {
	assert.Equal(t, FallbackKeywords, Style{ID: "custom"}.ImageKeywords())
	s, _ := LookupStyle("art-deco")
	assert.Contains(t, s.ImageKeywords(), "art deco")
}

func TestIsLivingRoomLabel(t *testing.T) {
	assert.True(t, IsLivingRoomLabel("Living Room"))
	assert.True(t, IsLivingRoomLabel("cosy LIVING ROOM"))
	assert.False(t, IsLivingRoomLabel("Kitchen"))
	assert.False(t, IsLivingRoomLabel("Living"))
}

func TestSuggestsLivingRoom(t *testing.T) {
	cases := map[string]bool{
		"A bright living space with oak floors": true,
		"Grey SOFA facing a fireplace":          true,
		"A leather couch under the window":      true,
		"A galley kitchen with white cabinets":  false,
		"":                                      false,
	}
	for in, want := range cases {
		assert.Equal(t, want, SuggestsLivingRoom(in), in)
	}
}
