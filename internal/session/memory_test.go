package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(seq uint64, status Status) Run {
	return Run{ID: "run", Seq: seq, Status: status, StartedAt: time.Now()}
}

func TestSelectionDoesNotClearResults(t *testing.T) {
	s := NewStore()
	require.True(t, s.CommitIdeas(IdeasResult{
		Run:   run(1, StatusSucceeded),
		Ideas: []DesignIdea{{ID: "a", Title: "Warm oak shelving"}},
	}))

	s.SelectStyle("japandi")
	s.SelectRoom("kitchen")
	s.SetTab(TabMakeover)

	styleID, roomID, tab := s.Selection()
	assert.Equal(t, "japandi", styleID)
	assert.Equal(t, "kitchen", roomID)
	assert.Equal(t, TabMakeover, tab)
	assert.Len(t, s.Ideas().Ideas, 1)

	s.SelectStyle("")
	styleID, _, _ = s.Selection()
	assert.Empty(t, styleID)
	assert.Len(t, s.Ideas().Ideas, 1)
}

func TestCommitRejectsOlderRuns(t *testing.T) {
	s := NewStore()
	require.True(t, s.CommitHero(ImageResult{Run: run(2, StatusRunning)}))
	assert.False(t, s.CommitHero(ImageResult{Run: run(1, StatusSucceeded), Image: &GeneratedImage{URL: "old"}}))
	require.True(t, s.CommitHero(ImageResult{Run: run(2, StatusSucceeded), Image: &GeneratedImage{URL: "new"}}))

	hero := s.Hero()
	assert.Equal(t, StatusSucceeded, hero.Run.Status)
	assert.Equal(t, "new", hero.Image.URL)
}

func TestCardsAreIndependent(t *testing.T) {
	s := NewStore()
	require.True(t, s.CommitIdeas(IdeasResult{Run: run(1, StatusSucceeded), Ideas: []DesignIdea{{ID: "a"}, {ID: "b"}}}))
	require.True(t, s.CommitCard("a", ImageResult{Run: run(5, StatusSucceeded), Image: &GeneratedImage{URL: "a.png"}}))
	require.True(t, s.CommitCard("b", ImageResult{Run: run(3, StatusSucceeded), Image: &GeneratedImage{URL: "b.png"}}))

	a, ok := s.Card("a")
	require.True(t, ok)
	assert.Equal(t, "a.png", a.Image.URL)
	b, ok := s.Card("b")
	require.True(t, ok)
	assert.Equal(t, "b.png", b.Image.URL)
}

func TestSuccessfulIdeasPruneOrphanCards(t *testing.T) {
	s := NewStore()
	require.True(t, s.CommitIdeas(IdeasResult{Run: run(1, StatusSucceeded), Ideas: []DesignIdea{{ID: "a"}}}))
	require.True(t, s.CommitCard("a", ImageResult{Run: run(2, StatusSucceeded)}))

	require.True(t, s.CommitIdeas(IdeasResult{Run: run(3, StatusRunning)}))
	_, ok := s.Card("a")
	assert.True(t, ok, "running ideas must not drop cards")

	require.True(t, s.CommitIdeas(IdeasResult{Run: run(3, StatusSucceeded), Ideas: []DesignIdea{{ID: "b"}}}))
	_, ok = s.Card("a")
	assert.False(t, ok)
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	s := NewStore()
	require.True(t, s.CommitIdeas(IdeasResult{
		Run:   run(1, StatusSucceeded),
		Ideas: []DesignIdea{{ID: "a", Products: []string{"rug"}}},
	}))
	require.True(t, s.CommitCard("a", ImageResult{Run: run(2, StatusSucceeded), Image: &GeneratedImage{URL: "a.png"}}))

	snap := s.Snapshot()
	snap.Ideas.Ideas[0].Products[0] = "changed"
	snap.Cards["a"].Image.URL = "changed"

	assert.Equal(t, "rug", s.Ideas().Ideas[0].Products[0])
	card, _ := s.Card("a")
	assert.Equal(t, "a.png", card.Image.URL)
	assert.Len(t, snap.Cards, 1)
}

func TestCardCommitRejectedForUnlistedIdea(t *testing.T) {
	s := NewStore()
	assert.False(t, s.CommitCard("a", ImageResult{Run: run(1, StatusRunning)}), "no ideas listed yet")

	require.True(t, s.CommitIdeas(IdeasResult{Run: run(2, StatusSucceeded), Ideas: []DesignIdea{{ID: "a"}}}))
	require.True(t, s.CommitCard("a", ImageResult{Run: run(3, StatusRunning)}))

	require.True(t, s.CommitIdeas(IdeasResult{Run: run(4, StatusSucceeded), Ideas: []DesignIdea{{ID: "b"}}}))
	assert.False(t, s.CommitCard("a", ImageResult{Run: run(3, StatusSucceeded), Image: &GeneratedImage{URL: "late.png"}}))
	_, ok := s.Card("a")
	assert.False(t, ok, "a pruned idea must not get its slot back")
}

func TestRenderingPrefersLatestSuccess(t *testing.T) {
	s := NewStore()
	_, ok := s.Rendering()
	assert.False(t, ok)

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	require.True(t, s.CommitMakeover(MakeoverResult{
		Run:   run(1, StatusSucceeded),
		Image: &GeneratedImage{URL: "makeover.png", CreatedAt: base},
	}))
	img, ok := s.Rendering()
	require.True(t, ok)
	assert.Equal(t, "makeover.png", img.URL)

	require.True(t, s.CommitRemoval(RemovalResult{
		Run:   run(2, StatusSucceeded),
		Image: &GeneratedImage{URL: "removed.png", CreatedAt: base.Add(time.Minute)},
	}))
	img, _ = s.Rendering()
	assert.Equal(t, "removed.png", img.URL)

	require.True(t, s.CommitRemoval(RemovalResult{Run: run(3, StatusFailed)}))
	img, _ = s.Rendering()
	assert.Equal(t, "removed.png", img.URL, "failed removal keeps the last rendering")

	require.True(t, s.CommitMakeover(MakeoverResult{Run: run(4, StatusRunning)}))
	img, _ = s.Rendering()
	assert.Equal(t, "removed.png", img.URL)

	require.True(t, s.CommitMakeover(MakeoverResult{
		Run:   run(4, StatusSucceeded),
		Image: &GeneratedImage{URL: "makeover2.png", CreatedAt: base.Add(2 * time.Minute)},
	}))
	img, _ = s.Rendering()
	assert.Equal(t, "makeover2.png", img.URL)
}

func TestParseTab(t *testing.T) {
	tab, ok := ParseTab("makeover")
	assert.True(t, ok)
	assert.Equal(t, TabMakeover, tab)

	tab, ok = ParseTab("settings")
	assert.False(t, ok)
	assert.Equal(t, TabIdeas, tab)
}

func TestLateRemovalDoesNotReplaceNewerMakeover(t *testing.T) {
	s := NewStore()
	require.True(t, s.CommitMakeover(MakeoverResult{Run: run(1, StatusSucceeded), Image: &GeneratedImage{URL: "a.png"}}))

	// removal 2 is issued on a.png, then makeover 3 is issued and finishes first
	require.True(t, s.CommitRemoval(RemovalResult{Run: run(2, StatusRunning)}))
	require.True(t, s.CommitMakeover(MakeoverResult{Run: run(3, StatusRunning)}))
	require.True(t, s.CommitMakeover(MakeoverResult{Run: run(3, StatusSucceeded), Image: &GeneratedImage{URL: "b.png"}}))
	require.True(t, s.CommitRemoval(RemovalResult{Run: run(2, StatusSucceeded), Image: &GeneratedImage{URL: "r-from-a.png"}}))

	img, ok := s.Rendering()
	require.True(t, ok)
	assert.Equal(t, "b.png", img.URL)
	assert.Equal(t, "r-from-a.png", s.Removal().Image.URL, "the removal slice still holds its own result")
}
