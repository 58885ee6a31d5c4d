package session

import (
	"sync"
)

// Store holds the selections and the latest result of every workflow for a
// single studio session. Each workflow writes only its own slice through the
// matching Commit method. A commit is accepted only when its run was issued
// no earlier than the run currently held by the slice, so the most recently
// issued request always wins regardless of completion order.
type Store struct {
	mu       sync.RWMutex
	styleID  string
	roomID   string
	tab      Tab
	upload   *Upload
	ideas    IdeasResult
	hero     ImageResult
	cards    map[string]ImageResult
	makeover MakeoverResult
	removal  RemovalResult

	// rendering is the successful makeover or removal image of the most
	// recently issued run; renderingSeq is that run's sequence number.
	rendering    *GeneratedImage
	renderingSeq uint64
}

// NewStore constructs an empty session on the ideas tab.
func NewStore() *Store {
	return &Store{
		tab:   TabIdeas,
		cards: make(map[string]ImageResult),
	}
}

// SelectStyle sets the selected style; an empty id clears the selection.
// Previously generated results are left untouched.
func (s *Store) SelectStyle(id string) {
	s.mu.Lock()
	s.styleID = id
	s.mu.Unlock()
}

// SelectRoom sets the selected room; an empty id clears the selection.
func (s *Store) SelectRoom(id string) {
	s.mu.Lock()
	s.roomID = id
	s.mu.Unlock()
}

// SetTab switches the active tab without resetting any workflow state.
func (s *Store) SetTab(tab Tab) {
	s.mu.Lock()
	s.tab = tab
	s.mu.Unlock()
}

// Selection returns the current style id, room id and tab.
func (s *Store) Selection() (styleID, roomID string, tab Tab) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.styleID, s.roomID, s.tab
}

// SetUpload records the photo most recently handed over by the upload collaborator.
func (s *Store) SetUpload(u Upload) {
	s.mu.Lock()
	s.upload = &u
	s.mu.Unlock()
}

// Upload returns the current upload, if any.
func (s *Store) Upload() (Upload, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.upload == nil {
		return Upload{}, false
	}
	return *s.upload, true
}

// CommitIdeas replaces the ideas slice as a unit.
func (s *Store) CommitIdeas(res IdeasResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !accepts(s.ideas.Run, res.Run) {
		return false
	}
	res.Ideas = cloneIdeas(res.Ideas)
	s.ideas = res
	if res.Run.Status == StatusSucceeded {
		s.pruneCardsLocked()
	}
	return true
}

// CommitHero replaces the hero image slice.
func (s *Store) CommitHero(res ImageResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !accepts(s.hero.Run, res.Run) {
		return false
	}
	s.hero = cloneImageResult(res)
	return true
}

// CommitCard replaces the image slice of a single idea card. Commits for an
// idea that is not in the current list are rejected.
func (s *Store) CommitCard(ideaID string, res ImageResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.listedLocked(ideaID) {
		return false
	}
	if current, ok := s.cards[ideaID]; ok && !accepts(current.Run, res.Run) {
		return false
	}
	s.cards[ideaID] = cloneImageResult(res)
	return true
}

// CommitMakeover replaces the makeover slice.
func (s *Store) CommitMakeover(res MakeoverResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !accepts(s.makeover.Run, res.Run) {
		return false
	}
	res.Image = cloneImage(res.Image)
	s.makeover = res
	s.setRenderingLocked(res.Run, res.Image)
	return true
}

// CommitRemoval replaces the item removal slice.
func (s *Store) CommitRemoval(res RemovalResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !accepts(s.removal.Run, res.Run) {
		return false
	}
	res.DetectedItems = cloneStrings(res.DetectedItems)
	res.RemovedItems = cloneStrings(res.RemovedItems)
	res.Image = cloneImage(res.Image)
	s.removal = res
	s.setRenderingLocked(res.Run, res.Image)
	return true
}

// Ideas returns a copy of the ideas slice.
func (s *Store) Ideas() IdeasResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := s.ideas
	res.Ideas = cloneIdeas(res.Ideas)
	return res
}

// Idea finds an idea of the current list by id.
func (s *Store) Idea(id string) (DesignIdea, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, idea := range s.ideas.Ideas {
		if idea.ID == id {
			idea.Products = cloneStrings(idea.Products)
			return idea, true
		}
	}
	return DesignIdea{}, false
}

// Hero returns a copy of the hero slice.
func (s *Store) Hero() ImageResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneImageResult(s.hero)
}

// Card returns a copy of one card slice.
func (s *Store) Card(ideaID string) (ImageResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.cards[ideaID]
	return cloneImageResult(res), ok
}

// Makeover returns a copy of the makeover slice.
func (s *Store) Makeover() MakeoverResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := s.makeover
	res.Image = cloneImage(res.Image)
	return res
}

// Removal returns a copy of the item removal slice.
func (s *Store) Removal() RemovalResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRemoval(s.removal)
}

// Rendering returns the image currently shown in the makeover view: the
// successful image of the most recently issued makeover or removal run. A
// removal result supersedes the image it was derived from, but a late removal
// never replaces a makeover issued after it.
func (s *Store) Rendering() (GeneratedImage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.rendering == nil {
		return GeneratedImage{}, false
	}
	return *s.rendering, true
}

// Snapshot returns a deep copy of the session. Card slices of ideas that are
// no longer listed are omitted.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		StyleID:   s.styleID,
		RoomID:    s.roomID,
		Tab:       s.tab,
		Ideas:     s.ideas,
		Hero:      cloneImageResult(s.hero),
		Cards:     make(map[string]ImageResult, len(s.cards)),
		Makeover:  s.makeover,
		Removal:   cloneRemoval(s.removal),
		Rendering: cloneImage(s.rendering),
	}
	if s.upload != nil {
		u := *s.upload
		snap.Upload = &u
	}
	snap.Ideas.Ideas = cloneIdeas(s.ideas.Ideas)
	snap.Makeover.Image = cloneImage(s.makeover.Image)
	for _, idea := range s.ideas.Ideas {
		if card, ok := s.cards[idea.ID]; ok {
			snap.Cards[idea.ID] = cloneImageResult(card)
		}
	}
	return snap
}

// pruneCardsLocked drops card slices whose idea left the list.
func (s *Store) pruneCardsLocked() {
	live := make(map[string]struct{}, len(s.ideas.Ideas))
	for _, idea := range s.ideas.Ideas {
		live[idea.ID] = struct{}{}
	}
	for id := range s.cards {
		if _, ok := live[id]; !ok {
			delete(s.cards, id)
		}
	}
}

// setRenderingLocked moves the current rendering to img when run succeeded
// and was issued no earlier than the run that produced the current one.
func (s *Store) setRenderingLocked(run Run, img *GeneratedImage) {
	if run.Status != StatusSucceeded || img == nil {
		return
	}
	if s.rendering != nil && run.Seq < s.renderingSeq {
		return
	}
	s.rendering = cloneImage(img)
	s.renderingSeq = run.Seq
}

func (s *Store) listedLocked(ideaID string) bool {
	for _, idea := range s.ideas.Ideas {
		if idea.ID == ideaID {
			return true
		}
	}
	return false
}

func accepts(current, next Run) bool {
	return next.Seq >= current.Seq
}

func cloneIdeas(in []DesignIdea) []DesignIdea {
	if in == nil {
		return nil
	}
	out := make([]DesignIdea, len(in))
	for i, idea := range in {
		idea.Products = cloneStrings(idea.Products)
		out[i] = idea
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}

func cloneImage(in *GeneratedImage) *GeneratedImage {
	if in == nil {
		return nil
	}
	out := *in
	return &out
}

func cloneImageResult(in ImageResult) ImageResult {
	in.Image = cloneImage(in.Image)
	return in
}

func cloneRemoval(in RemovalResult) RemovalResult {
	in.DetectedItems = cloneStrings(in.DetectedItems)
	in.RemovedItems = cloneStrings(in.RemovedItems)
	in.Image = cloneImage(in.Image)
	return in
}
