package views

// LikeToggle is the optimistic like control: a two-phase state transition.
// Toggle applies the tentative local change; the caller then issues the
// mutating call and either keeps the state or runs Rollback, which
// restores the exact pre-toggle values.
type LikeToggle struct {
	liked bool
	count int

	prevLiked bool
	prevCount int
}

// NewLikeToggle seeds the control from the server-provided count. The
// detail payload does not carry the viewer's prior like status, so liked
// always starts false.
func NewLikeToggle(count int) *LikeToggle {
	if count < 0 {
		count = 0
	}
	return &LikeToggle{count: count}
}

func (t *LikeToggle) Liked() bool { return t.liked }
func (t *LikeToggle) Count() int  { return t.count }

// Toggle flips the liked state and adjusts the count by one, clamped at
// zero.
func (t *LikeToggle) Toggle() {
	t.prevLiked, t.prevCount = t.liked, t.count
	t.liked = !t.liked
	if t.liked {
		t.count++
	} else {
		t.count--
	}
	if t.count < 0 {
		t.count = 0
	}
}

// Rollback compensates a failed mutating call.
func (t *LikeToggle) Rollback() {
	t.liked, t.count = t.prevLiked, t.prevCount
}
