package gesture

// DefaultWindow is the number of recent classifications the smoother votes over.
const DefaultWindow = 10

// Smoother reports the most frequent label among the last N classifications.
//
// Ties are broken in favour of the label whose earliest occurrence in the
// window is oldest, so the result is deterministic for a given push history.
// A Smoother is not safe for concurrent use; it belongs to the frame loop.
type Smoother struct {
	buf   []Label
	start int
	size  int
}

// NewSmoother creates a Smoother holding up to capacity labels.
// A capacity of zero or less selects DefaultWindow.
func NewSmoother(capacity int) *Smoother {
	if capacity <= 0 {
		capacity = DefaultWindow
	}
	return &Smoother{
		buf: make([]Label, capacity),
	}
}

// Push appends a label, evicting the oldest one once the window is full.
func (s *Smoother) Push(l Label) {
	if s.size < len(s.buf) {
		s.buf[(s.start+s.size)%len(s.buf)] = l
		s.size++
		return
	}
	s.buf[s.start] = l
	s.start = (s.start + 1) % len(s.buf)
}

// Current returns the majority label of the window, or NoHand when empty.
func (s *Smoother) Current() Label {
	if s.size == 0 {
		return NoHand
	}

	counts := make(map[Label]int, len(Labels))
	order := make([]Label, 0, len(Labels))
	for i := 0; i < s.size; i++ {
		l := s.at(i)
		if counts[l] == 0 {
			order = append(order, l)
		}
		counts[l]++
	}

	best := order[0]
	for _, l := range order[1:] {
		if counts[l] > counts[best] {
			best = l
		}
	}
	return best
}

// Len returns the number of labels currently held.
func (s *Smoother) Len() int {
	return s.size
}

// Cap returns the window capacity.
func (s *Smoother) Cap() int {
	return len(s.buf)
}

// Labels returns the window contents, oldest first.
func (s *Smoother) Labels() []Label {
	out := make([]Label, s.size)
	for i := range out {
		out[i] = s.at(i)
	}
	return out
}

// Reset empties the window.
func (s *Smoother) Reset() {
	s.start = 0
	s.size = 0
}

func (s *Smoother) at(i int) Label {
	return s.buf[(s.start+i)%len(s.buf)]
}
