package classifier

// MaxHistorySize bounds the rolling output history.
const MaxHistorySize = 10

// history is a FIFO ring of raw snapshots; the oldest entry is evicted first.
type history struct {
	entries []string
	limit   int
}

func newHistory(limit int) *history {
	if limit <= 0 {
		limit = MaxHistorySize
	}
	return &history{entries: make([]string, 0, limit), limit: limit}
}

func (h *history) add(text string) {
	if len(h.entries) == h.limit {
		copy(h.entries, h.entries[1:])
		h.entries = h.entries[:h.limit-1]
	}
	h.entries = append(h.entries, text)
}

// last returns a copy of the newest n entries, or nil when fewer exist.
func (h *history) last(n int) []string {
	if n <= 0 || len(h.entries) < n {
		return nil
	}
	out := make([]string, n)
	copy(out, h.entries[len(h.entries)-n:])
	return out
}

func (h *history) len() int { return len(h.entries) }

func (h *history) clear() { h.entries = h.entries[:0] }
