package domain

// UnknownDepartment is the sentinel returned when a document produced no
// classified chunks.
const UnknownDepartment = "Unknown"

// VoteTally reduces per-chunk department labels to one dominant label.
// The policy is count-then-first-seen: the most frequent label wins, and a
// tie goes to whichever tied label was encountered first.
type VoteTally struct {
	counts map[string]int
	order  []string
}

func NewVoteTally() *VoteTally {
	return &VoteTally{counts: make(map[string]int)}
}

func (t *VoteTally) Add(label string) {
	if label == "" {
		return
	}
	if _, seen := t.counts[label]; !seen {
		t.order = append(t.order, label)
	}
	t.counts[label]++
}

func (t *VoteTally) Total() int {
	n := 0
	for _, c := range t.counts {
		n += c
	}
	return n
}

// Dominant returns the winning label, or UnknownDepartment when no votes
// were cast.
func (t *VoteTally) Dominant() string {
	best := ""
	bestCount := 0
	for _, label := range t.order {
		if t.counts[label] > bestCount {
			best = label
			bestCount = t.counts[label]
		}
	}
	if best == "" {
		return UnknownDepartment
	}
	return best
}
