package ban

import (
	"github.com/banwardhq/banward-server/internal/model"
)

// Snapshot is the full ban table grouped by mode, preserving the order in
// which modes first appear. It is built once per cache miss and never
// mutated afterwards.
type Snapshot struct {
	modes []string
	rows  map[string][]Row
}

// NewSnapshot groups ban records by mode, keeping the records of each
// mode in input order.
func NewSnapshot(bans []model.Ban) *Snapshot {
	s := &Snapshot{
		rows: make(map[string][]Row),
	}

	for _, b := range bans {
		if _, ok := s.rows[b.Mode]; !ok {
			s.modes = append(s.modes, b.Mode)
		}

		s.rows[b.Mode] = append(s.rows[b.Mode], Row{
			Item:   b.Item,
			End:    b.ExpiresAt,
			Reason: b.DisplayReason,
		})
	}

	return s
}

// Modes returns the mode tags in first-appearance order.
func (s *Snapshot) Modes() []string {
	return s.modes
}

// Rows returns the rows of one mode.
func (s *Snapshot) Rows(mode string) []Row {
	return s.rows[mode]
}

// Len returns the total number of rows in the snapshot.
func (s *Snapshot) Len() int {
	n := 0
	for _, rows := range s.rows {
		n += len(rows)
	}

	return n
}
