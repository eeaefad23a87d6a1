package regions

import (
	"fmt"
	"time"
)

// Region describes one provincial enumeration space on the national
// lookup API. Candidate numbers are probed starting at 1; the remote
// identifier is Prefix + the candidate number zero-padded to six digits.
type Region struct {
	// short machine name, also the basename of the output csv
	Name string
	// provincial SBD prefix, e.g. "01" for Hanoi
	Prefix string
	// the region is known to hold at least this many candidates;
	// the exhaustion policy only applies past this point
	PopulationFloor int
	// ordered csv schema, not including the SBD column
	Subjects []string
	// aggregate pseudo-subjects reported by the API that are not
	// part of the schema (composite natural/social science scores)
	ExcludedSubjects []string
	// delay after each recorded candidate
	Pacing time.Duration
	// consecutive misses allowed past the population floor
	MissBudget int
}

// FormatSBD renders the remote identifier for a candidate number.
func (r Region) FormatSBD(candidate int) string {
	return fmt.Sprintf("%s%06d", r.Prefix, candidate)
}

// FormatID renders the identifier column value stored in the ledger.
func (r Region) FormatID(candidate int) string {
	return fmt.Sprintf("%06d", candidate)
}

var hanoi = Region{
	Name:            "hanoi",
	Prefix:          "01",
	PopulationFloor: 2000,
	Subjects: []string{
		"Toán",
		"Ngữ văn",
		"Tiếng Anh",
		"Vật lí",
		"Hóa học",
		"Sinh học",
		"Lịch sử",
		"Địa lí",
		"GDCD",
		"Tiếng Nga",
		"Tiếng Pháp",
		"Tiếng Trung",
		"Tiếng Đức",
		"Tiếng Nhật",
		"Tiếng Hàn",
	},
	ExcludedSubjects: []string{"KHTN", "KHXH"},
	Pacing:           400 * time.Millisecond,
	MissBudget:       10,
}

// All returns the built-in region registry in run order.
func All() []Region {
	return []Region{hanoi}
}

// Get looks a region up by name.
func Get(name string) (Region, error) {
	for _, r := range All() {
		if r.Name == name {
			return r, nil
		}
	}
	return Region{}, fmt.Errorf("unknown region: %s", name)
}
