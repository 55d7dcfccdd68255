package tournament

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ID prefixes for every record kind kept on disk.
const (
	PlayerPrefix     = "APUTCP"
	MatchPrefix      = "M"
	RoundPrefix      = "R"
	WithdrawalPrefix = "W"
	TicketPrefix     = "T"
	SalesPrefix      = "TKS"
	HistoryPrefix    = "H"
)

var playerIDPattern = regexp.MustCompile(`^APUTCP\d{3}$`)

// ValidPlayerID reports whether id has the APUTCP### form.
func ValidPlayerID(id string) bool {
	return playerIDPattern.MatchString(id)
}

// FormatID renders prefix followed by n zero-padded to three digits.
func FormatID(prefix string, n int) string {
	return fmt.Sprintf("%s%03d", prefix, n)
}

// IDNumber extracts the numeric suffix of an ID carrying prefix.
func IDNumber(prefix, id string) (int, error) {
	if !strings.HasPrefix(id, prefix) {
		return 0, fmt.Errorf("%w: %q does not start with %q", ErrValidation, id, prefix)
	}
	n, err := strconv.Atoi(strings.TrimPrefix(id, prefix))
	if err != nil {
		return 0, fmt.Errorf("%w: %q has no numeric suffix", ErrValidation, id)
	}
	return n, nil
}

// NextID returns the ID following lastID. An empty or unparsable lastID
// starts the sequence at 1.
func NextID(prefix, lastID string) string {
	n, err := IDNumber(prefix, lastID)
	if lastID == "" || err != nil {
		return FormatID(prefix, 1)
	}
	return FormatID(prefix, n+1)
}

// MaxIDNumber returns the largest numeric suffix among ids, ignoring any
// that do not carry prefix.
func MaxIDNumber(prefix string, ids ...string) int {
	highest := 0
	for _, id := range ids {
		if n, err := IDNumber(prefix, id); err == nil && n > highest {
			highest = n
		}
	}
	return highest
}
