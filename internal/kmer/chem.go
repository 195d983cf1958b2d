// internal/kmer/chem.go
package kmer

import "strings"

// Predicate is one chemistry acceptance rule for a candidate window. The name
// shows up in logs when a rule is reported; OK returns whether seq passes.
type Predicate struct {
	Name string
	OK   func(seq string) bool
}

// MaxHomopolymer rejects windows containing a single-base run longer than n.
func MaxHomopolymer(n int) Predicate {
	return Predicate{
		Name: "max-homopolymer",
		OK: func(s string) bool {
			run := 0
			var prev byte
			for i := 0; i < len(s); i++ {
				if s[i] == prev {
					run++
				} else {
					prev, run = s[i], 1
				}
				if run > n {
					return false
				}
			}
			return true
		},
	}
}

// ForbiddenTerminal rejects windows whose 5' (first) or 3' (last) base is in
// the respective set. Empty sets allow everything.
func ForbiddenTerminal(five, three string) Predicate {
	return Predicate{
		Name: "forbidden-terminal",
		OK: func(s string) bool {
			if len(s) == 0 {
				return false
			}
			if five != "" && strings.IndexByte(five, s[0]) >= 0 {
				return false
			}
			if three != "" && strings.IndexByte(three, s[len(s)-1]) >= 0 {
				return false
			}
			return true
		},
	}
}

// MaxArmGCDiff rejects windows whose two halves differ in GC percent by more
// than diff. The halves become the probe arms, so a large skew unbalances the
// ligation junction.
func MaxArmGCDiff(diff float64) Predicate {
	return Predicate{
		Name: "max-arm-gc-diff",
		OK: func(s string) bool {
			mid := len(s) / 2
			d := GCPercent(s[:mid]) - GCPercent(s[mid:])
			if d < 0 {
				d = -d
			}
			return d <= diff
		},
	}
}
