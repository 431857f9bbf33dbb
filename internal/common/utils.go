package common

import "strings"

// HasAny returns true if s contains any of the substrings, ignoring case.
func HasAny(s string, subs ...string) bool {
	return FirstMatch(s, subs...) >= 0
}

// FirstMatch returns the index of the first keyword in subs that occurs in s,
// ignoring case, or -1 when none does. Order of subs is the priority order.
func FirstMatch(s string, subs ...string) int {
	s = strings.ToLower(s)
	for i, sub := range subs {
		if strings.Contains(s, strings.ToLower(sub)) {
			return i
		}
	}
	return -1
}
