package stations

import (
	"strings"
	"unicode"
)

// NormalizeStationID converts a position registry identifier into the
// numeric form used by train timetables: the category letter and a single
// leading zero are removed, so E001 becomes 01 and E012 becomes 12.
func NormalizeStationID(identifier string) string {
	identifier = strings.TrimSpace(identifier)

	if r := []rune(identifier); len(r) > 0 && unicode.IsLetter(r[0]) {
		identifier = string(r[1:])
	}

	return strings.TrimPrefix(identifier, "0")
}

// MatchKey reduces either form of identifier to a comparable key by dropping
// the category letter and every leading zero. It is idempotent, so applying
// it to both the registry and the timetable side gives the same result for
// E001, 01 and 1. Four digit registry identifiers such as E0101 collapse to
// 101 in the same way.
func MatchKey(identifier string) string {
	digits := strings.TrimLeftFunc(strings.TrimSpace(identifier), unicode.IsLetter)
	if digits == "" {
		return ""
	}

	if key := strings.TrimLeft(digits, "0"); key != "" {
		return key
	}

	return "0"
}

// SameStation reports whether a registry identifier and a timetable
// identifier refer to the same station.
func SameStation(registryID string, scheduleID string) bool {
	key := MatchKey(registryID)

	return key != "" && key == MatchKey(scheduleID)
}
