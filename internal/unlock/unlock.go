// Package unlock decides which island levels a user may play.
//
// The functions are pure so the server and clients can share them: the
// server uses NextUnlocked to build progress responses and clients fall back
// to IsUnlocked when the progress call fails.
package unlock

import "github.com/mento-app/mento-server/internal/model"

// NextUnlocked returns the unlock frontier for a set of completed levels.
//
// It is 1 when nothing is completed, otherwise max(completed)+1 clamped to
// maxLevel. A non-positive maxLevel selects model.DefaultMaxLevel.
func NextUnlocked(completed []int, maxLevel int) int {
	if maxLevel <= 0 {
		maxLevel = model.DefaultMaxLevel
	}

	highest := 0
	for _, level := range completed {
		if level > highest {
			highest = level
		}
	}
	if highest == 0 {
		return 1
	}

	return min(highest+1, maxLevel)
}

// IsUnlocked reports whether level can be played.
//
// Completion of the previous level unlocks a level on its own, even when the
// frontier was computed from a stale read.
func IsUnlocked(level int, completed []int, frontier int) bool {
	if level < 1 {
		return false
	}
	if level == 1 || level <= frontier {
		return true
	}
	for _, c := range completed {
		if c == level-1 {
			return true
		}
	}
	return false
}
