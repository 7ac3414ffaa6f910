// Package content scores the text that accompanies a scholarship link.
//
// Analyze runs a fixed table of case-insensitive phrase patterns (fees,
// guarantees, urgency, informal document requests, lottery language)
// followed by three writing-style checks (exclamation marks, ALL-CAPS
// words, very short text). Every match adds its weight and an issue
// message; the total is clamped to [0, 40].
package content
