package publisher

import (
	"strings"
	"unicode/utf8"
)

const ellipsis = "..."

// truncate cuts s to at most n bytes, backing the cut up so it never lands
// inside a multi-byte rune. A single rune wider than n cannot be cut cleanly
// and is severed as a last resort.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	if cut == 0 {
		cut = n
	}
	return s[:cut]
}

// SplitTweet segments text into chunks of at most maxLength bytes, cutting
// at the latest sentence end, comma or space that leaves room for a
// continuation marker, preferring sentence > comma > space. A breakpoint is
// only accepted past the midpoint of maxLength, so chunks never get
// pathologically short; when no acceptable breakpoint exists the cut is hard
// but never lands inside a rune. Every chunk except the last is suffixed
// with an ellipsis and every chunk except the first is prefixed with one.
// No content is dropped.
func SplitTweet(text string, maxLength int) []string {
	if len(text) <= maxLength {
		return []string{text}
	}

	// Degenerate limits leave no room for markers; fall back to hard cuts.
	// The cutoff guarantees each marked iteration removes more characters
	// than the continuation prefix adds back, even after a hard cut backs
	// up to a rune boundary.
	if maxLength <= 2*len(ellipsis)+3 {
		var chunks []string
		for len(text) > maxLength {
			chunk := truncate(text, maxLength)
			chunks = append(chunks, chunk)
			text = text[len(chunk):]
		}
		return append(chunks, text)
	}

	var tweets []string
	remaining := text

	for len(remaining) > 0 {
		if len(remaining) <= maxLength {
			tweets = append(tweets, remaining)
			break
		}

		// Reserve room for the trailing marker so the emitted chunk still
		// fits maxLength.
		limit := maxLength - len(ellipsis)
		region := remaining[:limit]

		breakPoint := limit
		lastPeriod := strings.LastIndex(region, ". ")
		lastComma := strings.LastIndex(region, ", ")
		lastSpace := strings.LastIndex(region, " ")

		if lastPeriod > maxLength/2 {
			breakPoint = lastPeriod + 1
		} else if lastComma > maxLength/2 {
			breakPoint = lastComma + 1
		} else if lastSpace > maxLength/2 {
			breakPoint = lastSpace
		} else {
			// Hard cut: back up so the chunk ends on a rune boundary.
			for breakPoint > 0 && !utf8.RuneStart(remaining[breakPoint]) {
				breakPoint--
			}
		}

		tweets = append(tweets, strings.TrimSpace(remaining[:breakPoint])+ellipsis)
		remaining = ellipsis + strings.TrimSpace(remaining[breakPoint:])
	}

	return tweets
}
