package content

import (
	"fmt"
	"unicode"
)

const wordsPerMinute = 200

// countWords counts runs of non-space characters as one word each, except
// that every Han, Hiragana, Katakana or Hangul character counts on its own.
func countWords(text string) int {
	words := 0
	inWord := false
	for _, r := range text {
		switch {
		case isCJK(r):
			words++
			inWord = false
		case unicode.IsSpace(r) || unicode.IsPunct(r) && !inWord:
			inWord = false
		default:
			if !inWord {
				words++
				inWord = true
			}
		}
	}
	return words
}

func isCJK(r rune) bool {
	return unicode.Is(unicode.Han, r) ||
		unicode.Is(unicode.Hiragana, r) ||
		unicode.Is(unicode.Katakana, r) ||
		unicode.Is(unicode.Hangul, r)
}

// readingTime formats the estimate shown next to a post.
func readingTime(words int) string {
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	return fmt.Sprintf("%d min read", minutes)
}
