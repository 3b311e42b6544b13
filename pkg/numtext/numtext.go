// Package numtext turns OCR word tokens into integers.
//
// A token matches when it is a plain decimal number ("12"), the word
// "zero", or an English number phrase ("twelve", "twenty-three",
// "two-thousand-and-one"). Everything else, which is most of running text,
// is simply not a number.
package numtext

import (
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DefaultMax is the largest value a token may normalise to.
const DefaultMax = 50_000

// Normalizer converts tokens to integers in [0, Max].
type Normalizer struct {
	Max int
}

var defaultNormalizer = Normalizer{Max: DefaultMax}

// Normalize is Normalizer{Max: DefaultMax}.Normalize.
func Normalize(token string) (int, bool) {
	return defaultNormalizer.Normalize(token)
}

// Normalize returns the integer a token denotes, or false if it denotes none.
// Zero is only reachable through "0" and "zero": the number-word path
// yields 0 for stray words such as "point", so 0 is rejected there.
func (n Normalizer) Normalize(token string) (int, bool) {
	max := n.Max
	if max <= 0 {
		max = DefaultMax
	}

	text := strings.ToLower(strings.TrimSpace(norm.NFKC.String(token)))
	if text == "" {
		return 0, false
	}
	if text == "zero" {
		return 0, true
	}

	if isDigits(text) {
		if len(text) > 1 && text[0] == '0' {
			return 0, false
		}
		v, err := strconv.Atoi(text)
		if err != nil || v > max {
			return 0, false
		}
		return v, true
	}

	v, err := WordsToNumber(text)
	if err != nil || v < 1 || v > max {
		return 0, false
	}
	return v, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
