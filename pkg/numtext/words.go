package numtext

import (
	"errors"
	"strconv"
	"strings"
)

var (
	ErrNoNumberWords = errors.New("no number words found")
	ErrRedundant     = errors.New("redundant number word")
	ErrMalformed     = errors.New("malformed number")
	ErrFractional    = errors.New("number has a fractional part")
)

var numberWords = map[string]int{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4,
	"five": 5, "six": 6, "seven": 7, "eight": 8, "nine": 9,
	"ten": 10, "eleven": 11, "twelve": 12, "thirteen": 13, "fourteen": 14,
	"fifteen": 15, "sixteen": 16, "seventeen": 17, "eighteen": 18, "nineteen": 19,
	"twenty": 20, "thirty": 30, "forty": 40, "fifty": 50,
	"sixty": 60, "seventy": 70, "eighty": 80, "ninety": 90,
	"hundred":  100,
	"thousand": 1_000,
	"million":  1_000_000,
	"billion":  1_000_000_000,
}

const pointWord = "point"

// WordsToNumber converts an English number phrase to an integer.
//
// Hyphens separate words. Words that are not number words are ignored, so
// "hundred-and-one" is 101; at least one number word must remain. Scale
// words may appear at most once each and in descending order. A phrase whose
// words after "point" are all digit words (zero to nine) is fractional and
// rejected; any other word there makes the decimal part count as nothing, so
// "one point twenty" is 1.
func WordsToNumber(phrase string) (int, error) {
	phrase = strings.ToLower(strings.ReplaceAll(phrase, "-", " "))
	if isDigits(phrase) {
		return strconv.Atoi(phrase)
	}

	var words []string
	for _, w := range strings.Fields(phrase) {
		if _, ok := numberWords[w]; ok || w == pointWord {
			words = append(words, w)
		}
	}
	if len(words) == 0 {
		return 0, ErrNoNumberWords
	}

	for _, w := range []string{"thousand", "million", "billion", pointWord} {
		if count(words, w) > 1 {
			return 0, ErrRedundant
		}
	}

	var decimals []string
	if i := indexOf(words, pointWord); i >= 0 {
		decimals = words[i+1:]
		words = words[:i]
	}
	if len(decimals) > 0 && allDigitWords(decimals) {
		return 0, ErrFractional
	}

	bi := indexOf(words, "billion")
	mi := indexOf(words, "million")
	ti := indexOf(words, "thousand")
	if (ti > -1 && (ti < mi || ti < bi)) || (mi > -1 && mi < bi) {
		return 0, ErrMalformed
	}

	switch len(words) {
	case 0:
		// only "point": the caller decides what a bare zero means
		return 0, nil
	case 1:
		return numberWords[words[0]], nil
	}

	total := 0
	if bi > -1 {
		v, err := formation(words[:bi])
		if err != nil {
			return 0, err
		}
		total += v * 1_000_000_000
	}
	if mi > -1 {
		start := 0
		if bi > -1 {
			start = bi + 1
		}
		v, err := formation(words[start:mi])
		if err != nil {
			return 0, err
		}
		total += v * 1_000_000
	}
	if ti > -1 {
		start := 0
		if mi > -1 {
			start = mi + 1
		} else if bi > -1 {
			start = bi + 1
		}
		v, err := formation(words[start:ti])
		if err != nil {
			return 0, err
		}
		total += v * 1_000
	}

	var rest []string
	last := len(words) - 1
	switch {
	case ti > -1 && ti != last:
		rest = words[ti+1:]
	case mi > -1 && mi != last:
		rest = words[mi+1:]
	case bi > -1 && bi != last:
		rest = words[bi+1:]
	case ti == -1 && mi == -1 && bi == -1:
		rest = words
	}
	if rest != nil {
		v, err := formation(rest)
		if err != nil {
			return 0, err
		}
		total += v
	}
	return total, nil
}

// formation combines the words below a scale word into a value under one
// thousand, e.g. "two hundred forty one".
func formation(words []string) (int, error) {
	if len(words) == 0 {
		return 0, ErrMalformed
	}
	n := make([]int, len(words))
	for i, w := range words {
		n[i] = numberWords[w]
	}
	switch len(n) {
	case 4:
		return n[0]*n[1] + n[2] + n[3], nil
	case 3:
		return n[0]*n[1] + n[2], nil
	case 2:
		if n[0] == 100 || n[1] == 100 {
			return n[0] * n[1], nil
		}
		return n[0] + n[1], nil
	default:
		return n[0], nil
	}
}

func allDigitWords(words []string) bool {
	for _, w := range words {
		if n, ok := numberWords[w]; !ok || n > 9 {
			return false
		}
	}
	return true
}

func count(words []string, target string) int {
	c := 0
	for _, w := range words {
		if w == target {
			c++
		}
	}
	return c
}

func indexOf(words []string, target string) int {
	for i, w := range words {
		if w == target {
			return i
		}
	}
	return -1
}
