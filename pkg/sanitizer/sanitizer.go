package sanitizer

import (
	"strings"
	"unicode"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

func SanitizeGuestName(input string) string {
	p := Pipeline{
		StripControl,
		TrimAndNormalize,
	}
	return p.Apply(input)
}

func SanitizeEmail(input string) string {
	p := Pipeline{
		StripControl,
		TrimAndNormalize,
		removeSpaces,
		strings.ToLower,
	}
	return p.Apply(input)
}

func SanitizeID(input string) string {
	p := Pipeline{
		StripControl,
		removeSpaces,
	}
	return p.Apply(input)
}

func removeSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
