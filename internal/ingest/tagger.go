package ingest

import (
	"strings"
	"unicode"
)

// Categories lists the reasoning signals a paragraph can be tagged with, in
// output order.
var Categories = []string{"contrast", "similarity", "opposition", "emphasis", "moderating", "logic"}

var keywords = map[string][]string{
	"contrast": {"however", "but", "although", "yet", "nevertheless", "rather", "in contrast",
		"on the other hand", "otherwise", "whereas", "while", "different", "unlike"},
	"similarity": {"and", "also", "moreover", "furthermore", "like", "same", "similar", "that is",
		"in other words", "for example", "for instance", "take the case of", "including", "such as",
		"in addition", "at the same time", "as well as", "equally", "this", "that", "these", "those",
		";", ":", "-"},
	"opposition": {"not", "never", "none", "on the contrary", "as opposed to", "versus", "otherwise"},
	"emphasis":   {"indeed", "in fact", "clearly", "must", "above all"},
	"moderating": {"can", "could", "may", "might", "possibly", "probably", "sometimes", "on occasion",
		"often", "tends to", "here", "now", "in this case", "in some sense"},
	"logic": {"because", "since", "therefore", "as a result", "due to"},
}

// Tag returns the categories whose keywords occur in text. Word keywords
// match whole words only; punctuation keywords match anywhere.
func Tag(text string) []string {
	words := " " + strings.Join(strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	}), " ") + " "

	tags := []string{}
	for _, cat := range Categories {
		for _, kw := range keywords[cat] {
			if matches(text, words, kw) {
				tags = append(tags, cat)
				break
			}
		}
	}
	return tags
}

func matches(raw, words, kw string) bool {
	if strings.IndexFunc(kw, unicode.IsLetter) < 0 {
		return strings.Contains(raw, kw)
	}
	return strings.Contains(words, " "+kw+" ")
}
