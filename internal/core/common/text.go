package common

import (
	"strings"
	"unicode"
)

var stopwords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`a an the and or but if of to in on at by for with from as into onto over under
		is are was were be been being has have had do does did will would shall should can could may might must
		this that these those it its it's their there they them he she his her we our you your i me my
		not no nor so than then too very just also about after before during while since until
		what which who whom whose when where why how all any both each few more most other some such only own same
		said says say according report reports reported claim claims claimed`) {
		stopwords[w] = struct{}{}
	}
}

// Tokens lower-cases s, splits on anything that is not a letter or digit and
// drops stopwords and single letters. Plural and possessive endings are folded
// so "banks" and "bank's" both yield "bank".
func Tokens(s string) []string {
	raw := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
	out := make([]string, 0, len(raw))
	for _, w := range raw {
		w = strings.Trim(w, "'")
		w = strings.TrimSuffix(w, "'s")
		if _, stop := stopwords[w]; stop {
			continue
		}
		if len([]rune(w)) < 2 && !isNumber(w) {
			continue
		}
		out = append(out, fold(w))
	}
	return out
}

// TokenSet is Tokens as a set.
func TokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, t := range Tokens(s) {
		set[t] = struct{}{}
	}
	return set
}

func fold(w string) string {
	if isNumber(w) || len(w) <= 3 {
		return w
	}
	switch {
	case strings.HasSuffix(w, "ies") && len(w) > 4:
		return w[:len(w)-3] + "y"
	case strings.HasSuffix(w, "ss"):
		return w
	case strings.HasSuffix(w, "s"):
		return w[:len(w)-1]
	}
	return w
}

func isNumber(w string) bool {
	if w == "" {
		return false
	}
	for _, r := range w {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// Sentences splits text on terminal punctuation followed by whitespace.
func Sentences(text string) []string {
	var out []string
	var b strings.Builder
	runes := []rune(text)
	for i, r := range runes {
		b.WriteRune(r)
		if r != '.' && r != '!' && r != '?' && r != '\n' {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		if s := strings.TrimSpace(b.String()); s != "" {
			out = append(out, s)
		}
		b.Reset()
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		out = append(out, s)
	}
	return out
}

// Overlap returns how many tokens of a appear in b and the fraction of a's
// tokens that matched.
func Overlap(a, b map[string]struct{}) (shared int, ratio float64) {
	if len(a) == 0 {
		return 0, 0
	}
	for t := range a {
		if _, ok := b[t]; ok {
			shared++
		}
	}
	return shared, float64(shared) / float64(len(a))
}
