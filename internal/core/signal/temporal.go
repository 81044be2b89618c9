package signal

import "regexp"

var temporalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(1[89]|20)\d{2}\b`),
	regexp.MustCompile(`(?i)\b(jan(uary)?|feb(ruary)?|mar(ch)?|apr(il)?|jun(e)?|jul(y)?|aug(ust)?|sep(t(ember)?)?|oct(ober)?|nov(ember)?|dec(ember)?)\b\.?\s*\d{0,2}`),
	// "may" is only a month next to a day number.
	regexp.MustCompile(`(?i)\bmay\s+\d{1,2}\b|\b\d{1,2}(st|nd|rd|th)?\s+may\b`),
	regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}([/-]\d{2,4})?\b`),
	regexp.MustCompile(`(?i)\b(today|tonight|yesterday|tomorrow|recently|currently|upcoming|ago|monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`),
	regexp.MustCompile(`(?i)\b(last|next|this|past|coming)\s+(week|month|year|decade|weekend|quarter)s?\b`),
}

// HasTemporalReference reports whether a claim carries a date, timeframe or
// relative time that evidence could be misaligned with.
func HasTemporalReference(claim string) bool {
	for _, p := range temporalPatterns {
		if p.MatchString(claim) {
			return true
		}
	}
	return false
}
