package transcription

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// languageAliases maps free-form language names and locale codes to
// canonical two-letter codes.
var languageAliases = map[string]string{
	"français": "fr",
	"francais": "fr",
	"french":   "fr",
	"fr-fr":    "fr",
	"fr-ca":    "fr",
	"english":  "en",
	"anglais":  "en",
	"en-us":    "en",
	"en-gb":    "en",
	"español":  "es",
	"espagnol": "es",
	"spanish":  "es",
	"es-es":    "es",
	"deutsch":  "de",
	"allemand": "de",
	"german":   "de",
	"de-de":    "de",
}

// DefaultLanguage is assumed when no usable language hint is given.
const DefaultLanguage = "fr"

// NormalizeLanguage maps a free-form language name or locale code to a
// canonical two-letter code. Unknown inputs keep their two-letter prefix
// when it looks like a code, otherwise fall back to DefaultLanguage.
func NormalizeLanguage(lang string) string {
	l := strings.ToLower(strings.TrimSpace(lang))
	if l == "" {
		return DefaultLanguage
	}
	if canonical, ok := languageAliases[l]; ok {
		return canonical
	}
	if len(l) == 2 {
		return l
	}
	if len(l) > 2 && l[2] == '-' {
		return l[:2]
	}
	return DefaultLanguage
}

// CleanText collapses redundant whitespace into single spaces and trims
// the ends.
func CleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// FormatText cleans the text and applies language-aware capitalization of
// the first letter. Empty input stays empty.
func FormatText(text, lang string) string {
	cleaned := CleanText(text)
	if cleaned == "" {
		return ""
	}
	tag, err := language.Parse(NormalizeLanguage(lang))
	if err != nil {
		tag = language.French
	}
	upper := cases.Upper(tag)
	_, size := utf8.DecodeRuneInString(cleaned)
	return upper.String(cleaned[:size]) + cleaned[size:]
}
