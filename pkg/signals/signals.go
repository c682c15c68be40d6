package signals

import (
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// Extractor reads game signals out of narrator prose.
type Extractor interface {
	DetectCombatStart(text string) bool
	DetectCombatEnd(text string) bool
	ExtractXP(text string) (int, bool)
	ExtractLocation(text string, known []string) (string, bool)
}

// Default trigger phrases. Both lists are configurable.
var (
	DefaultStartPhrases = []string{"initiative", "attacks", "encounter"}
	DefaultEndPhrases   = []string{"combat ends", "flee", "retreat", "victory", "all monsters are dead", "surrender"}
)

var xpPattern = regexp.MustCompile(`(?i)\b(\d[\d,]*)\s*XP\b`)

// KeywordExtractor matches phrases at word starts, case-insensitively, so
// "flee" also catches "flees" and "fleeing".
type KeywordExtractor struct {
	start []*regexp.Regexp
	end   []*regexp.Regexp
}

// NewKeywordExtractor compiles the phrase lists. Nil lists use the defaults;
// blank phrases are skipped.
func NewKeywordExtractor(startPhrases, endPhrases []string) *KeywordExtractor {
	if startPhrases == nil {
		startPhrases = DefaultStartPhrases
	}
	if endPhrases == nil {
		endPhrases = DefaultEndPhrases
	}
	return &KeywordExtractor{
		start: compile(startPhrases),
		end:   compile(endPhrases),
	}
}

func compile(phrases []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(phrases))
	for _, p := range phrases {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, regexp.MustCompile(`(?i)\b`+regexp.QuoteMeta(p)))
	}
	return out
}

func matchAny(res []*regexp.Regexp, text string) bool {
	for _, re := range res {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// DetectCombatStart reports whether text contains a combat-initiating phrase.
func (k *KeywordExtractor) DetectCombatStart(text string) bool {
	return matchAny(k.start, text)
}

// DetectCombatEnd reports whether text signals combat is over.
func (k *KeywordExtractor) DetectCombatEnd(text string) bool {
	return matchAny(k.end, text)
}

// ExtractXP returns the first "<n> XP" award in text.
func (k *KeywordExtractor) ExtractXP(text string) (int, bool) {
	m := xpPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// ExtractLocation returns the first name in known, in list order, that text
// mentions.
func (k *KeywordExtractor) ExtractLocation(text string, known []string) (string, bool) {
	fold := cases.Fold()
	haystack := fold.String(text)
	for _, name := range known {
		if name == "" {
			continue
		}
		if strings.Contains(haystack, fold.String(name)) {
			return name, true
		}
	}
	return "", false
}
