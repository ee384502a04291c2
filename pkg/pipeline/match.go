package pipeline

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/pathwell/labscan/pkg/catalog"
)

// maxNameTokens bounds how far into a line the matcher looks for a test
// name. Catalog names are short; fuzzing against whole disclaimer lines
// only invites false positives.
const maxNameTokens = 6

// Matcher scores candidate lines against the catalog. Read-only after
// construction, safe for concurrent use.
type Matcher struct {
	entries   []catalog.Entry
	threshold float64
}

// NewMatcher builds a matcher over the catalog with the given minimum
// fuzzy-match confidence.
func NewMatcher(c *catalog.Catalog, threshold float64) *Matcher {
	return &Matcher{entries: c.Entries(), threshold: threshold}
}

// Match selects the best catalog entry for the line, or reports none. This
// is the single scored-candidate selection point: exact case-insensitive
// alias matches score 1.0, fuzzy matches score the mean token-level
// edit-distance similarity and must clear the threshold. Ties break toward
// the longer (more specific) matched alias, then the lexicographically
// smaller canonical name so results are deterministic.
func (m *Matcher) Match(line CandidateLine) (MatchCandidate, bool) {
	prefix := namePrefix(line.tokens)
	if len(prefix) == 0 {
		return MatchCandidate{}, false
	}

	var (
		found     bool
		bestConf  float64
		bestAlias string
		bestEntry catalog.Entry
		consumed  int
	)

	for _, entry := range m.entries {
		for _, alias := range entry.Names() {
			aliasTokens := strings.Fields(strings.ToUpper(alias))
			conf, used := scoreAlias(aliasTokens, prefix)
			if conf < m.threshold {
				continue
			}
			if !found || conf > bestConf ||
				(conf == bestConf && betterAlias(alias, entry, bestAlias, bestEntry)) {
				found = true
				bestConf = conf
				bestAlias = alias
				bestEntry = entry
				consumed = used
			}
		}
	}

	if !found {
		return MatchCandidate{}, false
	}

	return MatchCandidate{
		Line:       line,
		Entry:      bestEntry,
		Confidence: bestConf,
		rest:       restTokens(line.tokens, consumed),
	}, true
}

func betterAlias(alias string, entry catalog.Entry, bestAlias string, bestEntry catalog.Entry) bool {
	if len(alias) != len(bestAlias) {
		return len(alias) > len(bestAlias)
	}
	return entry.Name < bestEntry.Name
}

// namePrefix extracts the uppercase leading text tokens of a line, stopping
// at the first numeric token or at an attached/freestanding ":"/"=" label
// separator.
func namePrefix(tokens []string) []string {
	var prefix []string
	for _, tok := range tokens {
		if len(prefix) == maxNameTokens || digitLead(tok) {
			break
		}
		stripped := strings.TrimRight(tok, ":=")
		if stripped == "" {
			break
		}
		prefix = append(prefix, strings.ToUpper(stripped))
		if stripped != tok {
			break
		}
	}
	return prefix
}

// scoreAlias compares alias tokens against the same number of leading
// prefix tokens. Missing prefix tokens score zero rather than aborting the
// candidate.
func scoreAlias(aliasTokens, prefix []string) (float64, int) {
	if len(aliasTokens) == 0 {
		return 0, 0
	}

	exact := len(prefix) >= len(aliasTokens)
	var sum float64
	for i, at := range aliasTokens {
		if i >= len(prefix) {
			exact = false
			break
		}
		sim := tokenSimilarity(at, prefix[i])
		if sim != 1.0 {
			exact = false
		}
		sum += sim
	}
	if exact {
		return 1.0, len(aliasTokens)
	}

	used := len(aliasTokens)
	if used > len(prefix) {
		used = len(prefix)
	}
	return sum / float64(len(aliasTokens)), used
}

func tokenSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}
	if longest == 0 {
		return 0
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1.0 - float64(dist)/float64(longest)
}

// restTokens returns the line's tokens after the matched name segment,
// skipping a leading label separator.
func restTokens(tokens []string, consumed int) []string {
	if consumed >= len(tokens) {
		return nil
	}
	rest := tokens[consumed:]
	for len(rest) > 0 {
		trimmed := strings.TrimLeft(rest[0], ":=")
		if trimmed == rest[0] {
			break
		}
		if trimmed != "" {
			rest = append([]string{trimmed}, rest[1:]...)
			break
		}
		rest = rest[1:]
	}
	return rest
}
