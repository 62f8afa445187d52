package intent

import (
	"sort"

	"courier-lab/domain"
	"courier-lab/errors"

	"github.com/abadojack/whatlanggo"
	goahocorasick "github.com/anknown/ahocorasick"
)

// Verdict is the outcome of scoring one message. A zero Delta means the
// caller should not write anything back to the conversation.
type Verdict struct {
	Delta  int
	Stage  *domain.Stage
	Family Family
	Lang   string
}

// Zero reports whether the verdict carries no update at all.
func (v Verdict) Zero() bool {
	return v.Delta == 0 && v.Stage == nil
}

type familyMatcher struct {
	rule    Rule
	matcher *goahocorasick.Machine
}

// Scorer classifies message text against a RuleSet. One Aho-Corasick
// automaton per family, built over normalized runes at construction.
type Scorer struct {
	version  int
	matchers []familyMatcher
}

// NewScorer compiles the rule set. Families are kept sorted by
// decreasing priority so Score can stop at the first hit.
func NewScorer(rules RuleSet) (*Scorer, error) {
	s := &Scorer{version: rules.Version}
	for _, rule := range rules.Rules {
		if len(rule.Keywords) == 0 {
			return nil, errors.ErrEmptyRules
		}
		patterns := make([][]rune, len(rule.Keywords))
		for i, kw := range rule.Keywords {
			patterns[i] = normalizeRunes([]rune(kw))
		}
		m := new(goahocorasick.Machine)
		if err := m.Build(patterns); err != nil {
			return nil, err
		}
		s.matchers = append(s.matchers, familyMatcher{rule: rule, matcher: m})
	}
	sort.SliceStable(s.matchers, func(i, j int) bool {
		return s.matchers[i].rule.Priority > s.matchers[j].rule.Priority
	})
	return s, nil
}

// Version returns the compiled rule table version.
func (s *Scorer) Version() int { return s.version }

// Score scans the text and returns the highest-priority family match
// only; deltas are never cumulative within one message. No match yields
// a zero verdict so callers can skip the conversation write entirely.
func (s *Scorer) Score(text string) Verdict {
	info := whatlanggo.Detect(text)
	verdict := Verdict{Lang: info.Lang.Iso6391()}

	normalized := normalizeRunes([]rune(text))
	if len(normalized) == 0 {
		return verdict
	}

	for _, fm := range s.matchers {
		if len(fm.matcher.MultiPatternSearch(normalized, true)) == 0 {
			continue
		}
		verdict.Delta = fm.rule.Delta
		verdict.Stage = fm.rule.Stage
		verdict.Family = fm.rule.Family
		return verdict
	}
	return verdict
}
