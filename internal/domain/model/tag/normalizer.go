// Package tag resolves user typed tags against the tags already in use.
//
// Resolution order:
//  1. exact match: the tag is used unchanged
//  2. case-insensitive match: the existing casing wins
//  3. edit distance within a threshold (1 for tags of up to 4 characters,
//     2 otherwise): the closest existing tag wins
//  4. anything else is a new tag, kept verbatim
//
// When several existing tags are equally close, the lexicographically
// smallest one is chosen so the result never depends on list order.
package tag

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// ShortTagLength is the longest tag that only tolerates a single edit
const ShortTagLength = 4

// Outcome describes how a tag was resolved
type Outcome int

const (
	// Unchanged means the tag already exists byte for byte
	Unchanged Outcome = iota
	// FoldedCase means the tag matched an existing one ignoring case
	FoldedCase
	// Fuzzy means the tag matched an existing one within the edit threshold
	Fuzzy
	// New means nothing matched
	New
)

func (o Outcome) String() string {
	switch o {
	case Unchanged:
		return "unchanged"
	case FoldedCase:
		return "case"
	case Fuzzy:
		return "fuzzy"
	default:
		return "new"
	}
}

// Result is the outcome of resolving a single tag
type Result struct {
	Tag      string
	Outcome  Outcome
	Distance int
}

// Normalized reports whether the tag was rewritten to an existing one
func (r Result) Normalized() bool {
	return r.Outcome == FoldedCase || r.Outcome == Fuzzy
}

// Normalization records a rewrite so callers can tell the user about it
type Normalization struct {
	From string
	To   string
}

func (n Normalization) String() string {
	return "'" + n.From + "' -> '" + n.To + "'"
}

// Clean applies NFKC and trims surrounding space
func Clean(tag string) string {
	return strings.TrimSpace(norm.NFKC.String(tag))
}

// CleanAll applies Clean to every tag
func CleanAll(tags []string) []string {
	if tags == nil {
		return nil
	}
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = Clean(t)
	}
	return out
}

// Threshold returns the largest edit distance accepted for candidate
func Threshold(candidate string) int {
	if utf8.RuneCountInString(candidate) <= ShortTagLength {
		return 1
	}
	return 2
}

// Normalizer resolves tags against a fixed vocabulary of existing tags
type Normalizer struct {
	vocabulary []string
	folded     []string
}

// NewNormalizer builds a normalizer over existing. The vocabulary is
// deduplicated and sorted so ties resolve to the smallest tag.
func NewNormalizer(existing []string) *Normalizer {
	uniq := make(map[string]struct{}, len(existing))
	vocab := make([]string, 0, len(existing))
	for _, t := range existing {
		if t == "" {
			continue
		}
		if _, ok := uniq[t]; ok {
			continue
		}
		uniq[t] = struct{}{}
		vocab = append(vocab, t)
	}
	sort.Strings(vocab)

	fold := cases.Fold()
	folded := make([]string, len(vocab))
	for i, t := range vocab {
		folded[i] = fold.String(t)
	}
	return &Normalizer{vocabulary: vocab, folded: folded}
}

// Vocabulary returns the sorted existing tags
func (n *Normalizer) Vocabulary() []string {
	return append([]string(nil), n.vocabulary...)
}

// Normalize resolves a single candidate tag
func (n *Normalizer) Normalize(candidate string) Result {
	for _, t := range n.vocabulary {
		if t == candidate {
			return Result{Tag: t, Outcome: Unchanged}
		}
	}

	key := cases.Fold().String(candidate)
	for i, f := range n.folded {
		if f == key {
			return Result{Tag: n.vocabulary[i], Outcome: FoldedCase}
		}
	}

	limit := Threshold(candidate)
	best, bestDist := -1, limit+1
	for i, f := range n.folded {
		d := levenshtein.ComputeDistance(key, f)
		// strict < keeps the first (smallest) tag among equals
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	if best >= 0 {
		return Result{Tag: n.vocabulary[best], Outcome: Fuzzy, Distance: bestDist}
	}

	return Result{Tag: candidate, Outcome: New}
}

// NormalizeAll resolves every candidate. Candidates that collapse onto the
// same tag are kept once, in first-seen order.
func (n *Normalizer) NormalizeAll(candidates []string) ([]string, []Normalization) {
	var (
		out     []string
		changes []Normalization
	)
	seen := make(map[string]struct{}, len(candidates))
	fold := cases.Fold()
	for _, c := range candidates {
		r := n.Normalize(c)
		if r.Normalized() {
			changes = append(changes, Normalization{From: c, To: r.Tag})
		}
		key := fold.String(r.Tag)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r.Tag)
	}
	return out, changes
}

// Normalize resolves candidate against existing in one call
func Normalize(candidate string, existing []string) Result {
	return NewNormalizer(existing).Normalize(candidate)
}
