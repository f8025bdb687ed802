// Package normaliser coerces free-text model output into the canonical
// label format: title case, 1-3 words, no punctuation other than internal
// hyphens.
//
// Normalisation is idempotent: for any input accepted once, running it
// through again yields the same label. The cleanup heuristics never panic;
// output that cannot be salvaged into a valid label is reported as
// domain.ErrMalformedOutput rather than silently replaced with a guess.
package normaliser

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/mikepeiman/elemental-craft/internal/core/domain"
)

// OverflowPolicy decides what happens to output with more than the maximum
// number of words. It is configured once for the whole engine, not per call.
type OverflowPolicy string

// Available overflow policies.
const (
	// OverflowTruncate keeps the first maxWords words of an overlong label.
	OverflowTruncate OverflowPolicy = "truncate"

	// OverflowReject treats an overlong label as malformed output.
	OverflowReject OverflowPolicy = "reject"
)

// maxWords is the maximum number of words in a valid label.
const maxWords = 3

// delimiters are characters suggesting "A + B = Result" framing. When any
// is present, only the text after the final one is considered.
const delimiters = "=:+"

// articles are bare tokens dropped from the edges of a label.
var articles = map[string]bool{
	"a":   true,
	"an":  true,
	"the": true,
}

// Config holds normalisation behaviour.
type Config struct {
	// StripArticles drops leading and trailing bare articles
	// ("a", "an", "the") from the label.
	StripArticles bool

	// Overflow decides the fate of labels longer than three words.
	Overflow OverflowPolicy
}

// DefaultConfig returns the engine-wide default behaviour: articles are
// stripped and overlong labels are truncated to their first three words,
// mirroring how the original game compressed long outputs rather than
// discarding them.
func DefaultConfig() Config {
	return Config{
		StripArticles: true,
		Overflow:      OverflowTruncate,
	}
}

// Normaliser canonicalises raw model output into label form.
type Normaliser struct {
	cfg Config
}

// New creates a normaliser with the given configuration.
func New(cfg Config) *Normaliser {
	if cfg.Overflow == "" {
		cfg.Overflow = OverflowTruncate
	}
	return &Normaliser{cfg: cfg}
}

// Normalise converts raw model output into a canonical label.
// It returns domain.ErrMalformedOutput when no valid label remains after
// cleanup: empty input, punctuation-only input, or an overlong label under
// the reject policy.
func (n *Normaliser) Normalise(raw string) (string, error) {
	text := afterFinalDelimiter(raw)
	text = stripPunctuation(text)

	tokens := strings.Fields(text)
	if n.cfg.StripArticles {
		tokens = trimArticles(tokens)
	}

	if len(tokens) == 0 {
		return "", fmt.Errorf("%w: no usable words in %q", domain.ErrMalformedOutput, raw)
	}
	if len(tokens) > maxWords {
		if n.cfg.Overflow == OverflowReject {
			return "", fmt.Errorf("%w: %d words exceeds limit of %d", domain.ErrMalformedOutput, len(tokens), maxWords)
		}
		tokens = tokens[:maxWords]
	}

	for i, tok := range tokens {
		tokens[i] = titleCase(tok)
	}
	return strings.Join(tokens, " "), nil
}

// afterFinalDelimiter returns the substring after the final delimiter
// character, if any. Model output like "Fire + Water = Steam" or
// "the result is: dust" reduces to the part naming the result.
func afterFinalDelimiter(s string) string {
	if i := strings.LastIndexAny(s, delimiters); i >= 0 {
		return s[i+1:]
	}
	return s
}

// stripPunctuation removes every rune that is not a letter, digit, space
// or hyphen. Hyphens survive only between word characters; leading and
// trailing hyphens are trimmed per token later via Fields splitting them
// into hyphen-free edges.
func stripPunctuation(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r):
			b.WriteRune(r)
		case r == '-':
			b.WriteRune(r)
		}
	}

	// Trim hyphens that ended up on token edges.
	tokens := strings.Fields(b.String())
	for i, tok := range tokens {
		tokens[i] = strings.Trim(tok, "-")
	}
	return strings.Join(tokens, " ")
}

// trimArticles drops bare articles from both ends of the token list.
func trimArticles(tokens []string) []string {
	for len(tokens) > 0 && articles[strings.ToLower(tokens[0])] {
		tokens = tokens[1:]
	}
	for len(tokens) > 0 && articles[strings.ToLower(tokens[len(tokens)-1])] {
		tokens = tokens[:len(tokens)-1]
	}
	return tokens
}

// titleCase uppercases the first letter of a token and lowercases the rest.
func titleCase(tok string) string {
	runes := []rune(tok)
	for i, r := range runes {
		if i == 0 {
			runes[i] = unicode.ToUpper(r)
		} else {
			runes[i] = unicode.ToLower(r)
		}
	}
	return string(runes)
}
