// Package search ranks short Markdown tips against a free-text question.
//
// A tips document is split into sections by "#" headings and into tips by
// blank lines. Each tip keeps the heading it appeared under as its Topic.
// Tables are flattened into one tip per row (see Flatten). Scoring is the
// Jaccard similarity of case-folded token sets, with the topic's tokens
// counted as part of the tip. The index is immutable after construction and
// safe for concurrent use.
package search

import (
	"io"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
)

// Hit is a ranked tip.
type Hit struct {
	Topic string
	Text  string
	Score float64
}

// Index answers top-k queries.
type Index interface {
	TopK(query string, k int) []Hit
	Len() int
}

// Option configures index construction.
type Option func(*config)

type config struct {
	minRunes  int
	stopwords map[string]struct{}
}

// DefaultStopwords are dropped from both tips and queries.
var DefaultStopwords = []string{
	"a", "an", "and", "are", "as", "at", "be", "by", "can", "do", "does", "for",
	"from", "how", "i", "if", "in", "is", "it", "my", "of", "on", "or", "should",
	"that", "the", "to", "what", "when", "which", "with", "you", "your",
}

// WithMinRunes drops tips shorter than n runes.
func WithMinRunes(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.minRunes = n
		}
	}
}

// WithStopwords replaces the stopword list. An empty list disables filtering.
func WithStopwords(words ...string) Option {
	return func(c *config) {
		c.stopwords = stopset(words)
	}
}

type tip struct {
	topic  string
	text   string
	tokens map[string]struct{}
	runes  int
}

type index struct {
	cfg  config
	tips []tip
}

// FromMarkdown builds an index from a tips document.
func FromMarkdown(r io.Reader, opts ...Option) (Index, error) {
	cfg := config{minRunes: 20, stopwords: stopset(DefaultStopwords)}
	for _, o := range opts {
		o(&cfg)
	}
	raw, err := io.ReadAll(r)
	if err != nil {
		return &index{cfg: cfg}, err
	}

	idx := &index{cfg: cfg}
	for _, s := range sections(string(Flatten(raw))) {
		for _, p := range paragraphs(s.body) {
			n := utf8.RuneCountInString(p)
			if n < cfg.minRunes {
				continue
			}
			toks := tokenize(s.topic+" "+p, cfg.stopwords)
			if len(toks) == 0 {
				continue
			}
			idx.tips = append(idx.tips, tip{topic: s.topic, text: p, tokens: toks, runes: n})
		}
	}
	return idx, nil
}

func (i *index) Len() int { return len(i.tips) }

// TopK returns up to k hits with positive score, best first. Ties prefer the
// shorter tip, then document order. k <= 0 selects 3.
func (i *index) TopK(query string, k int) []Hit {
	q := tokenize(query, i.cfg.stopwords)
	if len(q) == 0 || len(i.tips) == 0 {
		return nil
	}
	if k <= 0 {
		k = 3
	}

	type scored struct {
		pos   int
		score float64
	}
	var buf []scored
	for pos, t := range i.tips {
		inter := overlap(q, t.tokens)
		if inter == 0 {
			continue
		}
		union := len(q) + len(t.tokens) - inter
		buf = append(buf, scored{pos: pos, score: float64(inter) / float64(union)})
	}
	sort.SliceStable(buf, func(a, b int) bool {
		if buf[a].score != buf[b].score {
			return buf[a].score > buf[b].score
		}
		return i.tips[buf[a].pos].runes < i.tips[buf[b].pos].runes
	})
	if len(buf) > k {
		buf = buf[:k]
	}
	if len(buf) == 0 {
		return nil
	}
	out := make([]Hit, len(buf))
	for n, s := range buf {
		t := i.tips[s.pos]
		out[n] = Hit{Topic: t.topic, Text: t.text, Score: s.score}
	}
	return out
}

type section struct {
	topic string
	body  string
}

func sections(doc string) []section {
	var (
		out  []section
		cur  section
		body strings.Builder
	)
	flush := func() {
		cur.body = body.String()
		if strings.TrimSpace(cur.body) != "" {
			out = append(out, cur)
		}
		body.Reset()
	}
	for _, line := range strings.Split(doc, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") {
			flush()
			cur = section{topic: strings.TrimSpace(strings.TrimLeft(trimmed, "#"))}
			continue
		}
		body.WriteString(line)
		body.WriteByte('\n')
	}
	flush()
	return out
}

var blankLineRE = regexp.MustCompile(`\n\s*\n`)

func paragraphs(body string) []string {
	var out []string
	for _, c := range blankLineRE.Split(body, -1) {
		c = strings.Join(strings.Fields(c), " ")
		c = strings.TrimLeft(c, "-* ")
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}

var wordRE = regexp.MustCompile(`[\p{L}\p{N}]+`)

func tokenize(s string, stop map[string]struct{}) map[string]struct{} {
	words := wordRE.FindAllString(cases.Fold().String(s), -1)
	if len(words) == 0 {
		return nil
	}
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		if _, skip := stop[w]; skip {
			continue
		}
		out[w] = struct{}{}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func overlap(a, b map[string]struct{}) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	n := 0
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}

func stopset(words []string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			m[w] = struct{}{}
		}
	}
	return m
}
