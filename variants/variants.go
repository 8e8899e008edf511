// Package variants builds the pool of obfuscated display names the rename
// loop draws from.
package variants

import (
	"math/rand/v2"
	"slices"
	"strings"
	"time"
)

// Kind is one of the closed set of name transforms.
type Kind int

const (
	KindSubstitute Kind = iota
	KindBracket
	KindFont
	KindCombined
	KindInterleave

	kindCount
)

func (k Kind) String() string {
	switch k {
	case KindSubstitute:
		return "substitute"
	case KindBracket:
		return "bracket"
	case KindFont:
		return "font"
	case KindCombined:
		return "combined"
	case KindInterleave:
		return "interleave"
	default:
		return "unknown"
	}
}

// Generator produces name variants from a random source. It is not safe
// for concurrent use.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator drawing from rnd, or from a time-seeded source
// when rnd is nil.
func New(rnd *rand.Rand) *Generator {
	if rnd == nil {
		seed := uint64(time.Now().UnixNano())
		rnd = rand.New(rand.NewPCG(seed, seed>>1|1))
	}
	return &Generator{rnd: rnd}
}

// Generate is a convenience wrapper around a freshly seeded Generator.
func Generate(base string, count int) []string {
	return New(nil).Generate(base, count)
}

// Generate returns at most count unique variants of base. The first entry
// is always the lowercased base; count-1 further transforms are tried and
// duplicates are dropped, not retried.
func (g *Generator) Generate(base string, count int) []string {
	base = strings.ToLower(base)
	pool := []string{base}

	for i := 0; i < count-1; i++ {
		kind := Kind(g.rnd.IntN(int(kindCount)))
		v := g.Apply(kind, base)
		if v == "" || slices.Contains(pool, v) {
			continue
		}
		pool = append(pool, v)
	}

	return pool
}

// Apply runs one transform over name.
func (g *Generator) Apply(kind Kind, name string) string {
	switch kind {
	case KindSubstitute:
		return g.substitute(name)
	case KindBracket:
		return g.bracket(name)
	case KindFont:
		return g.font(name)
	case KindCombined:
		return g.combined(name)
	case KindInterleave:
		return g.interleave(name)
	default:
		return name
	}
}

func (g *Generator) pick(options []string) string {
	return options[g.rnd.IntN(len(options))]
}

func (g *Generator) substitute(name string) string {
	var b strings.Builder
	for _, r := range name {
		if alts, ok := substitutions[toLower(r)]; ok {
			b.WriteString(g.pick(alts))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (g *Generator) bracket(name string) string {
	br := brackets[g.rnd.IntN(len(brackets))]
	return br.left + name + br.right
}

func (g *Generator) font(name string) string {
	f := fonts[g.rnd.IntN(len(fonts))]

	var b strings.Builder
	for _, r := range name {
		if mapped, ok := f.mapRune(toLower(r)); ok {
			b.WriteRune(mapped)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (g *Generator) combined(name string) string {
	out := g.substitute(name)
	if g.rnd.IntN(2) == 0 {
		out = g.bracket(out)
	}
	return out
}

func (g *Generator) interleave(name string) string {
	spacer := g.pick(spacers)

	runes := []rune(name)
	if len(runes) <= 2 {
		return spacer + name + spacer
	}

	var b strings.Builder
	b.WriteString(spacer)
	for i, r := range runes {
		b.WriteRune(r)
		if i < len(runes)-1 {
			b.WriteString(spacer)
		}
	}
	b.WriteString(spacer)
	return b.String()
}

func toLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}
