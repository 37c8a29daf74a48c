package generators

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

// CombinatorField fills a randomly chosen head template with one random value
// from each value set, in order.
type CombinatorField struct {
	rng   *rand.Rand
	name  string
	heads []string
	sets  [][]interface{}
}

// Combinator builds a single-column field. With no value sets the heads are
// the output domain, which is how plain enumerations are expressed.
func Combinator(rng *rand.Rand, name string, heads []string, sets ...[]interface{}) *CombinatorField {
	return &CombinatorField{rng: rng, name: name, heads: heads, sets: sets}
}

func (f *CombinatorField) Columns() []string {
	return []string{f.name}
}

func (f *CombinatorField) Produce() ([]interface{}, error) {
	if len(f.heads) == 0 {
		return nil, errors.New("combinator " + f.name + ": no head templates")
	}
	head := pick(f.rng, f.heads)

	args := make([]interface{}, len(f.sets))
	for i, set := range f.sets {
		if len(set) == 0 {
			return nil, fmt.Errorf("combinator %s: value set %d is empty", f.name, i)
		}
		args[i] = pick(f.rng, set)
	}

	// Heads may use fewer placeholders than there are sets; the extra
	// values are dropped.
	verbs := HeadVerbs(head)
	if verbs > len(args) {
		return nil, fmt.Errorf("combinator %s: head %q needs %d values, have %d sets", f.name, head, verbs, len(args))
	}
	return []interface{}{fmt.Sprintf(head, args[:verbs]...)}, nil
}

// HeadVerbs counts the formatting verbs in a head template. A '*' width or
// precision takes a value of its own; "%%" takes none.
func HeadVerbs(head string) int {
	n := 0
	for i := 0; i < len(head); i++ {
		if head[i] != '%' {
			continue
		}
		i++
		for ; i < len(head); i++ {
			c := head[i]
			if c == '*' {
				n++
				continue
			}
			if strings.IndexByte("+-# 0123456789.[]", c) >= 0 {
				continue
			}
			if c != '%' {
				n++
			}
			break
		}
	}
	return n
}
