// Package logic implements propositional logic sentences and entailment
// checking by model enumeration.
package logic

import (
	"sort"
	"strings"
)

// A Model assigns a truth value to every symbol. Symbols absent from the
// model evaluate as false.
type Model map[Symbol]bool

// A Sentence is a propositional formula that can be evaluated against a
// model.
type Sentence interface {
	Evaluate(model Model) bool
	Formula() string
	Symbols() map[Symbol]struct{}
}

type Symbol string

func (s Symbol) Evaluate(model Model) bool {
	return model[s]
}

func (s Symbol) Formula() string {
	return string(s)
}

func (s Symbol) Symbols() map[Symbol]struct{} {
	return map[Symbol]struct{}{s: {}}
}

// parenthesize wraps compound operands so formulas read unambiguously.
func parenthesize(s Sentence) string {
	if _, ok := s.(Symbol); ok {
		return s.Formula()
	}
	return "(" + s.Formula() + ")"
}

func union(sentences ...Sentence) map[Symbol]struct{} {
	set := make(map[Symbol]struct{})
	for _, s := range sentences {
		for sym := range s.Symbols() {
			set[sym] = struct{}{}
		}
	}
	return set
}

type not struct {
	operand Sentence
}

func Not(operand Sentence) Sentence {
	return not{operand: operand}
}

func (n not) Evaluate(model Model) bool {
	return !n.operand.Evaluate(model)
}

func (n not) Formula() string {
	return "¬" + parenthesize(n.operand)
}

func (n not) Symbols() map[Symbol]struct{} {
	return n.operand.Symbols()
}

type and struct {
	conjuncts []Sentence
}

func And(conjuncts ...Sentence) Sentence {
	return and{conjuncts: conjuncts}
}

func (a and) Evaluate(model Model) bool {
	for _, c := range a.conjuncts {
		if !c.Evaluate(model) {
			return false
		}
	}
	return true
}

func (a and) Formula() string {
	parts := make([]string, len(a.conjuncts))
	for i, c := range a.conjuncts {
		parts[i] = parenthesize(c)
	}
	return strings.Join(parts, " ∧ ")
}

func (a and) Symbols() map[Symbol]struct{} {
	return union(a.conjuncts...)
}

type or struct {
	disjuncts []Sentence
}

func Or(disjuncts ...Sentence) Sentence {
	return or{disjuncts: disjuncts}
}

func (o or) Evaluate(model Model) bool {
	for _, d := range o.disjuncts {
		if d.Evaluate(model) {
			return true
		}
	}
	return false
}

func (o or) Formula() string {
	parts := make([]string, len(o.disjuncts))
	for i, d := range o.disjuncts {
		parts[i] = parenthesize(d)
	}
	return strings.Join(parts, " ∨ ")
}

func (o or) Symbols() map[Symbol]struct{} {
	return union(o.disjuncts...)
}

type implication struct {
	antecedent Sentence
	consequent Sentence
}

func Implication(antecedent, consequent Sentence) Sentence {
	return implication{antecedent: antecedent, consequent: consequent}
}

func (im implication) Evaluate(model Model) bool {
	return !im.antecedent.Evaluate(model) || im.consequent.Evaluate(model)
}

func (im implication) Formula() string {
	return parenthesize(im.antecedent) + " => " + parenthesize(im.consequent)
}

func (im implication) Symbols() map[Symbol]struct{} {
	return union(im.antecedent, im.consequent)
}

type biconditional struct {
	left  Sentence
	right Sentence
}

func Biconditional(left, right Sentence) Sentence {
	return biconditional{left: left, right: right}
}

func (b biconditional) Evaluate(model Model) bool {
	return b.left.Evaluate(model) == b.right.Evaluate(model)
}

func (b biconditional) Formula() string {
	return parenthesize(b.left) + " <=> " + parenthesize(b.right)
}

func (b biconditional) Symbols() map[Symbol]struct{} {
	return union(b.left, b.right)
}

// ModelCheck reports whether knowledge entails query: whether the query
// holds in every model that satisfies the knowledge base. It enumerates all
// 2^n assignments of the symbols involved, which is fine at puzzle scale.
func ModelCheck(knowledge, query Sentence) bool {
	set := union(knowledge, query)
	symbols := make([]Symbol, 0, len(set))
	for s := range set {
		symbols = append(symbols, s)
	}
	sort.Slice(symbols, func(i, j int) bool { return symbols[i] < symbols[j] })

	model := make(Model, len(symbols))
	var checkAll func(remaining []Symbol) bool
	checkAll = func(remaining []Symbol) bool {
		if len(remaining) == 0 {
			if knowledge.Evaluate(model) {
				return query.Evaluate(model)
			}
			return true
		}
		first, rest := remaining[0], remaining[1:]
		model[first] = true
		if !checkAll(rest) {
			return false
		}
		model[first] = false
		return checkAll(rest)
	}
	return checkAll(symbols)
}
