// Package knights solves Knights and Knaves puzzles by model checking.
// Every inhabitant is either a knight, who always tells the truth, or a
// knave, who always lies; the puzzle is to work out who is which from what
// they say.
package knights

import "github.com/castell9/gofai/logic"

var (
	AKnight = logic.Symbol("A is a Knight")
	AKnave  = logic.Symbol("A is a Knave")
	BKnight = logic.Symbol("B is a Knight")
	BKnave  = logic.Symbol("B is a Knave")
	CKnight = logic.Symbol("C is a Knight")
	CKnave  = logic.Symbol("C is a Knave")
)

// allSymbols is the order conclusions are reported in.
var allSymbols = []logic.Symbol{
	AKnight, AKnave, BKnight, BKnave, CKnight, CKnave,
}

// generalKnowledge: each character is a knight or a knave, never both.
func generalKnowledge() logic.Sentence {
	return logic.And(
		logic.Or(AKnight, AKnave),
		logic.Not(logic.And(AKnight, AKnave)),
		logic.Or(BKnight, BKnave),
		logic.Not(logic.And(BKnight, BKnave)),
		logic.Or(CKnight, CKnave),
		logic.Not(logic.And(CKnight, CKnave)),
	)
}

// said encodes a character's statement: a knight means it, a knave lies.
func said(knight, knave logic.Symbol, statement logic.Sentence) logic.Sentence {
	return logic.And(
		logic.Implication(knight, statement),
		logic.Implication(knave, logic.Not(statement)),
	)
}

type Puzzle struct {
	Name        string
	Description string
	Knowledge   logic.Sentence
}

func Puzzles() []Puzzle {
	return []Puzzle{
		{
			Name:        "Puzzle 0",
			Description: `A says "I am both a knight and a knave."`,
			Knowledge: logic.And(
				generalKnowledge(),
				said(AKnight, AKnave, logic.And(AKnight, AKnave)),
			),
		},
		{
			Name:        "Puzzle 1",
			Description: `A says "We are both knaves." B says nothing.`,
			Knowledge: logic.And(
				generalKnowledge(),
				said(AKnight, AKnave, logic.And(AKnave, BKnave)),
			),
		},
		{
			Name: "Puzzle 2",
			Description: `A says "We are the same kind." ` +
				`B says "We are of different kinds."`,
			Knowledge: logic.And(
				generalKnowledge(),
				said(AKnight, AKnave,
					logic.Or(logic.And(AKnight, BKnight), logic.And(AKnave, BKnave))),
				said(BKnight, BKnave,
					logic.Or(logic.And(AKnight, BKnave), logic.And(AKnave, BKnight))),
			),
		},
		{
			Name: "Puzzle 3",
			Description: `A says either "I am a knight." or "I am a knave.", ` +
				`but you don't know which. B says "A said 'I am a knave'." ` +
				`B says "C is a knave." C says "A is a knight."`,
			Knowledge: logic.And(
				generalKnowledge(),
				// Whichever sentence A spoke, A spoke it as a knight or knave.
				logic.Or(
					said(AKnight, AKnave, AKnight),
					said(AKnight, AKnave, AKnave),
				),
				// If B tells the truth, A claimed to be a knave. A knight would
				// never say that, so A saying it means A is a knave.
				said(BKnight, BKnave, said(AKnight, AKnave, AKnave)),
				said(BKnight, BKnave, CKnave),
				said(CKnight, CKnave, AKnight),
			),
		},
	}
}

// Solve returns the conclusions the puzzle's knowledge entails.
func Solve(p Puzzle) []logic.Symbol {
	var entailed []logic.Symbol
	for _, s := range allSymbols {
		if logic.ModelCheck(p.Knowledge, s) {
			entailed = append(entailed, s)
		}
	}
	return entailed
}
