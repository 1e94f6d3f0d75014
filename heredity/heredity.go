// Package heredity infers gene and trait probabilities for members of a
// family from observed traits. Each person carries 0, 1 or 2 copies of the
// gene, children inherit one copy from each parent with a small mutation
// chance, and the gene influences whether the trait shows. Inference is by
// full enumeration of every gene/trait configuration consistent with the
// observations.
package heredity

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"

	"gonum.org/v1/gonum/stat/combin"
)

// MutationProb is the chance a copy of the gene mutates on inheritance,
// turning into the other variant.
const MutationProb = 0.01

// geneProb[g] is the prior for carrying g copies, for a person with no
// listed parents.
var geneProb = [3]float64{0.96, 0.03, 0.01}

// traitProb[g][t] is the probability of showing (t=1) or not showing (t=0)
// the trait given g copies of the gene.
var traitProb = [3][2]float64{
	{0.99, 0.01},
	{0.44, 0.56},
	{0.35, 0.65},
}

type TraitObservation int

const (
	TraitUnknown TraitObservation = iota
	TraitAbsent
	TraitPresent
)

type Person struct {
	Name   string
	Mother string
	Father string
	Trait  TraitObservation
}

// A Family maps each person's name to their record. Parents are either
// both listed and present in the family, or both absent.
type Family map[string]Person

// Names returns the family members sorted by name.
func (f Family) Names() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadFamily reads a family from CSV with columns name, mother, father and
// trait. The trait column holds 1, 0, or nothing for unobserved.
func LoadFamily(r io.Reader) (Family, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading csv header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range []string{"name", "mother", "father", "trait"} {
		if _, ok := col[required]; !ok {
			return nil, fmt.Errorf("csv is missing a %v column", required)
		}
	}

	family := make(Family)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		p := Person{
			Name:   record[col["name"]],
			Mother: record[col["mother"]],
			Father: record[col["father"]],
		}
		switch record[col["trait"]] {
		case "1":
			p.Trait = TraitPresent
		case "0":
			p.Trait = TraitAbsent
		case "":
			p.Trait = TraitUnknown
		default:
			return nil, fmt.Errorf("person %v: bad trait %q", p.Name, record[col["trait"]])
		}
		if p.Name == "" {
			return nil, fmt.Errorf("person with empty name")
		}
		family[p.Name] = p
	}

	for _, p := range family {
		if (p.Mother == "") != (p.Father == "") {
			return nil, fmt.Errorf("person %v must have both parents or neither", p.Name)
		}
		for _, parent := range []string{p.Mother, p.Father} {
			if parent == "" {
				continue
			}
			if _, ok := family[parent]; !ok {
				return nil, fmt.Errorf("person %v: unknown parent %v", p.Name, parent)
			}
		}
	}
	return family, nil
}

func LoadFamilyFile(path string) (Family, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadFamily(f)
}

// Distribution is the posterior for one person: Gene[g] is the probability
// of carrying g copies, Trait[1] the probability of showing the trait.
type Distribution struct {
	Gene  [3]float64
	Trait [2]float64
}

// inheritProb is the chance a parent with the given gene count passes a
// copy on, mutation included.
func inheritProb(parentGenes int) float64 {
	switch parentGenes {
	case 2:
		return 1 - MutationProb
	case 1:
		return 0.5
	default:
		return MutationProb
	}
}

func geneCount(name string, oneGene, twoGenes map[string]bool) int {
	switch {
	case twoGenes[name]:
		return 2
	case oneGene[name]:
		return 1
	default:
		return 0
	}
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return set
}

// JointProbability computes the probability that exactly the people in
// oneGene carry one copy, those in twoGenes carry two, everyone else none,
// and exactly the people in haveTrait show the trait.
func JointProbability(family Family, oneGene, twoGenes, haveTrait []string) float64 {
	one, two, trait := toSet(oneGene), toSet(twoGenes), toSet(haveTrait)

	p := 1.0
	for name, person := range family {
		genes := geneCount(name, one, two)

		var geneP float64
		if person.Mother == "" {
			geneP = geneProb[genes]
		} else {
			fromMom := inheritProb(geneCount(person.Mother, one, two))
			fromDad := inheritProb(geneCount(person.Father, one, two))
			switch genes {
			case 2:
				geneP = fromMom * fromDad
			case 1:
				geneP = fromMom*(1-fromDad) + (1-fromMom)*fromDad
			default:
				geneP = (1 - fromMom) * (1 - fromDad)
			}
		}

		t := 0
		if trait[name] {
			t = 1
		}
		p *= geneP * traitProb[genes][t]
	}
	return p
}

// subsets enumerates every subset of names, the empty set first.
func subsets(names []string) [][]string {
	sets := [][]string{nil}
	for k := 1; k <= len(names); k++ {
		for _, idxs := range combin.Combinations(len(names), k) {
			s := make([]string, len(idxs))
			for i, idx := range idxs {
				s[i] = names[idx]
			}
			sets = append(sets, s)
		}
	}
	return sets
}

// violatesEvidence reports whether a trait assignment contradicts an
// observed trait.
func violatesEvidence(family Family, haveTrait map[string]bool) bool {
	for name, person := range family {
		switch person.Trait {
		case TraitPresent:
			if !haveTrait[name] {
				return true
			}
		case TraitAbsent:
			if haveTrait[name] {
				return true
			}
		}
	}
	return false
}

// Compute returns the posterior gene and trait distribution for every
// family member given the observed traits.
func Compute(family Family) map[string]Distribution {
	names := family.Names()
	posterior := make(map[string]Distribution, len(names))
	for _, name := range names {
		posterior[name] = Distribution{}
	}

	for _, haveTrait := range subsets(names) {
		traitSet := toSet(haveTrait)
		if violatesEvidence(family, traitSet) {
			continue
		}
		for _, oneGene := range subsets(names) {
			oneSet := toSet(oneGene)
			var rest []string
			for _, name := range names {
				if !oneSet[name] {
					rest = append(rest, name)
				}
			}
			for _, twoGenes := range subsets(rest) {
				twoSet := toSet(twoGenes)
				p := JointProbability(family, oneGene, twoGenes, haveTrait)
				for _, name := range names {
					d := posterior[name]
					d.Gene[geneCount(name, oneSet, twoSet)] += p
					t := 0
					if traitSet[name] {
						t = 1
					}
					d.Trait[t] += p
					posterior[name] = d
				}
			}
		}
	}

	for _, name := range names {
		d := posterior[name]
		geneTotal := d.Gene[0] + d.Gene[1] + d.Gene[2]
		traitTotal := d.Trait[0] + d.Trait[1]
		if geneTotal > 0 {
			for g := range d.Gene {
				d.Gene[g] /= geneTotal
			}
		}
		if traitTotal > 0 {
			for t := range d.Trait {
				d.Trait[t] /= traitTotal
			}
		}
		posterior[name] = d
	}
	return posterior
}
