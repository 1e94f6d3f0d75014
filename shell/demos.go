package shell

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/castell9/gofai/config"
	"github.com/castell9/gofai/heredity"
	"github.com/castell9/gofai/knights"
	"github.com/castell9/gofai/pagerank"
)

func (sc *ShellController) pagerankCmd(cmd *shellcmd) (*Response, error) {
	dir := filepath.Join(sc.config.GetString(config.ConfigDataPath), "corpus")
	if len(cmd.args) > 0 {
		dir = cmd.args[0]
	}
	corpus, err := pagerank.Crawl(dir)
	if err != nil {
		return nil, err
	}
	samples, err := cmd.options.IntDefault("samples", pagerank.DefaultSamples)
	if err != nil {
		return nil, err
	}
	sampled := pagerank.Sample(corpus, pagerank.Damping, samples, sc.rng)
	iterated := pagerank.Iterate(corpus, pagerank.Damping)

	var str strings.Builder
	fmt.Fprintf(&str, "PageRank results from sampling (n = %d)\n", samples)
	for _, page := range corpus.Pages() {
		fmt.Fprintf(&str, "  %s: %.4f\n", page, sampled[page])
	}
	str.WriteString("PageRank results from iteration\n")
	for _, page := range corpus.Pages() {
		fmt.Fprintf(&str, "  %s: %.4f\n", page, iterated[page])
	}
	return msg(strings.TrimRight(str.String(), "\n")), nil
}

func (sc *ShellController) heredityCmd(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("need a family csv, like data/families/family0.csv")
	}
	family, err := heredity.LoadFamilyFile(cmd.args[0])
	if err != nil {
		return nil, err
	}
	posterior := heredity.Compute(family)

	var str strings.Builder
	for _, name := range family.Names() {
		d := posterior[name]
		fmt.Fprintf(&str, "%s:\n", name)
		str.WriteString("  Gene:\n")
		for count := 2; count >= 0; count-- {
			fmt.Fprintf(&str, "    %d: %.4f\n", count, d.Gene[count])
		}
		str.WriteString("  Trait:\n")
		fmt.Fprintf(&str, "    True: %.4f\n", d.Trait[1])
		fmt.Fprintf(&str, "    False: %.4f\n", d.Trait[0])
	}
	return msg(strings.TrimRight(str.String(), "\n")), nil
}

func (sc *ShellController) knightsCmd(cmd *shellcmd) (*Response, error) {
	var str strings.Builder
	for _, p := range knights.Puzzles() {
		fmt.Fprintf(&str, "%s\n", p.Name)
		conclusions := knights.Solve(p)
		if len(conclusions) == 0 {
			str.WriteString("    (nothing can be concluded)\n")
			continue
		}
		for _, s := range conclusions {
			fmt.Fprintf(&str, "    %s\n", s)
		}
	}
	return msg(strings.TrimRight(str.String(), "\n")), nil
}
