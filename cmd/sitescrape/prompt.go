package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/sitescrape/internal/config"
)

// errInputClosed is returned when stdin ends before a prompt is answered.
var errInputClosed = errors.New("input closed before all questions were answered")

// prompter asks the interactive questions used when crawl gets no URL.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewScanner(in), out: out}
}

// line prints question and returns the trimmed answer.
func (p *prompter) line(question string) (string, error) {
	fmt.Fprint(p.out, question)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", errInputClosed
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// intInRange asks until the answer is empty (def) or a number in [lo, hi].
func (p *prompter) intInRange(question string, def, lo, hi int) (int, error) {
	for {
		answer, err := p.line(question)
		if err != nil {
			return 0, err
		}
		if answer == "" {
			return def, nil
		}

		n, err := strconv.Atoi(answer)
		if err != nil {
			fmt.Fprintln(p.out, "Vänligen ange ett giltigt nummer")
			continue
		}
		if n < lo || n > hi {
			fmt.Fprintf(p.out, "Vänligen ange ett nummer mellan %d och %d\n", lo, hi)
			continue
		}
		return n, nil
	}
}

// ask fills the target URL and both budgets of cfg.
func (p *prompter) ask(cfg *config.Config) error {
	target, err := p.line("Ange URL att skrapa (t.ex. www.example.com): ")
	if err != nil {
		return err
	}
	if target != "" {
		cfg.Targets = []string{target}
	}

	cfg.MaxDepth, err = p.intInRange(
		fmt.Sprintf("Ange maximalt skrapningsdjup (%d-%d) [default=%d]: ",
			config.MinMaxDepth, config.DefaultMaxDepth, config.DefaultMaxDepth),
		config.DefaultMaxDepth, config.MinMaxDepth, config.DefaultMaxDepth,
	)
	if err != nil {
		return err
	}

	cfg.MaxPages, err = p.intInRange(
		fmt.Sprintf("Ange maximalt antal sidor att skrapa (%d-%d) [default=%d]: ",
			config.MinMaxPages, config.DefaultMaxPages, config.DefaultMaxPages),
		config.DefaultMaxPages, config.MinMaxPages, config.DefaultMaxPages,
	)
	return err
}
