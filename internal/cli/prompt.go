package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// prompter wraps stdin-style line reading for menu interaction.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

// String asks for a free-form line and trims it.
func (p *prompter) String(label string) string {
	fmt.Fprintf(p.out, "%s ", label)
	line, _ := p.in.ReadString('\n')
	return strings.TrimSpace(line)
}

// Decimal re-asks until the input parses as a decimal.
func (p *prompter) Decimal(label string) decimal.Decimal {
	for {
		raw := p.String(label)
		value, err := decimal.NewFromString(raw)
		if err == nil {
			return value
		}
		fmt.Fprintf(p.out, "%q is not a number, try again.\n", raw)
	}
}

// Choice re-asks until the input matches one of the options.
func (p *prompter) Choice(label string, options []string) string {
	for {
		answer := p.String(fmt.Sprintf("%s [%s]", label, strings.Join(options, "/")))
		for _, option := range options {
			if strings.EqualFold(answer, option) {
				return option
			}
		}
		fmt.Fprintf(p.out, "Please answer one of: %s\n", strings.Join(options, ", "))
	}
}

// YesNo asks a y/n question.
func (p *prompter) YesNo(label string) bool {
	return p.Choice(label, []string{"y", "n"}) == "y"
}
