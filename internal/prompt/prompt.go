// Package prompt reads month bounds from an interactive terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/i474232898/weather-diary/internal/weather"
)

// ErrNoInput is returned when input ends before a valid month was read.
var ErrNoInput = errors.New("no month entered")

type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// Month asks for a month in MM.YYYY form until the answer parses.
func (p *Prompter) Month(label string) (weather.MonthQuery, error) {
	for {
		fmt.Fprintf(p.out, "%s (MM.YYYY): ", label)
		if !p.in.Scan() {
			if err := p.in.Err(); err != nil {
				return weather.MonthQuery{}, err
			}
			return weather.MonthQuery{}, ErrNoInput
		}

		q, err := weather.ParseMonth(strings.TrimSpace(p.in.Text()))
		if err == nil {
			return q, nil
		}
		fmt.Fprintln(p.out, "Invalid date format. Please use MM.YYYY (for example 01.2001).")
	}
}
