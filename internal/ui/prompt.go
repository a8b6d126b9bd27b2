package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrNoInput is returned when the input ends before an answer is read.
var ErrNoInput = errors.New("no input")

// Prompter reads line answers from In and writes questions through UI.
type Prompter struct {
	ui     *UI
	reader *bufio.Reader
}

func NewPrompter(ui *UI, in io.Reader) *Prompter {
	return &Prompter{ui: ui, reader: bufio.NewReader(in)}
}

// Ask prints prompt and returns the trimmed answer.
func (p *Prompter) Ask(prompt string) (string, error) {
	fmt.Fprint(p.ui.Out, prompt)
	line, err := p.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a y/n question. Anything but y or yes is a no.
func (p *Prompter) Confirm(prompt string) (bool, error) {
	answer, err := p.Ask(prompt + " (y/n): ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes", "д", "да":
		return true, nil
	default:
		return false, nil
	}
}

// Choose lists options and returns the zero-based index picked. Invalid
// answers are asked again.
func (p *Prompter) Choose(title string, options []string) (int, error) {
	if len(options) == 0 {
		return -1, errors.New("no options to choose from")
	}
	p.ui.Printf("%s\n", title)
	for i, option := range options {
		p.ui.Printf("%d. %s\n", i+1, option)
	}
	for {
		answer, err := p.Ask("> ")
		if err != nil {
			return -1, err
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
		p.ui.Warnf("Enter a number from 1 to %d.", len(options))
	}
}
