package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(question string) (bool, error)
}

// StreamConfirmer reads a single answer line from In. Only "y" or "Y"
// confirms; anything else, including end of input, declines.
type StreamConfirmer struct {
	In  io.Reader
	Out io.Writer
}

func NewStreamConfirmer(in io.Reader, out io.Writer) *StreamConfirmer {
	return &StreamConfirmer{In: in, Out: out}
}

func (c *StreamConfirmer) Confirm(question string) (bool, error) {
	fmt.Fprintf(c.Out, "%s (y/N) ", question)

	answer, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}

	answer = strings.TrimSpace(answer)
	if errors.Is(err, io.EOF) && answer == "" {
		fmt.Fprintln(c.Out)
	}

	return answer == "y" || answer == "Y", nil
}

// AutoConfirmer answers every question with Answer without prompting.
type AutoConfirmer struct {
	Answer bool
}

func (c AutoConfirmer) Confirm(string) (bool, error) {
	return c.Answer, nil
}
