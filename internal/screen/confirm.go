package screen

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirmer guards destructive or state-changing actions behind a
// cancellable prompt. Declining is not an error; the action is skipped.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to the Confirmer interface.
type ConfirmFunc func(prompt string) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(prompt string) bool {
	return f(prompt)
}

// AutoConfirm approves every prompt, for non-interactive runs.
func AutoConfirm() Confirmer {
	return ConfirmFunc(func(string) bool { return true })
}

// PromptConfirmer asks y/n on the given reader/writer pair.
type PromptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPromptConfirmer builds an interactive confirmer.
func NewPromptConfirmer(in io.Reader, out io.Writer) *PromptConfirmer {
	return &PromptConfirmer{in: bufio.NewReader(in), out: out}
}

// Confirm implements Confirmer. Anything other than an explicit yes counts
// as a decline.
func (c *PromptConfirmer) Confirm(prompt string) bool {
	fmt.Fprintf(c.out, "%s [y/N]: ", prompt)
	line, err := c.in.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
