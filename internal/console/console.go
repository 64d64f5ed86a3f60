// Package console is the interactive terminal shell for the interview:
// agent output to stdout, one line of candidate input per turn.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
)

// Terminal reads candidate replies with promptui and prints agent turns
// to a writer.
type Terminal struct {
	out io.Writer
}

// New creates a Terminal writing to stdout.
func New() *Terminal {
	return &Terminal{out: os.Stdout}
}

// NewWithWriter creates a Terminal writing to the given writer. Used in
// tests and demos.
func NewWithWriter(out io.Writer) *Terminal {
	return &Terminal{out: out}
}

// Say prints one agent turn followed by a blank line so turns stay
// visually separated.
func (t *Terminal) Say(text string) {
	fmt.Fprintln(t.out, text)
	fmt.Fprintln(t.out)
}

// Read blocks for one line of candidate input. Free text is allowed,
// including the empty string, since a silent candidate is a valid
// (zero-scored) answer.
func (t *Terminal) Read() (string, error) {
	prompt := promptui.Prompt{
		Label:       "Bạn",
		HideEntered: false,
		Templates: &promptui.PromptTemplates{
			Prompt:  "{{ . }} > ",
			Valid:   "{{ . }} > ",
			Invalid: "{{ . }} > ",
			Success: "{{ . }} > ",
		},
	}

	reply, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(reply), nil
}
