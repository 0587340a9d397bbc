// Package resolve implements discrepancy resolution policies for the sync
// pipeline. Every discrepancy boils down to one or two yes/no questions; a
// Policy answers them either from a fixed automatic rule or by asking the
// user at the terminal.
package resolve

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Policy answers the resolution questions the syncer asks about each
// discrepancy. Implementations must be safe to call sequentially for the
// whole run; none of the methods return errors — a policy always produces
// an answer.
type Policy interface {
	// ConfirmTranslate asks whether to fill a gap by translating
	// (add a missing key/file, or adopt an extra one). Default: yes.
	ConfirmTranslate(prompt string) bool
	// ConfirmRemove asks the follow-up "remove instead?" question after a
	// declined ConfirmTranslate. Default: no.
	ConfirmRemove(prompt string) bool
	// ConfirmAlignToBase asks whether to overwrite a shape-mismatched
	// target value to match the base. Default: yes, in every mode.
	ConfirmAlignToBase(prompt string) bool
	// ConfirmAlignToTarget asks the follow-up whether to overwrite the
	// base value from the target instead. Default: no.
	ConfirmAlignToTarget(prompt string) bool
}

// Auto resolves every discrepancy without blocking. PreferRemove flips the
// tie-break: instead of translating gaps shut, surplus material is deleted.
// Shape mismatches always align the target to the base regardless of
// PreferRemove, and never touch the base.
type Auto struct {
	PreferRemove bool
}

func (a Auto) ConfirmTranslate(string) bool     { return !a.PreferRemove }
func (a Auto) ConfirmRemove(string) bool        { return a.PreferRemove }
func (a Auto) ConfirmAlignToBase(string) bool   { return true }
func (a Auto) ConfirmAlignToTarget(string) bool { return false }

// Interactive asks the user at the terminal and blocks until answered.
type Interactive struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewInteractive builds an interactive policy reading answers from in
// (normally os.Stdin) and writing prompts to out (normally os.Stderr).
func NewInteractive(in io.Reader, out io.Writer) *Interactive {
	return &Interactive{scanner: bufio.NewScanner(in), out: out}
}

func (p *Interactive) ConfirmTranslate(prompt string) bool {
	return p.ask(prompt, true)
}

func (p *Interactive) ConfirmRemove(prompt string) bool {
	return p.ask(prompt, false)
}

func (p *Interactive) ConfirmAlignToBase(prompt string) bool {
	return p.ask(prompt, true)
}

func (p *Interactive) ConfirmAlignToTarget(prompt string) bool {
	return p.ask(prompt, false)
}

// ask prints "prompt [Y/n]" (or "[y/N]") and reads one line. Empty input
// or EOF selects the default; anything not recognizably yes/no is re-asked.
func (p *Interactive) ask(prompt string, defaultYes bool) bool {
	suffix := "[y/N]"
	if defaultYes {
		suffix = "[Y/n]"
	}

	for {
		fmt.Fprintf(p.out, "%s %s ", prompt, suffix)
		if !p.scanner.Scan() {
			return defaultYes
		}
		switch strings.ToLower(strings.TrimSpace(p.scanner.Text())) {
		case "":
			return defaultYes
		case "y", "yes":
			return true
		case "n", "no":
			return false
		}
		fmt.Fprintln(p.out, "Please answer y or n.")
	}
}
