package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/term"
)

// prompter reads answers line by line from the command's input. Secrets
// are read without echo when the input is the terminal.
type prompter struct {
	in  io.Reader
	r   *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: in, r: bufio.NewReader(in), out: out}
}

func (p *prompter) line(label string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", label)
	s, err := p.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", fmt.Errorf("read %s: %w", label, err)
	}
	return strings.TrimSpace(s), nil
}

func (p *prompter) secret(label string) (string, error) {
	f, ok := p.in.(*os.File)
	if !ok || !term.IsTerminal(f.Fd()) {
		return p.line(label)
	}
	fmt.Fprintf(p.out, "%s: ", label)
	b, err := term.ReadPassword(f.Fd())
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", label, err)
	}
	return string(b), nil
}

// confirm asks a yes/no question; anything but y or yes is no.
func (p *prompter) confirm(question string) (bool, error) {
	ans, err := p.line(question + " [y/N]")
	if err != nil {
		return false, err
	}
	ans = strings.ToLower(ans)
	return ans == "y" || ans == "yes", nil
}

// orAsk returns v when set, otherwise prompts for it.
func (p *prompter) orAsk(v, label string) (string, error) {
	if v != "" {
		return v, nil
	}
	return p.line(label)
}
