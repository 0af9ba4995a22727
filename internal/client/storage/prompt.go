package storage

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// Prompter asks the user for input line by line.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
	// readPassword reads a secret without echo; nil falls back to Line.
	readPassword func() (string, error)
}

// NewPrompter reads answers from in and writes questions to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// NewTerminalPrompter uses stdin/stdout and hides passwords when stdin is a terminal.
func NewTerminalPrompter() *Prompter {
	p := NewPrompter(os.Stdin, os.Stdout)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		p.readPassword = func() (string, error) {
			b, err := term.ReadPassword(fd)
			fmt.Fprintln(p.out)
			return string(b), err
		}
	}
	return p
}

// Line prints label and returns the trimmed answer. It returns io.EOF once
// input is exhausted.
func (p *Prompter) Line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}

// Password is like Line but does not echo on a terminal.
func (p *Prompter) Password(label string) (string, error) {
	if p.readPassword == nil {
		return p.Line(label)
	}
	fmt.Fprint(p.out, label)
	return p.readPassword()
}

// Int asks for a non-negative number. An empty answer yields def.
func (p *Prompter) Int(label string, def int) (int, error) {
	ans, err := p.Line(label)
	if err != nil {
		return 0, err
	}
	if ans == "" {
		return def, nil
	}
	n, err := strconv.Atoi(ans)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%q is not a non-negative number", ans)
	}
	return n, nil
}

// Credentials holds what register and login ask for.
type Credentials struct {
	Name     string
	Email    string
	Password string
}

// PromptCredentials asks for email and password, and for a display name
// when withName is set.
func PromptCredentials(p *Prompter, withName bool) (Credentials, error) {
	var c Credentials
	var err error
	if withName {
		if c.Name, err = p.Line("Name: "); err != nil {
			return c, err
		}
	}
	if c.Email, err = p.Line("Email: "); err != nil {
		return c, err
	}
	if c.Password, err = p.Password("Password: "); err != nil {
		return c, err
	}
	return c, nil
}
