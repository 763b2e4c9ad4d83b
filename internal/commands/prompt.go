package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrNoInput is returned when stdin ends before an answer is read.
var ErrNoInput = errors.New("no input")

// readLine prints prompt to ErrOut and reads one line from In.
func (e *Env) readLine(prompt string) (string, error) {
	fmt.Fprint(e.ErrOut, prompt)
	if e.reader == nil {
		e.reader = bufio.NewReader(e.In)
	}
	line, err := e.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", ErrNoInput
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readSecret is readLine without echo when In is a terminal.
func (e *Env) readSecret(prompt string) (string, error) {
	f, ok := e.In.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return e.readLine(prompt)
	}
	fmt.Fprint(e.ErrOut, prompt)
	b, err := term.ReadPassword(int(f.Fd()))
	fmt.Fprintln(e.ErrOut)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// confirm asks a yes/no question. Anything but y or yes is no.
func (e *Env) confirm(question string) (bool, error) {
	answer, err := e.readLine(question + " [y/N] ")
	if err != nil {
		if errors.Is(err, ErrNoInput) {
			return false, nil
		}
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
