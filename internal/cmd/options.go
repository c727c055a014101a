package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// LoginOptions contains options for the login process.
// It provides interactive prompting capabilities and input sources for the
// second-factor confirmation.
type LoginOptions struct {
	// Phone pre-fills the phone number.
	Phone string

	// UseClipboard reads the confirmation link from the clipboard instead of prompting.
	UseClipboard bool

	// UseTUI collects input through terminal forms.
	UseTUI bool

	// Prompt allows the caller to provide interactive input when needed.
	Prompt func(prompt string) (string, error)

	// PromptSecret reads input without echo. Defaults to Prompt when stdin is not a terminal.
	PromptSecret func(prompt string) (string, error)

	// ReadClipboard returns the clipboard contents.
	ReadClipboard func() (string, error)

	// Output receives progress messages. Defaults to stdout.
	Output io.Writer
}

// defaultPrompt reads one line from stdin.
func defaultPrompt() func(prompt string) (string, error) {
	reader := bufio.NewReader(os.Stdin)
	return func(prompt string) (string, error) {
		fmt.Print(prompt)
		value, err := reader.ReadString('\n')
		if err != nil && (err != io.EOF || value == "") {
			return "", err
		}
		return strings.TrimSpace(value), nil
	}
}

// defaultSecretPrompt reads a password without echo when stdin is a terminal.
func defaultSecretPrompt(fallback func(string) (string, error)) func(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return fallback
	}
	return func(prompt string) (string, error) {
		fmt.Print(prompt)
		secret, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", err
		}
		return string(secret), nil
	}
}

func (o *LoginOptions) withDefaults() *LoginOptions {
	out := LoginOptions{}
	if o != nil {
		out = *o
	}
	if out.Prompt == nil {
		out.Prompt = defaultPrompt()
	}
	if out.PromptSecret == nil {
		out.PromptSecret = defaultSecretPrompt(out.Prompt)
	}
	if out.ReadClipboard == nil {
		out.ReadClipboard = readClipboard
	}
	if out.Output == nil {
		out.Output = os.Stdout
	}
	return &out
}
