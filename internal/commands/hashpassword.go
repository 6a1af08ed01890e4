// Package commands holds the CLI subcommands of the tagcal binary.
package commands

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

// PasswordReader prompts for and returns one password.
type PasswordReader func(prompt string) (string, error)

// HashPassword handles the hash-password subcommand.
// It asks for a password twice and writes its bcrypt hash to out, ready to be
// used as AUTH_PASSWORD_HASH.
func HashPassword(args []string, read PasswordReader, out, errOut io.Writer) error {
	fs := flag.NewFlagSet("hash-password", flag.ContinueOnError)
	fs.SetOutput(errOut)
	cost := fs.Int("cost", bcrypt.DefaultCost, "bcrypt cost factor")
	fs.Usage = func() {
		fmt.Fprintf(errOut, "Usage: tagcal hash-password [OPTIONS]\n\n")
		fmt.Fprintf(errOut, "Prints a bcrypt hash for the AUTH_PASSWORD_HASH environment variable.\n\n")
		fmt.Fprintf(errOut, "Options:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *cost < bcrypt.MinCost || *cost > bcrypt.MaxCost {
		return fmt.Errorf("cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	password, err := read("Enter password:   ")
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}
	if password == "" {
		return errors.New("password cannot be empty")
	}
	confirm, err := read("Confirm password: ")
	if err != nil {
		return fmt.Errorf("reading password confirmation: %w", err)
	}
	if password != confirm {
		return errors.New("passwords do not match")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), *cost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	_, err = fmt.Fprintln(out, string(hash))
	return err
}

// TerminalPassword reads a password from stdin without echo. When stdin is
// not a terminal (piped input) it reads one line instead.
func TerminalPassword() PasswordReader {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		reader := bufio.NewReader(os.Stdin)
		return func(string) (string, error) {
			line, err := reader.ReadString('\n')
			if err != nil && !(errors.Is(err, io.EOF) && line != "") {
				return "", err
			}
			return strings.TrimRight(line, "\r\n"), nil
		}
	}
	return func(prompt string) (string, error) {
		fmt.Fprint(os.Stderr, prompt)
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		return string(b), err
	}
}
