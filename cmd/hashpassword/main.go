// Command hashpassword prints a bcrypt hash for ADMIN_PASSWORD_HASH.
//
// Usage:
//
//	echo -n 'new password' | go run ./cmd/hashpassword
//
// The password is read from the first line of stdin so it never shows up
// in the process list or shell history.
package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Riddhikharpe/house-helpers/internal/auth"
)

func main() {
	if err := run(os.Stdin, os.Stdout, auth.NewPasswordService()); err != nil {
		slog.Error("failed to hash password", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(in io.Reader, out io.Writer, passwords *auth.PasswordService) error {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("reading password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return errors.New("empty password on stdin")
	}

	hash, err := passwords.Hash(password)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, hash)
	return err
}
