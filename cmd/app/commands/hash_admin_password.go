package commands

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	authService "github.com/allisson/genproxy/internal/auth/service"
)

// RunHashAdminPassword hashes the administrator password with Argon2id and prints
// the ADMIN_PASSWORD_HASH line. An empty password is read from the first line of
// the reader so it never appears in the shell history.
func RunHashAdminPassword(password string, io IOTuple) error {
	if password == "" {
		_, _ = fmt.Fprint(io.Writer, "Enter admin password: ")
		line, err := bufio.NewReader(io.Reader).ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
		_, _ = fmt.Fprintln(io.Writer)
	}

	if password == "" {
		return errors.New("password cannot be empty")
	}

	hash, err := authService.HashSecret(password)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(io.Writer, "ADMIN_PASSWORD_HASH='%s'\n", hash)
	return nil
}
