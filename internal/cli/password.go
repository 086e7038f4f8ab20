package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"timeline/internal/auth"
	apperrors "timeline/internal/errors"
)

func (c *CLI) hashPasswordCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password",
		Short: "Create an Argon2id hash for basic_auth.password_hash",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, err := c.readPassword("Enter password:   ")
			if err != nil {
				return err
			}
			confirm, err := c.readPassword("Confirm password: ")
			if err != nil {
				return err
			}
			if password == "" {
				return apperrors.New(apperrors.ErrCodeInvalidInput, "password cannot be empty")
			}
			if password != confirm {
				return apperrors.New(apperrors.ErrCodeInvalidInput, "passwords do not match")
			}

			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			c.printKeyValue("password_hash", hash)
			return nil
		},
	}
}

// readPasswordMasked reads a password and echoes asterisks. When stdin is
// not a terminal it reads one line instead.
func (c *CLI) readPasswordMasked(prompt string) (string, error) {
	fmt.Fprint(c.out, prompt)

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		line, err := c.in.ReadString('\n')
		if err != nil && line == "" {
			return "", apperrors.Wrap(apperrors.ErrCodeInvalidInput, err, "read password")
		}
		fmt.Fprintln(c.out)
		return trimNewline(line), nil
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		// Fall back to hidden input.
		password, err := term.ReadPassword(fd)
		fmt.Fprintln(c.out)
		return string(password), err
	}
	defer term.Restore(fd, oldState)

	var password []rune
	for {
		ch, _, err := c.in.ReadRune()
		if err != nil {
			break
		}
		switch ch {
		case '\n', '\r':
			fmt.Fprint(c.out, "\r\n")
			return string(password), nil
		case 127, 8: // Backspace or Delete
			if len(password) > 0 {
				password = password[:len(password)-1]
				fmt.Fprint(c.out, "\b \b")
			}
		case 3: // Ctrl+C
			fmt.Fprint(c.out, "\r\n")
			return "", apperrors.New(apperrors.ErrCodeInvalidInput, "interrupted")
		default:
			if ch >= 32 {
				password = append(password, ch)
				fmt.Fprint(c.out, "*")
			}
		}
	}
	fmt.Fprint(c.out, "\r\n")
	return string(password), nil
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
