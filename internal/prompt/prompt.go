// Package prompt collects the secret bundle interactively on the operator's
// terminal. Token and API key are read without echo when stdin is a real
// terminal; piped input falls back to plain line reads.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"

	"imgbotctl/internal/envfile"
	"imgbotctl/internal/provision"
)

// Collector implements provision.SecretSource over stdin/stdout.
type Collector struct {
	In  io.Reader
	Out io.Writer

	reader *bufio.Reader
}

// NewStdio returns a collector bound to the process terminal.
func NewStdio() *Collector {
	return &Collector{In: os.Stdin, Out: os.Stdout}
}

func (c *Collector) Collect(ctx context.Context) (provision.SecretBundle, error) {
	c.reader = bufio.NewReader(c.In)
	var bundle provision.SecretBundle

	token, err := c.askSecret(ctx, "Telegram bot token: ")
	if err != nil {
		return provision.SecretBundle{}, err
	}
	bundle.Token = token

	key, err := c.askSecret(ctx, "OpenAI API key: ")
	if err != nil {
		return provision.SecretBundle{}, err
	}
	bundle.APIKey = key

	id, err := c.askAdminID(ctx)
	if err != nil {
		return provision.SecretBundle{}, err
	}
	bundle.AdminID = id

	model, err := c.ask(ctx, fmt.Sprintf("Model name [%s]: ", provision.DefaultModel))
	if err != nil {
		return provision.SecretBundle{}, err
	}
	if model == "" {
		model = provision.DefaultModel
	}
	if err := envfile.ValidateValue(model); err != nil {
		return provision.SecretBundle{}, fmt.Errorf("model name: %w", err)
	}
	bundle.Model = model

	return bundle, nil
}

// ask reads one line, trimming the trailing newline (and CR for CRLF input).
func (c *Collector) ask(ctx context.Context, label string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(c.Out, label)
	line, err := c.reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// askSecret re-prompts until a non-empty value is entered. On a terminal the
// value is read with echo disabled.
func (c *Collector) askSecret(ctx context.Context, label string) (string, error) {
	for {
		var value string
		if f, ok := c.In.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			if err := ctx.Err(); err != nil {
				return "", err
			}
			fmt.Fprint(c.Out, label)
			raw, err := term.ReadPassword(int(f.Fd()))
			fmt.Fprintln(c.Out)
			if err != nil {
				return "", fmt.Errorf("read secret: %w", err)
			}
			value = strings.TrimSpace(string(raw))
		} else {
			line, err := c.ask(ctx, label)
			if err != nil {
				return "", err
			}
			value = strings.TrimSpace(line)
		}
		if value == "" {
			fmt.Fprintln(c.Out, "a value is required")
			continue
		}
		if err := envfile.ValidateValue(value); err != nil {
			fmt.Fprintf(c.Out, "invalid value: %v\n", err)
			continue
		}
		return value, nil
	}
}

func (c *Collector) askAdminID(ctx context.Context) (int64, error) {
	for {
		line, err := c.ask(ctx, "Admin Telegram ID (numeric): ")
		if err != nil {
			return 0, err
		}
		id, perr := strconv.ParseInt(strings.TrimSpace(line), 10, 64)
		if perr != nil {
			fmt.Fprintf(c.Out, "%q is not an integer\n", strings.TrimSpace(line))
			continue
		}
		return id, nil
	}
}
