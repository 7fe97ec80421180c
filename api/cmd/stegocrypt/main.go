// stegocrypt is the command line front end to the stego pipeline. It runs the
// same capacity, encode and decode operations as the HTTP API against files on
// disk.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/irgordon/stegocrypt/api/internal/core/services"
	"github.com/irgordon/stegocrypt/api/internal/infrastructure/crypto"
)

// usageError marks bad invocations so main can exit with status 2.
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }
func (e *usageError) ExitCode() int { return 2 }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		os.Exit(1)
	}
}

type options struct {
	input       string
	output      string
	message     string
	password    string
	passwordEnv string
	verbose     bool
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		printHelp(stderr)
		return usagef("missing command")
	}
	command, rest := args[0], args[1:]
	if command == "help" || command == "-h" || command == "--help" {
		printHelp(stdout)
		return nil
	}

	var opts options
	flagSet := pflag.NewFlagSet("stegocrypt "+command, pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVarP(&opts.input, "input", "i", "", "cover or stego image (png, bmp, jpeg, gif)")
	flagSet.BoolVarP(&opts.verbose, "verbose", "v", false, "log pipeline details to stderr")
	switch command {
	case "capacity":
	case "encode":
		flagSet.StringVarP(&opts.output, "output", "o", "", "where to write the stego PNG")
		flagSet.StringVarP(&opts.message, "message", "m", "", "message to hide")
		fallthrough
	case "decode":
		flagSet.StringVarP(&opts.password, "password", "p", "", "password for the AES-256 envelope")
		flagSet.StringVar(&opts.passwordEnv, "password-env", "", "read the password from this environment variable")
	default:
		printHelp(stderr)
		return usagef("unknown command %q", command)
	}

	if err := flagSet.Parse(rest); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return usagef("%v", err)
	}
	if flagSet.NArg() > 0 {
		return usagef("unexpected argument: %s", flagSet.Arg(0))
	}
	if opts.input == "" {
		return usagef("--input is required")
	}
	if opts.passwordEnv != "" {
		if opts.password != "" {
			return usagef("--password and --password-env are mutually exclusive")
		}
		pw, ok := os.LookupEnv(opts.passwordEnv)
		if !ok || strings.TrimSpace(pw) == "" {
			return usagef("environment variable %s is unset or blank", opts.passwordEnv)
		}
		opts.password = pw
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	svc := services.NewStegoService(crypto.NewPasswordEnvelope(), 0, logger)

	image, err := os.ReadFile(opts.input)
	if err != nil {
		return err
	}

	switch command {
	case "capacity":
		capacity, err := svc.Capacity(ctx, image)
		if err != nil {
			return err
		}
		return writeJSON(stdout, capacity)

	case "encode":
		if opts.output == "" {
			return usagef("--output is required")
		}
		if opts.message == "" {
			return usagef("--message is required")
		}
		result, err := svc.Encode(ctx, image, opts.message, opts.password)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.output, result.Image, 0o644); err != nil {
			return err
		}
		return writeJSON(stdout, result)

	default:
		result, err := svc.Decode(ctx, image, opts.password)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, result.Message)
		return err
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printHelp(w io.Writer) {
	fmt.Fprint(w, `stegocrypt hides text in the least significant bits of an image.

Usage:
  stegocrypt capacity -i cover.png
  stegocrypt encode   -i cover.jpg -o stego.png -m "text" [-p password | --password-env VAR]
  stegocrypt decode   -i stego.png [-p password | --password-env VAR]

Encoded images are always written as PNG. Run "stegocrypt <command> --help"
for the flags of a command.
`)
}
