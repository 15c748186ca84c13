// Command jsonedit inspects and edits flat JSON documents from the shell.
//
// Edits are merged into the file on save, so keys changed by other programs
// in the meantime are kept. Removing a key rewrites the file in full.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"

	"github.com/calumari/jsonedit"
)

const usage = `usage: jsonedit [flags] <command> <file> [args]

commands:
  show  <file>               print the document
  get   <file> <key>         print one value
  add   <file> <key> <value> add a key that must not exist yet
  set   <file> <key> <value> create or replace a key
  rm    <file> <key>         remove a key, rewriting the file
  merge <dst> <src>          merge the keys of src into dst
  watch <file>               print the document every time it changes

Values are parsed as JSON; anything else is stored as a string.

flags:
`

func main() {
	if err := mainImpl(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "jsonedit: %v\n", err)
		os.Exit(1)
	}
}

func mainImpl() error {
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	format := flag.String("format", "json", "Output format for show, get and watch (json, yaml)")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	// Environment applies only to flags not set explicitly.
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	if !set["log-level"] {
		if v := os.Getenv("JSONEDIT_LOG_LEVEL"); v != "" {
			*logLevel = v
		}
	}
	if !set["format"] {
		if v := os.Getenv("JSONEDIT_FORMAT"); v != "" {
			*format = v
		}
	}

	ll := &slog.LevelVar{}
	if err := ll.UnmarshalText([]byte(*logLevel)); err != nil {
		return fmt.Errorf("invalid -log-level %q: %w", *logLevel, err)
	}
	logger := slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      ll,
		TimeFormat: "15:04:05.000",
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}))
	slog.SetDefault(logger)

	p, err := newPrinter(*format, os.Stdout)
	if err != nil {
		return err
	}
	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		return errors.New("missing command")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return run(ctx, p, args[0], args[1:])
}

// run executes one command. args excludes the command name.
func run(ctx context.Context, p *printer, cmd string, args []string) error {
	want := map[string]int{"show": 1, "get": 2, "add": 3, "set": 3, "rm": 2, "merge": 2, "watch": 1}
	n, ok := want[cmd]
	if !ok {
		return fmt.Errorf("unknown command %q", cmd)
	}
	if len(args) != n {
		return fmt.Errorf("%s: expected %d arguments, got %d", cmd, n, len(args))
	}
	path := args[0]

	switch cmd {
	case "show":
		e, err := jsonedit.Open(path)
		if err != nil {
			return err
		}
		return p.print(e.Root())
	case "get":
		e, err := jsonedit.Open(path)
		if err != nil {
			return err
		}
		v, ok := e.Get(args[1])
		if !ok {
			return fmt.Errorf("get %q key %q: %w", path, args[1], jsonedit.ErrKeyNotFound)
		}
		return p.print(v)
	case "add", "set":
		e, err := openOrNew(ctx, path)
		if err != nil {
			return err
		}
		v := parseValue(args[2])
		if cmd == "add" {
			if err := e.Add(args[1], v); err != nil {
				return err
			}
		} else {
			e.Update(args[1], v)
		}
		if err := e.Save(path); err != nil {
			return err
		}
		slog.DebugContext(ctx, "Saved", "path", path, "key", args[1])
		return nil
	case "rm":
		e, err := jsonedit.Open(path)
		if err != nil {
			return err
		}
		if err := e.Remove(args[1]); err != nil {
			return err
		}
		slog.DebugContext(ctx, "Removed", "path", path, "key", args[1])
		return nil
	case "merge":
		e, err := jsonedit.Open(args[1])
		if err != nil {
			return err
		}
		if err := e.Save(path); err != nil {
			return err
		}
		slog.DebugContext(ctx, "Merged", "dst", path, "src", args[1], "keys", e.Len())
		return nil
	default: // watch
		return watch(ctx, path, func(e *jsonedit.Editor) error {
			return p.print(e.Root())
		})
	}
}

// openOrNew opens path, starting from an empty document when it does not
// exist yet.
func openOrNew(ctx context.Context, path string) (*jsonedit.Editor, error) {
	e, err := jsonedit.Open(path)
	if errors.Is(err, jsonedit.ErrNotFound) {
		slog.InfoContext(ctx, "Creating new document", "path", path)
		return jsonedit.New(path), nil
	}
	return e, err
}

// parseValue decodes s as JSON, falling back to the raw string.
func parseValue(s string) any {
	v, err := jsonedit.Decode([]byte(s))
	if err != nil {
		return s
	}
	return v
}

type printer struct {
	w      io.Writer
	encode func(w io.Writer, v any) error
}

func newPrinter(format string, w io.Writer) (*printer, error) {
	switch format {
	case "json":
		return &printer{w: w, encode: encodeJSON}, nil
	case "yaml":
		return &printer{w: w, encode: encodeYAML}, nil
	}
	return nil, fmt.Errorf("unknown format %q", format)
}

func (p *printer) print(v any) error {
	return p.encode(p.w, v)
}

func encodeJSON(w io.Writer, v any) error {
	b, err := jsonedit.Encode(v)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
