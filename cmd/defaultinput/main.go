package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	json "github.com/goccy/go-json"

	di "github.com/reoring/defaultinput"
	"github.com/reoring/defaultinput/i18n"
	"github.com/reoring/defaultinput/schemefile"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

const usageText = `defaultinput CLI

Usage:
  defaultinput [-config file] [-log-level level] <command> [flags]

Commands:
  apply -scheme S [-in I]          apply a JSON scheme to one JSON argument
  apply -table T -id ID [-in I]    apply registered defaults to a JSON argument list
  flatten -scheme S                print the leaf paths of a scheme
  jsonschema -scheme S             print the JSON Schema projection of a scheme
  check -table T                   validate a scheme table and summarize it

-in defaults to stdin; "-" also means stdin.`

// errUsage marks errors that should exit with status 2.
var errUsage = errors.New("usage")

type cli struct {
	cfg    Config
	logger *log.Logger
	stdin  io.Reader
	stdout io.Writer
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("defaultinput", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { fmt.Fprintln(stderr, usageText) }
	configPath := global.String("config", "", "path to defaultinput.toml")
	logLevel := global.String("log-level", "", "override log level (debug, info, warn, error)")
	if err := global.Parse(args); err != nil {
		return 2
	}
	if global.NArg() == 0 {
		global.Usage()
		return 2
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	i18n.SetLanguage(cfg.Language)
	c := &cli{cfg: cfg, logger: newLogger(stderr, cfg), stdin: stdin, stdout: stdout}

	sub, rest := global.Arg(0), global.Args()[1:]
	var cmdErr error
	switch sub {
	case "apply":
		cmdErr = c.apply(rest)
	case "flatten":
		cmdErr = c.flatten(rest)
	case "jsonschema":
		cmdErr = c.jsonSchema(rest)
	case "check":
		cmdErr = c.check(rest)
	default:
		global.Usage()
		return 2
	}
	switch {
	case cmdErr == nil:
		return 0
	case errors.Is(cmdErr, errUsage):
		return 2
	default:
		c.reportError(sub, cmdErr)
		return 1
	}
}

func (c *cli) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func (c *cli) apply(args []string) error {
	fs := c.flagSet("apply")
	schemePath := fs.String("scheme", "", "JSON scheme file")
	tablePath := fs.String("table", "", "scheme table file (.yaml, .json, .toml)")
	id := fs.String("id", "", "callable identity inside -table")
	in := fs.String("in", "-", "JSON input file")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}

	switch {
	case *schemePath != "" && *tablePath == "":
		s, err := c.readScheme(*schemePath)
		if err != nil {
			return err
		}
		arg, err := c.readInput(*in)
		if err != nil {
			return err
		}
		dm, err := di.ApplyArgWithMeta(arg, s)
		if err != nil {
			return err
		}
		c.logger.Debug("applied scheme", "scheme", *schemePath, "defaulted", dm.Presence.Defaulted())
		return c.writeJSON(dm.Value)

	case *tablePath != "" && *id != "" && *schemePath == "":
		tbl, err := schemefile.Load(*tablePath)
		if err != nil {
			return err
		}
		r := di.NewRegistry()
		if err := tbl.Register(r); err != nil {
			return err
		}
		set := r.Lookup(*id)
		if set == nil {
			c.logger.Warn("no defaults registered", "id", *id)
		}
		input, err := c.readInput(*in)
		if err != nil {
			return err
		}
		list, ok := input.([]any)
		if !ok && input != nil {
			return fmt.Errorf("apply -table expects a JSON array of arguments, got %T", input)
		}
		dm, err := di.ApplyWithMeta(list, set)
		if err != nil {
			return err
		}
		c.logger.Debug("applied table defaults", "id", *id, "defaulted", dm.Presence.Defaulted())
		return c.writeJSON(dm.Value)

	default:
		c.logger.Error("apply needs either -scheme, or -table with -id")
		return errUsage
	}
}

func (c *cli) flatten(args []string) error {
	fs := c.flagSet("flatten")
	schemePath := fs.String("scheme", "", "JSON scheme file")
	if err := fs.Parse(args); err != nil || *schemePath == "" {
		c.logger.Error("flatten needs -scheme")
		return errUsage
	}
	s, err := c.readScheme(*schemePath)
	if err != nil {
		return err
	}
	for _, p := range di.Flatten(s) {
		fmt.Fprintf(c.stdout, "%s\t%s\n", p, p.Pointer())
	}
	return nil
}

func (c *cli) jsonSchema(args []string) error {
	fs := c.flagSet("jsonschema")
	schemePath := fs.String("scheme", "", "JSON scheme file")
	if err := fs.Parse(args); err != nil || *schemePath == "" {
		c.logger.Error("jsonschema needs -scheme")
		return errUsage
	}
	s, err := c.readScheme(*schemePath)
	if err != nil {
		return err
	}
	js, err := s.JSONSchema()
	if err != nil {
		return err
	}
	return c.writeJSON(js)
}

func (c *cli) check(args []string) error {
	fs := c.flagSet("check")
	tablePath := fs.String("table", "", "scheme table file")
	if err := fs.Parse(args); err != nil || *tablePath == "" {
		c.logger.Error("check needs -table")
		return errUsage
	}
	tbl, err := schemefile.Load(*tablePath)
	if err != nil {
		return err
	}
	for _, id := range tbl.IDs() {
		set := tbl.Set(id)
		var positions []int
		for i := range set {
			if _, ok := set.At(i); ok {
				positions = append(positions, i)
			}
		}
		c.logger.Debug("table entry", "id", id, "positions", positions)
		fmt.Fprintf(c.stdout, "%s\t%v\n", id, positions)
	}
	c.logger.Info("table ok", "file", *tablePath, "functions", len(tbl.IDs()))
	return nil
}

func (c *cli) readScheme(path string) (di.Scheme, error) {
	f, err := os.Open(path)
	if err != nil {
		return di.Scheme{}, err
	}
	defer f.Close()
	opt := c.cfg.ParseOpt()
	opt.Strictness.OnDuplicateKey = di.Warn
	opt.Warn = func(it di.Issue) {
		c.logger.Warn("duplicate key in scheme, last value wins", "file", path, "path", it.Path)
	}
	return di.ParseScheme(di.JSONReader(f), opt)
}

func (c *cli) readInput(path string) (any, error) {
	r := c.stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return di.DecodeJSON(di.JSONReader(r), c.cfg.ParseOpt())
}

func (c *cli) writeJSON(v any) error {
	var (
		b   []byte
		err error
	)
	if c.cfg.Indent > 0 {
		b, err = json.MarshalIndent(v, "", c.cfg.indent())
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	b = append(b, '\n')
	_, err = c.stdout.Write(b)
	return err
}

func (c *cli) reportError(cmd string, err error) {
	iss, ok := di.AsIssues(err)
	if !ok {
		c.logger.Error(cmd+" failed", "err", err)
		return
	}
	for _, it := range iss {
		kv := []any{"code", it.Code, "path", it.Path}
		if it.Hint != "" {
			kv = append(kv, "hint", it.Hint)
		}
		c.logger.Error(it.Message, kv...)
	}
}
