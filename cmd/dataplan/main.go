// Package main provides the CLI entrypoint for dataplan.
//
// dataplan reads object/field declarations and an org schema snapshot,
// and writes the ordered mapping artifact the bulk-transfer executor replays.
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"dataplan/internal/app"
	"dataplan/internal/config"
)

const rootUsage = `dataplan: plan dependency-ordered data loads for an org

USAGE:
  dataplan <command> [flags] <declarations file>

COMMANDS:
  plan     Expand declarations, order objects and write the mapping artifact
  expand   Write the declarations resolved against the schema, fully literal
  help     Show help for any command
`

const commonFlagsUsage = `  -schema <file>           Schema snapshot, YAML or JSON (env DATAPLAN_SCHEMA_PATH)
  -schema.dsn <dsn>        MySQL schema cache DSN (env DATAPLAN_SCHEMA_DSN)
  -out <file>              Write output to file (default: stdout)
  -exclude <object>        Never plan this object. Repeatable
  -include <object>        Allow an object excluded by default. Repeatable
  -lenient                 Drop unknown fields with a warning instead of failing
  -log.level <level>       debug, info, warn or error (default: info)
  -log.format <format>     text or json (default: text)
  -env <file>              Environment file (default: .env)
`

const planUsage = `plan FLAGS:
` + commonFlagsUsage + `  -cycle-policy <policy>   automatic or interactive (default: automatic)
  -anchor <object>         Prefer breaking cycles at this object. Repeatable;
                           replaces the default anchors
`

const expandUsage = `expand FLAGS:
` + commonFlagsUsage

// ExitError carries a process exit code.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return e.Message
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}

		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, inR io.Reader, outW, errW io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(errW, rootUsage)
		return &ExitError{Code: 2, Message: "missing command"}
	}

	cmd, cmdArgs := args[0], args[1:]

	switch cmd {
	case "plan":
		a, err := newApp(cmd, cmdArgs, inR, outW, errW)
		if err != nil {
			return err
		}

		_, err = a.Plan(ctx)

		return err
	case "expand":
		a, err := newApp(cmd, cmdArgs, inR, outW, errW)
		if err != nil {
			return err
		}

		return a.Expand(ctx)
	case "help", "-h", "-help", "--help":
		return cmdHelp(cmdArgs, outW)
	default:
		fmt.Fprint(errW, rootUsage)
		return &ExitError{Code: 2, Message: fmt.Sprintf("unknown command %q", cmd)}
	}
}

func cmdHelp(args []string, outW io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(outW, rootUsage)
		return nil
	}

	switch args[0] {
	case "plan":
		fmt.Fprint(outW, planUsage)
	case "expand":
		fmt.Fprint(outW, expandUsage)
	default:
		return &ExitError{Code: 2, Message: fmt.Sprintf("unknown help topic %q", args[0])}
	}

	return nil
}

type stringListFlag []string

func (s *stringListFlag) String() string { return "" }

func (s *stringListFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// newApp loads environment configuration and lets flags override it.
func newApp(cmd string, args []string, inR io.Reader, outW, errW io.Writer) (*app.App, error) {
	usage := expandUsage
	if cmd == "plan" {
		usage = planUsage
	}

	var (
		schemaPath, schemaDSN, out, cyclePolicy string
		logLevel, logFormat                     string
		envPath                                 = config.DefaultEnvPath
		lenient                                 bool
		anchors, excludes, includes             stringListFlag
	)

	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&schemaPath, "schema", "", "schema snapshot file")
	fs.StringVar(&schemaDSN, "schema.dsn", "", "MySQL schema cache DSN")
	fs.StringVar(&out, "out", "", "output file")
	fs.Var(&excludes, "exclude", "object never planned")
	fs.Var(&includes, "include", "object allowed despite the default exclusions")
	fs.BoolVar(&lenient, "lenient", false, "drop unknown fields with a warning")
	fs.StringVar(&logLevel, "log.level", "", "log level")
	fs.StringVar(&logFormat, "log.format", "", "log format")
	fs.StringVar(&envPath, "env", envPath, "environment file")

	if cmd == "plan" {
		fs.StringVar(&cyclePolicy, "cycle-policy", "", "automatic or interactive")
		fs.Var(&anchors, "anchor", "preferred cycle-break object")
	}

	if err := fs.Parse(args); err != nil {
		fmt.Fprint(errW, usage)
		return nil, &ExitError{Code: 2, Message: err.Error()}
	}

	if fs.NArg() != 1 {
		fmt.Fprint(errW, usage)
		return nil, &ExitError{Code: 2, Message: "expected exactly one declarations file"}
	}

	cfg, err := config.Load(envPath)
	if err != nil {
		return nil, &ExitError{Code: 2, Message: err.Error()}
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["schema"] || set["schema.dsn"] {
		cfg.Schema = config.SchemaConfig{Path: schemaPath, DSN: schemaDSN}
	}

	if set["cycle-policy"] {
		cfg.Plan.CyclePolicy = cyclePolicy
	}

	if set["anchor"] {
		cfg.Plan.Anchors = anchors
	}

	if set["log.level"] {
		cfg.Log.Level = logLevel
	}

	if set["log.format"] {
		cfg.Log.Format = logFormat
	}

	if lenient {
		cfg.Plan.Strict = false
	}

	cfg.Plan.ExcludeObjects = append(cfg.Plan.ExcludeObjects, excludes...)
	cfg.Plan.IncludeObjects = append(cfg.Plan.IncludeObjects, includes...)

	if err := cfg.Validate(); err != nil {
		return nil, &ExitError{Code: 2, Message: err.Error()}
	}

	opts := app.OptionsFromConfig(cfg)
	opts.DeclarationsPath = fs.Arg(0)
	opts.OutPath = out

	return app.New(outW, errW, inR, opts), nil
}
