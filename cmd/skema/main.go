// Command skema validates documents against schemas declared in YAML and
// renders their JSON-Schema and markdown projections.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/reoring/skema"
	"github.com/reoring/skema/basic"
	"github.com/reoring/skema/schemafile"
)

// EnvLogLevel overrides the default log level when -log-level is not given.
const EnvLogLevel = "SKEMA_LOG_LEVEL"

// errInvalid marks a run where some input failed validation; the details
// were already printed.
var errInvalid = errors.New("invalid input")

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	var err error
	switch sub := os.Args[1]; sub {
	case "validate":
		err = validateCmd(os.Args[2:], os.Stdout, os.Stderr)
	case "jsonschema":
		err = jsonschemaCmd(os.Args[2:], os.Stdout, os.Stderr)
	case "doc":
		err = docCmd(os.Args[2:], os.Stdout, os.Stderr)
	case "-h", "-help", "--help", "help":
		usage()
		return
	default:
		usage()
		os.Exit(2)
	}
	switch {
	case errors.Is(err, errInvalid):
		os.Exit(1)
	case errors.Is(err, flag.ErrHelp):
		os.Exit(2)
	case err != nil:
		fatalf("skema %s: %v", os.Args[1], err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `skema CLI

Usage:
  skema validate   -defs defs.yaml -schema Name [-lenient] [-jobs N] files...
  skema jsonschema -defs defs.yaml -schema Name [-array-type list|array]
  skema doc        -defs defs.yaml -schema Name [-html]

Common flags:
  -log-level debug|info|warn|error   (default from $SKEMA_LOG_LEVEL, else info)
  -log-json                          emit JSON log lines instead of console output

Schemas BaseTimestampSchema, BaseIDSchema and ListSchema are predefined.`)
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}

// common holds the flags every subcommand shares.
type common struct {
	defs     string
	schema   string
	logLevel string
	logJSON  bool
}

func (c *common) register(fs *flag.FlagSet) {
	fs.StringVar(&c.defs, "defs", "", "YAML file with schema declarations")
	fs.StringVar(&c.schema, "schema", "", "name of the schema to use")
	fs.StringVar(&c.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	fs.BoolVar(&c.logJSON, "log-json", false, "emit JSON log lines")
}

func (c *common) logger(stderr io.Writer) zerolog.Logger {
	levelStr := c.logLevel
	if levelStr == "" {
		levelStr = os.Getenv(EnvLogLevel)
	}
	if levelStr == "" {
		levelStr = "info"
	}
	level, err := zerolog.ParseLevel(levelStr)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if c.logJSON {
		return zerolog.New(stderr).Level(level).With().Timestamp().Logger()
	}
	out := zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.RFC3339}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// predefined are the schemas every definitions file may refer to.
func predefined() map[string]*skema.Schema {
	return map[string]*skema.Schema{
		basic.Timestamps.Name(): basic.Timestamps,
		basic.Identified.Name(): basic.Identified,
		basic.List.Name():       basic.List,
	}
}

// loadSchema loads -defs and looks up -schema.
func (c *common) loadSchema(log zerolog.Logger) (*skema.Schema, error) {
	if c.defs == "" || c.schema == "" {
		return nil, errors.New("-defs and -schema are required")
	}
	reg, err := schemafile.LoadFile(c.defs, schemafile.WithLogger(log), schemafile.WithBase(predefined()))
	if err != nil {
		return nil, err
	}
	if s, ok := reg.Lookup(c.schema); ok {
		return s, nil
	}
	if s, ok := predefined()[c.schema]; ok {
		return s, nil
	}
	return nil, fmt.Errorf("schema %q not found in %s (have %v)", c.schema, c.defs, reg.Names())
}
