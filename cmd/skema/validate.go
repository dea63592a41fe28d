package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/reoring/skema"
	"github.com/reoring/skema/serializer"
)

type verdict struct {
	file      string
	malformed error
	issues    skema.Issues
}

func validateCmd(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var c common
	c.register(fs)
	var (
		lenient  bool
		jobs     int
		maxBytes int64
		maxDepth int
		dupKeys  bool
	)
	fs.BoolVar(&lenient, "lenient", false, "import leniently, ignoring unknown keys")
	fs.IntVar(&jobs, "jobs", 4, "number of files validated concurrently")
	fs.Int64Var(&maxBytes, "max-bytes", 0, "reject inputs larger than this many bytes (0: no limit)")
	fs.IntVar(&maxDepth, "max-depth", 0, "reject inputs nested deeper than this (0: no limit)")
	fs.BoolVar(&dupKeys, "reject-duplicate-keys", true, "reject mappings that repeat a key")
	if err := fs.Parse(args); err != nil {
		return err
	}
	log := c.logger(stderr)
	schema, err := c.loadSchema(log)
	if err != nil {
		return err
	}
	files := fs.Args()
	if len(files) == 0 {
		return errors.New("no input files")
	}
	if jobs < 1 {
		jobs = 1
	}
	opt := serializer.Options{Strict: !lenient, MaxBytes: maxBytes, MaxDepth: maxDepth, RejectDuplicateKeys: dupKeys}

	verdicts := make([]verdict, len(files))
	var g errgroup.Group
	g.SetLimit(jobs)
	for i, f := range files {
		g.Go(func() error {
			data, err := os.ReadFile(f)
			if err != nil {
				return err
			}
			verdicts[i] = check(schema, f, data, opt)
			log.Debug().Str("file", f).Int("issues", len(verdicts[i].issues)).Msg("validated")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for _, v := range verdicts {
		switch {
		case v.malformed != nil:
			failed++
			fmt.Fprintf(stdout, "%s: malformed: %v\n", v.file, v.malformed)
		case len(v.issues) > 0:
			failed++
			fmt.Fprintf(stdout, "%s: invalid\n", v.file)
			for _, it := range v.issues {
				fmt.Fprintf(stdout, "  %s: %s\n", it.Path, it.Message)
			}
		default:
			fmt.Fprintf(stdout, "%s: ok\n", v.file)
		}
	}
	log.Info().Int("files", len(files)).Int("failed", failed).Str("schema", schema.Name()).Msg("validation finished")
	if failed > 0 {
		return errInvalid
	}
	return nil
}

// check decodes one document and collects its validation issues. Unknown
// keys in strict mode are reported as issues alongside the others.
func check(schema *skema.Schema, file string, data []byte, opt serializer.Options) verdict {
	codec := serializer.JSON()
	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		codec = serializer.YAML()
	}
	v := verdict{file: file}
	inst, err := serializer.New(schema, codec, opt).Decode(context.Background(), data)
	var me *serializer.MalformedInputError
	if errors.As(err, &me) {
		v.malformed = err
		return v
	}
	if err != nil {
		iss, ok := skema.AsIssues(err)
		if !ok || inst == nil {
			v.malformed = err
			return v
		}
		v.issues = append(v.issues, iss...)
	}
	v.issues = append(v.issues, inst.Issues()...)
	return v
}
