package main

import (
	"flag"
	"fmt"
	"io"

	json "github.com/goccy/go-json"

	"github.com/reoring/skema/doc"
	"github.com/reoring/skema/jsonschema"
)

func jsonschemaCmd(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("jsonschema", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var c common
	c.register(fs)
	var arrayType string
	fs.StringVar(&arrayType, "array-type", "list", `"type" of collection attributes: list or array`)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if arrayType != "list" && arrayType != "array" {
		return fmt.Errorf("-array-type must be list or array, got %q", arrayType)
	}
	schema, err := c.loadSchema(c.logger(stderr))
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(jsonschema.FromSchema(schema, jsonschema.Options{ArrayKeyword: arrayType}), "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, string(out))
	return err
}

func docCmd(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("doc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var c common
	c.register(fs)
	var html bool
	fs.BoolVar(&html, "html", false, "render HTML instead of markdown")
	if err := fs.Parse(args); err != nil {
		return err
	}
	schema, err := c.loadSchema(c.logger(stderr))
	if err != nil {
		return err
	}
	if !html {
		_, err = fmt.Fprintln(stdout, doc.Markdown(schema))
		return err
	}
	out, err := doc.HTML(schema)
	if err != nil {
		return err
	}
	_, err = io.WriteString(stdout, out)
	return err
}
