// Command filtercli runs a filter pipeline described in YAML and prints the
// result as JSON.
//
//	filtercli pipeline.yaml
//	cat pipeline.yaml | filtercli
//
// A pipeline document looks like:
//
//	locale: fr
//	timezone: Europe/Paris
//	input:
//	  - {name: banana, price: 3}
//	  - {name: apple, price: 1}
//	filters:
//	  - {name: sort, args: [price]}
//	  - {name: map, args: [name]}
//	  - {name: join, args: [", "]}
//
// With a template field the input is rendered through a Go text/template in
// which every filter is available as a function, and the output is printed
// as is:
//
//	input: {price: 2}
//	template: "{{ .price | times 3 }} EUR"
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"
	_ "time/tzdata"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"liquidfilters/filters"
	"liquidfilters/i18n"
	"liquidfilters/templates"
	"liquidfilters/value"
)

type pipelineStep struct {
	Name string `yaml:"name"`
	Args []any  `yaml:"args"`
}

type pipelineDoc struct {
	Locale          string         `yaml:"locale"`
	Timezone        string         `yaml:"timezone"`
	IntegerDivision bool           `yaml:"integer_division"`
	Input           any            `yaml:"input"`
	Template        string         `yaml:"template"`
	Filters         []pipelineStep `yaml:"filters"`
}

func main() {
	pretty := term.IsTerminal(int(os.Stdout.Fd()))
	if err := run(os.Args[1:], os.Stdin, os.Stdout, pretty); err != nil {
		fmt.Fprintf(os.Stderr, "filtercli: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer, pretty bool) error {
	fs := flag.NewFlagSet("filtercli", flag.ContinueOnError)
	list := fs.Bool("list", false, "list the available filters and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	registry := filters.NewRegistry(nil)
	if *list {
		for _, spec := range registry.Describe() {
			fmt.Fprintf(stdout, "%-40s %s\n", spec.Signature(), spec.Description)
		}
		return nil
	}

	in := stdin
	if path := fs.Arg(0); path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	var doc pipelineDoc
	if err := yaml.NewDecoder(in).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid pipeline document: %w", err)
	}

	ctx, err := doc.context()
	if err != nil {
		return err
	}

	if doc.Template != "" {
		return templates.Render(stdout, registry, ctx, doc.Template, doc.Input)
	}

	steps := make([]filters.Step, len(doc.Filters))
	for i, s := range doc.Filters {
		steps[i] = filters.Step{Name: s.Name, Args: make([]value.Value, len(s.Args))}
		for j, a := range s.Args {
			steps[i].Args[j] = value.FromAny(a)
		}
	}

	out, err := registry.Apply(ctx, value.FromAny(doc.Input), steps)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(stdout)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(out)
}

func (d pipelineDoc) context() (*filters.Context, error) {
	ctx := filters.DefaultContext()
	if d.Locale != "" {
		tag, err := i18n.ParseTag(d.Locale)
		if err != nil {
			return nil, fmt.Errorf("invalid locale %q: %w", d.Locale, err)
		}
		ctx.Locale = tag
	}
	if d.Timezone != "" {
		loc, err := time.LoadLocation(d.Timezone)
		if err != nil {
			return nil, fmt.Errorf("invalid timezone %q: %w", d.Timezone, err)
		}
		ctx.Location = loc
	}
	ctx.IntegerDivision = d.IntegerDivision
	return ctx, nil
}
