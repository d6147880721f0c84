package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	j "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/reoring/contractkit/catalog"
	js "github.com/reoring/contractkit/jsonschema"
)

type primitiveRow struct {
	Name   string     `json:"name" yaml:"name"`
	GoType string     `json:"go_type" yaml:"go_type"`
	Schema *js.Schema `json:"schema" yaml:"schema"`
}

func newPrimitivesCmd(opts *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "primitives",
		Short: "List the primitive contracts and their JSON Schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, log, err := opts.newCatalog()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()
			rows, err := primitiveRows(cat)
			if err != nil {
				return err
			}
			log.Debug("listing primitives", zap.Int("count", len(rows)), zap.String("output", output))
			return writeRows(cmd.OutOrStdout(), output, rows)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "output format: text, json or yaml")
	return cmd
}

func primitiveRows(cat *catalog.Catalog) ([]primitiveRow, error) {
	prims := cat.Primitives()
	rows := make([]primitiveRow, 0, len(prims))
	for _, p := range prims {
		s, err := p.JSONSchema()
		if err != nil {
			return nil, err
		}
		rows = append(rows, primitiveRow{Name: p.Name(), GoType: p.Type().String(), Schema: s})
	}
	return rows, nil
}

func writeRows(w io.Writer, format string, rows []primitiveRow) error {
	switch format {
	case "json":
		b, err := j.MarshalIndent(rows, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(rows); err != nil {
			return err
		}
		return enc.Close()
	case "text":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tGO TYPE\tSCHEMA")
		for _, r := range rows {
			desc := r.Schema.Type
			if r.Schema.Format != "" {
				desc += " (" + r.Schema.Format + ")"
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Name, r.GoType, desc)
		}
		return tw.Flush()
	}
	return fmt.Errorf("unknown output format %q", format)
}
