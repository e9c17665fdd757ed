package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list [dir]",
		Short: "List the components of a project",
		Long: `List every component found in the components directory with
the name it is defined under and the file it loads from.

Examples:
  ucom list
  ucom list ./site --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(argDir(args))
			if err != nil {
				return err
			}
			return runList(p, os.Stdout, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")

	return cmd
}

// listing is the JSON form of one component.
type listing struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	Error string `json:"error,omitempty"`
}

func listings(entries []entry) []listing {
	out := make([]listing, 0, len(entries))
	for _, e := range entries {
		l := listing{Name: e.Ident.Name, Path: e.Path}
		if e.Err != nil {
			l.Error = e.Err.Error()
		}
		out = append(out, l)
	}
	return out
}

func runList(p *project, out io.Writer, asJSON bool) error {
	entries, err := p.scan()
	if err != nil {
		return err
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(listings(entries))
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPATH")
	for _, l := range listings(entries) {
		name := l.Name
		if l.Error != "" {
			name = "(" + l.Error + ")"
		}
		fmt.Fprintf(tw, "%s\t%s\n", name, l.Path)
	}
	return tw.Flush()
}
