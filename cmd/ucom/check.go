package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	ucomerrors "github.com/ucom-dev/ucom/internal/errors"
	"github.com/ucom-dev/ucom/pkg/component"
)

func checkCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "check [dir]",
		Short: "Validate component templates",
		Long: `Load every component template of a project, validate its
directives and compile every expression.

Problems are printed with their error code and, for directive
problems, the file position of the attribute. The command fails
when any problem is found.

Examples:
  ucom check
  ucom check ./site
  ucom check --format=compact`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadProject(argDir(args))
			if err != nil {
				return err
			}
			return runCheck(cmd.Context(), p, os.Stdout, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "pretty", "Output format: pretty, compact or json")

	return cmd
}

// argDir returns the optional directory argument.
func argDir(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

// problem is one check failure in a component file.
type problem struct {
	Path string
	Err  *ucomerrors.Error
}

// checkProject defines every component of p and checks its template. It
// returns the number of components checked.
func checkProject(ctx context.Context, p *project) (int, []problem, error) {
	entries, err := p.scan()
	if err != nil {
		return 0, nil, err
	}

	m := p.manager(slog.New(slog.DiscardHandler))
	loader := component.FSLoader{FS: os.DirFS(p.cfg.ComponentsPath())}
	w := p.walker()

	var problems []problem
	seen := make(map[string]string)
	for _, e := range entries {
		def, err := p.define(ctx, m, loader, e)
		if err != nil {
			problems = append(problems, problem{Path: e.Path, Err: ucomerrors.FromError(err, codeOf(err))})
			continue
		}
		if first, ok := seen[def.Name()]; ok {
			problems = append(problems, problem{Path: e.Path, Err: ucomerrors.Newf(ucomerrors.CategoryComponent,
				"Component %q is already defined by %s", def.Name(), first)})
			continue
		}
		seen[def.Name()] = e.Path

		file := filepath.Join(p.cfg.ComponentsPath(), filepath.FromSlash(e.Ident.Resolved))
		src, err := os.ReadFile(file)
		if err != nil {
			return 0, nil, err
		}
		loc := newLocator(string(src))
		for _, pr := range w.Check(def.Template()) {
			if line, col, ok := loc.find(pr); ok {
				pr.Err.WithLocation(file, line, col)
			}
			problems = append(problems, problem{Path: e.Path, Err: pr.Err})
		}
	}
	return len(entries), problems, nil
}

func runCheck(ctx context.Context, p *project, out io.Writer, format string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	n, problems, err := checkProject(ctx, p)
	if err != nil {
		return err
	}

	if format != "pretty" {
		ucomerrors.SetColors(false)
	}

	for _, pr := range problems {
		switch format {
		case "json":
			fmt.Fprintln(out, pr.Err.FormatJSON())
		case "compact":
			if pr.Err.Location != nil {
				fmt.Fprintln(out, pr.Err.FormatCompact())
			} else {
				fmt.Fprintf(out, "%s: %s\n", pr.Path, pr.Err.FormatCompact())
			}
		default:
			errorMsg("%s", pr.Path)
			fmt.Fprint(out, pr.Err.Format())
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%d problems in %d components", len(problems), n)
	}
	if format == "pretty" {
		success("%d components checked", n)
	}
	return nil
}
