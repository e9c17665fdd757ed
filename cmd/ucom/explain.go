package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	ucomerrors "github.com/ucom-dev/ucom/internal/errors"
)

func explainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain [code]",
		Short: "Describe error codes",
		Long: `Describe the error codes reported by check and logged by the
runtime. Without a code, every code is listed.

Examples:
  ucom explain
  ucom explain E110`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(os.Stdout, argDir(args))
		},
	}
}

func runExplain(out io.Writer, code string) error {
	if code == "" {
		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "CODE\tCATEGORY\tMESSAGE")
		for _, c := range ucomerrors.GetAllCodes() {
			tpl, _ := ucomerrors.GetTemplate(c)
			fmt.Fprintf(tw, "%s\t%s\t%s\n", c, tpl.Category, tpl.Message)
		}
		return tw.Flush()
	}

	code = strings.ToUpper(code)
	tpl, ok := ucomerrors.GetTemplate(code)
	if !ok {
		return ucomerrors.Newf(ucomerrors.CategoryCLI, "Unknown error code %q", code).
			WithSuggestion("Run ucom explain to list every code")
	}
	fmt.Fprintf(out, "%s (%s): %s\n", code, tpl.Category, tpl.Message)
	if tpl.Detail != "" {
		fmt.Fprintf(out, "\n%s\n", tpl.Detail)
	}
	return nil
}
