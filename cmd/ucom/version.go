package main

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/ucom-dev/ucom/internal/config"
	ucomerrors "github.com/ucom-dev/ucom/internal/errors"
)

func versionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print version and build information for the ucom CLI, with the
defaults a project starts from when ucom.json leaves them unset.`,
		Run: func(cmd *cobra.Command, args []string) {
			if short {
				fmt.Println(version)
				return
			}
			printBanner()
			printVersion(os.Stdout)
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only version number")

	return cmd
}

func printVersion(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  Version:    %s (%s, built %s)\n", version, commit, date)
	fmt.Fprintf(w, "  Go version: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(w, "  Config:     %s, %s (env %s*)\n", config.ConfigFileName, config.EnvFileName, config.EnvPrefix)
	fmt.Fprintf(w, "  Components: %s/*%s\n", config.DefaultComponentsDir, config.DefaultExt)
	fmt.Fprintf(w, "  Prefix:     %s- (directives), @ on, : bind, $ text\n", config.DefaultPrefix)
	fmt.Fprintf(w, "  Persist:    %s (default backend)\n", config.BackendMemory)
	fmt.Fprintf(w, "  Errors:     %d codes, see ucom explain\n", len(ucomerrors.GetAllCodes()))
	fmt.Fprintln(w)
}
