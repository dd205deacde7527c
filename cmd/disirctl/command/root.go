// Package command provides disirctl's root and sub-commands, organized
// with the cobra library. disirctl is a thin composition root over the
// library's adapters: it registers an fsplugin backend for the first
// plugin section of a bootstrap file and prints the result of calling straight into
// pkg/core/validate and pkg/adapter/archivefs. It does not scan
// filesystem layouts or parse config formats itself, and it never
// dynamically loads a plugin shared object; every registration happens
// in-process through pkg/core/plugin.
//
//	./disirctl [-b /path/to/bootstrap.yaml] mold validate /path/to/store
//	./disirctl archive list /path/to/bundle.disirarchive
package command

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var bootstrapPath string

var rootCmd = &cobra.Command{
	Use:   "disirctl",
	Short: "Inspect disir-go molds, configs, and archives from the command line",
	Long: `disirctl is a thin command-line harness over disir-go's
adapters. It registers a plugin backend for the first plugin section
of a bootstrap file and exposes a handful of read-only operations (validating a mold,
listing an archive's contents) as subcommands.`,
}

// Execute runs the rootCmd, parsing CLI arguments and flags and
// dispatching to the most specific subcommand.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(fixBootstrapPath)
	rootCmd.PersistentFlags().StringVarP(
		&bootstrapPath, "bootstrap", "b", "", "bootstrap config file path",
	)
}

// fixBootstrapPath resolves bootstrapPath from the CLI flag, the
// DISIR_BOOTSTRAP environment variable, or a repo-relative default, in
// that priority order.
func fixBootstrapPath() {
	if bootstrapPath != "" {
		return
	}
	var found bool
	if bootstrapPath, found = os.LookupEnv("DISIR_BOOTSTRAP"); !found {
		bootstrapPath = "configs/bootstrap.yaml"
	}
}
