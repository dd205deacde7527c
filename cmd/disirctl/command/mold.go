package command

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/veeg-labs/disir-go/pkg/adapter/bootstrap"
	"github.com/veeg-labs/disir-go/pkg/adapter/fsplugin"
	"github.com/veeg-labs/disir-go/pkg/core/plugin"
	"github.com/veeg-labs/disir-go/pkg/core/validate"
)

var moldCmd = &cobra.Command{
	Use:   "mold",
	Short: "Inspect molds registered through a bootstrap file",
}

var moldValidateCmd = &cobra.Command{
	Use:   "validate <path>",
	Short: "Validate the first bootstrap-named mold stored under path",
	Args:  cobra.ExactArgs(1),
	RunE:  moldValidate,
}

func moldValidate(_ *cobra.Command, args []string) error {
	dir := args[0]
	cfg, err := bootstrap.Load(bootstrapPath)
	if err != nil {
		return fmt.Errorf("bootstrap.Load(%q): %w", bootstrapPath, err)
	}
	if len(cfg.Plugins) == 0 {
		return fmt.Errorf("bootstrap file %q names no plugins", bootstrapPath)
	}
	p := cfg.Plugins[0]

	registry := plugin.NewRegistry()
	registrar := plugin.NewRegistrar(registry)
	register := fsplugin.NewBackend(dir).Register(p.GroupID, p.ConfigBaseID, p.MoldBaseID)
	if err := register(registrar, p.IOID); err != nil {
		return fmt.Errorf("registering %q: %w", p.IOID, err)
	}

	mold, err := registry.MoldRead(p.GroupID, p.MoldBaseID)
	if err != nil {
		return fmt.Errorf("reading mold %q/%q: %w", p.GroupID, p.MoldBaseID, err)
	}

	invalid, err := validate.MoldValid(mold)
	if err != nil {
		return fmt.Errorf("validating mold: %w", err)
	}
	if invalid.Len() == 0 {
		fmt.Printf("mold %q/%q is valid\n", p.GroupID, p.MoldBaseID)
		return nil
	}
	fmt.Printf("mold %q/%q is invalid: %s\n", p.GroupID, p.MoldBaseID, strings.Join(invalid.Names(), ", "))
	return nil
}

func init() {
	moldCmd.AddCommand(moldValidateCmd)
	rootCmd.AddCommand(moldCmd)
}
