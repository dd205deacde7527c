package command

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/veeg-labs/disir-go/pkg/adapter/archivefs"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Inspect packed disir-go archives",
}

var archiveListCmd = &cobra.Command{
	Use:   "list <path>",
	Short: "List the metadata and entries packed into an archive file",
	Args:  cobra.ExactArgs(1),
	RunE:  archiveList,
}

func archiveList(_ *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %q: %w", args[0], err)
	}

	meta, entries, err := archivefs.NewContainer().Unpack(data)
	if err != nil {
		return fmt.Errorf("unpacking %q: %w", args[0], err)
	}

	fmt.Printf("implementation version: %s\n", meta.ImplementationVersion)
	fmt.Printf("org version:            %s\n", meta.OrgVersion)
	for group, backend := range meta.Backends {
		fmt.Printf("backend: %-20s %s\n", group, backend)
	}
	fmt.Printf("%d entries:\n", len(entries))
	for _, e := range entries {
		fmt.Printf("  %-20s %-20s %d bytes\n", e.Group, e.EntryID, len(e.Data))
	}
	return nil
}

func init() {
	archiveCmd.AddCommand(archiveListCmd)
	rootCmd.AddCommand(archiveCmd)
}
