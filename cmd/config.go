package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/efikit/bootentries/internal/bootset"
	"github.com/efikit/bootentries/internal/runner"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and bootstrap the configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective boot set",
	Long: `Show the boot set a recreate run would apply, after merging the built-in
recipe, the config file, and flags.

By default the set is printed in config file form. Use --details for a table
with the root UUID and initrd paths parsed out of each entry's kernel
options.`,
	RunE: runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config file",
	Long: `Write the built-in boot set to a config file so it can be adapted to
another machine.`,
	RunE: runConfigInit,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)

	// Add command-specific flags
	configShowCmd.Flags().Bool("details", false, "Show parsed entry details instead of config YAML")
	configInitCmd.Flags().String("path", "/etc/bootentries.yaml", "Where to write the config file")
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing config file")
	configInitCmd.Flags().Bool("dry-run", false, "Show what would be written without writing it")
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	set, err := loadBootSet()
	if err != nil {
		return err
	}

	details, _ := cmd.Flags().GetBool("details")
	if details {
		return outputSetDetails(set)
	}

	fmt.Print(renderConfigYAML(set))
	return nil
}

func outputSetDetails(set *bootset.BootSet) error {
	fmt.Printf("Disk: %s\n", set.Disk)
	fmt.Printf("Partition: %d\n", set.Partition)
	fmt.Printf("BootOrder: %s\n", set.OrderString())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "INDEX\tLABEL\tLOADER\tROOT UUID\tINITRDS")
	for _, e := range set.SortedEntries() {
		rootUUID := e.RootUUID()
		if rootUUID == "" {
			rootUUID = "-"
		}
		initrds := strings.Join(e.Initrds(), " ")
		if initrds == "" {
			initrds = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", e.Index, e.Label, e.Loader, rootUUID, initrds)
	}

	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("path")
	force, _ := cmd.Flags().GetBool("force")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists, use --force to overwrite", path)
		}
	}

	content := renderConfigYAML(bootset.Default())

	r := runner.New(dryRun)
	if err := r.MkdirAll(filepath.Dir(path), 0755, "Create config directory"); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := r.WriteFile(path, []byte(content), 0644, "Write starter config"); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if r.IsDryRun() {
		log.Info().Str("path", path).Msg("[DRY RUN] Would write starter config")
	} else {
		log.Info().Str("path", path).Msg("Wrote starter config")
	}
	return nil
}

// renderConfigYAML renders a boot set in the config file format. Labels and
// options are single-quoted so initrd backslashes survive a YAML round trip.
func renderConfigYAML(set *bootset.BootSet) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("disk: %s\n", set.Disk))
	b.WriteString(fmt.Sprintf("partition: %d\n", set.Partition))
	b.WriteString(fmt.Sprintf("boot_order: [%s]\n", set.OrderString()))
	b.WriteString("entries:\n")
	for _, e := range set.SortedEntries() {
		b.WriteString(fmt.Sprintf("  - index: %d\n", e.Index))
		b.WriteString(fmt.Sprintf("    label: '%s'\n", e.Label))
		b.WriteString(fmt.Sprintf("    loader: '%s'\n", e.Loader))
		if e.Options != "" {
			b.WriteString(fmt.Sprintf("    options: '%s'\n", e.Options))
		}
	}
	b.WriteString("behavior:\n")
	b.WriteString("  continue_on_error: false\n")
	b.WriteString("log_level: info\n")

	return b.String()
}
