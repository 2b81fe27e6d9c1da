package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/efikit/bootentries/internal/efibootmgr"
	"github.com/efikit/bootentries/internal/runner"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the current firmware boot entries",
	Long: `List the boot entries currently held in firmware NVRAM.

By default the efibootmgr dump is parsed into a table. Use --raw to pass the
tool's output through verbatim, or --json for machine-readable output.`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	// Add command-specific flags
	listCmd.Flags().Bool("raw", false, "Pass efibootmgr output through unmodified")
	listCmd.Flags().Bool("json", false, "Output in JSON format")
}

func runList(cmd *cobra.Command, args []string) error {
	log.Debug().Msg("Listing firmware boot entries")

	if err := efibootmgr.Supported(); err != nil {
		return err
	}

	client := efibootmgr.NewClient(runner.New(false))
	output, err := client.Dump()
	if err != nil {
		return fmt.Errorf("failed to list boot entries: %w", err)
	}

	raw, _ := cmd.Flags().GetBool("raw")
	if raw {
		fmt.Print(output)
		return nil
	}

	dump := efibootmgr.ParseDump(output)

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		return outputDumpJSON(dump)
	}

	return outputDumpTable(dump)
}

func outputDumpJSON(dump *efibootmgr.Dump) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(dump)
}

func outputDumpTable(dump *efibootmgr.Dump) error {
	if len(dump.Entries) == 0 {
		fmt.Println("No boot entries found")
		return nil
	}

	if dump.BootCurrent != "" {
		fmt.Printf("BootCurrent: %s\n", dump.BootCurrent)
	}
	if dump.Timeout != "" {
		fmt.Printf("Timeout: %s\n", dump.Timeout)
	}
	if len(dump.Order) > 0 {
		fmt.Printf("BootOrder: %s\n", formatOrder(dump.Order))
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "BOOTNUM\tACTIVE\tLABEL")
	fmt.Fprintln(w, "-------\t------\t-----")

	for _, entry := range dump.Entries {
		active := "No"
		if entry.Active {
			active = "Yes"
		}
		fmt.Fprintf(w, "Boot%s\t%s\t%s\n", efibootmgr.BootNum(entry.Index), active, entry.Label)
	}

	return nil
}

func formatOrder(order []int) string {
	parts := make([]string, 0, len(order))
	for _, idx := range order {
		parts = append(parts, fmt.Sprintf("%d", idx))
	}
	return strings.Join(parts, ",")
}
