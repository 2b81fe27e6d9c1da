package cmd

import (
	"fmt"
	"strconv"

	"github.com/efikit/bootentries/internal/efibootmgr"
	"github.com/efikit/bootentries/internal/plan"
	"github.com/efikit/bootentries/internal/runner"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var orderCmd = &cobra.Command{
	Use:   "order [indices]",
	Short: "Set the firmware boot order",
	Long: `Overwrite the firmware boot order wholesale.

The order is a comma-separated list of boot indices, e.g. "2,3,0,1,4". With
no argument the configured boot order is applied.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runOrder,
}

func init() {
	rootCmd.AddCommand(orderCmd)

	// Add command-specific flags
	orderCmd.Flags().Bool("dry-run", false, "Show what would be done without making changes")
	orderCmd.Flags().BoolP("yes", "y", false, "Automatically approve the plan without prompting")
}

func runOrder(cmd *cobra.Command, args []string) error {
	var order []int
	if len(args) == 1 {
		indices, err := parseIndices(args[0])
		if err != nil {
			return err
		}
		order = indices
	} else {
		set, err := loadBootSet()
		if err != nil {
			return err
		}
		order = set.Order
	}

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	if !dryRun {
		if err := efibootmgr.Supported(); err != nil {
			return err
		}
	}

	if err := checkRootPrivileges(); err != nil {
		log.Warn().Err(err).Msg("Not running as root - NVRAM writes may fail")
	}

	p := plan.New()
	p.AddReorder("set boot order to " + joinIndices(order))

	if dryRun {
		p.Show()
		log.Info().Msg("[DRY RUN] Would apply the operation shown above")
		return nil
	}

	autoApprove, _ := cmd.Flags().GetBool("yes")
	if !p.Confirm(autoApprove || viper.GetBool("yes")) {
		log.Info().Msg("User declined plan - operation cancelled")
		return nil
	}

	client := efibootmgr.NewClient(runner.New(false))
	if err := client.SetBootOrder(order); err != nil {
		return fmt.Errorf("failed to set boot order: %w", err)
	}

	log.Info().Str("boot_order", joinIndices(order)).Msg("Boot order updated")
	return nil
}

func joinIndices(indices []int) string {
	order := ""
	for i, idx := range indices {
		if i > 0 {
			order += ","
		}
		order += strconv.Itoa(idx)
	}
	return order
}
