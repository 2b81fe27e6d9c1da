package cmd

import (
	"fmt"
	"strconv"

	"github.com/efikit/bootentries/internal/efibootmgr"
	"github.com/efikit/bootentries/internal/plan"
	"github.com/efikit/bootentries/internal/runner"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete index...",
	Short: "Delete boot entries by index",
	Long: `Delete one or more boot entries from firmware NVRAM by index.

Indices are decimal, matching the configured boot set. A failed deletion
aborts the remaining ones unless --continue-on-error is set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	// Add command-specific flags
	deleteCmd.Flags().Bool("dry-run", false, "Show what would be done without making changes")
	deleteCmd.Flags().Bool("continue-on-error", false, "Attempt every remaining deletion after a failure")
	deleteCmd.Flags().BoolP("yes", "y", false, "Automatically approve the plan without prompting")
}

func runDelete(cmd *cobra.Command, args []string) error {
	var indices []int
	for _, arg := range args {
		idx, err := strconv.Atoi(arg)
		if err != nil || idx < 0 {
			return fmt.Errorf("invalid boot index %q", arg)
		}
		indices = append(indices, idx)
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
	for _, idx := range indices {
		p.AddDelete(fmt.Sprintf("delete Boot%s", efibootmgr.BootNum(idx)))
	}

	if dryRun {
		p.Show()
		log.Info().Msg("[DRY RUN] Would apply all operations shown above")
		return nil
	}

	autoApprove, _ := cmd.Flags().GetBool("yes")
	if !p.Confirm(autoApprove) {
		log.Info().Msg("User declined plan - operation cancelled")
		return nil
	}

	continueOnError, _ := cmd.Flags().GetBool("continue-on-error")
	client := efibootmgr.NewClient(runner.New(false))

	var failures int
	for _, idx := range indices {
		if err := client.DeleteEntry(idx); err != nil {
			if !continueOnError {
				return err
			}
			failures++
			log.Error().Err(err).Msg("Deletion failed, continuing")
		}
	}

	if failures > 0 {
		return fmt.Errorf("%d deletion(s) failed", failures)
	}

	log.Info().Int("deleted", len(indices)).Msg("Boot entries deleted")
	return nil
}
