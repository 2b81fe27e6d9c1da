// Copyright (c) 2025 The bootentries authors
//
// This file is part of bootentries.
//
// bootentries is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// bootentries is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with bootentries. If not, see <https://www.gnu.org/licenses/>.

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/efikit/bootentries/internal/bootset"
	"github.com/efikit/bootentries/internal/efibootmgr"
	"github.com/efikit/bootentries/internal/plan"
	"github.com/efikit/bootentries/internal/runner"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var recreateCmd = &cobra.Command{
	Use:   "recreate",
	Short: "Erase and recreate the configured boot entries",
	Long: `Erase and recreate the configured UEFI boot entries, then set the boot
order.

The sequence is: dump the current entries for inspection, delete every index
the boot set owns, create each entry, overwrite the boot order, and dump the
result for verification. Only the two dumps are shown; intermediate command
output is discarded.

Every mutation is shown as a plan and confirmed before touching NVRAM. A
failed step aborts the rest of the sequence unless --continue-on-error is
set.`,
	RunE: runRecreate,
}

func init() {
	rootCmd.AddCommand(recreateCmd)

	// Add command-specific flags
	recreateCmd.Flags().StringP("disk", "d", "", "Disk holding the EFI System Partition (or 'auto' to detect)")
	recreateCmd.Flags().IntP("part", "p", 0, "Partition number of the EFI System Partition")
	recreateCmd.Flags().String("root-uuid", "", "Rewrite the root filesystem UUID in every kernel entry")
	recreateCmd.Flags().Bool("dry-run", false, "Show what would be done without making changes")
	recreateCmd.Flags().Bool("continue-on-error", false, "Attempt every remaining step after a failure")
	recreateCmd.Flags().BoolP("yes", "y", false, "Automatically approve the plan without prompting")

	// Bind flags to viper
	viper.BindPFlag("disk", recreateCmd.Flags().Lookup("disk"))
	viper.BindPFlag("partition", recreateCmd.Flags().Lookup("part"))
	viper.BindPFlag("root_uuid", recreateCmd.Flags().Lookup("root-uuid"))
	viper.BindPFlag("dry_run", recreateCmd.Flags().Lookup("dry-run"))
	viper.BindPFlag("behavior.continue_on_error", recreateCmd.Flags().Lookup("continue-on-error"))
	viper.BindPFlag("yes", recreateCmd.Flags().Lookup("yes"))
}

func runRecreate(cmd *cobra.Command, args []string) error {
	log.Info().Msg("Starting boot entry recreation")

	// Check if running as root and warn if not
	if err := checkRootPrivileges(); err != nil {
		log.Warn().Err(err).Msg("Not running as root - NVRAM writes may fail")
	}

	dryRun := viper.GetBool("dry_run")
	if !dryRun {
		if err := efibootmgr.Supported(); err != nil {
			return err
		}
	}

	set, err := loadBootSet()
	if err != nil {
		return err
	}

	log.Info().
		Str("disk", set.Disk).
		Int("partition", set.Partition).
		Int("entries", len(set.Entries)).
		Str("boot_order", set.OrderString()).
		Msg("Loaded boot set")

	r := runner.New(dryRun)
	client := efibootmgr.NewClient(r)

	p := buildRecreatePlan(set)
	if dryRun {
		p.Show()
		log.Info().Msg("[DRY RUN] Would apply all operations shown above")
		return nil
	}

	if !p.Confirm(viper.GetBool("yes")) {
		log.Info().Msg("User declined plan - operation cancelled")
		return nil
	}

	continueOnError := viper.GetBool("behavior.continue_on_error")
	if err := executeRecreate(client, set, continueOnError, os.Stdout); err != nil {
		return err
	}

	log.Info().Msg("Successfully recreated boot entries")
	return nil
}

// buildRecreatePlan lists every NVRAM operation a recreate run will perform.
func buildRecreatePlan(set *bootset.BootSet) *plan.Plan {
	p := plan.New()

	for _, idx := range set.Indices() {
		p.AddDelete(fmt.Sprintf("delete Boot%s", efibootmgr.BootNum(idx)))
	}
	for _, e := range set.SortedEntries() {
		p.AddCreate(fmt.Sprintf("create Boot%s %q loader %s", efibootmgr.BootNum(e.Index), e.Label, e.Loader))
	}
	p.AddReorder("set boot order to " + set.OrderString())

	return p
}

// executeRecreate runs the recreation sequence: dump, deletes, creates,
// order, dump. The two dump outputs are written to out verbatim; everything
// else is discarded. With continueOnError set, failed steps are logged and
// the sequence keeps going, reporting a single error at the end.
func executeRecreate(client *efibootmgr.Client, set *bootset.BootSet, continueOnError bool, out io.Writer) error {
	var failures int

	// abort reports whether the sequence should stop on this error.
	abort := func(err error) bool {
		if err == nil {
			return false
		}
		if !continueOnError {
			return true
		}
		failures++
		log.Error().Err(err).Msg("Step failed, continuing")
		return false
	}

	initial, err := client.Dump()
	if abort(err) {
		return fmt.Errorf("failed to dump current entries: %w", err)
	}
	if err == nil {
		fmt.Fprint(out, initial)
	}

	for _, idx := range set.Indices() {
		if err := client.DeleteEntry(idx); abort(err) {
			return err
		}
	}

	for _, e := range set.SortedEntries() {
		if err := client.CreateEntry(set.Disk, set.Partition, e.Label, e.Loader, e.Options); abort(err) {
			return err
		}
	}

	if err := client.SetBootOrder(set.Order); abort(err) {
		return err
	}

	final, err := client.Dump()
	if abort(err) {
		return fmt.Errorf("failed to dump final entries: %w", err)
	}
	if err == nil {
		fmt.Fprint(out, final)
	}

	if failures > 0 {
		return fmt.Errorf("%d step(s) failed; verify the final state above", failures)
	}
	return nil
}
