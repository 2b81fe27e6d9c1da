package cmd

import (
	"fmt"
	"os/user"
	"strconv"
	"strings"

	"github.com/efikit/bootentries/internal/bootset"
	"github.com/efikit/bootentries/internal/disk"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// loadBootSet assembles the effective boot set: the built-in recipe, overlaid
// with whatever the config file and flags define, with the disk resolved and
// the result validated.
func loadBootSet() (*bootset.BootSet, error) {
	set := bootset.Default()

	set.Disk = viper.GetString("disk")
	set.Partition = viper.GetInt("partition")
	set.Order = viper.GetIntSlice("boot_order")

	if viper.IsSet("entries") {
		var entries []bootset.Entry
		if err := viper.UnmarshalKey("entries", &entries); err != nil {
			return nil, fmt.Errorf("failed to parse entries from config: %w", err)
		}
		set.Entries = entries
	}

	if uuid := viper.GetString("root_uuid"); uuid != "" {
		log.Debug().Str("root_uuid", uuid).Msg("Overriding root filesystem UUID")
		set = set.WithRootUUID(uuid)
	}

	if set.Disk == "auto" {
		esp, err := disk.NewDetector().FindESP()
		if err != nil {
			return nil, fmt.Errorf("failed to auto-detect ESP: %w", err)
		}
		set.Disk = esp.Disk
		set.Partition = esp.Partition
		log.Info().
			Str("disk", set.Disk).
			Int("partition", set.Partition).
			Str("uuid", esp.UUID).
			Msg("Auto-detected ESP disk")
	}

	if err := set.Validate(); err != nil {
		return nil, fmt.Errorf("invalid boot set: %w", err)
	}

	return set, nil
}

// parseIndices parses a comma-separated boot index list such as "2,3,0,1,4".
func parseIndices(value string) ([]int, error) {
	var indices []int
	for _, field := range strings.Split(value, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			return nil, fmt.Errorf("empty index in %q", value)
		}
		idx, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("invalid boot index %q", field)
		}
		if idx < 0 {
			return nil, fmt.Errorf("negative boot index %d", idx)
		}
		indices = append(indices, idx)
	}
	return indices, nil
}

// checkRootPrivileges checks if the current user has root privileges
func checkRootPrivileges() error {
	currentUser, err := user.Current()
	if err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}

	if currentUser.Uid != "0" {
		return fmt.Errorf("not running as root (UID: %s)", currentUser.Uid)
	}

	return nil
}
