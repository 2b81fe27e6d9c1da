// Package bootset models the set of UEFI boot entries this machine should
// have: which disk and partition they live on, what each entry is called and
// loads, and the order the firmware should try them in.
package bootset

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/efikit/bootentries/internal/cmdline"
)

// Entry is a single boot entry to be created in firmware NVRAM.
type Entry struct {
	Index   int    `json:"index" mapstructure:"index"`
	Label   string `json:"label" mapstructure:"label"`
	Loader  string `json:"loader" mapstructure:"loader"`
	Options string `json:"options,omitempty" mapstructure:"options"`
}

// RootUUID returns the root filesystem UUID embedded in the entry's kernel
// options, or an empty string for entries without one (firmware shells,
// foreign boot managers).
func (e *Entry) RootUUID() string {
	return cmdline.RootUUID(e.Options)
}

// Initrds returns the initrd= paths of the entry's kernel options in order.
func (e *Entry) Initrds() []string {
	return cmdline.GetAll(e.Options, "initrd")
}

// BootSet is the full desired state of the firmware boot menu.
type BootSet struct {
	Disk      string  `json:"disk" mapstructure:"disk"`
	Partition int     `json:"partition" mapstructure:"partition"`
	Order     []int   `json:"boot_order" mapstructure:"boot_order"`
	Entries   []Entry `json:"entries" mapstructure:"entries"`
}

// Indices returns the entry indices in ascending order. These are the
// indices deleted and recreated by a recreate run.
func (s *BootSet) Indices() []int {
	indices := make([]int, 0, len(s.Entries))
	for _, e := range s.Entries {
		indices = append(indices, e.Index)
	}
	sort.Ints(indices)
	return indices
}

// SortedEntries returns the entries in ascending index order, the order they
// are created in so firmware index allocation matches the set.
func (s *BootSet) SortedEntries() []Entry {
	entries := make([]Entry, len(s.Entries))
	copy(entries, s.Entries)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Index < entries[j].Index
	})
	return entries
}

// OrderString renders the boot order as comma-joined decimal for display,
// logs and config files. Indices are decimal everywhere a user sees them;
// the hex radix efibootmgr consumes exists only at the invocation boundary.
func (s *BootSet) OrderString() string {
	parts := make([]string, 0, len(s.Order))
	for _, idx := range s.Order {
		parts = append(parts, strconv.Itoa(idx))
	}
	return strings.Join(parts, ",")
}

// WithRootUUID returns a copy of the set with every entry's root= parameter
// rewritten to the given filesystem UUID. Entries whose options carry no
// root parameter (firmware shells, memtest images) are left untouched.
func (s *BootSet) WithRootUUID(uuid string) *BootSet {
	out := *s
	out.Entries = make([]Entry, len(s.Entries))
	copy(out.Entries, s.Entries)
	for i := range out.Entries {
		if !cmdline.Has(out.Entries[i].Options, "root") {
			continue
		}
		out.Entries[i].Options = cmdline.SetRootUUID(out.Entries[i].Options, uuid)
	}
	return &out
}

// Validate checks the set for the mistakes the firmware will not catch for
// us: duplicate indices, unlabeled entries, and a boot order referencing
// entries that will not exist.
func (s *BootSet) Validate() error {
	if s.Disk == "" {
		return fmt.Errorf("disk is not set")
	}
	if s.Partition < 1 {
		return fmt.Errorf("partition must be 1 or higher, got %d", s.Partition)
	}
	if len(s.Entries) == 0 {
		return fmt.Errorf("boot set has no entries")
	}

	seen := make(map[int]bool, len(s.Entries))
	for _, e := range s.Entries {
		if e.Index < 0 {
			return fmt.Errorf("entry %q has negative index %d", e.Label, e.Index)
		}
		if seen[e.Index] {
			return fmt.Errorf("duplicate entry index %d", e.Index)
		}
		seen[e.Index] = true

		if e.Label == "" {
			return fmt.Errorf("entry %d has no label", e.Index)
		}
		if e.Loader == "" {
			return fmt.Errorf("entry %d (%s) has no loader", e.Index, e.Label)
		}
	}

	if len(s.Order) == 0 {
		return fmt.Errorf("boot order is empty")
	}
	ordered := make(map[int]bool, len(s.Order))
	for _, idx := range s.Order {
		if !seen[idx] {
			return fmt.Errorf("boot order references index %d which has no entry", idx)
		}
		if ordered[idx] {
			return fmt.Errorf("boot order lists index %d twice", idx)
		}
		ordered[idx] = true
	}

	return nil
}
