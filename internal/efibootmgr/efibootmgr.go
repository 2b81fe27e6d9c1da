// Package efibootmgr drives the external efibootmgr binary. All firmware
// NVRAM access goes through it; nothing here touches efivarfs directly.
package efibootmgr

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/efikit/bootentries/internal/runner"
)

// Binary is the external tool every operation shells out to.
const Binary = "efibootmgr"

// Supported reports whether this system can be managed: it must have been
// booted in UEFI mode and have efibootmgr available on the PATH.
func Supported() error {
	if _, err := os.Stat("/sys/firmware/efi"); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("the operating system has not been booted in UEFI mode")
		}
		return fmt.Errorf("failed to query system UEFI status: %w", err)
	}

	if _, err := exec.LookPath(Binary); err != nil {
		return fmt.Errorf("%s was not found in the system PATH", Binary)
	}

	return nil
}

// OpError names the operation and target that failed so a sequence of steps
// can report exactly which one went wrong.
type OpError struct {
	Op     string // "delete", "create", "order"
	Target string // "Boot0003", a label, or the order string
	Err    error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Target, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// Client issues efibootmgr invocations through a Runner.
type Client struct {
	r runner.Runner
}

// NewClient creates a client on the given runner.
func NewClient(r runner.Runner) *Client {
	return &Client{r: r}
}

// BootNum renders a boot index the way efibootmgr names its variables.
func BootNum(index int) string {
	return fmt.Sprintf("%04X", index)
}

// Dump lists the current firmware boot entries and returns the tool's output
// verbatim for the caller to show the user.
func (c *Client) Dump() (string, error) {
	return c.r.CommandOutput(Binary, []string{"--unicode"}, "Dump current boot entries")
}

// DeleteEntry deletes the boot entry at the given index. Output is discarded.
func (c *Client) DeleteEntry(index int) error {
	num := BootNum(index)
	args := []string{"-b", num, "-B"}
	if err := c.r.Command(Binary, args, fmt.Sprintf("Delete boot entry Boot%s", num)); err != nil {
		return &OpError{Op: "delete", Target: "Boot" + num, Err: err}
	}
	return nil
}

// CreateEntry creates a boot entry on the given disk and partition. The
// firmware assigns the lowest free index, so callers create entries in
// ascending index order against an emptied range. Output is discarded.
func (c *Client) CreateEntry(disk string, partition int, label, loader, options string) error {
	args := []string{
		"--create",
		"--disk", disk,
		"--part", strconv.Itoa(partition),
		"--label", label,
		"--loader", loader,
	}
	if options != "" {
		args = append(args, "--unicode", options)
	}

	if err := c.r.Command(Binary, args, fmt.Sprintf("Create boot entry %q", label)); err != nil {
		return &OpError{Op: "create", Target: label, Err: err}
	}
	return nil
}

// SetBootOrder overwrites the firmware boot order wholesale. Output is
// discarded.
func (c *Client) SetBootOrder(order []int) error {
	arg := OrderArg(order)
	if err := c.r.Command(Binary, []string{"-o", arg}, "Set boot order"); err != nil {
		return &OpError{Op: "order", Target: arg, Err: err}
	}
	return nil
}

// OrderArg renders a boot order the way efibootmgr -o expects it: hex
// indices, comma-separated, the same radix the BootXXXX variable names use.
// Indices below ten read the same in either radix; Boot0010 (decimal 16) is
// rendered "10".
func OrderArg(order []int) string {
	parts := make([]string, 0, len(order))
	for _, idx := range order {
		parts = append(parts, fmt.Sprintf("%X", idx))
	}
	return strings.Join(parts, ",")
}
