package efibootmgr

import (
	"regexp"
	"strconv"
	"strings"
)

// entryLine matches one boot entry of the dump, e.g.
// "Boot0000* NVME / Artix Linux (linux-zen)\tHD(1,GPT,...)".
var entryLine = regexp.MustCompile(`^Boot([0-9A-Fa-f]{4})(\*?)\s+(.*)$`)

// EntryInfo is one parsed boot entry from a dump.
type EntryInfo struct {
	Index  int    `json:"index"`
	Active bool   `json:"active"`
	Label  string `json:"label"`
}

// Dump is the parsed form of an efibootmgr listing. It exists for display
// only; nothing feeds it back into NVRAM operations.
type Dump struct {
	BootCurrent string      `json:"boot_current,omitempty"`
	Timeout     string      `json:"timeout,omitempty"`
	Order       []int       `json:"boot_order,omitempty"`
	Entries     []EntryInfo `json:"entries"`
}

// ParseDump parses efibootmgr's human-readable output. Unrecognized lines
// are skipped so format drift degrades to a shorter listing rather than an
// error.
func ParseDump(output string) *Dump {
	dump := &Dump{}

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")

		if groups := entryLine.FindStringSubmatch(line); groups != nil {
			index, err := strconv.ParseInt(groups[1], 16, 32)
			if err != nil {
				continue
			}
			label := groups[3]
			// The label runs up to the device path, separated by a tab.
			if tab := strings.IndexByte(label, '\t'); tab >= 0 {
				label = label[:tab]
			}
			dump.Entries = append(dump.Entries, EntryInfo{
				Index:  int(index),
				Active: groups[2] == "*",
				Label:  label,
			})
			continue
		}

		if value, ok := strings.CutPrefix(line, "BootCurrent:"); ok {
			dump.BootCurrent = strings.TrimSpace(value)
			continue
		}
		if value, ok := strings.CutPrefix(line, "Timeout:"); ok {
			dump.Timeout = strings.TrimSpace(value)
			continue
		}
		if value, ok := strings.CutPrefix(line, "BootOrder:"); ok {
			dump.Order = parseOrder(strings.TrimSpace(value))
			continue
		}
	}

	return dump
}

// parseOrder parses a "0002,0003,0000" style order list.
func parseOrder(value string) []int {
	var order []int
	for _, field := range strings.Split(value, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		index, err := strconv.ParseInt(field, 16, 32)
		if err != nil {
			continue
		}
		order = append(order, int(index))
	}
	return order
}
