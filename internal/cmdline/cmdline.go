// Package cmdline manipulates kernel command-line strings of the form
// "key=value key=value flag", as passed to efibootmgr --unicode. Values are
// opaque: initrd paths keep their backslashes and edid override lists keep
// their commas.
package cmdline

import (
	"fmt"
	"regexp"
	"strings"
)

// Get extracts the value of a parameter from the command line. It returns an
// empty string when the parameter is absent or has no value.
func Get(options, param string) string {
	pattern := regexp.MustCompile(fmt.Sprintf(`(?:^|\s)%s=(\S+)`, regexp.QuoteMeta(param)))
	matches := pattern.FindStringSubmatch(options)
	if len(matches) > 1 {
		return matches[1]
	}
	return ""
}

// GetAll extracts every value of a parameter that may appear multiple times,
// such as initrd= in a microcode-plus-initramfs command line.
func GetAll(options, param string) []string {
	var values []string
	pattern := regexp.MustCompile(fmt.Sprintf(`(?:^|\s)%s=(\S+)`, regexp.QuoteMeta(param)))
	for _, match := range pattern.FindAllStringSubmatch(options, -1) {
		if len(match) > 1 {
			values = append(values, match[1])
		}
	}
	return values
}

// Has checks if a parameter exists in the command line, with or without a value.
func Has(options, param string) bool {
	pattern := regexp.MustCompile(fmt.Sprintf(`(?:^|\s)%s(?:=|\s|$)`, regexp.QuoteMeta(param)))
	return pattern.MatchString(options)
}

// Set replaces the value of a parameter, appending it when absent.
func Set(options, param, newValue string) string {
	pattern := regexp.MustCompile(fmt.Sprintf(`(^|\s)%s=\S+`, regexp.QuoteMeta(param)))
	replacement := fmt.Sprintf("%s=%s", param, newValue)

	if pattern.MatchString(options) {
		return pattern.ReplaceAllString(options, "${1}"+replacement)
	}

	if options == "" {
		return replacement
	}
	return options + " " + replacement
}

// RootUUID extracts the filesystem UUID from a root=UUID=... parameter.
// It returns an empty string when root is absent or not UUID-based.
func RootUUID(options string) string {
	root := Get(options, "root")
	if uuid, ok := strings.CutPrefix(root, "UUID="); ok {
		return uuid
	}
	return ""
}

// SetRootUUID replaces the root= parameter with a UUID-based one.
func SetRootUUID(options, uuid string) string {
	return Set(options, "root", "UUID="+uuid)
}
