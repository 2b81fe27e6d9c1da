// Package disk locates the EFI System Partition and resolves it into the
// disk device and partition number that efibootmgr expects.
package disk

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// ESP represents an EFI System Partition resolved for efibootmgr use.
type ESP struct {
	Device     string `json:"device"`    // partition device, e.g. /dev/nvme0n1p1
	Disk       string `json:"disk"`      // parent disk, e.g. /dev/nvme0n1
	Partition  int    `json:"partition"` // partition number on the disk
	MountPoint string `json:"mountpoint"`
	UUID       string `json:"uuid"`
}

// efiSystemGUID is the GPT partition type of an EFI System Partition.
const efiSystemGUID = "c12a7328-f81f-11d2-ba4b-00a0c93ec93b"

// Detector handles ESP detection from /proc and /sys.
type Detector struct {
	procMounts string
	sysBlock   string
	devDisk    string
}

// NewDetector creates a detector reading the live system paths.
func NewDetector() *Detector {
	return &Detector{
		procMounts: "/proc/mounts",
		sysBlock:   "/sys/block",
		devDisk:    "/dev/disk",
	}
}

// FindESP detects the mounted EFI System Partition and resolves its parent
// disk and partition number.
func (d *Detector) FindESP() (*ESP, error) {
	log.Debug().Msg("Detecting EFI System Partition")

	mounts, err := d.readMounts()
	if err != nil {
		return nil, fmt.Errorf("failed to read mounts: %w", err)
	}

	for _, m := range mounts {
		if !d.isESP(m) {
			continue
		}

		disk, part, err := SplitPartition(m.Device)
		if err != nil {
			return nil, fmt.Errorf("found ESP %s but could not resolve its disk: %w", m.Device, err)
		}

		esp := &ESP{
			Device:     m.Device,
			Disk:       disk,
			Partition:  part,
			MountPoint: m.MountPoint,
		}
		if uuid, err := d.findUUIDForDevice(m.Device); err == nil {
			esp.UUID = uuid
		}

		log.Info().
			Str("device", esp.Device).
			Str("disk", esp.Disk).
			Int("partition", esp.Partition).
			Str("mountpoint", esp.MountPoint).
			Msg("Found EFI System Partition")

		return esp, nil
	}

	return nil, fmt.Errorf("no EFI System Partition found")
}

// Mount represents a mount point from /proc/mounts
type Mount struct {
	Device     string
	MountPoint string
	FSType     string
}

// readMounts reads mount information from /proc/mounts
func (d *Detector) readMounts() ([]*Mount, error) {
	file, err := os.Open(d.procMounts)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var mounts []*Mount
	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			continue
		}

		if !strings.HasPrefix(fields[0], "/dev/") {
			continue
		}

		mounts = append(mounts, &Mount{
			Device:     fields[0],
			MountPoint: fields[1],
			FSType:     fields[2],
		})
	}

	return mounts, scanner.Err()
}

// isESP determines if a mounted device is an EFI System Partition
func (d *Detector) isESP(m *Mount) bool {
	if m.FSType != "vfat" {
		return false
	}

	// Check the GPT partition type GUID via /sys
	if typeGUID, err := d.partitionTypeGUID(m.Device); err == nil {
		if strings.EqualFold(typeGUID, efiSystemGUID) {
			return true
		}
	}

	// Fallback heuristics: common ESP mount points
	commonESPMounts := []string{"/boot", "/boot/efi", "/efi", "/esp"}
	for _, mount := range commonESPMounts {
		if m.MountPoint == mount {
			log.Debug().Str("device", m.Device).Str("mountpoint", m.MountPoint).Msg("Detected ESP using mount point heuristic")
			return true
		}
	}

	// Check if it contains an EFI directory structure
	if m.MountPoint != "" {
		efiDir := filepath.Join(m.MountPoint, "EFI")
		if info, err := os.Stat(efiDir); err == nil && info.IsDir() {
			log.Debug().Str("device", m.Device).Str("mountpoint", m.MountPoint).Msg("Detected ESP using EFI directory heuristic")
			return true
		}
	}

	return false
}

// partitionTypeGUID reads the partition type GUID for a partition device
// from /sys/block/<disk>/<partition>/typeuuid.
func (d *Detector) partitionTypeGUID(device string) (string, error) {
	name := filepath.Base(device)

	entries, err := os.ReadDir(d.sysBlock)
	if err != nil {
		return "", err
	}
	for _, entry := range entries {
		typePath := filepath.Join(d.sysBlock, entry.Name(), name, "typeuuid")
		content, err := os.ReadFile(typePath)
		if err != nil {
			continue
		}
		return strings.TrimSpace(string(content)), nil
	}

	return "", fmt.Errorf("no typeuuid found for %s", name)
}

// findUUIDForDevice finds the filesystem UUID for a device by scanning
// symlinks in /dev/disk/by-uuid.
func (d *Detector) findUUIDForDevice(device string) (string, error) {
	dir := filepath.Join(d.devDisk, "by-uuid")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	for _, entry := range entries {
		linkPath := filepath.Join(dir, entry.Name())
		target, err := os.Readlink(linkPath)
		if err != nil {
			continue
		}

		if !filepath.IsAbs(target) {
			target = filepath.Join(dir, target)
		}
		if filepath.Clean(target) == device {
			return entry.Name(), nil
		}
	}

	return "", fmt.Errorf("UUID not found for device %s", device)
}

// SplitPartition splits a partition device path into its parent disk and
// partition number. It understands the p-suffix convention of nvme and
// mmcblk devices (/dev/nvme0n1p1) as well as plain sd-style suffixes
// (/dev/sda1).
func SplitPartition(device string) (string, int, error) {
	name := filepath.Base(device)

	i := len(name)
	for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
		i--
	}
	if i == len(name) {
		return "", 0, fmt.Errorf("%s has no partition number", device)
	}

	part, err := strconv.Atoi(name[i:])
	if err != nil {
		return "", 0, fmt.Errorf("invalid partition number in %s: %w", device, err)
	}

	disk := name[:i]
	// nvme0n1p1 -> nvme0n1: strip the partition separator when the remaining
	// name still ends in a digit run (nvme0n1, mmcblk0, loop0).
	if strings.HasSuffix(disk, "p") && len(disk) > 1 && disk[len(disk)-2] >= '0' && disk[len(disk)-2] <= '9' {
		disk = disk[:len(disk)-1]
	}
	if disk == "" {
		return "", 0, fmt.Errorf("%s has no disk name", device)
	}

	return filepath.Join(filepath.Dir(device), disk), part, nil
}
