package bootset

// The built-in set reproduces the firmware menu this tool was written for:
// four Artix kernels on the first NVMe partition plus the EFI shell, booting
// the stock kernel first and the shell last.
const (
	defaultDisk      = "/dev/nvme0n1"
	defaultPartition = 1

	rootUUID = "0a3f53b7-cf6e-4dcf-9bd5-1c1f2e5a8d07"

	// Display wiring shared by every kernel entry: unlock the amdgpu power
	// tables, force both outputs on, and override each monitor's broken EDID.
	displayOptions = `amdgpu.ppfeaturemask=0xffffffff video=DP-1:e video=HDMI-A-1:e drm.edid_firmware=DP-1:edid/dp1.bin,HDMI-A-1:edid/hdmi1.bin`
)

// DefaultOrder is the firmware boot order the recreate sequence ends with.
var DefaultOrder = []int{2, 3, 0, 1, 4}

// Default returns the built-in boot set.
func Default() *BootSet {
	order := make([]int, len(DefaultOrder))
	copy(order, DefaultOrder)

	return &BootSet{
		Disk:      defaultDisk,
		Partition: defaultPartition,
		Order:     order,
		Entries: []Entry{
			{
				Index:   0,
				Label:   "NVME / Artix Linux (linux-zen)",
				Loader:  "VMLINUZ-LINUX-ZEN",
				Options: `root=UUID=` + rootUUID + ` rw loglevel=3 initrd=\amd-ucode.img initrd=\initramfs-linux-zen.img ` + displayOptions,
			},
			{
				Index:   1,
				Label:   "NVME / Artix Linux (linux-zen-fallback)",
				Loader:  "VMLINUZ-LINUX-ZEN",
				Options: `root=UUID=` + rootUUID + ` rw loglevel=3 initrd=\amd-ucode.img initrd=\initramfs-linux-zen-fallback.img ` + displayOptions,
			},
			{
				Index:   2,
				Label:   "NVME / Artix Linux (linux)",
				Loader:  "VMLINUZ-LINUX",
				Options: `root=UUID=` + rootUUID + ` rw loglevel=3 initrd=\amd-ucode.img initrd=\initramfs-linux.img ` + displayOptions,
			},
			{
				Index:   3,
				Label:   "NVME / Artix Linux (linux-fallback)",
				Loader:  "VMLINUZ-LINUX",
				Options: `root=UUID=` + rootUUID + ` rw loglevel=3 initrd=\amd-ucode.img initrd=\initramfs-linux-fallback.img ` + displayOptions,
			},
			{
				Index:  4,
				Label:  "UEFI Shell",
				Loader: "SHELLX64.EFI",
			},
		},
	}
}
