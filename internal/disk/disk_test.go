package disk

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitPartition(t *testing.T) {
	tests := []struct {
		name      string
		device    string
		wantDisk  string
		wantPart  int
		expectErr bool
	}{
		{
			name:     "nvme partition",
			device:   "/dev/nvme0n1p1",
			wantDisk: "/dev/nvme0n1",
			wantPart: 1,
		},
		{
			name:     "nvme multi-digit partition",
			device:   "/dev/nvme0n1p12",
			wantDisk: "/dev/nvme0n1",
			wantPart: 12,
		},
		{
			name:     "sd partition",
			device:   "/dev/sda1",
			wantDisk: "/dev/sda",
			wantPart: 1,
		},
		{
			name:     "mmcblk partition",
			device:   "/dev/mmcblk0p2",
			wantDisk: "/dev/mmcblk0",
			wantPart: 2,
		},
		{
			name:      "bare disk",
			device:    "/dev/sda",
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			disk, part, err := SplitPartition(tt.device)
			if tt.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantDisk, disk)
			assert.Equal(t, tt.wantPart, part)
		})
	}
}

func writeMounts(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "mounts")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadMounts(t *testing.T) {
	mountsFile := writeMounts(t, `proc /proc proc rw,nosuid 0 0
/dev/nvme0n1p2 / ext4 rw,relatime 0 0
/dev/nvme0n1p1 /boot vfat rw,relatime 0 0
tmpfs /tmp tmpfs rw 0 0
malformed-line
`)

	d := &Detector{procMounts: mountsFile}
	mounts, err := d.readMounts()
	require.NoError(t, err)

	// Only /dev/ backed mounts survive
	require.Len(t, mounts, 2)
	assert.Equal(t, "/dev/nvme0n1p2", mounts[0].Device)
	assert.Equal(t, "/", mounts[0].MountPoint)
	assert.Equal(t, "ext4", mounts[0].FSType)
	assert.Equal(t, "/dev/nvme0n1p1", mounts[1].Device)
	assert.Equal(t, "/boot", mounts[1].MountPoint)
	assert.Equal(t, "vfat", mounts[1].FSType)
}

func TestReadMountsMissingFile(t *testing.T) {
	d := &Detector{procMounts: filepath.Join(t.TempDir(), "does-not-exist")}
	_, err := d.readMounts()
	assert.Error(t, err)
}

func TestIsESP(t *testing.T) {
	tmpDir := t.TempDir()
	d := &Detector{sysBlock: filepath.Join(tmpDir, "no-sys-block")}

	t.Run("non-vfat is never an ESP", func(t *testing.T) {
		assert.False(t, d.isESP(&Mount{Device: "/dev/nvme0n1p2", MountPoint: "/", FSType: "ext4"}))
	})

	t.Run("vfat on common mount point", func(t *testing.T) {
		assert.True(t, d.isESP(&Mount{Device: "/dev/nvme0n1p1", MountPoint: "/boot", FSType: "vfat"}))
		assert.True(t, d.isESP(&Mount{Device: "/dev/sda1", MountPoint: "/efi", FSType: "vfat"}))
	})

	t.Run("vfat with EFI directory", func(t *testing.T) {
		mountPoint := filepath.Join(tmpDir, "esp")
		require.NoError(t, os.MkdirAll(filepath.Join(mountPoint, "EFI"), 0755))
		assert.True(t, d.isESP(&Mount{Device: "/dev/sda1", MountPoint: mountPoint, FSType: "vfat"}))
	})

	t.Run("vfat without any ESP markers", func(t *testing.T) {
		mountPoint := filepath.Join(tmpDir, "usb")
		require.NoError(t, os.MkdirAll(mountPoint, 0755))
		assert.False(t, d.isESP(&Mount{Device: "/dev/sdb1", MountPoint: mountPoint, FSType: "vfat"}))
	})

	t.Run("GPT type GUID from sys", func(t *testing.T) {
		sysBlock := filepath.Join(tmpDir, "sys-block")
		partDir := filepath.Join(sysBlock, "nvme0n1", "nvme0n1p1")
		require.NoError(t, os.MkdirAll(partDir, 0755))
		require.NoError(t, os.WriteFile(filepath.Join(partDir, "typeuuid"), []byte(efiSystemGUID+"\n"), 0644))

		withSys := &Detector{sysBlock: sysBlock}
		assert.True(t, withSys.isESP(&Mount{Device: "/dev/nvme0n1p1", MountPoint: "/weird/mount", FSType: "vfat"}))
	})
}

func TestFindESP(t *testing.T) {
	tmpDir := t.TempDir()
	mountPoint := filepath.Join(tmpDir, "boot")
	require.NoError(t, os.MkdirAll(filepath.Join(mountPoint, "EFI"), 0755))

	mountsFile := writeMounts(t,
		"/dev/nvme0n1p2 / ext4 rw 0 0\n"+
			"/dev/nvme0n1p1 "+mountPoint+" vfat rw 0 0\n")

	d := &Detector{
		procMounts: mountsFile,
		sysBlock:   filepath.Join(tmpDir, "no-sys-block"),
		devDisk:    filepath.Join(tmpDir, "no-dev-disk"),
	}

	esp, err := d.FindESP()
	require.NoError(t, err)
	assert.Equal(t, "/dev/nvme0n1p1", esp.Device)
	assert.Equal(t, "/dev/nvme0n1", esp.Disk)
	assert.Equal(t, 1, esp.Partition)
	assert.Equal(t, mountPoint, esp.MountPoint)
}

func TestFindESPNotFound(t *testing.T) {
	mountsFile := writeMounts(t, "/dev/nvme0n1p2 / ext4 rw 0 0\n")
	d := &Detector{
		procMounts: mountsFile,
		sysBlock:   filepath.Join(t.TempDir(), "no-sys-block"),
	}

	_, err := d.FindESP()
	assert.ErrorContains(t, err, "no EFI System Partition found")
}
