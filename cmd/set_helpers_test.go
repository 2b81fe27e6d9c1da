package cmd

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBootSetDefaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	setDefaults()

	set, err := loadBootSet()
	require.NoError(t, err)

	assert.Equal(t, "/dev/nvme0n1", set.Disk)
	assert.Equal(t, 1, set.Partition)
	assert.Equal(t, "2,3,0,1,4", set.OrderString())
	require.Len(t, set.Entries, 5)
	assert.Equal(t, "NVME / Artix Linux (linux-zen)", set.Entries[0].Label)
}

func TestLoadBootSetOverrides(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	setDefaults()

	viper.Set("disk", "/dev/sda")
	viper.Set("partition", 2)
	viper.Set("boot_order", []int{1, 0})
	viper.Set("entries", []map[string]interface{}{
		{"index": 0, "label": "Linux", "loader": `\VMLINUZ-LINUX`, "options": `root=UUID=1111 rw`},
		{"index": 1, "label": "Shell", "loader": `\SHELLX64.EFI`},
	})

	set, err := loadBootSet()
	require.NoError(t, err)

	assert.Equal(t, "/dev/sda", set.Disk)
	assert.Equal(t, 2, set.Partition)
	assert.Equal(t, "1,0", set.OrderString())
	require.Len(t, set.Entries, 2)
	assert.Equal(t, "Linux", set.Entries[0].Label)
	assert.Equal(t, `\SHELLX64.EFI`, set.Entries[1].Loader)
}

func TestLoadBootSetRootUUIDOverride(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	setDefaults()

	viper.Set("root_uuid", "ffffffff-1111-2222-3333-444444444444")

	set, err := loadBootSet()
	require.NoError(t, err)

	for _, e := range set.Entries {
		if e.Options == "" {
			continue
		}
		assert.Equal(t, "ffffffff-1111-2222-3333-444444444444", e.RootUUID(), "entry %q", e.Label)
	}
}

func TestLoadBootSetRejectsInvalidConfig(t *testing.T) {
	tests := []struct {
		name  string
		setup func()
	}{
		{
			name:  "empty_disk",
			setup: func() { viper.Set("disk", "") },
		},
		{
			name:  "zero_partition",
			setup: func() { viper.Set("partition", 0) },
		},
		{
			name: "order_not_subset_of_entries",
			setup: func() {
				viper.Set("boot_order", []int{0, 9})
			},
		},
		{
			name: "duplicate_order",
			setup: func() {
				viper.Set("boot_order", []int{0, 0})
			},
		},
		{
			name: "entry_without_label",
			setup: func() {
				viper.Set("boot_order", []int{0})
				viper.Set("entries", []map[string]interface{}{
					{"index": 0, "label": "", "loader": `\VMLINUZ-LINUX`},
				})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			defer viper.Reset()
			setDefaults()
			tt.setup()

			_, err := loadBootSet()
			assert.Error(t, err)
		})
	}
}

func TestParseIndices(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected []int
		wantErr  bool
	}{
		{"default_order", "2,3,0,1,4", []int{2, 3, 0, 1, 4}, false},
		{"single_index", "0", []int{0}, false},
		{"spaces_allowed", " 1, 2 ,3", []int{1, 2, 3}, false},
		{"empty_field", "1,,2", nil, true},
		{"empty_string", "", nil, true},
		{"not_a_number", "1,two", nil, true},
		{"hex_rejected", "0x1", nil, true},
		{"negative", "-1", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			indices, err := parseIndices(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, indices)
		})
	}
}
