package roots

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBoardConf = `
# board overrides for a mmc-only device
[SYSTEM]
kind = mmc
device = /dev/block/mmcblk0p9
filesystem = ext3

[SDCARD]
device2 =

[DATA]
options = noatime,nodev
`

func writeConf(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "board.conf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewFromConfigOverrides(t *testing.T) {
	table, err := NewFromConfig(Deps{
		Scanner: &DummyScanner{},
		Mounter: &DummyMounter{},
		Runner:  &DummyRunner{},
	}, writeConf(t, sampleBoardConf))
	require.NoError(t, err)

	info, err := table.Resolve("SYSTEM:")
	require.NoError(t, err)
	assert.Equal(t, DeviceMmc, info.Kind)
	assert.Equal(t, "/dev/block/mmcblk0p9", info.Device)
	assert.Equal(t, "ext3", info.Filesystem)
	// untouched fields keep their defaults
	assert.Equal(t, "/system", info.MountPoint)
	assert.Equal(t, "system", info.Partition)

	info, err = table.Resolve("DATA:")
	require.NoError(t, err)
	assert.Equal(t, "noatime,nodev", info.FilesystemOptions)

	info, err = table.Resolve("SDCARD:")
	require.NoError(t, err)
	assert.Empty(t, info.Device2, "a board can drop the fallback device")
}

func TestNewFromConfigMissingFileUsesDefaults(t *testing.T) {
	table, err := NewFromConfig(Deps{}, filepath.Join(t.TempDir(), "nope.conf"))
	require.NoError(t, err)

	info, err := table.Resolve("SYSTEM:")
	require.NoError(t, err)
	assert.Equal(t, DeviceBlock, info.Kind)
	assert.Equal(t, "/dev/block/stl9", info.Device)
}

func TestNewFromConfigRejectsUnknownKeys(t *testing.T) {
	_, err := NewFromConfig(Deps{}, writeConf(t, "[SYSTEM]\nfstype = ext4\n"))
	assert.Error(t, err)

	_, err = NewFromConfig(Deps{}, writeConf(t, "[SYSTEM]\nkind = floppy\n"))
	assert.Error(t, err)
}

func TestLabelsTableOrder(t *testing.T) {
	table := New(Deps{})
	labels := table.Labels()
	require.NotEmpty(t, labels)
	assert.Equal(t, "CACHE:", labels[0])
	assert.Equal(t, "TMP:", labels[len(labels)-1])

	seen := map[string]bool{}
	for _, l := range labels {
		assert.False(t, seen[l], "labels must be unique")
		seen[l] = true
	}
}
