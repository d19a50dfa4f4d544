package roots

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	er "rootctl/errors"
)

// acceptOnly makes the mount helper succeed for exactly one filesystem.
func acceptOnly(filesystem string) func(name string, args ...string) error {
	return func(name string, args ...string) error {
		if len(args) >= 2 && args[1] == filesystem {
			return nil
		}
		return fmt.Errorf("wrong fs")
	}
}

func TestDetectPicksSecondCandidate(t *testing.T) {
	table, scanner, _, runner, _, _ := newTestTable()
	runner.OnRun = acceptOnly("ext4")

	require.NoError(t, table.Detect("SYSTEM:"))

	fs, err := table.Filesystem("SYSTEM:")
	require.NoError(t, err)
	assert.Equal(t, "ext4", fs)

	info, err := table.Resolve("SYSTEM:")
	require.NoError(t, err)
	assert.Equal(t, "noatime,nodiratime,nodev,data=ordered", info.FilesystemOptions)

	// one probe per candidate until the hit
	assert.Len(t, runner.Calls, 2)
	// detection never leaves the device mounted
	assert.Nil(t, scanner.FindByMountPoint("/system"))
}

func TestDetectFirstCandidateShortCircuits(t *testing.T) {
	table, _, _, runner, _, _ := newTestTable()
	runner.OnRun = acceptOnly("rfs")

	require.NoError(t, table.Detect("CACHE:"))

	fs, err := table.Filesystem("CACHE:")
	require.NoError(t, err)
	assert.Equal(t, "rfs", fs)
	assert.Len(t, runner.Calls, 1)
}

func TestDetectExhausted(t *testing.T) {
	table, _, _, runner, _, _ := newTestTable()
	runner.OnRun = func(name string, args ...string) error {
		return fmt.Errorf("mount: wrong fs type")
	}

	err := table.Detect("SYSTEM:")
	assert.True(t, errors.Is(err, er.DetectionExhausted))

	// prior fields survive an exhausted pass
	fs, ferr := table.Filesystem("SYSTEM:")
	require.NoError(t, ferr)
	assert.Equal(t, "unknown", fs)
	info, _ := table.Resolve("SYSTEM:")
	assert.Empty(t, info.FilesystemOptions)

	// a single pass, never retried
	assert.Len(t, runner.Calls, 2)
}

func TestDetectUnmountsFirst(t *testing.T) {
	table, scanner, _, runner, _, _ := newTestTable()
	runner.OnRun = acceptOnly("ext4")
	scanner.Mount("/dev/block/stl9", "/system", "rfs")

	require.NoError(t, table.Detect("SYSTEM:"))
	assert.Equal(t, []string{"/system"}, scanner.Unmounted[:1])
}

func TestDetectRejectsDevicelessRoots(t *testing.T) {
	table, _, _, runner, _, _ := newTestTable()

	for _, label := range []string{"TMP:", "PACKAGE:", "BOOT:"} {
		err := table.Detect(label)
		assert.Error(t, err, label)
	}
	assert.Empty(t, runner.Calls)
}
