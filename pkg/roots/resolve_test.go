package roots

import (
	"os"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	er "rootctl/errors"
)

func newTestTable() (*Table, *DummyScanner, *DummyMounter, *DummyRunner, *DummyMtd, *DummyMmc) {
	scanner := &DummyScanner{}
	mounter := &DummyMounter{}
	runner := &DummyRunner{}
	mtd := &DummyMtd{Partitions: []MtdPartition{
		{Index: 0, Name: "boot", Size: 0x400000, EraseSize: 0x20000},
		{Index: 1, Name: "recovery", Size: 0x400000, EraseSize: 0x20000},
		{Index: 2, Name: "mbm", Size: 0x100000, EraseSize: 0x20000},
	}}
	mmc := &DummyMmc{Partitions: []MmcPartition{
		{Device: "/dev/block/mmcblk0p9", Name: "system"},
	}}
	t := New(Deps{
		Scanner: scanner,
		Mtd:     mtd,
		Mmc:     mmc,
		Mounter: mounter,
		Runner:  runner,
	})
	// keep the tests off the real filesystem
	t.mkdir = func(string, os.FileMode) error { return nil }
	return t, scanner, mounter, runner, mtd, mmc
}

func TestResolve(t *testing.T) {
	table, _, _, _, _, _ := newTestTable()

	tests := []struct {
		name  string
		path  string
		label string
		err   error
	}{
		{"bare label", "SYSTEM:", "SYSTEM:", nil},
		{"label with path", "SYSTEM:lib/libc.so", "SYSTEM:", nil},
		{"longest of similar labels", "DATADATA:x", "DATADATA:", nil},
		{"shorter of similar labels", "DATA:x", "DATA:", nil},
		{"unknown label", "FOO:bar", "", er.UnresolvedLabel},
		{"no colon", "SYSTEM/lib", "", er.UnresolvedLabel},
		{"empty", "", "", er.UnresolvedLabel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := table.Resolve(tt.path)
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err))
				assert.Nil(t, info)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.label, info.Label)
		})
	}
}

func TestTranslate(t *testing.T) {
	table, _, _, _, _, _ := newTestTable()

	tests := []struct {
		name     string
		path     string
		capacity int
		want     string
		err      error
	}{
		{"bare label is the mount point", "SYSTEM:", 0, "/system", nil},
		{"simple join", "SYSTEM:lib/libc.so", 0, "/system/lib/libc.so", nil},
		{"leading separators stripped", "SYSTEM://lib", 0, "/system/lib", nil},
		{"root mount point not doubled", "RECOVERY:etc", 0, "/etc", nil},
		{"exact fit", "SYSTEM:lib", 12, "/system/lib", nil},
		{"one byte short", "SYSTEM:lib", 11, "", er.BufferTooSmall},
		{"unmountable root", "BOOT:", 0, "", er.NotMountable},
		{"unresolved", "FOO:bar", 0, "", er.UnresolvedLabel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := table.Translate(tt.path, tt.capacity)
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err))
				assert.Empty(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTranslateAllMountableLabels(t *testing.T) {
	table, _, _, _, _, _ := newTestTable()

	for _, label := range table.Labels() {
		info, err := table.Resolve(label)
		require.NoError(t, err)
		if info.MountPoint == "" {
			continue
		}
		got, err := table.Translate(label, 0)
		require.NoError(t, err)
		assert.Equal(t, info.MountPoint, got, "bare %s must translate to its mount point", label)
	}
}

type dummyArchive struct{ name string }

func TestTranslatePackage(t *testing.T) {
	table, _, _, _, _, _ := newTestTable()

	_, _, err := table.TranslatePackage("PACKAGE:META-INF/com")
	assert.True(t, errors.Is(err, er.NoPackageBound))

	archive := &dummyArchive{name: "update.zip"}
	table.RegisterPackage(archive, "/sdcard/update.zip")
	assert.Equal(t, "/sdcard/update.zip", table.PackagePath())

	pkg, rel, err := table.TranslatePackage("PACKAGE:META-INF/com")
	require.NoError(t, err)
	assert.Same(t, archive, pkg)
	// the remainder is kept verbatim, leading separators included
	assert.Equal(t, "META-INF/com", rel)

	pkg, rel, err = table.TranslatePackage("PACKAGE://lib")
	require.NoError(t, err)
	assert.Equal(t, "//lib", rel)

	_, _, err = table.TranslatePackage("SYSTEM:lib")
	assert.True(t, errors.Is(err, er.NotPackageRoot))

	table.RegisterPackage(nil, "")
	_, _, err = table.TranslatePackage("PACKAGE:x")
	assert.True(t, errors.Is(err, er.NoPackageBound))
	assert.Empty(t, table.PackagePath())
}

func TestIsPackagePath(t *testing.T) {
	table, _, _, _, _, _ := newTestTable()

	assert.True(t, table.IsPackagePath("PACKAGE:anything"))
	assert.False(t, table.IsPackagePath("SYSTEM:anything"))
	assert.False(t, table.IsPackagePath("no-colon"))
}

func TestAccessors(t *testing.T) {
	table, _, _, _, _, _ := newTestTable()

	fs, err := table.Filesystem("SDCARD:")
	require.NoError(t, err)
	assert.Equal(t, "vfat", fs)

	mp, err := table.MountPoint("SYSTEM:")
	require.NoError(t, err)
	assert.Equal(t, "/system", mp)

	dev, err := table.Device("DATA:")
	require.NoError(t, err)
	assert.Equal(t, "/dev/block/mmcblk0p2", dev)

	// roots with no device do not resolve through the accessors
	_, err = table.Filesystem("TMP:")
	assert.True(t, errors.Is(err, er.UnresolvedLabel))
	_, err = table.MountPoint("PACKAGE:")
	assert.True(t, errors.Is(err, er.UnresolvedLabel))
}

func TestSetFilesystem(t *testing.T) {
	table, _, _, _, _, _ := newTestTable()

	require.NoError(t, table.SetFilesystem("SYSTEM:", "ext4"))
	fs, err := table.Filesystem("SYSTEM:")
	require.NoError(t, err)
	assert.Equal(t, "ext4", fs)

	info, err := table.Resolve("SYSTEM:")
	require.NoError(t, err)
	assert.Equal(t, "noatime,nodiratime,nodev,data=ordered", info.FilesystemOptions)

	err = table.SetFilesystem("SYSTEM:", "vfat")
	assert.True(t, errors.Is(err, er.UnsupportedFs))
	// a rejected override leaves the entry alone
	fs, _ = table.Filesystem("SYSTEM:")
	assert.Equal(t, "ext4", fs)
}

func TestMtdPartitionFor(t *testing.T) {
	table, _, _, _, mtd, _ := newTestTable()

	p, err := table.MtdPartitionFor("BOOT:")
	require.NoError(t, err)
	assert.Equal(t, "boot", p.Name)
	assert.Equal(t, 1, mtd.Rescans)

	_, err = table.MtdPartitionFor("SYSTEM:")
	assert.True(t, errors.Is(err, er.BackendUnavailable))
}
