package roots

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	defs "rootctl/definitions"
	er "rootctl/errors"
	log "rootctl/logger"
	"rootctl/pkg/utils"
)

// Format wipes the device behind a root. The argument must be a bare
// label like "DATA:"; a trailing relative path is rejected. If the root is
// mounted it is unmounted first, and an unmount failure aborts the format.
//
// Dispatch is a fixed rule list; the first matching rule wins even if it
// later fails, and no rule is retried.
func (t *Table) Format(root string) error {
	idx := strings.IndexByte(root, ':')
	if idx >= 0 && idx != len(root)-1 {
		return errors.Wrapf(er.TrailingPath, "%q", root)
	}

	info, err := t.Resolve(root)
	if err != nil {
		return err
	}
	if info.Kind == DeviceNone || info.Kind == DevicePackage {
		return errors.Wrapf(er.NotMountable, "%q has no formattable device", root)
	}

	if info.MountPoint != "" {
		// Never format a mounted device.
		if err := t.EnsureUnmounted(root); err != nil {
			return errors.Wrapf(err, "can't unmount %q before format", root)
		}
	}

	switch {
	case info.Kind == DeviceMtd && rawFamily(info.Filesystem):
		return t.formatMtd(info)

	case info.Kind == DeviceMmc && info.Filesystem == FsExt3:
		return t.formatMmcExt3(info)

	case info.Filesystem == FsRfs:
		log.Infof("format %s: %s as rfs", info.Label, info.Device)
		if err := t.deps.Runner.Run(defs.StlFormatHelper, info.Device); err != nil {
			return errors.Wrapf(er.FormatFailed, "stl format %s: %v", info.Device, err)
		}
		return nil

	case strings.HasPrefix(info.Filesystem, "ext"):
		log.Infof("format %s: %s as %s", info.Label, info.Device, info.Filesystem)
		if err := t.deps.Runner.Run(defs.Mke2fsHelper, mke2fsArgs(info)...); err != nil {
			return errors.Wrapf(er.FormatFailed, "mke2fs %s: %v", info.Device, err)
		}
		return nil
	}

	return t.deps.Fallback.Format(t, info)
}

// rawFamily reports whether the filesystem is flash-native: either the raw
// pseudo-filesystem of boot images or yaffs2.
func rawFamily(filesystem string) bool {
	return filesystem == FsRaw || filesystem == FsYaffs2
}

// formatMtd erases the whole partition extent. The write context is closed
// on every exit path, even when the erase failed.
func (t *Table) formatMtd(info *RootInfo) error {
	if err := t.deps.Mtd.Rescan(); err != nil {
		return errors.Wrap(err, "rescan mtd partitions")
	}
	p := t.deps.Mtd.FindByName(info.Partition)
	if p == nil {
		return errors.Wrapf(er.BackendUnavailable, "mtd partition %q", info.Partition)
	}

	w, err := t.deps.Mtd.OpenWrite(p)
	if err != nil {
		return errors.Wrapf(er.FormatFailed, "open %q for write: %v", info.Partition, err)
	}

	eraseErr := w.EraseAll()
	closeErr := w.Close()
	if eraseErr != nil {
		return errors.Wrapf(er.FormatFailed, "erase %q: %v", info.Partition, eraseErr)
	}
	if closeErr != nil {
		return errors.Wrapf(er.FormatFailed, "close %q: %v", info.Partition, closeErr)
	}
	return nil
}

func (t *Table) formatMmcExt3(info *RootInfo) error {
	if err := t.deps.Mmc.Rescan(); err != nil {
		return errors.Wrap(err, "rescan mmc partitions")
	}
	p := t.deps.Mmc.FindByName(info.Partition)
	if p == nil {
		return errors.Wrapf(er.BackendUnavailable, "mmc partition %q", info.Partition)
	}
	if err := t.deps.Mmc.FormatExt3(p); err != nil {
		return errors.Wrapf(er.FormatFailed, "mmc format %q: %v", info.Partition, err)
	}
	return nil
}

// mke2fsArgs assembles the privileged format helper invocation. ext2 has
// neither huge_file nor extent, so only newer revisions strip them.
func mke2fsArgs(info *RootInfo) []string {
	args := []string{"-T", info.Filesystem, "-F", "-j", "-q", "-m", "0", "-b", "4096"}
	if info.Filesystem != "ext2" {
		args = append(args, "-O", "^huge_file,extent")
	}
	return append(args, info.Device)
}

// WipeFormatter is the fallback for removable SD-style media: mount the
// volume and delete its contents rather than rebuilding the filesystem.
type WipeFormatter struct{}

func (WipeFormatter) Format(t *Table, info *RootInfo) error {
	// No expansion partition present is not a failure.
	if info.Label == defs.RootSdext && !utils.FileExist(info.Device) {
		log.Infof("no %s device found, skipping format of %s", info.Label, info.MountPoint)
		return nil
	}

	path, err := t.Translate(info.Label, 0)
	if err != nil {
		return err
	}
	if err := t.EnsureMounted(info.Label); err != nil {
		log.Warnf("error mounting %s, skipping format: %v", path, err)
		return nil
	}

	if err := wipeContents(path); err != nil {
		return errors.Wrapf(er.FormatFailed, "wipe %s: %v", path, err)
	}
	return t.EnsureUnmounted(info.Label)
}

// wipeContents removes everything under dir, dotfiles included, but keeps
// dir itself, it is the live mount point.
func wipeContents(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}
