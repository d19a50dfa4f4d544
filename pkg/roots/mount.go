package roots

import (
	"github.com/pkg/errors"

	defs "rootctl/definitions"
	er "rootctl/errors"
	log "rootctl/logger"
)

const defaultMountOptions = "noatime,nodiratime,nodev"

// findMounted refreshes the mounted-volume snapshot and returns the volume
// at the root's mount point, or nil.
func (t *Table) findMounted(info *RootInfo) (*MountedVolume, error) {
	if err := t.deps.Scanner.Rescan(); err != nil {
		return nil, errors.Wrap(err, "rescan mounted volumes")
	}
	return t.deps.Scanner.FindByMountPoint(info.MountPoint), nil
}

// IsMounted reports whether the root is currently mounted. A root with no
// mount point is an error, not a state.
func (t *Table) IsMounted(label string) (bool, error) {
	info, err := t.Resolve(label)
	if err != nil {
		return false, err
	}
	if info.MountPoint == "" {
		return false, errors.Wrapf(er.NotMountable, "%q", info.Label)
	}
	v, err := t.findMounted(info)
	if err != nil {
		return false, err
	}
	return v != nil, nil
}

// mountInternal picks between the native primitive and the mount helper.
// The native primitive only takes the fixed flag set, so anything with an
// option string, and "auto" probing, must go through the helper binary.
func (t *Table) mountInternal(device, mountPoint, filesystem, options string) error {
	if filesystem != defs.AutoFilesystem && options == "" {
		return t.deps.Mounter.Mount(device, mountPoint, filesystem)
	}
	if options == "" {
		options = defaultMountOptions
	}
	return t.deps.Runner.Run(defs.MountHelper, "-t", filesystem, "-o"+options, device, mountPoint)
}

// EnsureMounted mounts the root if it is not already mounted. A second
// call while mounted issues no backend call at all.
func (t *Table) EnsureMounted(label string) error {
	info, err := t.Resolve(label)
	if err != nil {
		return err
	}

	if info.MountPoint != "" {
		v, err := t.findMounted(info)
		if err != nil {
			return err
		}
		if v != nil {
			return nil
		}
	}

	switch info.Kind {
	case DeviceMtd:
		if info.Partition == "" {
			return errors.Wrapf(er.MissingPartition, "%q", info.Label)
		}
		if err := t.deps.Mtd.Rescan(); err != nil {
			return errors.Wrap(err, "rescan mtd partitions")
		}
		p := t.deps.Mtd.FindByName(info.Partition)
		if p == nil {
			return errors.Wrapf(er.BackendUnavailable, "mtd partition %q", info.Partition)
		}
		if err := t.deps.Mtd.MountPartition(p, info.MountPoint, info.Filesystem); err != nil {
			return errors.Wrapf(er.MountFailed, "mtd %q: %v", info.Partition, err)
		}
		return nil

	case DeviceRaw, DevicePackage, DeviceNone:
		return errors.Wrapf(er.NotMountable, "%q", info.Label)
	}

	if info.Device == "" || info.MountPoint == "" ||
		info.Filesystem == "" || info.Filesystem == FsRaw {
		return errors.Wrapf(er.NotMountable, "%q", info.Label)
	}

	// The directory may be missing on a fresh ramdisk. It survives a
	// failed mount; there is no rollback.
	if err := t.mkdir(info.MountPoint, 0o755); err != nil {
		log.Warnf("can't create mount point %s: %v", info.MountPoint, err)
	}

	if err := t.mountInternal(info.Device, info.MountPoint, info.Filesystem, info.FilesystemOptions); err != nil {
		if info.Device2 == "" {
			return errors.Wrapf(er.MountFailed, "can't mount %s: %v", info.Device, err)
		}
		// One shot at the fallback device, native primitive only.
		if err2 := t.deps.Mounter.Mount(info.Device2, info.MountPoint, info.Filesystem); err2 != nil {
			return errors.Wrapf(er.MountFailed, "can't mount %s (or %s): %v",
				info.Device, info.Device2, err2)
		}
	}
	return nil
}

// EnsureUnmounted unmounts the root if it is mounted. A root with no mount
// point is by definition not mounted; that is immediate success with no
// backend call.
func (t *Table) EnsureUnmounted(label string) error {
	info, err := t.Resolve(label)
	if err != nil {
		return err
	}
	if info.MountPoint == "" {
		return nil
	}

	v, err := t.findMounted(info)
	if err != nil {
		return err
	}
	if v == nil {
		return nil
	}
	return errors.Wrapf(t.deps.Scanner.Unmount(v), "unmount %s", info.MountPoint)
}
