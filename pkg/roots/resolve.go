package roots

import (
	"strings"

	"github.com/pkg/errors"

	er "rootctl/errors"
	log "rootctl/logger"
)

// Resolve scans path up to and including the first colon and returns the
// root registered under that label. Table order is priority order, though
// in practice labels are unique.
func (t *Table) Resolve(path string) (*RootInfo, error) {
	idx := strings.IndexByte(path, ':')
	if idx < 0 {
		return nil, er.UnresolvedLabel
	}
	label := path[:idx+1]
	for _, info := range t.entries {
		if info.Label == label {
			return info, nil
		}
	}
	return nil, errors.Wrapf(er.UnresolvedLabel, "%q", label)
}

// Translate turns a labeled path like "SYSTEM:lib" into an absolute path
// like "/system/lib". capacity is the destination buffer size in bytes
// including the terminator; zero or negative means unbounded. A result
// that does not fit fails whole, it is never truncated.
func (t *Table) Translate(path string, capacity int) (string, error) {
	info, err := t.Resolve(path)
	if err != nil {
		return "", err
	}
	if info.MountPoint == "" {
		return "", errors.Wrapf(er.NotMountable, "%q", info.Label)
	}

	rel := strings.TrimLeft(path[len(info.Label):], "/")

	out := info.MountPoint
	if rel != "" {
		if !strings.HasSuffix(out, "/") {
			out += "/"
		}
		out += rel
	}

	if capacity > 0 && len(out)+1 > capacity {
		return "", errors.Wrapf(er.BufferTooSmall, "need %d, have %d", len(out)+1, capacity)
	}
	return out, nil
}

// RegisterPackage binds pkg as the archive behind the package root. A nil
// pkg clears the binding. At most one binding is live at a time.
func (t *Table) RegisterPackage(pkg Package, path string) {
	if pkg == nil {
		t.pkg = nil
		t.pkgPath = ""
		return
	}
	t.pkg = pkg
	t.pkgPath = path
}

// PackagePath returns the base path of the registered archive, or "".
func (t *Table) PackagePath() string {
	return t.pkgPath
}

// IsPackagePath reports whether path resolves to the package root.
func (t *Table) IsPackagePath(path string) bool {
	info, err := t.Resolve(path)
	return err == nil && info.Kind == DevicePackage
}

// TranslatePackage strips the package label and returns the registered
// archive together with the remainder, verbatim, as the archive-relative
// path.
func (t *Table) TranslatePackage(path string) (Package, string, error) {
	info, err := t.Resolve(path)
	if err != nil {
		return nil, "", err
	}
	if info.Kind != DevicePackage {
		return nil, "", errors.Wrapf(er.NotPackageRoot, "%q", info.Label)
	}
	if t.pkg == nil {
		return nil, "", er.NoPackageBound
	}
	return t.pkg, path[len(info.Label):], nil
}

// Filesystem returns the root's current filesystem name.
func (t *Table) Filesystem(label string) (string, error) {
	info, err := t.resolveDevice(label)
	if err != nil {
		return "", err
	}
	return info.Filesystem, nil
}

// MountPoint returns the root's mount point, which may be empty.
func (t *Table) MountPoint(label string) (string, error) {
	info, err := t.resolveDevice(label)
	if err != nil {
		return "", err
	}
	return info.MountPoint, nil
}

// Device returns the root's primary device identifier.
func (t *Table) Device(label string) (string, error) {
	info, err := t.resolveDevice(label)
	if err != nil {
		return "", err
	}
	return info.Device, nil
}

// resolveDevice resolves a label that must denote some concrete device.
func (t *Table) resolveDevice(label string) (*RootInfo, error) {
	info, err := t.Resolve(label)
	if err != nil {
		return nil, err
	}
	if info.Kind == DeviceNone || info.Kind == DevicePackage {
		log.Warnf("can't resolve %q to a device", label)
		return nil, errors.Wrapf(er.UnresolvedLabel, "%q has no device", label)
	}
	return info, nil
}

// SetFilesystem overrides the root's filesystem, restricted to the
// supported internal candidates. The matching option string comes along.
func (t *Table) SetFilesystem(label, filesystem string) error {
	info, err := t.Resolve(label)
	if err != nil {
		return err
	}
	for _, cand := range fsCandidates {
		if cand.Filesystem == filesystem {
			info.Filesystem = cand.Filesystem
			info.FilesystemOptions = cand.Options
			return nil
		}
	}
	return errors.Wrapf(er.UnsupportedFs, "%q", filesystem)
}

// MtdPartitionFor looks up the NAND partition backing an MTD root.
func (t *Table) MtdPartitionFor(label string) (*MtdPartition, error) {
	info, err := t.Resolve(label)
	if err != nil {
		return nil, err
	}
	if info.Kind != DeviceMtd || info.Partition == "" {
		return nil, errors.Wrapf(er.BackendUnavailable, "%q is not an mtd root", label)
	}
	if err := t.deps.Mtd.Rescan(); err != nil {
		return nil, errors.Wrap(err, "rescan mtd partitions")
	}
	p := t.deps.Mtd.FindByName(info.Partition)
	if p == nil {
		return nil, errors.Wrapf(er.BackendUnavailable, "mtd partition %q", info.Partition)
	}
	return p, nil
}
