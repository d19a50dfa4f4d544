package roots

// DeviceKind tags how a root's device identifier must be driven. The
// recovery image historically compared device strings against well-known
// sentinel pointers; an explicit tag removes that aliasing hazard.
type DeviceKind int

const (
	// DeviceNone marks a root with no backing device, such as a tmpfs
	// scratch root.
	DeviceNone DeviceKind = iota
	// DeviceMtd is a raw NAND partition addressed by partition name.
	DeviceMtd
	// DeviceMmc is an eMMC partition addressed by partition name.
	DeviceMmc
	// DeviceRaw is a raw block partition with no mountable filesystem.
	DeviceRaw
	// DevicePackage is the virtual root inside a registered update archive.
	DevicePackage
	// DeviceBlock is a generic block device node.
	DeviceBlock
)

func (k DeviceKind) String() string {
	switch k {
	case DeviceMtd:
		return "mtd"
	case DeviceMmc:
		return "mmc"
	case DeviceRaw:
		return "raw"
	case DevicePackage:
		return "package"
	case DeviceBlock:
		return "block"
	default:
		return "none"
	}
}

// Filesystem names with dispatch significance.
const (
	FsRaw    = "raw"
	FsYaffs2 = "yaffs2"
	FsRfs    = "rfs"
	FsExt3   = "ext3"
)

// RootInfo binds a logical label to a device. Label and the device fields
// are immutable once the table is built; only Filesystem and
// FilesystemOptions may change afterwards, through detection or
// SetFilesystem.
type RootInfo struct {
	// Label includes the trailing colon, e.g. "SYSTEM:".
	Label  string
	Kind   DeviceKind
	Device string
	// Device2 is tried once with the native primitive if Device fails to mount.
	Device2 string
	// Partition names the MTD/MMC partition for the backend lookup.
	Partition string
	// MountPoint is absolute, or empty for roots that cannot be mounted.
	MountPoint        string
	Filesystem        string
	FilesystemOptions string
}

// FilesystemOption is one entry of the fixed trial-mount candidate list.
type FilesystemOption struct {
	Filesystem string
	Options    string
}

// Candidate filesystems for detection, in probing priority order. The
// same set bounds SetFilesystem.
var fsCandidates = []FilesystemOption{
	{FsRfs, "llw,check=no"},
	{"ext4", "noatime,nodiratime,nodev,data=ordered"},
}

// Package is an opaque handle to an open update archive. The table never
// looks inside it; it only pairs the handle with archive-relative paths.
type Package interface{}

// MountedVolume is one entry of the mounted-volume snapshot.
type MountedVolume struct {
	Device     string
	MountPoint string
	Filesystem string
}

// MtdPartition describes one NAND partition found by the MTD backend.
type MtdPartition struct {
	Index     int
	Name      string
	Size      uint64
	EraseSize uint64
}

// MmcPartition describes one eMMC partition found by the MMC backend.
type MmcPartition struct {
	Device string
	Name   string
}
