package roots

// Collaborators the table dispatches to. All calls are synchronous and
// block until the underlying I/O completes; there is no cancellation.

// MountScanner maintains a snapshot of currently mounted volumes.
type MountScanner interface {
	// Rescan refreshes the snapshot from the kernel.
	Rescan() error
	// FindByMountPoint returns the volume mounted exactly at mountPoint,
	// or nil. Only valid until the next Rescan.
	FindByMountPoint(mountPoint string) *MountedVolume
	Unmount(v *MountedVolume) error
}

// MtdBackend drives raw NAND partitions.
type MtdBackend interface {
	Rescan() error
	FindByName(name string) *MtdPartition
	MountPartition(p *MtdPartition, mountPoint, filesystem string) error
	OpenWrite(p *MtdPartition) (MtdWriter, error)
}

// MtdWriter is an open write context on one NAND partition. Close must be
// called on every exit path, even after a failed erase.
type MtdWriter interface {
	// EraseAll erases the full partition extent.
	EraseAll() error
	Close() error
}

// MmcBackend drives eMMC partitions.
type MmcBackend interface {
	Rescan() error
	FindByName(name string) *MmcPartition
	FormatExt3(p *MmcPartition) error
}

// Mounter is the native mount primitive. It accepts only the fixed
// recovery flag set (noatime, nodev, nodiratime); mounts that need an
// arbitrary option string go through the Runner instead.
type Mounter interface {
	Mount(device, mountPoint, filesystem string) error
}

// Runner invokes an external helper and reports its exit status.
type Runner interface {
	Run(name string, args ...string) error
}

// GenericFormatter is the fallback for roots no dedicated format rule
// matches, typically removable SD-style media.
type GenericFormatter interface {
	Format(t *Table, info *RootInfo) error
}
