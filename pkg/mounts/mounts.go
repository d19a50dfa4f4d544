// Package mounts implements the mounted-volume scanner and the native
// mount primitive over the host kernel.
package mounts

import (
	"github.com/containerd/containerd/mount"
	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v3/disk"
	"golang.org/x/sys/unix"

	log "rootctl/logger"
	"rootctl/pkg/roots"
)

// Scanner holds a snapshot of mounted volumes, refreshed on demand. It is
// not safe for concurrent use; the roots table serializes access.
type Scanner struct {
	volumes []roots.MountedVolume
}

func NewScanner() *Scanner {
	return &Scanner{}
}

func (s *Scanner) Rescan() error {
	parts, err := disk.Partitions(true)
	if err != nil {
		return errors.Wrap(err, "list mounted partitions")
	}
	s.volumes = s.volumes[:0]
	for _, p := range parts {
		s.volumes = append(s.volumes, roots.MountedVolume{
			Device:     p.Device,
			MountPoint: p.Mountpoint,
			Filesystem: p.Fstype,
		})
	}
	log.Debugf("scanned %d mounted volumes", len(s.volumes))
	return nil
}

func (s *Scanner) FindByMountPoint(mountPoint string) *roots.MountedVolume {
	for i := range s.volumes {
		if s.volumes[i].MountPoint == mountPoint {
			return &s.volumes[i]
		}
	}
	return nil
}

func (s *Scanner) Unmount(v *roots.MountedVolume) error {
	return unix.Unmount(v.MountPoint, 0)
}

// The native primitive never takes an option string; anything needing one
// goes through the mount helper instead.
var fixedOptions = []string{"noatime", "nodev", "nodiratime"}

// Mounter performs the native mount with the fixed recovery flag set.
type Mounter struct{}

func (Mounter) Mount(device, mountPoint, filesystem string) error {
	m := mount.Mount{
		Type:    filesystem,
		Source:  device,
		Options: fixedOptions,
	}
	return m.Mount(mountPoint)
}
