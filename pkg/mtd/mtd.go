// Package mtd drives raw NAND partitions through the kernel's mtd layer:
// partition discovery from /proc/mtd, mounting via the mtdblock device,
// and whole-partition erase through the mtd character device.
package mtd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/containerd/containerd/mount"
	"github.com/pkg/errors"

	defs "rootctl/definitions"
	log "rootctl/logger"
	"rootctl/pkg/roots"
)

type Backend struct {
	procPath   string
	partitions []roots.MtdPartition
}

func New() *Backend {
	return &Backend{procPath: defs.ProcMtd}
}

// Rescan re-reads the partition list. The kernel only changes it across
// reboots, but callers rescan before every lookup anyway; the read is
// cheap and keeps the call order uniform with the other backends.
func (b *Backend) Rescan() error {
	f, err := os.Open(b.procPath)
	if err != nil {
		return errors.Wrapf(err, "open %s", b.procPath)
	}
	defer f.Close()

	parts, err := parseProcMtd(f)
	if err != nil {
		return errors.Wrapf(err, "parse %s", b.procPath)
	}
	b.partitions = parts
	log.Debugf("scanned %d mtd partitions", len(b.partitions))
	return nil
}

func (b *Backend) FindByName(name string) *roots.MtdPartition {
	for i := range b.partitions {
		if b.partitions[i].Name == name {
			return &b.partitions[i]
		}
	}
	return nil
}

func (b *Backend) MountPartition(p *roots.MtdPartition, mountPoint, filesystem string) error {
	if mountPoint == "" {
		return fmt.Errorf("mtd partition %q has no mount point", p.Name)
	}
	m := mount.Mount{
		Type:    filesystem,
		Source:  fmt.Sprintf(defs.MtdBlockDevFormat, p.Index),
		Options: []string{"noatime", "nodev", "nodiratime"},
	}
	return m.Mount(mountPoint)
}

func (b *Backend) OpenWrite(p *roots.MtdPartition) (roots.MtdWriter, error) {
	f, err := os.OpenFile(fmt.Sprintf(defs.MtdDevFormat, p.Index), os.O_WRONLY, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "open mtd %q", p.Name)
	}
	return &writer{f: f, part: *p}, nil
}

// parseProcMtd reads the /proc/mtd table. Each data line looks like
//
//	mtd3: 00400000 00020000 "boot"
//
// with sizes in hex bytes.
func parseProcMtd(r io.Reader) ([]roots.MtdPartition, error) {
	var parts []roots.MtdPartition

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "dev:") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}

		devName := strings.TrimSuffix(fields[0], ":")
		index, err := strconv.Atoi(strings.TrimPrefix(devName, "mtd"))
		if err != nil {
			continue
		}
		size, err := strconv.ParseUint(fields[1], 16, 64)
		if err != nil {
			return nil, fmt.Errorf("bad size in line %q", line)
		}
		eraseSize, err := strconv.ParseUint(fields[2], 16, 64)
		if err != nil {
			return nil, fmt.Errorf("bad erase size in line %q", line)
		}
		name := strings.Trim(strings.Join(fields[3:], " "), `"`)

		parts = append(parts, roots.MtdPartition{
			Index:     index,
			Name:      name,
			Size:      size,
			EraseSize: eraseSize,
		})
	}
	return parts, sc.Err()
}
