// Package mmc drives eMMC partitions: discovery from the kernel's emmc
// partition table and the dedicated ext3 format routine.
package mmc

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/pkg/errors"

	defs "rootctl/definitions"
	log "rootctl/logger"
	"rootctl/pkg/roots"
	"rootctl/pkg/utils"
)

type Backend struct {
	procPath   string
	partitions []roots.MmcPartition
}

func New() *Backend {
	return &Backend{procPath: defs.ProcEmmc}
}

func (b *Backend) Rescan() error {
	f, err := os.Open(b.procPath)
	if err != nil {
		return errors.Wrapf(err, "open %s", b.procPath)
	}
	defer f.Close()

	parts, err := parseProcEmmc(f)
	if err != nil {
		return errors.Wrapf(err, "parse %s", b.procPath)
	}
	b.partitions = parts
	log.Debugf("scanned %d mmc partitions", len(b.partitions))
	return nil
}

func (b *Backend) FindByName(name string) *roots.MmcPartition {
	for i := range b.partitions {
		if b.partitions[i].Name == name {
			return &b.partitions[i]
		}
	}
	return nil
}

// FormatExt3 rebuilds the partition with a journal. The helper runs to
// completion; there is no cancellation once dispatched.
func (b *Backend) FormatExt3(p *roots.MmcPartition) error {
	return utils.RunCommand(defs.Mke2fsHelper, "-j", "-q", p.Device)
}

// parseProcEmmc reads the emmc partition table. Each data line looks like
//
//	mmcblk0p9: 00200000 00000200 "system"
func parseProcEmmc(r io.Reader) ([]roots.MmcPartition, error) {
	var parts []roots.MmcPartition

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
		if !strings.HasPrefix(devName, "mmcblk") {
			return nil, fmt.Errorf("unexpected device in line %q", line)
		}
		name := strings.Trim(strings.Join(fields[3:], " "), `"`)

		parts = append(parts, roots.MmcPartition{
			Device: path.Join(defs.DevBlockDir, devName),
			Name:   name,
		})
	}
	return parts, sc.Err()
}
