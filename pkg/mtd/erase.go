package mtd

import (
	"os"
	"unsafe"

	"golang.org/x/sys/unix"

	log "rootctl/logger"
	"rootctl/pkg/roots"
)

// struct erase_info_user from <mtd/mtd-abi.h>.
type eraseInfo struct {
	start  uint32
	length uint32
}

// MEMERASE = _IOW('M', 2, struct erase_info_user)
const memErase = 0x40084d02

type writer struct {
	f    *os.File
	part roots.MtdPartition
}

// EraseAll erases the full partition extent, one erase block at a time.
// Bad blocks surface as EIO from the ioctl and abort the erase; the
// caller still closes the context.
func (w *writer) EraseAll() error {
	for off := uint64(0); off < w.part.Size; off += w.part.EraseSize {
		ei := eraseInfo{start: uint32(off), length: uint32(w.part.EraseSize)}
		_, _, errno := unix.Syscall(unix.SYS_IOCTL, w.f.Fd(), memErase, uintptr(unsafe.Pointer(&ei)))
		if errno != 0 {
			log.Warnf("erase %s at %#x: %v", w.part.Name, off, errno)
			return os.NewSyscallError("ioctl MEMERASE", errno)
		}
	}
	return nil
}

func (w *writer) Close() error {
	return w.f.Close()
}
