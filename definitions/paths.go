package defs

import "os"

const (
	// Recovery configuration (INI today, easy to switch to TOML later).
	RecoveryConfDir  = "/etc/recovery"
	DefaultBoardConf = RecoveryConfDir + "/board.conf"
	BoardConfEnv     = "ROOTCTL_CONF_FILE"

	DirMode  = os.FileMode(0755) | os.ModeDir
	FileMode = os.FileMode(0644)
)

const (
	ProcMtd  = "/proc/mtd"
	ProcEmmc = "/proc/emmc"

	DevBlockDir = "/dev/block"
	// mtd char and block device nodes, indexed by partition number
	MtdDevFormat      = "/dev/mtd%d"
	MtdBlockDevFormat = "/dev/block/mtdblock%d"
)

// Shell helpers invoked by the mount and format paths. The native mount
// primitive only takes a fixed flag set, so arbitrary option strings go
// through the mount binary instead.
const (
	MountHelper     = "mount"
	StlFormatHelper = "stl.format"
	Mke2fsHelper    = "/sbin/mke2fs"
)
