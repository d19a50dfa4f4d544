package defs

// Root labels recognized by the resolver. The trailing colon is part of
// the label and comparisons are case-sensitive.
const (
	RootCache    = "CACHE:"
	RootData     = "DATA:"
	RootDataData = "DATADATA:"
	RootSystem   = "SYSTEM:"
	RootPackage  = "PACKAGE:"
	RootBoot     = "BOOT:"
	RootRecovery = "RECOVERY:"
	RootSdcard   = "SDCARD:"
	RootSdext    = "SDEXT:"
	RootMbm      = "MBM:"
	RootTmp      = "TMP:"
)

// Board defaults, overridable through the board config file.
const (
	CacheDevice    = "/dev/block/stl11"
	DataDevice     = "/dev/block/mmcblk0p2"
	DataDataDevice = "/dev/block/stl10"
	SystemDevice   = "/dev/block/stl9"

	SdcardDevicePrimary   = "/dev/block/mmcblk1p1"
	SdcardDeviceSecondary = "/dev/block/mmcblk1"
	SdextDevice           = "/dev/block/mmcblk1p2"

	// filesystem before detection has run
	UnknownFilesystem = "unknown"
	AutoFilesystem    = "auto"
	VfatFilesystem    = "vfat"
)
