package roots

import (
	"fmt"
	"os"
	"strings"

	"github.com/gookit/ini/v2"

	defs "rootctl/definitions"
	log "rootctl/logger"
	"rootctl/pkg/utils"
)

// Deps collects the external backends a table dispatches to.
type Deps struct {
	Scanner  MountScanner
	Mtd      MtdBackend
	Mmc      MmcBackend
	Mounter  Mounter
	Runner   Runner
	Fallback GenericFormatter
}

// Table is the root registry plus the single package binding. It is built
// once at process start; a single logical caller is assumed and no locking
// guards the mutable filesystem fields.
type Table struct {
	entries []*RootInfo
	deps    Deps

	pkg     Package
	pkgPath string

	// mkdir creates missing mount point directories; swapped in tests.
	mkdir func(path string, mode os.FileMode) error
}

// ExecRunner runs helpers through the shell, the default Runner.
type ExecRunner struct{}

func (ExecRunner) Run(name string, args ...string) error {
	return utils.RunCommand(name, args...)
}

func defaultEntries() []*RootInfo {
	return []*RootInfo{
		{Label: defs.RootCache, Kind: DeviceBlock, Device: defs.CacheDevice, Partition: "cache", MountPoint: "/cache", Filesystem: defs.UnknownFilesystem},
		{Label: defs.RootData, Kind: DeviceBlock, Device: defs.DataDevice, Partition: "userdata", MountPoint: "/data", Filesystem: defs.UnknownFilesystem},
		{Label: defs.RootDataData, Kind: DeviceBlock, Device: defs.DataDataDevice, Partition: "datadata", MountPoint: "/dbdata", Filesystem: defs.UnknownFilesystem},
		{Label: defs.RootSystem, Kind: DeviceBlock, Device: defs.SystemDevice, Partition: "system", MountPoint: "/system", Filesystem: defs.UnknownFilesystem},
		{Label: defs.RootPackage, Kind: DevicePackage},
		{Label: defs.RootBoot, Kind: DeviceMtd, Partition: "boot", Filesystem: FsRaw},
		{Label: defs.RootRecovery, Kind: DeviceMtd, Partition: "recovery", MountPoint: "/", Filesystem: FsRaw},
		{Label: defs.RootSdcard, Kind: DeviceBlock, Device: defs.SdcardDevicePrimary, Device2: defs.SdcardDeviceSecondary, MountPoint: "/sdcard", Filesystem: defs.VfatFilesystem},
		{Label: defs.RootSdext, Kind: DeviceBlock, Device: defs.SdextDevice, MountPoint: "/sd-ext", Filesystem: defs.AutoFilesystem},
		{Label: defs.RootMbm, Kind: DeviceMtd, Partition: "mbm", Filesystem: FsRaw},
		{Label: defs.RootTmp, Kind: DeviceNone, MountPoint: "/tmp"},
	}
}

// New builds a table with the built-in board defaults.
func New(deps Deps) *Table {
	t := &Table{entries: defaultEntries(), deps: deps, mkdir: utils.EnsureDir}
	if t.deps.Runner == nil {
		t.deps.Runner = ExecRunner{}
	}
	if t.deps.Fallback == nil {
		t.deps.Fallback = WipeFormatter{}
	}
	return t
}

// NewFromConfig builds a table and applies per-root overrides from an INI
// board config. A missing file is not an error; the defaults stand.
func NewFromConfig(deps Deps, confPath string) (*Table, error) {
	t := New(deps)

	if confPath == "" {
		confPath = os.Getenv(defs.BoardConfEnv)
	}
	if confPath == "" {
		confPath = defs.DefaultBoardConf
	}
	if !utils.FileExist(confPath) {
		log.Debugf("no board config at %s, using defaults", confPath)
		return t, nil
	}

	cfg := ini.New()
	if err := cfg.LoadExists(confPath); err != nil {
		return nil, fmt.Errorf("load board config %s: %w", confPath, err)
	}

	for _, info := range t.entries {
		section := strings.TrimSuffix(info.Label, ":")
		values := cfg.StringMap(section)
		if len(values) == 0 {
			continue
		}
		if err := applyOverrides(info, values); err != nil {
			return nil, fmt.Errorf("board config [%s]: %w", section, err)
		}
		log.Debugf("board config overrides %s: kind=%s device=%s fs=%s",
			info.Label, info.Kind, info.Device, info.Filesystem)
	}
	return t, nil
}

func applyOverrides(info *RootInfo, values map[string]string) error {
	for key, value := range values {
		switch key {
		case "kind":
			kind, err := parseKind(value)
			if err != nil {
				return err
			}
			info.Kind = kind
		case "device":
			info.Device = value
		case "device2":
			info.Device2 = value
		case "partition":
			info.Partition = value
		case "filesystem":
			info.Filesystem = value
		case "options":
			info.FilesystemOptions = value
		default:
			return fmt.Errorf("unknown key %q", key)
		}
	}
	return nil
}

func parseKind(s string) (DeviceKind, error) {
	switch s {
	case "mtd":
		return DeviceMtd, nil
	case "mmc":
		return DeviceMmc, nil
	case "raw":
		return DeviceRaw, nil
	case "block":
		return DeviceBlock, nil
	case "package":
		return DevicePackage, nil
	case "none":
		return DeviceNone, nil
	}
	return DeviceNone, fmt.Errorf("unknown device kind %q", s)
}

// Labels returns the registered labels in table order.
func (t *Table) Labels() []string {
	labels := make([]string, 0, len(t.entries))
	for _, info := range t.entries {
		labels = append(labels, info.Label)
	}
	return labels
}
