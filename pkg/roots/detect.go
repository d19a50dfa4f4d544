package roots

import (
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	er "rootctl/errors"
	log "rootctl/logger"
)

// Detect trial-mounts the fixed candidate filesystems against the root's
// device and records the first one that mounts. The device ends up
// unmounted either way. On exhaustion the entry keeps its previous
// filesystem fields.
//
// Detection mutates the entry; callers must not run any other operation
// against the same label while it is in flight.
func (t *Table) Detect(label string) error {
	info, err := t.Resolve(label)
	if err != nil {
		return err
	}
	if info.Kind == DeviceNone || info.Kind == DevicePackage || info.Kind == DeviceMtd {
		return errors.Wrapf(er.UnresolvedLabel, "%q has no probeable device", label)
	}
	if info.MountPoint == "" {
		return errors.Wrapf(er.NotMountable, "%q", info.Label)
	}

	// The probe needs the device free.
	if err := t.EnsureUnmounted(label); err != nil {
		return errors.Wrapf(err, "can't unmount %q before detection", label)
	}

	var probeErrs error
	for _, cand := range fsCandidates {
		log.Debugf("detect %s: trying %s (%s)", label, cand.Filesystem, cand.Options)
		if err := t.mountInternal(info.Device, info.MountPoint, cand.Filesystem, cand.Options); err != nil {
			probeErrs = multierror.Append(probeErrs, errors.Wrapf(err, "as %s", cand.Filesystem))
			continue
		}

		info.Filesystem = cand.Filesystem
		info.FilesystemOptions = cand.Options

		// Detection never leaves the device mounted.
		if err := t.EnsureUnmounted(label); err != nil {
			log.Warnf("detect %s: unmount after probe: %v", label, err)
		}
		log.Infof("detect %s: %s", label, cand.Filesystem)
		return nil
	}

	return multierror.Append(er.DetectionExhausted, multierror.Flatten(probeErrs))
}
