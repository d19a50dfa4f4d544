package utils

import (
	"fmt"
	"os/exec"

	log "rootctl/logger"
)

// RunCommand runs an external helper to completion and returns its exit
// status as an error. Output is only surfaced at debug level; helpers like
// mke2fs are chatty and the callers only care about success or failure.
func RunCommand(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		log.Debugf("%s failed: %v, output: %s", name, err, string(output))
		return fmt.Errorf("%s: %w", name, err)
	}
	if len(output) > 0 {
		log.Debugf("%s: %s", name, string(output))
	}
	return nil
}
