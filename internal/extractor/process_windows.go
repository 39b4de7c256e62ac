//go:build windows

package extractor

import "os/exec"

// configureProcessTree keeps the default cancellation; WaitDelay still bounds Run.
func configureProcessTree(command *exec.Cmd) {}
