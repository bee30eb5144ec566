// Package sysmem detects total system memory, used by package params
// to size a default resource ceiling for the Balloon buffer.
package sysmem

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v4/mem"
)

// TotalBytes returns total physical memory as reported by the OS. It
// bounds detection to a short timeout so a misbehaving /proc or WMI
// backend can never block parameter validation indefinitely.
func TotalBytes() (uint64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, err
	}
	return vm.Total, nil
}
