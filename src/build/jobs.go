package build

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
)

// DefaultJobs returns the logical CPU count, at least 1.
func DefaultJobs() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		n = runtime.NumCPU()
	}
	return max(n, 1)
}

func (b *Builder) jobs() int {
	if b.Jobs > 0 {
		return b.Jobs
	}
	return DefaultJobs()
}
