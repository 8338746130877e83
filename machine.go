// Package mmsched machine description and tuning constants
package mmsched

import (
	"runtime"

	"golang.org/x/sys/cpu"
)

// Cache sizes for different levels (in bytes)
const (
	// L1 cache size per core (typical for modern CPUs)
	L1CacheSize = 32 * 1024 // 32KB

	// L2 cache size per core (typical for modern CPUs)
	L2CacheSize = 1024 * 1024 // 1MB

	// L3 cache size (shared, typical for modern CPUs)
	L3CacheSize = 8 * 1024 * 1024 // 8MB
)

// SIMD vector sizes
const (
	// AVX2 vector width in float32 elements
	AVX2VectorSize = 8

	// AVX512 vector width in float32 elements
	AVX512VectorSize = 16
)

// Cost model and cache sizing parameters
const (
	// Constant damping the shape term of the cost model for small problems
	costShapeWeight = 1024

	// Per-split synchronization weight in the cost model
	costSplitWeight = 8

	// Per-thread K byte thresholds that trigger a K sub-split. The smaller
	// one applies when the thread's C tile already fits L2.
	kSplitThresholdNear = 2048
	kSplitThresholdFar  = 4096
)

// MachineProfile describes the target machine the planner sizes for.
// It is a read-only input supplied by the caller.
type MachineProfile struct {
	// NumThreads is the size of the fork-join thread team
	NumThreads int

	// L2Size is the per-core L2 data cache capacity in bytes
	L2Size int
}

// DefaultMachineProfile returns a profile for the host machine.
// Thread count comes from the runtime; the L2 size falls back to a typical
// capacity since the Go runtime does not expose cache topology.
func DefaultMachineProfile() MachineProfile {
	return MachineProfile{
		NumThreads: runtime.NumCPU(),
		L2Size:     L2CacheSize,
	}
}

// CPUFeatures tracks available CPU instruction set extensions
type CPUFeatures struct {
	HasAVX2    bool
	HasAVX512F bool
	HasFMA     bool
}

// Global CPU feature detection
var cpuFeatures CPUFeatures

func init() {
	detectCPUFeatures()
}

// detectCPUFeatures populates the global cpuFeatures struct
func detectCPUFeatures() {
	cpuFeatures = CPUFeatures{
		HasAVX2:    cpu.X86.HasAVX2,
		HasAVX512F: cpu.X86.HasAVX512F,
		HasFMA:     cpu.X86.HasFMA,
	}
}

// reductionLanes returns the vector lane count the reduction stage steps by.
// Lane stepping only pays off when the N block is a multiple of 16; other
// shapes reduce scalar.
func reductionLanes(nBlock int) int {
	if nBlock < 16 || nBlock%16 != 0 {
		return 1
	}
	if cpuFeatures.HasAVX512F {
		return AVX512VectorSize
	}
	if cpuFeatures.HasAVX2 && cpuFeatures.HasFMA {
		return AVX2VectorSize
	}
	return 1
}
