// Package mmsched planning configuration
package mmsched

import (
	"encoding/binary"
	"fmt"
)

// LoopOrder selects the nesting of the inner block loops of one sub-block
type LoopOrder int

const (
	// NInner nests the N block loop inside the M block loop (default)
	NInner LoopOrder = iota

	// MInner reorders the inner nest so the M block loop is innermost.
	// Plans with a K sub-split tag the reordered loop as the reduction
	// root so downstream rewrite passes can find it.
	MInner
)

// Config is the planning artifact for one (shape, machine, dtype)
// combination. PlanConfig computes it once; it is immutable afterwards for
// a given compiled plan.
//
// MSplitNum and NSplitNum decompose the thread team across M and N. The
// K-split is derived, never chosen directly:
//
//	KSplitNum = NumThreads / (MSplitNum * NSplitNum)
//
// MSubBlock, NSubBlock and KSubBlock tile one thread's share so each
// sub-tile's working set fits L2.
type Config struct {
	MSplitNum int
	NSplitNum int
	MSubBlock int
	NSubBlock int
	KSubBlock int
	LoopOrder LoopOrder
}

// KSplitNum derives the K-dimension thread split from the team size
func (c Config) KSplitNum(numThreads int) int {
	return numThreads / (c.MSplitNum * c.NSplitNum)
}

// String returns a compact human-readable form
func (c Config) String() string {
	return fmt.Sprintf("split(M:%d,N:%d) sub(M:%d,N:%d,K:%d) order:%d",
		c.MSplitNum, c.NSplitNum, c.MSubBlock, c.NSubBlock, c.KSubBlock,
		c.LoopOrder)
}

const configWireSize = 6 * 4

// MarshalBinary serializes the config field by field, little-endian.
// The encoding is explicit and versions with the field list; no reflection.
func (c Config) MarshalBinary() ([]byte, error) {
	buf := make([]byte, configWireSize)
	fields := [6]int{
		c.MSplitNum, c.NSplitNum,
		c.MSubBlock, c.NSubBlock, c.KSubBlock,
		int(c.LoopOrder),
	}
	for i, f := range fields {
		binary.LittleEndian.PutUint32(buf[i*4:], uint32(f))
	}
	return buf, nil
}

// UnmarshalBinary is the inverse of MarshalBinary
func (c *Config) UnmarshalBinary(data []byte) error {
	if len(data) != configWireSize {
		return NewInvalidArgError("Config.UnmarshalBinary",
			fmt.Sprintf("want %d bytes, got %d", configWireSize, len(data)))
	}
	var fields [6]int
	for i := range fields {
		fields[i] = int(binary.LittleEndian.Uint32(data[i*4:]))
	}
	c.MSplitNum = fields[0]
	c.NSplitNum = fields[1]
	c.MSubBlock = fields[2]
	c.NSubBlock = fields[3]
	c.KSubBlock = fields[4]
	c.LoopOrder = LoopOrder(fields[5])
	return nil
}

// Validate checks the config against a shape and machine profile. A config
// that fails validation is a programming or search bug; nothing is clamped
// silently.
func (c Config) Validate(s MatmulShape, prof MachineProfile) error {
	if err := s.validate(); err != nil {
		return err
	}
	if c.MSplitNum < 1 || c.NSplitNum < 1 {
		return NewConfigValidationError("Config.Validate",
			"split counts must be at least 1")
	}
	if c.MSubBlock < 1 || c.NSubBlock < 1 || c.KSubBlock < 1 {
		return NewConfigValidationError("Config.Validate",
			"sub-block counts must be at least 1")
	}
	if c.MSplitNum*c.NSplitNum > prof.NumThreads {
		return NewConfigValidationError("Config.Validate", fmt.Sprintf(
			"M_split*N_split = %d exceeds %d threads",
			c.MSplitNum*c.NSplitNum, prof.NumThreads))
	}
	d := newPlanDims(s, c, prof)
	// Plain operands are addressed with their logical extents as leading
	// dimensions, so those extents must already be whole blocks; only
	// blocked operands carry padded storage.
	if !s.ALayout.Blocked && (d.m != s.M || d.k != s.K) {
		return NewUnsupportedLayoutError("Config.Validate", fmt.Sprintf(
			"plain A of %dx%d needs %dx%d block alignment", s.M, s.K, d.iim, d.iik))
	}
	if !s.BLayout.Blocked && (d.k != s.K || d.n != s.N) {
		return NewUnsupportedLayoutError("Config.Validate", fmt.Sprintf(
			"plain B of %dx%d needs %dx%d block alignment", s.K, s.N, d.iik, d.iin))
	}
	if !s.CLayout.Blocked && (d.m != s.M || d.n != s.N) {
		return NewUnsupportedLayoutError("Config.Validate", fmt.Sprintf(
			"plain C of %dx%d needs %dx%d block alignment", s.M, s.N, d.iim, d.iin))
	}
	if d.mBlockSize/d.iim < c.MSubBlock || d.mIbBlockSize/d.iim < c.MSubBlock {
		return NewConfigValidationError("Config.Validate", fmt.Sprintf(
			"bad M_sub_block %d for per-thread M of %d/%d elements",
			c.MSubBlock, d.mBlockSize, d.mIbBlockSize))
	}
	if d.nBlockSize/d.iin < c.NSubBlock || d.nIbBlockSize/d.iin < c.NSubBlock {
		return NewConfigValidationError("Config.Validate", fmt.Sprintf(
			"bad N_sub_block %d for per-thread N of %d/%d elements",
			c.NSubBlock, d.nBlockSize, d.nIbBlockSize))
	}
	if d.kBlockSize/d.iik < c.KSubBlock || d.kIbBlockSize/d.iik < c.KSubBlock {
		return NewConfigValidationError("Config.Validate", fmt.Sprintf(
			"bad K_sub_block %d for per-thread K of %d/%d elements",
			c.KSubBlock, d.kBlockSize, d.kIbBlockSize))
	}
	return nil
}
