package mmsched

import "testing"

func TestSizeTilesShortK(t *testing.T) {
	// Per-thread working set well under L2 and a short K run: no K split,
	// linear M/N edge of L2/(2*sizeA*K) = 512 elements per 1MB L2.
	s := NewMatmulShape(2048, 256, 2048, F32)
	prof := MachineProfile{NumThreads: 4, L2Size: 1 << 20}
	cfg := Config{MSplitNum: 2, NSplitNum: 2}
	sizeTiles(&cfg, s, prof, 16, 16, 16, 2048, 256, 2048)

	if cfg.KSubBlock != 1 {
		t.Errorf("KSubBlock = %d, want 1", cfg.KSubBlock)
	}
	// singleM = singleN = 1024, edge 512: two sub-blocks each way
	if cfg.MSubBlock != 2 || cfg.NSubBlock != 2 {
		t.Errorf("sub-blocks = (%d,%d), want (2,2)",
			cfg.MSubBlock, cfg.NSubBlock)
	}
}

func TestSizeTilesLongK(t *testing.T) {
	// K of 4096 against the near threshold of 512 elements splits into 8
	// sub-runs; the quadratic M/N edge then exceeds the 128-element
	// per-thread share, so M and N stay whole.
	s := NewMatmulShape(256, 4096, 256, F32)
	prof := MachineProfile{NumThreads: 4, L2Size: 1 << 20}
	cfg := Config{MSplitNum: 2, NSplitNum: 2}
	sizeTiles(&cfg, s, prof, 16, 16, 16, 256, 4096, 256)

	if cfg.KSubBlock != 8 {
		t.Errorf("KSubBlock = %d, want 8", cfg.KSubBlock)
	}
	if cfg.MSubBlock != 1 || cfg.NSubBlock != 1 {
		t.Errorf("sub-blocks = (%d,%d), want (1,1)",
			cfg.MSubBlock, cfg.NSubBlock)
	}
}

func TestSizeTilesFarThreshold(t *testing.T) {
	// Output tile already larger than L2: the split threshold doubles to
	// 1024 elements, and the quadratic edge shrinks the M/N sub-tiles.
	s := NewMatmulShape(2048, 2048, 2048, F32)
	prof := MachineProfile{NumThreads: 4, L2Size: 1 << 20}
	cfg := Config{MSplitNum: 2, NSplitNum: 2}
	sizeTiles(&cfg, s, prof, 16, 16, 16, 2048, 2048, 2048)

	if cfg.KSubBlock != 2 {
		t.Errorf("KSubBlock = %d, want 2", cfg.KSubBlock)
	}
	if cfg.MSubBlock != 8 || cfg.NSubBlock != 8 {
		t.Errorf("sub-blocks = (%d,%d), want (8,8)",
			cfg.MSubBlock, cfg.NSubBlock)
	}
}

func TestSizeTilesTinyCache(t *testing.T) {
	// An L2 smaller than one tile floors the edge at a single block, and
	// the sub-block counts clamp to the per-thread share instead of
	// dividing by zero
	s := NewMatmulShape(1024, 1024, 1024, F32)
	prof := MachineProfile{NumThreads: 4, L2Size: 4096}
	cfg := Config{MSplitNum: 2, NSplitNum: 2}
	sizeTiles(&cfg, s, prof, 16, 16, 16, 1024, 1024, 1024)

	if cfg.MSubBlock != 32 || cfg.NSubBlock != 32 || cfg.KSubBlock != 1 {
		t.Errorf("sub-blocks = (%d,%d,%d), want (32,32,1)",
			cfg.MSubBlock, cfg.NSubBlock, cfg.KSubBlock)
	}
	if err := cfg.Validate(s, prof); err != nil {
		t.Errorf("sized config fails validation: %v", err)
	}
}

func TestSizeTilesFloorsAtOne(t *testing.T) {
	s := NewMatmulShape(64, 64, 64, F32)
	prof := MachineProfile{NumThreads: 1, L2Size: 1 << 20}
	cfg := Config{MSplitNum: 1, NSplitNum: 1}
	sizeTiles(&cfg, s, prof, 16, 16, 16, 64, 64, 64)

	if cfg.MSubBlock != 1 || cfg.NSubBlock != 1 || cfg.KSubBlock != 1 {
		t.Errorf("sub-blocks = (%d,%d,%d), want all 1",
			cfg.MSubBlock, cfg.NSubBlock, cfg.KSubBlock)
	}
}
