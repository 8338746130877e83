package mmsched

import "testing"

func TestNewMatmulShapeDefaults(t *testing.T) {
	f := NewMatmulShape(128, 256, 512, F32)
	if f.CDType != F32 || f.BLayout.Blocked {
		t.Errorf("f32 shape got C dtype %v, B blocked %v", f.CDType, f.BLayout.Blocked)
	}

	b := NewMatmulShape(128, 256, 512, BF16)
	if b.CDType != F32 {
		t.Errorf("bf16 accumulator = %v, want f32", b.CDType)
	}
	if !b.BLayout.Blocked || b.BLayout.PackFactor != 2 {
		t.Errorf("bf16 B layout = %+v, want blocked pack 2", b.BLayout)
	}

	q := NewMatmulShape(128, 256, 512, S8)
	if q.CDType != S32 {
		t.Errorf("int8 accumulator = %v, want s32", q.CDType)
	}
	if !q.BLayout.Blocked || q.BLayout.PackFactor != 4 {
		t.Errorf("int8 B layout = %+v, want blocked pack 4", q.BLayout)
	}
}

func TestShapeValidate(t *testing.T) {
	s := NewMatmulShape(0, 64, 64, F32)
	if err := s.validate(); !IsInvalidArgError(err) {
		t.Errorf("zero dimension accepted: %v", err)
	}
	if err := NewMatmulShape(64, 64, 64, F32).validate(); err != nil {
		t.Errorf("valid shape rejected: %v", err)
	}
}

func TestShapePadded(t *testing.T) {
	s := NewMatmulShape(100, 50, 70, F32)
	m, k, n := s.padded(16, 16, 16)
	if m != 112 || k != 64 || n != 80 {
		t.Errorf("padded = (%d,%d,%d), want (112,64,80)", m, k, n)
	}
}

func TestShapeGFLOP(t *testing.T) {
	s := NewMatmulShape(1024, 1024, 1024, F32)
	got := s.GFLOP()
	want := 2.147483648
	if got < want-1e-9 || got > want+1e-9 {
		t.Errorf("GFLOP = %v, want %v", got, want)
	}
}

func TestReductionLanes(t *testing.T) {
	if got := reductionLanes(24); got != 1 {
		t.Errorf("lanes for unaligned N block = %d, want 1", got)
	}
	if got := reductionLanes(8); got != 1 {
		t.Errorf("lanes for short N block = %d, want 1", got)
	}
	switch got := reductionLanes(64); got {
	case 1, AVX2VectorSize, AVX512VectorSize:
	default:
		t.Errorf("lanes for aligned N block = %d, want 1, 8 or 16", got)
	}
}
