package pathway

import (
	"testing"
)

func TestPoolKeyDistinct(t *testing.T) {
	if poolKey(800, 600) == poolKey(600, 800) {
		t.Error("poolKey(800,600) == poolKey(600,800), want distinct")
	}
}

func TestPoolAcquireExactSize(t *testing.T) {
	var pool renderTargetPool
	img := pool.Acquire(100, 50)
	defer pool.Release(img)

	b := img.Bounds()
	if b.Dx() != 100 {
		t.Errorf("width = %d, want 100", b.Dx())
	}
	if b.Dy() != 50 {
		t.Errorf("height = %d, want 50", b.Dy())
	}
}

func TestPoolAcquireDegenerateSize(t *testing.T) {
	var pool renderTargetPool
	img := pool.Acquire(0, -3)
	b := img.Bounds()
	if b.Dx() != 1 || b.Dy() != 1 {
		t.Errorf("size = %dx%d, want 1x1", b.Dx(), b.Dy())
	}
}

func TestPoolReleaseAndReacquire(t *testing.T) {
	var pool renderTargetPool
	img1 := pool.Acquire(64, 64)
	pool.Release(img1)

	img2 := pool.Acquire(64, 64)
	if img1 != img2 {
		t.Error("expected pool to return the same image after release")
	}
	pool.Release(img2)
}

func TestPoolDifferentSizes(t *testing.T) {
	var pool renderTargetPool
	a := pool.Acquire(32, 32)
	b := pool.Acquire(64, 64)
	if a == b {
		t.Error("different sizes should return different images")
	}
	pool.Release(a)
	pool.Release(b)
	if pool.Len() != 2 {
		t.Errorf("Len = %d, want 2", pool.Len())
	}
}

func TestPoolDispose(t *testing.T) {
	var pool renderTargetPool
	pool.Release(pool.Acquire(16, 16))
	pool.Release(pool.Acquire(8, 8))
	pool.Dispose()
	if pool.Len() != 0 {
		t.Errorf("Len after Dispose = %d, want 0", pool.Len())
	}
}

func TestPoolReleaseNilNoPanic(t *testing.T) {
	var pool renderTargetPool
	pool.Release(nil) // should not panic
}
