package storage

import "runtime"

// Memory exposes the heap figures used for post-flush hygiene.
type Memory interface {
	Free() uint64
	Collect()
}

// RuntimeMemory reads the Go/TinyGo runtime heap.
type RuntimeMemory struct{}

func (RuntimeMemory) Free() uint64 {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	if ms.HeapSys < ms.HeapInuse {
		return 0
	}
	return ms.HeapSys - ms.HeapInuse
}

func (RuntimeMemory) Collect() { runtime.GC() }

// MemoryReport is the outcome of one hygiene pass.
type MemoryReport struct {
	Before, After       uint64
	LowBefore, LowAfter bool
}

// CheckMemory runs a reclaim pass unconditionally and flags the free figure
// before the pass when under lowBefore and after it when under lowAfter.
func CheckMemory(mem Memory, lowBefore, lowAfter uint64) MemoryReport {
	var r MemoryReport
	r.Before = mem.Free()
	r.LowBefore = r.Before < lowBefore
	mem.Collect()
	r.After = mem.Free()
	r.LowAfter = r.After < lowAfter
	return r
}
