// Package metrics 提供运行时指标采集
package metrics

import (
	"runtime"
	"runtime/debug"
	"time"
)

// Snapshot 运行时指标快照
type Snapshot struct {
	TS           time.Time
	HeapAlloc    uint64
	HeapSys      uint64
	NumGC        uint32
	NumGoroutine int
}

// Take 采集当前运行时指标
func Take() Snapshot {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return Snapshot{
		TS:           time.Now(),
		HeapAlloc:    m.HeapAlloc,
		HeapSys:      m.HeapSys,
		NumGC:        m.NumGC,
		NumGoroutine: runtime.NumGoroutine(),
	}
}

// GC 触发 GC 并释放回 OS
func GC() {
	runtime.GC()
	debug.FreeOSMemory()
}

// HeapDeltaMB 两次快照间 HeapAlloc 变化（MB）
func HeapDeltaMB(before, after Snapshot) float64 {
	d := int64(after.HeapAlloc) - int64(before.HeapAlloc)
	if d < 0 {
		d = 0
	}
	return float64(d) / (1024 * 1024)
}
