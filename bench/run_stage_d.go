// 阶段 D: 对比堆内 vs off-heap（匿名 mmap）语料的检索性能与堆占用
package main

import (
	"fmt"
	"time"

	"github.com/ic-timon/maxsim/bench/gen"
	"github.com/ic-timon/maxsim/bench/metrics"
	"github.com/ic-timon/maxsim/scorer"
)

func runStageD(opts stageOpts) {
	const dim = 128
	const queryTokens = 32
	const numDocs = 10_000
	const searchRuns = 100

	flat, counts := gen.RandomCorpus(numDocs, 100, 300, dim, 400)
	query := gen.Flatten(gen.RandomTokens(queryTokens, dim, 500))

	var rows []metrics.StageDRow
	for _, offheap := range []bool{false, true} {
		fmt.Printf("阶段 D: offheap=%t\n", offheap)
		metrics.GC()
		before := metrics.Take()

		s := scorer.New(&scorer.Config{Workers: opts.workers, UseOffheap: offheap})
		t0 := time.Now()
		if err := s.LoadDocuments(flat, counts, dim); err != nil {
			panic(err)
		}
		loadMs := float64(time.Since(t0).Nanoseconds()) / 1e6

		durations := make([]time.Duration, searchRuns)
		for i := 0; i < searchRuns; i++ {
			t1 := time.Now()
			if _, err := s.SearchPreloaded(query, queryTokens); err != nil {
				panic(err)
			}
			durations[i] = time.Since(t1)
		}
		stats := metrics.LatencyStatsFromDurations(durations)

		metrics.GC()
		after := metrics.Take()
		heapMB := metrics.HeapDeltaMB(before, after)

		fmt.Printf("  load=%.2fms P50=%.2fms P99=%.2fms heap+%.2fMB\n",
			loadMs, stats.P50Ms, stats.P99Ms, heapMB)
		rows = append(rows, metrics.StageDRow{
			Offheap:     offheap,
			NumDocs:     numDocs,
			LoadMs:      loadMs,
			SearchP50Ms: stats.P50Ms,
			SearchP99Ms: stats.P99Ms,
			HeapAllocMB: heapMB,
		})
		s.Close()
	}
	if err := metrics.WriteStageDCSV(rows, "reports/stage_d.csv"); err != nil {
		panic(err)
	}
}
