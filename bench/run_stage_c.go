// 阶段 C: 并发检索吞吐（多 goroutine 查询同一预加载语料）
package main

import (
	"fmt"
	"sync"
	"time"

	"github.com/ic-timon/maxsim/bench/gen"
	"github.com/ic-timon/maxsim/bench/metrics"
	"github.com/ic-timon/maxsim/scorer"
)

func runStageC(opts stageOpts) {
	const dim = 128
	const queryTokens = 32
	const numDocs = 2_000
	const totalRequests = 1_000

	concurrencyList := []int{1, 4, 16, 64}

	flat, counts := gen.RandomCorpus(numDocs, 50, 400, dim, 200)
	queries := make([][]float32, totalRequests)
	for i := range queries {
		queries[i] = gen.Flatten(gen.RandomTokens(queryTokens, dim, 300+int64(i)))
	}

	s := scorer.New(&scorer.Config{Workers: opts.workers, UseOffheap: opts.offheap})
	defer s.Close()
	if err := s.LoadDocuments(flat, counts, dim); err != nil {
		panic(err)
	}
	fmt.Println(s.Info())

	var rows []metrics.StageCRow
	for _, concurrency := range concurrencyList {
		durations := make([]time.Duration, totalRequests)
		t0 := time.Now()
		var wg sync.WaitGroup
		sem := make(chan struct{}, concurrency)
		for i := 0; i < totalRequests; i++ {
			wg.Add(1)
			sem <- struct{}{}
			go func(i int) {
				defer wg.Done()
				defer func() { <-sem }()
				t1 := time.Now()
				if _, err := s.SearchPreloaded(queries[i], queryTokens); err != nil {
					panic(err)
				}
				durations[i] = time.Since(t1)
			}(i)
		}
		wg.Wait()
		elapsed := time.Since(t0).Seconds()
		stats := metrics.LatencyStatsFromDurations(durations)
		qps := float64(totalRequests) / elapsed

		fmt.Printf("阶段 C: concurrency=%d QPS=%.0f P50=%.2fms P99=%.2fms\n",
			concurrency, qps, stats.P50Ms, stats.P99Ms)
		rows = append(rows, metrics.StageCRow{
			Concurrency: concurrency,
			Workers:     opts.workers,
			QPS:         qps,
			SearchP50Ms: stats.P50Ms,
			SearchP99Ms: stats.P99Ms,
		})
	}
	if err := metrics.WriteStageCCSV(rows, "reports/stage_c.csv"); err != nil {
		panic(err)
	}
}
