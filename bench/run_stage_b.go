// 阶段 B: 预加载 vs 每次传入（收支平衡点）
package main

import (
	"fmt"
	"time"

	"github.com/ic-timon/maxsim/bench/gen"
	"github.com/ic-timon/maxsim/bench/metrics"
	"github.com/ic-timon/maxsim/scorer"
)

func runStageB(opts stageOpts) {
	const dim = 128
	const queryTokens = 32
	const tokensPerDoc = 200
	const queriesPerRound = 20

	numDocsList := []int{100, 1_000, 5_000}

	var rows []metrics.StageBRow
	for _, numDocs := range numDocsList {
		fmt.Printf("阶段 B: numDocs=%d\n", numDocs)

		nested := gen.RandomNestedDocs(numDocs, tokensPerDoc, dim, 100)
		flat, counts := nestedToFlat(nested)
		queryNested := gen.RandomTokens(queryTokens, dim, 7)
		query := gen.Flatten(queryNested)

		s := scorer.New(&scorer.Config{Workers: opts.workers, UseOffheap: opts.offheap})

		// 嵌套 API：每次调用重新 flatten
		t0 := time.Now()
		for i := 0; i < queriesPerRound; i++ {
			if _, err := s.MaxSimBatch(queryNested, nested); err != nil {
				panic(err)
			}
		}
		nestedMs := msPer(time.Since(t0), queriesPerRound)

		// flat API：调用方已 flatten
		t1 := time.Now()
		for i := 0; i < queriesPerRound; i++ {
			if _, err := s.MaxSimBatchFlat(query, queryTokens, flat, counts, dim); err != nil {
				panic(err)
			}
		}
		flatMs := msPer(time.Since(t1), queriesPerRound)

		// 预加载：一次 load，N 次 search
		t2 := time.Now()
		if err := s.LoadDocuments(flat, counts, dim); err != nil {
			panic(err)
		}
		loadMs := float64(time.Since(t2).Nanoseconds()) / 1e6

		t3 := time.Now()
		for i := 0; i < queriesPerRound; i++ {
			if _, err := s.SearchPreloaded(query, queryTokens); err != nil {
				panic(err)
			}
		}
		preloadMs := msPer(time.Since(t3), queriesPerRound)

		// 收支平衡：load 开销在几次查询后被嵌套 flatten 开销摊平
		breakEven := 0.0
		if nestedMs > preloadMs {
			breakEven = loadMs / (nestedMs - preloadMs)
		}
		fmt.Printf("  load=%.2fms nested=%.2fms flat=%.2fms preload=%.2fms breakEven=%.1f 次查询\n",
			loadMs, nestedMs, flatMs, preloadMs, breakEven)

		rows = append(rows, metrics.StageBRow{
			NumDocs:         numDocs,
			LoadMs:          loadMs,
			NestedMsPerQry:  nestedMs,
			FlatMsPerQry:    flatMs,
			PreloadMsPerQry: preloadMs,
			BreakEvenQries:  breakEven,
		})
		s.Close()
	}
	if err := metrics.WriteStageBCSV(rows, "reports/stage_b.csv"); err != nil {
		panic(err)
	}
}

func msPer(d time.Duration, n int) float64 {
	return float64(d.Nanoseconds()) / 1e6 / float64(n)
}

func nestedToFlat(docs [][][]float32) ([]float32, []uint32) {
	counts := make([]uint32, len(docs))
	var flat []float32
	for i, doc := range docs {
		counts[i] = uint32(len(doc))
		flat = append(flat, gen.Flatten(doc)...)
	}
	return flat, counts
}
