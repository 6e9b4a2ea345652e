// 阶段 A: kernel 吞吐扫描（dim × 文档长度）
package main

import (
	"fmt"
	"time"

	"github.com/ic-timon/maxsim/bench/gen"
	"github.com/ic-timon/maxsim/bench/metrics"
	"github.com/ic-timon/maxsim/simd"
)

func runStageA() {
	const queryTokens = 32
	const runs = 200

	dimList := []int{128, 256, 768}
	docTokensList := []int{64, 300, 1500}

	fmt.Printf("阶段 A: dot=%s kernel=%s\n", simd.DotProductDesc(), simd.MaxSimDesc())

	var rows []metrics.StageARow
	for _, dim := range dimList {
		for _, docTokens := range docTokensList {
			query := gen.Flatten(gen.RandomTokens(queryTokens, dim, 42))
			doc := gen.Flatten(gen.RandomTokens(docTokens, dim, 43))

			// 预热
			_ = simd.MaxSimFlat(query, queryTokens, doc, docTokens, dim)

			t0 := time.Now()
			for i := 0; i < runs; i++ {
				_ = simd.MaxSimFlat(query, queryTokens, doc, docTokens, dim)
			}
			elapsed := time.Since(t0)

			nsPerPair := float64(elapsed.Nanoseconds()) / float64(runs)
			// 每对 (query,doc): Tq*Td*dim 次乘加 = 2*Tq*Td*dim FLOP
			flop := 2 * float64(queryTokens) * float64(docTokens) * float64(dim)
			gflops := flop / nsPerPair

			fmt.Printf("  dim=%d Td=%d: %.0f ns/pair %.2f GFLOPS\n", dim, docTokens, nsPerPair, gflops)
			rows = append(rows, metrics.StageARow{
				Dim:         dim,
				QueryTokens: queryTokens,
				DocTokens:   docTokens,
				NsPerPair:   nsPerPair,
				GFLOPS:      gflops,
			})
		}
	}
	if err := metrics.WriteStageACSV(rows, "reports/stage_a.csv"); err != nil {
		panic(err)
	}
}
