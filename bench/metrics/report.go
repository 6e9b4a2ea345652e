// Package metrics 提供运行时指标采集
package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// LatencyStats 延迟统计
type LatencyStats struct {
	P50Ms float64
	P95Ms float64
	P99Ms float64
	AvgMs float64
	N     int
}

// StageARow 阶段 A 单行数据：kernel 吞吐
type StageARow struct {
	Dim         int
	QueryTokens int
	DocTokens   int
	NsPerPair   float64
	GFLOPS      float64
}

// StageBRow 阶段 B 单行数据：预加载 vs 每次传入
type StageBRow struct {
	NumDocs         int
	LoadMs          float64
	NestedMsPerQry  float64
	FlatMsPerQry    float64
	PreloadMsPerQry float64
	BreakEvenQries  float64
}

// StageCRow 阶段 C 单行数据：并发检索
type StageCRow struct {
	Concurrency int
	Workers     int
	QPS         float64
	SearchP50Ms float64
	SearchP99Ms float64
}

// StageDRow 阶段 D 单行数据：堆内 vs off-heap 语料
type StageDRow struct {
	Offheap     bool
	NumDocs     int
	LoadMs      float64
	SearchP50Ms float64
	SearchP99Ms float64
	HeapAllocMB float64
}

// Percentile 计算切片中第 p 百分位（0-100），输入需已排序
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 100 {
		return sorted[len(sorted)-1]
	}
	idx := int(float64(len(sorted)-1) * p / 100)
	if idx < 0 {
		idx = 0
	}
	return sorted[idx]
}

// LatencyStatsFromDurations 从耗时列表计算 P50/P95/P99
func LatencyStatsFromDurations(durations []time.Duration) LatencyStats {
	if len(durations) == 0 {
		return LatencyStats{}
	}
	ms := make([]float64, len(durations))
	var sum float64
	for i, d := range durations {
		ms[i] = float64(d.Nanoseconds()) / 1e6
		sum += ms[i]
	}
	sort.Float64s(ms)
	return LatencyStats{
		P50Ms: Percentile(ms, 50),
		P95Ms: Percentile(ms, 95),
		P99Ms: Percentile(ms, 99),
		AvgMs: sum / float64(len(ms)),
		N:     len(ms),
	}
}

func writeCSV(path string, header []string, rows [][]string) error {
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	w.Write(header)
	for _, r := range rows {
		w.Write(r)
	}
	w.Flush()
	return w.Error()
}

// WriteStageACSV 写入阶段 A 报告
func WriteStageACSV(rows []StageARow, path string) error {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			fmt.Sprintf("%d", r.Dim),
			fmt.Sprintf("%d", r.QueryTokens),
			fmt.Sprintf("%d", r.DocTokens),
			fmt.Sprintf("%.1f", r.NsPerPair),
			fmt.Sprintf("%.2f", r.GFLOPS),
		}
	}
	return writeCSV(path, []string{"Dim", "QueryTokens", "DocTokens", "NsPerPair", "GFLOPS"}, out)
}

// WriteStageBCSV 写入阶段 B 报告
func WriteStageBCSV(rows []StageBRow, path string) error {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			fmt.Sprintf("%d", r.NumDocs),
			fmt.Sprintf("%.2f", r.LoadMs),
			fmt.Sprintf("%.2f", r.NestedMsPerQry),
			fmt.Sprintf("%.2f", r.FlatMsPerQry),
			fmt.Sprintf("%.2f", r.PreloadMsPerQry),
			fmt.Sprintf("%.2f", r.BreakEvenQries),
		}
	}
	return writeCSV(path, []string{"NumDocs", "LoadMs", "NestedMsPerQry", "FlatMsPerQry", "PreloadMsPerQry", "BreakEvenQries"}, out)
}

// WriteStageCCSV 写入阶段 C 报告
func WriteStageCCSV(rows []StageCRow, path string) error {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			fmt.Sprintf("%d", r.Concurrency),
			fmt.Sprintf("%d", r.Workers),
			fmt.Sprintf("%.0f", r.QPS),
			fmt.Sprintf("%.2f", r.SearchP50Ms),
			fmt.Sprintf("%.2f", r.SearchP99Ms),
		}
	}
	return writeCSV(path, []string{"Concurrency", "Workers", "QPS", "SearchP50Ms", "SearchP99Ms"}, out)
}

// WriteStageDCSV 写入阶段 D 报告
func WriteStageDCSV(rows []StageDRow, path string) error {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = []string{
			fmt.Sprintf("%t", r.Offheap),
			fmt.Sprintf("%d", r.NumDocs),
			fmt.Sprintf("%.2f", r.LoadMs),
			fmt.Sprintf("%.2f", r.SearchP50Ms),
			fmt.Sprintf("%.2f", r.SearchP99Ms),
			fmt.Sprintf("%.2f", r.HeapAllocMB),
		}
	}
	return writeCSV(path, []string{"Offheap", "NumDocs", "LoadMs", "SearchP50Ms", "SearchP99Ms", "HeapAllocMB"}, out)
}
