// 压测入口：-stage a|b|c|d
package main

import (
	"flag"
	"fmt"
	"log"
)

type stageOpts struct {
	workers int
	offheap bool
}

func main() {
	stage := flag.String("stage", "", "压测阶段: a(kernel 吞吐) | b(预加载收支平衡) | c(并发检索) | d(堆内 vs off-heap)")
	workers := flag.Int("workers", 1, "Scorer.Workers，>1 时批内文档并行打分")
	offheap := flag.Bool("offheap", false, "语料使用匿名 mmap（off-heap）")
	flag.Parse()
	opts := stageOpts{workers: *workers, offheap: *offheap}
	switch *stage {
	case "a":
		runStageA()
	case "b":
		runStageB(opts)
	case "c":
		runStageC(opts)
	case "d":
		runStageD(opts)
	default:
		log.Fatalf("请指定 -stage a|b|c|d")
	}
	fmt.Println("压测完成")
}
