// Package gen 提供压测用随机 token 嵌入生成
package gen

import (
	"math/rand"

	"github.com/chewxy/math32"
)

// RandomTokens 生成 n 个 dim 维 L2 归一化随机 token 向量
func RandomTokens(n, dim int, seed int64) [][]float32 {
	rng := rand.New(rand.NewSource(seed))
	out := make([][]float32, n)
	for i := 0; i < n; i++ {
		v := make([]float32, dim)
		var sq float32
		for j := 0; j < dim; j++ {
			x := rng.Float32()*2 - 1
			v[j] = x
			sq += x * x
		}
		norm := math32.Sqrt(sq)
		if norm < 1e-9 {
			v[0] = 1
			norm = 1
		}
		for j := 0; j < dim; j++ {
			v[j] /= norm
		}
		out[i] = v
	}
	return out
}

// Flatten 将 token 序列拼接为 flat 布局
func Flatten(tokens [][]float32) []float32 {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]float32, 0, len(tokens)*len(tokens[0]))
	for _, tok := range tokens {
		out = append(out, tok...)
	}
	return out
}

// RandomCorpus 生成 numDocs 篇文档的 flat 语料，token 数在 [minTokens, maxTokens] 内随机
func RandomCorpus(numDocs, minTokens, maxTokens, dim int, seed int64) (flat []float32, counts []uint32) {
	rng := rand.New(rand.NewSource(seed))
	counts = make([]uint32, numDocs)
	total := 0
	for i := range counts {
		n := minTokens
		if maxTokens > minTokens {
			n += rng.Intn(maxTokens - minTokens + 1)
		}
		counts[i] = uint32(n)
		total += n
	}
	flat = Flatten(RandomTokens(total, dim, seed+1))
	return flat, counts
}

// RandomNestedDocs 生成嵌套数组形式的文档集（用于对比 flatten 开销）
func RandomNestedDocs(numDocs, tokensPerDoc, dim int, seed int64) [][][]float32 {
	docs := make([][][]float32, numDocs)
	for i := range docs {
		docs[i] = RandomTokens(tokensPerDoc, dim, seed+int64(i))
	}
	return docs
}
