// Package vecmath 提供 float32 向量的相似度与聚合计算，累加统一使用 float64。
package vecmath

import "math"

// Dot 计算内积，长度不一致时按较短者计算。
func Dot(a, b []float32) float64 {
	n := min(len(a), len(b))
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

// Norm 计算 L2 范数。
func Norm(a []float32) float64 {
	var sum float64
	for _, v := range a {
		f := float64(v)
		sum += f * f
	}
	return math.Sqrt(sum)
}

// Cosine 计算余弦相似度，范围 [-1, 1]。
// 长度不一致、空向量或零向量返回 0。
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	return CosineWithNorm(a, Norm(a), b)
}

// CosineWithNorm 与 Cosine 相同，但复用已算好的 a 的范数（对同一查询向量批量打分时使用）。
func CosineWithNorm(a []float32, normA float64, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 || normA == 0 {
		return 0
	}
	var dot, normB float64
	for i := range a {
		fb := float64(b[i])
		dot += float64(a[i]) * fb
		normB += fb * fb
	}
	if normB == 0 {
		return 0
	}
	sim := dot / (normA * math.Sqrt(normB))
	// 浮点误差可能略超出 [-1, 1]
	return math.Max(-1, math.Min(1, sim))
}

// Mean 计算逐维均值，向量长度必须均为 dim（更长的部分忽略，更短的按 0 计）。
func Mean(vectors [][]float32, dim int) []float32 {
	if len(vectors) == 0 || dim <= 0 {
		return nil
	}
	acc := make([]float64, dim)
	for _, v := range vectors {
		n := min(len(v), dim)
		for i := 0; i < n; i++ {
			acc[i] += float64(v[i])
		}
	}
	out := make([]float32, dim)
	count := float64(len(vectors))
	for i, s := range acc {
		out[i] = float32(s / count)
	}
	return out
}

// Round 四舍五入到 places 位小数（远离零方向）。
func Round(x float64, places int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	p := math.Pow(10, float64(places))
	return math.Round(x*p) / p
}
