package tensor

// MatVec computes dst = w * x where w is R x C, x has length C and dst has
// length R.
func MatVec(dst []float32, w *Mat, x []float32) {
	if len(dst) < w.R || len(x) < w.C {
		panic("matvec shape mismatch")
	}
	for i := 0; i < w.R; i++ {
		row := w.Data[i*w.Stride : i*w.Stride+w.C]
		var sum float32
		j := 0
		for ; j+3 < w.C; j += 4 {
			sum += row[j]*x[j] + row[j+1]*x[j+1] + row[j+2]*x[j+2] + row[j+3]*x[j+3]
		}
		for ; j < w.C; j++ {
			sum += row[j] * x[j]
		}
		dst[i] = sum
	}
}

// AddInPlace adds b to a element-wise.
func AddInPlace(a, b []float32) {
	if len(b) < len(a) {
		panic("add shape mismatch")
	}
	for i := range a {
		a[i] += b[i]
	}
}
