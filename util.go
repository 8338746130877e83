package mmsched

// divCeil returns ceil(a/b) for positive b
func divCeil(a, b int) int {
	return (a + b - 1) / b
}

// rndUp rounds a up to the next multiple of align
func rndUp(a, align int) int {
	return divCeil(a, align) * align
}

// divisors returns every divisor of x in increasing order
func divisors(x int) []int {
	var out []int
	for i := 1; i <= x; i++ {
		if x%i == 0 {
			out = append(out, i)
		}
	}
	return out
}
