package device

func alloci32(n int) []int32 {
	return make([]int32, n)
}
