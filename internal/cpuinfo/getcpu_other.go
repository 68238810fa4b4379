//go:build !linux

package cpuinfo

// CurrentCore returns 0 on platforms without a getcpu equivalent.
func CurrentCore() int {
	return 0
}
