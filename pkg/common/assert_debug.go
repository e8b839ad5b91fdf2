//go:build debug

package common

func assert(ok bool, msg string) {
	if !ok {
		panic("assertion failed: " + msg)
	}
}
