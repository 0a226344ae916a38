//go:build !linux && !darwin && !freebsd && !netbsd && !openbsd

package ui

func IsTerminal(uintptr) bool {
	return false
}
