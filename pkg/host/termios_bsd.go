//go:build darwin || dragonfly || freebsd || netbsd || openbsd

package host

import "golang.org/x/sys/unix"

const ioctlReadTermios = unix.TIOCGETA
