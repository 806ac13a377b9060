// Package syscalls implements the file system calls of a C runtime on top
// of the serial protocol.
//
// A Shim runs in one of three modes:
//
//	Blocked    only writes to stdout and stderr reach the host.
//	Unchecked  writes and write-only opens are forwarded without waiting
//	           for the host.
//	Full       every call is a request answered by the host.
//
// Failures allowed by the mode are reported as newlib.Errno values without
// touching the wire.
package syscalls
