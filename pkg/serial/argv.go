package serial

import "bytes"

// ReadArgv asks the host for the command line arguments. The host sends
// the argument count and then all arguments NUL-separated as one memory
// block of at most capacity bytes. truncated reports that fewer than the
// announced arguments fit.
//
//go:noinline
func (t *Target) ReadArgv(capacity int) (args []string, truncated bool) {
	t.Mark(0, TagArgv)
	argc, err := ReadInt[int32](t)
	if err != nil {
		return nil, false
	}
	buf := make([]byte, capacity)
	buf = buf[:t.ReadMemory(buf)]
	for len(args) < int(argc) {
		idx := bytes.IndexByte(buf, 0)
		if idx < 0 {
			break
		}
		args = append(args, string(buf[:idx]))
		buf = buf[idx+1:]
	}
	return args, len(args) < int(argc)
}
