package syscalls

import (
	"github.com/robotalks/metal.go/pkg/serial"
	"golang.org/x/exp/constraints"
)

// Timespec is a point in time.
type Timespec struct {
	Sec  int64
	Nsec int64
}

// Stat is the result of Stat and Fstat. Mode uses newlib bits.
type Stat struct {
	Dev     uint64
	Ino     uint64
	Mode    uint32
	Nlink   uint32
	Uid     uint32
	Gid     uint32
	Rdev    uint64
	Size    int64
	Blksize int64
	Blocks  int64
	Atim    Timespec
	Mtim    Timespec
	Ctim    Timespec
}

func readField[T constraints.Integer](t *serial.Target, v *T) {
	*v, _ = serial.ReadInt[T](t)
}

func readStat(t *serial.Target) (st Stat, err error) {
	readField(t, &st.Dev)
	readField(t, &st.Ino)
	readField(t, &st.Mode)
	readField(t, &st.Nlink)
	readField(t, &st.Uid)
	readField(t, &st.Gid)
	readField(t, &st.Rdev)
	readField(t, &st.Size)
	readField(t, &st.Blksize)
	readField(t, &st.Blocks)
	for _, ts := range []*Timespec{&st.Atim, &st.Mtim, &st.Ctim} {
		readField(t, &ts.Sec)
		readField(t, &ts.Nsec)
	}
	return st, t.Err()
}

// Fields lists the values of st in wire order.
func (st *Stat) Fields() []int64 {
	return []int64{
		int64(st.Dev), int64(st.Ino), int64(st.Mode), int64(st.Nlink),
		int64(st.Uid), int64(st.Gid), int64(st.Rdev), st.Size, st.Blksize, st.Blocks,
		st.Atim.Sec, st.Atim.Nsec, st.Mtim.Sec, st.Mtim.Nsec, st.Ctim.Sec, st.Ctim.Nsec,
	}
}
