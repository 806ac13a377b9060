package sh

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/metal.go/pkg/env"
	"github.com/robotalks/metal.go/pkg/host"
	"github.com/robotalks/metal.go/pkg/serial"
	"github.com/robotalks/metal.go/pkg/transport"
	"github.com/robotalks/metal.go/pkg/unit"
)

func streamedTable(t *testing.T) (*serial.Table, string) {
	f, err := os.Create(filepath.Join(t.TempDir(), "sites.msgpack"))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	table := serial.NewTable()
	require.NoError(t, table.StreamTo(f))
	return table, f.Name()
}

func TestRunTarget(t *testing.T) {
	table, sites := streamedTable(t)
	transport.Register("shtest", func(ctx context.Context, u *url.URL) (io.ReadWriteCloser, error) {
		targetConn, hostConn := net.Pipe()
		go func() {
			defer targetConn.Close()
			tgt := serial.NewTarget(serial.NewStreamPort(targetConn)).WithLocator(table)
			tgt.Init()
			u := unit.New(unit.NewSerial(tgt))
			unit.AssertEqual(u, "metal", "steel")
			u.Report()
			tgt.Exit(u.ExitCode())
		}()
		return hostConn, nil
	})

	s := &Shell{Interactive: true}
	conf := &env.Config{Target: "shtest://", Symbols: sites, Level: unit.PrintAll, Format: host.FormatJSON}
	var out bytes.Buffer
	code, err := s.RunTarget(context.Background(), conf, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "assert failed")
}

func TestRunTargetCancel(t *testing.T) {
	_, sites := streamedTable(t)
	transport.Register("shidle", func(ctx context.Context, u *url.URL) (io.ReadWriteCloser, error) {
		targetConn, hostConn := net.Pipe()
		go func() {
			io.Copy(io.Discard, targetConn)
		}()
		return hostConn, nil
	})

	s := &Shell{Interactive: true}
	conf := &env.Config{Target: "shidle://", Symbols: sites, Level: unit.PrintAll, Format: host.FormatJSON}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	code, err := s.RunTarget(ctx, conf, io.Discard)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, code)
}

func TestRunTargetInvalidConfig(t *testing.T) {
	s := &Shell{Interactive: true}
	_, err := s.RunTarget(context.Background(), &env.Config{Format: host.FormatJSON}, io.Discard)
	assert.Error(t, err)
}
