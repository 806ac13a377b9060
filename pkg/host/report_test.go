package host

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/golang/protobuf/proto"
	structpb "github.com/golang/protobuf/ptypes/struct"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robotalks/metal.go/pkg/serial"
	"github.com/robotalks/metal.go/pkg/unit"
)

func sampleReport() *Report {
	stack := unit.NewStack()
	stack.Enter("case", "")
	stack.Current().Summary = unit.Summary{Executed: 3, Warnings: 1, Errors: 1}
	stack.Exit()
	r := NewReport(stack.Root(), 1)
	r.Host = "bench"
	return r
}

func TestReportJSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, sampleReport().Encode(&out, FormatJSON))
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(out.Bytes(), &m))
	assert.Equal(t, unit.RootName, m["name"])
	assert.EqualValues(t, 1, m["exit_code"])
	assert.Equal(t, "bench", m["host"])
	summary := m["summary"].(map[string]interface{})
	assert.EqualValues(t, 3, summary["executed"])
	assert.EqualValues(t, 1, summary["errors"])
	children := m["children"].([]interface{})
	require.Len(t, children, 1)
	assert.Equal(t, "case", children[0].(map[string]interface{})["name"])
}

func TestReportCBOR(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, sampleReport().Encode(&out, FormatCBOR))
	var m map[string]interface{}
	require.NoError(t, cbor.Unmarshal(out.Bytes(), &m))
	assert.Equal(t, unit.RootName, m["name"])
	assert.EqualValues(t, 1, m["exit_code"])
	require.Contains(t, m, "summary")
}

func TestReportProtobuf(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, sampleReport().Encode(&out, "PB"))
	var msg structpb.Struct
	require.NoError(t, proto.Unmarshal(out.Bytes(), &msg))
	assert.Equal(t, unit.RootName, msg.Fields["name"].GetStringValue())
	assert.EqualValues(t, 1, msg.Fields["exit_code"].GetNumberValue())
	summary := msg.Fields["summary"].GetStructValue()
	require.NotNil(t, summary)
	assert.EqualValues(t, 1, summary.Fields["warnings"].GetNumberValue())
	children := msg.Fields["children"].GetListValue()
	require.NotNil(t, children)
	require.Len(t, children.Values, 1)
	assert.False(t, msg.Fields["cancelled"].GetBoolValue())
}

func TestReportUnknownFormat(t *testing.T) {
	assert.Error(t, sampleReport().Encode(&bytes.Buffer{}, "xml"))
}

func TestTableFileReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sites.msgpack")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	table := serial.NewTable()
	first := table.Locate(0, serial.TagUnit)
	require.NoError(t, table.StreamTo(f))
	syms, err := OpenTableFile(path)
	require.NoError(t, err)
	site, ok := syms.Resolve(first)
	require.True(t, ok)
	assert.Equal(t, serial.TagUnit, site.Tag)

	second := table.Locate(0, serial.TagArgv)
	site, ok = syms.Resolve(second)
	require.True(t, ok)
	assert.Equal(t, serial.TagArgv, site.Tag)
	assert.Len(t, syms.Table().Sites(), 2)

	_, ok = syms.Resolve(100)
	assert.False(t, ok)
	_, ok = syms.Token()
	assert.False(t, ok)
}

func TestBinarySymbols(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("ELF only")
	}
	exe, err := os.Executable()
	require.NoError(t, err)
	syms, err := OpenBinary(exe)
	require.NoError(t, err)
	token, ok := syms.Token()
	require.True(t, ok)
	base := uint64(serial.Token()) - token

	pc := reflect.ValueOf(sampleReport).Pointer()
	site, ok := syms.Resolve(serial.Location(uint64(pc) - base))
	require.True(t, ok)
	assert.True(t, strings.HasSuffix(site.Func, ".sampleReport"), site.Func)
	assert.Equal(t, "report_test.go", filepath.Base(site.File))
	assert.Equal(t, serial.TagUnit, site.Tag)
}

func TestOpenBinaryErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-elf")
	require.NoError(t, os.WriteFile(path, []byte("text"), 0o644))
	_, err := OpenBinary(path)
	assert.Error(t, err)
}
