package host

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/golang/protobuf/proto"
	structpb "github.com/golang/protobuf/ptypes/struct"

	"github.com/robotalks/metal.go/pkg/unit"
)

// Report formats.
const (
	FormatJSON     = "json"
	FormatCBOR     = "cbor"
	FormatProtobuf = "pb"
)

// Formats lists the supported report formats.
var Formats = []string{FormatJSON, FormatCBOR, FormatProtobuf}

// Report is the outcome of a session: the root scope of the results.
type Report struct {
	*unit.Scope
	ExitCode int    `json:"exit_code" cbor:"exit_code"`
	Host     string `json:"host,omitempty" cbor:"host,omitempty"`
}

// NewReport creates a Report of root.
func NewReport(root *unit.Scope, exitCode int) *Report {
	return &Report{Scope: root, ExitCode: exitCode}
}

// Encode writes the report in format.
func (r *Report) Encode(w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatCBOR:
		return cbor.NewEncoder(w).Encode(r)
	case FormatProtobuf:
		msg, err := r.Struct()
		if err != nil {
			return err
		}
		data, err := proto.Marshal(msg)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}
	return fmt.Errorf("unknown report format %q", format)
}

// Struct converts the report into a protobuf Struct, with the field names
// of the JSON format.
func (r *Report) Struct() (*structpb.Struct, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return structOf(m), nil
}

func structOf(m map[string]interface{}) *structpb.Struct {
	s := &structpb.Struct{Fields: make(map[string]*structpb.Value, len(m))}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		s.Fields[k] = valueOf(m[k])
	}
	return s
}

func valueOf(v interface{}) *structpb.Value {
	switch val := v.(type) {
	case nil:
		return &structpb.Value{Kind: &structpb.Value_NullValue{}}
	case bool:
		return &structpb.Value{Kind: &structpb.Value_BoolValue{BoolValue: val}}
	case float64:
		return &structpb.Value{Kind: &structpb.Value_NumberValue{NumberValue: val}}
	case string:
		return &structpb.Value{Kind: &structpb.Value_StringValue{StringValue: val}}
	case []interface{}:
		list := &structpb.ListValue{Values: make([]*structpb.Value, len(val))}
		for n, item := range val {
			list.Values[n] = valueOf(item)
		}
		return &structpb.Value{Kind: &structpb.Value_ListValue{ListValue: list}}
	case map[string]interface{}:
		return &structpb.Value{Kind: &structpb.Value_StructValue{StructValue: structOf(val)}}
	}
	return &structpb.Value{Kind: &structpb.Value_StringValue{StringValue: fmt.Sprint(v)}}
}
