// Package report describes the outcome of a transceiver session and
// encodes it as a protobuf Struct for publishing.
package report

import (
	"fmt"
	"time"

	"github.com/golang/protobuf/proto"
	"github.com/golang/protobuf/ptypes"
	structpb "github.com/golang/protobuf/ptypes/struct"
)

// Report summarizes a session.
type Report struct {
	Station string
	Mode    string
	State   string
	Scheme  string
	Error   string

	TotalLength    uint32
	ExpectedFrames int
	Bytes          int
	Frames         int
	Slots          int

	CorrectedBits       int
	UncorrectableBlocks int
	LineErrors          int
	MalformedFrames     int
	SentinelSlots       int

	Started  time.Time
	Finished time.Time
}

// Final reports whether the session has ended.
func (r *Report) Final() bool {
	return !r.Finished.IsZero()
}

// String implements fmt.Stringer.
func (r *Report) String() string {
	s := fmt.Sprintf("%s %s [%s] %d/%d bytes, %d frames, %d slots, fixed %d bits, %d bad blocks, %d malformed",
		r.Mode, r.State, r.Scheme, r.Bytes, r.TotalLength, r.Frames, r.Slots,
		r.CorrectedBits, r.UncorrectableBlocks, r.MalformedFrames)
	if r.Error != "" {
		s += ": " + r.Error
	}
	return s
}

func strVal(s string) *structpb.Value {
	return &structpb.Value{Kind: &structpb.Value_StringValue{StringValue: s}}
}

func numVal(n float64) *structpb.Value {
	return &structpb.Value{Kind: &structpb.Value_NumberValue{NumberValue: n}}
}

// timeVal renders t as an RFC 3339 string in UTC.
func timeVal(t time.Time) (*structpb.Value, error) {
	ts, err := ptypes.TimestampProto(t)
	if err != nil {
		return nil, err
	}
	return strVal(ptypes.TimestampString(ts)), nil
}

func timeOf(v *structpb.Value) (time.Time, error) {
	s, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return time.Time{}, fmt.Errorf("timestamp expected")
	}
	t, err := time.Parse(time.RFC3339Nano, s.StringValue)
	if err != nil {
		return time.Time{}, err
	}
	if _, err = ptypes.TimestampProto(t); err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// Proto converts the report into a protobuf Struct.
func (r *Report) Proto() (*structpb.Struct, error) {
	fields := map[string]*structpb.Value{
		"station":              strVal(r.Station),
		"mode":                 strVal(r.Mode),
		"state":                strVal(r.State),
		"scheme":               strVal(r.Scheme),
		"total_length":         numVal(float64(r.TotalLength)),
		"expected_frames":      numVal(float64(r.ExpectedFrames)),
		"bytes":                numVal(float64(r.Bytes)),
		"frames":               numVal(float64(r.Frames)),
		"slots":                numVal(float64(r.Slots)),
		"corrected_bits":       numVal(float64(r.CorrectedBits)),
		"uncorrectable_blocks": numVal(float64(r.UncorrectableBlocks)),
		"line_errors":          numVal(float64(r.LineErrors)),
		"malformed_frames":     numVal(float64(r.MalformedFrames)),
		"sentinel_slots":       numVal(float64(r.SentinelSlots)),
	}
	if r.Error != "" {
		fields["error"] = strVal(r.Error)
	}
	for name, t := range map[string]time.Time{"started": r.Started, "finished": r.Finished} {
		if t.IsZero() {
			continue
		}
		v, err := timeVal(t)
		if err != nil {
			return nil, err
		}
		fields[name] = v
	}
	return &structpb.Struct{Fields: fields}, nil
}

// FromProto converts a protobuf Struct back into a report.
func FromProto(s *structpb.Struct) (*Report, error) {
	str := func(name string) string { return s.Fields[name].GetStringValue() }
	num := func(name string) int { return int(s.Fields[name].GetNumberValue()) }
	r := &Report{
		Station:             str("station"),
		Mode:                str("mode"),
		State:               str("state"),
		Scheme:              str("scheme"),
		Error:               str("error"),
		TotalLength:         uint32(num("total_length")),
		ExpectedFrames:      num("expected_frames"),
		Bytes:               num("bytes"),
		Frames:              num("frames"),
		Slots:               num("slots"),
		CorrectedBits:       num("corrected_bits"),
		UncorrectableBlocks: num("uncorrectable_blocks"),
		LineErrors:          num("line_errors"),
		MalformedFrames:     num("malformed_frames"),
		SentinelSlots:       num("sentinel_slots"),
	}
	var err error
	if v := s.Fields["started"]; v != nil {
		if r.Started, err = timeOf(v); err != nil {
			return nil, err
		}
	}
	if v := s.Fields["finished"]; v != nil {
		if r.Finished, err = timeOf(v); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Marshal encodes the report in protobuf wire format.
func (r *Report) Marshal() ([]byte, error) {
	pb, err := r.Proto()
	if err != nil {
		return nil, err
	}
	return proto.Marshal(pb)
}

// Unmarshal decodes a report encoded by Marshal.
func Unmarshal(data []byte) (*Report, error) {
	var pb structpb.Struct
	if err := proto.Unmarshal(data, &pb); err != nil {
		return nil, err
	}
	return FromProto(&pb)
}
