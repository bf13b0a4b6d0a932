package isotag

import (
	"github.com/rs/zerolog"
)

// DiagnosticSink receives structured events from pack and unpack calls.
// Events never influence control flow; in particular a consumption
// mismatch is reported here and nowhere else. Implementations must be
// safe for concurrent use.
type DiagnosticSink interface {
	// UnpackStart reports the raw buffer handed to a group unpack.
	UnpackStart(fieldNum int, raw []byte)
	// PackDone reports the bytes produced by a group pack.
	PackDone(fieldNum int, raw []byte)
	// ConsumptionMismatch reports an unpack that consumed fewer bytes
	// than the buffer held.
	ConsumptionMismatch(fieldNum, bufLen, consumed int)
	// FieldError reports a per-field pack or unpack failure before it
	// propagates.
	FieldError(fieldNum, subField int, err error)
}

// NopSink discards all events. It is the default sink.
type NopSink struct{}

func (NopSink) UnpackStart(int, []byte)           {}
func (NopSink) PackDone(int, []byte)              {}
func (NopSink) ConsumptionMismatch(int, int, int) {}
func (NopSink) FieldError(int, int, error)        {}

// ZerologSink emits diagnostic events through a zerolog logger. Buffer
// dumps go out at debug level, mismatches and field errors at warn.
type ZerologSink struct {
	log zerolog.Logger
}

func NewZerologSink(log zerolog.Logger) ZerologSink {
	return ZerologSink{log: log}
}

func (s ZerologSink) UnpackStart(fieldNum int, raw []byte) {
	s.log.Debug().
		Int("field", fieldNum).
		Str("data", hexString(raw)).
		Msg("unpack")
}

func (s ZerologSink) PackDone(fieldNum int, raw []byte) {
	s.log.Debug().
		Int("field", fieldNum).
		Str("data", hexString(raw)).
		Msg("pack")
}

func (s ZerologSink) ConsumptionMismatch(fieldNum, bufLen, consumed int) {
	s.log.Warn().
		Int("field", fieldNum).
		Int("len", bufLen).
		Int("consumed", consumed).
		Msg("unpack consumed fewer bytes than buffer holds")
}

func (s ZerologSink) FieldError(fieldNum, subField int, err error) {
	s.log.Warn().
		Int("field", fieldNum).
		Int("subfield", subField).
		Err(err).
		Msg("subfield error")
}

const hexTableUpper = "0123456789ABCDEF"

// hexString converts raw bytes to uppercase hex for diagnostic dumps.
func hexString(src []byte) string {
	dst := make([]byte, len(src)*2)
	for i, v := range src {
		dst[i*2] = hexTableUpper[v>>4]
		dst[i*2+1] = hexTableUpper[v&0x0f]
	}
	return string(dst)
}
