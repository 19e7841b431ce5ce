package compose

import (
	"encoding/base64"
	"strings"
)

// Payload is an encoded image together with the container it is stored in.
type Payload struct {
	Data   []byte
	Format Format
}

// DataURL renders the payload for transport.
func (p *Payload) DataURL() string {
	return EncodePayload(p.Data, p.Format)
}

// EncodePayload base64-encodes data behind a data URL header for f.
func EncodePayload(data []byte, f Format) string {
	return "data:" + f.MIME() + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// DecodePayload accepts either a bare base64 string or a data URL and returns
// the decoded bytes. When s contains a comma everything up to and including
// the first comma is discarded without looking at the media type.
func DecodePayload(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, newError(KindInvalidEncoding, "empty payload", nil)
	}
	if _, after, ok := strings.Cut(s, ","); ok {
		s = strings.TrimSpace(after)
	}
	if s == "" {
		return nil, newError(KindInvalidEncoding, "data URL carries no payload", nil)
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		// clients sometimes strip the padding
		raw, rawErr := base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
		if rawErr != nil {
			return nil, newError(KindInvalidEncoding, "invalid base64 payload", err)
		}
		data = raw
	}
	if len(data) == 0 {
		return nil, newError(KindInvalidEncoding, "empty payload", nil)
	}
	return data, nil
}
