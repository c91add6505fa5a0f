package header

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// MustEncodeLE encodes fixed-size values in little-endian order.
// It is meant for package-level signature declarations and panics if a
// value has no fixed size.
//
//	var v4 = header.MustEncodeLE(struct{ Magic, Version uint32 }{64, 4})
func MustEncodeLE(values ...any) []byte {
	var buf bytes.Buffer
	for _, v := range values {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			panic(fmt.Sprintf("header: encoding %T: %v", v, err))
		}
	}
	return buf.Bytes()
}
