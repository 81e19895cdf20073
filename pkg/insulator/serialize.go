package insulator

import (
	json "github.com/goccy/go-json"
)

// Serialization hooks. A Buf exposes its raw byte content and length;
// framing and versioning belong to whatever collaborator invokes these
// (see the codec package for the length-prefixed frame format).

// MarshalBinary returns a copy of the raw content bytes.
// It implements encoding.BinaryMarshaler. The receiver is a value so that
// marshaling works on non-addressable Bufs (struct fields, map values)
// without silently falling back to the default encoding.
func (b Buf) MarshalBinary() ([]byte, error) {
	out := make([]byte, b.Len())
	copy(out, b.Bytes())
	return out, nil
}

// UnmarshalBinary replaces the content with a copy of data.
// It implements encoding.BinaryUnmarshaler.
func (b *Buf) UnmarshalBinary(data []byte) error {
	*b = New(data)
	return nil
}

// MarshalJSON encodes the raw content using the standard []byte
// convention (base64 string). Original casing survives the round trip.
// It implements json.Marshaler. Value receiver for the same reason as
// MarshalBinary.
func (b Buf) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.Bytes())
}

// UnmarshalJSON decodes a base64 []byte value and replaces the content.
// It implements json.Unmarshaler.
func (b *Buf) UnmarshalJSON(data []byte) error {
	var raw []byte
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*b = New(raw)
	return nil
}
