package dicomio

import (
	"encoding/binary"
	"fmt"
)

// Transfer syntax UIDs this package can resolve to a <byteorder, implicit>
// pair. This is a small fixed table, not the full PS 3.6 registry — the
// rest of that registry (image compression transfer syntaxes in
// particular) names a binary codec this module treats as an external
// collaborator. WriteTokens and NewTokenReader do not consult this table;
// they always use explicit VR little endian.
const (
	ImplicitVRLittleEndianUID = "1.2.840.10008.1.2"
	ExplicitVRLittleEndianUID = "1.2.840.10008.1.2.1"
	ExplicitVRBigEndianUID    = "1.2.840.10008.1.2.2"
)

// ParseTransferSyntaxUID resolves a transfer syntax UID to the byte order
// and implicit/explicit VR pair a Decoder or Encoder needs. UIDs outside
// the fixed table above (compressed pixel-data transfer syntaxes) return an
// error, since decoding their pixel stream is outside the tokenizer core's
// scope.
func ParseTransferSyntaxUID(uid string) (byteorder binary.ByteOrder, implicit IsImplicitVR, err error) {
	switch uid {
	case ImplicitVRLittleEndianUID, "":
		return binary.LittleEndian, ImplicitVR, nil
	case ExplicitVRLittleEndianUID:
		return binary.LittleEndian, ExplicitVR, nil
	case ExplicitVRBigEndianUID:
		return binary.BigEndian, ExplicitVR, nil
	default:
		return nil, UnknownVR, fmt.Errorf("dicomio: unsupported transfer syntax UID %q", uid)
	}
}
