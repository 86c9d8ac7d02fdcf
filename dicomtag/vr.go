package dicomtag

// VR is a DICOM Value Representation: a closed two-character code naming how
// an element's value is encoded (PS 3.5 §6.2). VR names the wire code itself
// rather than the Go storage shape for a decoded value — storage shape is
// the decoder's concern, not the tokenizer's.
type VR uint8

// The VR values relevant to this core. The set is closed: there is no
// "other" bucket. Unrecognized two-character codes from the wire are the
// decoder's problem, not this package's; ParseVR reports failure rather
// than inventing a value.
const (
	VRUnset VR = iota
	AE
	AS
	AT
	CS
	DA
	DS
	DT
	FL
	FD
	IS
	LO
	LT
	OB
	OD
	OF
	OL
	OW
	PN
	SH
	SL
	SQ
	SS
	ST
	TM
	UC
	UI
	UL
	UN
	UR
	US
	UT
)

var vrNames = [...]string{
	VRUnset: "",
	AE:      "AE", AS: "AS", AT: "AT", CS: "CS", DA: "DA", DS: "DS", DT: "DT",
	FL: "FL", FD: "FD", IS: "IS", LO: "LO", LT: "LT", OB: "OB", OD: "OD",
	OF: "OF", OL: "OL", OW: "OW", PN: "PN", SH: "SH", SL: "SL", SQ: "SQ",
	SS: "SS", ST: "ST", TM: "TM", UC: "UC", UI: "UI", UL: "UL", UN: "UN",
	UR: "UR", US: "US", UT: "UT",
}

// String returns the two-character wire code, or "" for the zero value.
func (v VR) String() string {
	if int(v) < len(vrNames) {
		return vrNames[v]
	}
	return ""
}

// IsSequence reports whether v is SQ, the one VR that marks a sequence
// element.
func (v VR) IsSequence() bool {
	return v == SQ
}

var vrByName = func() map[string]VR {
	m := make(map[string]VR, len(vrNames))
	for v, name := range vrNames {
		if name != "" {
			m[name] = VR(v)
		}
	}
	return m
}()

// ParseVR looks up the VR for a two-character wire code. ok is false for
// codes outside the closed enum — the dictionary table's "See Note" and
// "RET" rows never reach here, since they are string-normalized by the
// ingestor first.
func ParseVR(code string) (vr VR, ok bool) {
	vr, ok = vrByName[code]
	return
}
