package dicomio

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// CodingSystem holds the up to three decoders a PN (person name) value can
// use for its alphabetic, ideographic, and phonetic representations. Every
// other VR only ever uses Ideographic.
type CodingSystem struct {
	Alphabetic  *encoding.Decoder
	Ideographic *encoding.Decoder
	Phonetic    *encoding.Decoder
}

// CodingSystemType picks which of CodingSystem's three decoders applies;
// the distinction only matters for VR PN in charsets like Japanese that
// give a name separate alphabetic and phonetic spellings.
type CodingSystemType int

const (
	// AlphabeticCodingSystem is for writing a name in (English) alphabets.
	AlphabeticCodingSystem CodingSystemType = iota
	// IdeographicCodingSystem is for writing the name in the native writing
	// system (Kanji).
	IdeographicCodingSystem
	// PhoneticCodingSystem is for hirakana and/or katakana.
	PhoneticCodingSystem
)

// htmlEncodingNames maps a DICOM SpecificCharacterSet name to the
// golang.org/x/text/encoding/htmlindex name that decodes it. "" means 7-bit
// ASCII (the default, no decoder needed).
var htmlEncodingNames = map[string]string{
	"ISO 2022 IR 6":   "iso-8859-1",
	"ISO_IR 13":       "shift_jis",
	"ISO 2022 IR 13":  "shift_jis",
	"ISO_IR 100":      "iso-8859-1",
	"ISO 2022 IR 100": "iso-8859-1",
	"ISO_IR 101":      "iso-8859-2",
	"ISO 2022 IR 101": "iso-8859-2",
	"ISO_IR 109":      "iso-8859-3",
	"ISO 2022 IR 109": "iso-8859-3",
	"ISO_IR 110":      "iso-8859-4",
	"ISO 2022 IR 110": "iso-8859-4",
	"ISO_IR 126":      "iso-ir-126",
	"ISO 2022 IR 126": "iso-ir-126",
	"ISO_IR 127":      "iso-ir-127",
	"ISO 2022 IR 127": "iso-ir-127",
	"ISO_IR 138":      "iso-ir-138",
	"ISO 2022 IR 138": "iso-ir-138",
	"ISO_IR 144":      "iso-ir-144",
	"ISO 2022 IR 144": "iso-ir-144",
	"ISO_IR 148":      "iso-ir-148",
	"ISO 2022 IR 148": "iso-ir-148",
	"ISO 2022 IR 149": "euc-kr",
	"ISO 2022 IR 159": "iso-2022-jp",
	"ISO_IR 166":      "iso-ir-166",
	"ISO 2022 IR 166": "iso-ir-166",
	"ISO 2022 IR 87":  "iso-2022-jp",
	"ISO_IR 192":      "utf-8",
	"GB18030":         "utf-8",
}

// ParseSpecificCharacterSet resolves the one or more charset names carried
// by a SpecificCharacterSet element's value into the decoders a Decoder
// switches to for every string-valued element that follows it (PS 3.2
// Annex D.6.2). A name missing from htmlEncodingNames is an error; the
// caller decides whether to fall back to the existing charset rather than
// abort the decode. A table entry that htmlindex cannot resolve panics.
func ParseSpecificCharacterSet(encodingNames []string) (CodingSystem, error) {
	var decoders []*encoding.Decoder

	for _, name := range encodingNames {
		var c *encoding.Decoder

		if htmlName, ok := htmlEncodingNames[name]; !ok {
			return CodingSystem{}, fmt.Errorf("io.ParseSpecificCharacterSet: unknown character set %q", name)
		} else {
			if htmlName != "" {
				d, err := htmlindex.Get(htmlName)
				if err != nil {
					logrus.Panic(fmt.Sprintf("Encoding name %s (for %s) not found", name, htmlName))
				}

				c = d.NewDecoder()
			}
		}

		decoders = append(decoders, c)
	}

	if len(decoders) == 0 {
		return CodingSystem{nil, nil, nil}, nil
	}

	if len(decoders) == 1 {
		return CodingSystem{decoders[0], decoders[0], decoders[0]}, nil
	}

	if len(decoders) == 2 {
		return CodingSystem{decoders[0], decoders[1], decoders[1]}, nil
	}

	return CodingSystem{decoders[0], decoders[1], decoders[2]}, nil
}
