package freepants

import (
	"bufio"
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
	"github.com/tliron/commonlog"
)

func codecLog() commonlog.Logger { return commonlog.GetLogger("freepants.codec") }

// Record is one serialized slot: "<address>:<glyph>", the address written in
// base 8 with a leading zero.
type Record struct {
	Address Address
	Glyph   Glyph
}

func (r Record) String() string {
	return r.Address.String() + ":" + string(r.Glyph)
}

// ParseRecord splits a record on its first colon. The glyph is kept verbatim.
func ParseRecord(s string) (Record, error) {
	i := strings.IndexByte(s, ':')
	if i < 0 {
		return Record{}, &RecordError{Record: s, Reason: "missing colon"}
	}
	field := strings.TrimSpace(s[:i])
	v, err := strconv.ParseUint(field, 8, 32)
	if err != nil {
		return Record{}, &RecordError{Record: s, Reason: "address is not a base 8 number"}
	}
	if v >= AddressCount {
		return Record{}, &RecordError{Record: s, Reason: "address out of range"}
	}
	return Record{Address: Address(v), Glyph: Glyph(s[i+1:])}, nil
}

// Records returns the non-empty slots of the inclusive range [start, end].
// A glyph holding a line break cannot be written as a record.
func Records(s *AddressSpace, start, end Address) ([]Record, error) {
	if !start.Valid() {
		return nil, &AddressError{Value: int64(start)}
	}
	if !end.Valid() {
		return nil, &AddressError{Value: int64(end)}
	}
	var recs []Record
	for a := start; a <= end; a++ {
		g := s.glyph(a)
		if g == "" {
			continue
		}
		r := Record{Address: a, Glyph: g}
		if strings.ContainsAny(string(g), "\r\n") {
			return nil, &RecordError{Record: r.String(), Reason: "glyph contains a line break"}
		}
		recs = append(recs, r)
	}
	return recs, nil
}

// Export writes the non-empty slots of the inclusive range [start, end], one
// record per line.
func Export(s *AddressSpace, start, end Address) (string, error) {
	recs, err := Records(s, start, end)
	if err != nil {
		return "", err
	}
	lines := make([]string, len(recs))
	for i, r := range recs {
		lines[i] = r.String()
	}
	return strings.Join(lines, "\n"), nil
}

// Import decodes the records, in any form Unmarshal accepts, and writes
// them into the address space. Nothing is written unless every record is
// well formed.
func Import(s *AddressSpace, text string) (int, error) {
	recs, err := Unmarshal([]byte(text))
	if err != nil {
		return 0, err
	}
	ImportRecords(s, recs)
	return len(recs), nil
}

// ImportRecords overwrites the slot of every record with its glyph.
func ImportRecords(s *AddressSpace, recs []Record) {
	for _, r := range recs {
		s.slots[r.Address] = r.Glyph
	}
	codecLog().Debugf("imported %d records", len(recs))
}

// Marshal writes the records as a JSON array of strings indented with four spaces.
func Marshal(recs []Record) ([]byte, error) {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.String()
	}
	return json.MarshalIndent(out, "", "    ")
}

// Unmarshal reads records from a JSON array of strings or from text holding
// one record per line. Lines may be quoted and followed by a comma, as in
// a source listing of the table.
func Unmarshal(data []byte) ([]Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var lines []string
		if err := json.Unmarshal(trimmed, &lines); err != nil {
			return nil, errors.Wrap(ErrMalformedRecord, err.Error())
		}
		recs := make([]Record, 0, len(lines))
		for i, l := range lines {
			r, err := parseLine(i+1, l)
			if err != nil {
				return nil, err
			}
			recs = append(recs, r)
		}
		return recs, nil
	}

	var recs []Record
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		line = strings.TrimLeft(line, " \t")
		if strings.HasPrefix(line, `"`) {
			q := strings.TrimSuffix(strings.TrimSpace(line), ",")
			u, err := strconv.Unquote(q)
			if err != nil {
				return nil, &RecordError{Line: n, Record: line, Reason: "bad quoting"}
			}
			line = u
		}
		r, err := parseLine(n, line)
		if err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "reading records")
	}
	return recs, nil
}

func parseLine(n int, line string) (Record, error) {
	r, err := ParseRecord(line)
	if err != nil {
		var re *RecordError
		if errors.As(err, &re) {
			re.Line = n
		}
		return Record{}, err
	}
	return r, nil
}

// spaceImage is the CBOR form of an address space.
type spaceImage struct {
	Version int               `cbor:"1,keyasint"`
	Slots   map[uint16]string `cbor:"2,keyasint"`
}

const imageVersion = 1

var cborEnc = func() cbor.EncMode {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// MarshalCBOR writes a canonical CBOR image of every non-empty slot. Equal
// address spaces always give identical bytes.
func MarshalCBOR(s *AddressSpace) ([]byte, error) {
	img := spaceImage{Version: imageVersion, Slots: make(map[uint16]string, s.Len())}
	s.Each(func(a Address, g Glyph) bool {
		img.Slots[uint16(a)] = string(g)
		return true
	})
	return cborEnc.Marshal(img)
}

// UnmarshalCBOR reads an address space written by MarshalCBOR.
func UnmarshalCBOR(data []byte) (*AddressSpace, error) {
	var img spaceImage
	if err := cbor.Unmarshal(data, &img); err != nil {
		return nil, errors.Wrap(ErrMalformedRecord, err.Error())
	}
	if img.Version != imageVersion {
		return nil, errors.Wrapf(ErrMalformedRecord, "unknown image version %d", img.Version)
	}
	s := NewAddressSpace()
	for a, g := range img.Slots {
		if !Address(a).Valid() {
			return nil, &AddressError{Value: int64(a)}
		}
		s.slots[a] = Glyph(g)
	}
	return s, nil
}
