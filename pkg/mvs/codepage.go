/*
   XmitView - MVS transmission file viewer
   Copyright (c) 2026, The XmitView Authors

   This file is part of XmitView.

   XmitView is free software: you can redistribute it and/or modify
   it under the terms of the GNU General Public License as published by
   the Free Software Foundation, either version 3 of the License, or
   (at your option) any later version.

   XmitView is distributed in the hope that it will be useful,
   but WITHOUT ANY WARRANTY; without even the implied warranty of
   MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
   GNU General Public License for more details.

   You should have received a copy of the GNU General Public License
   along with XmitView. If not, see <http://www.gnu.org/licenses/>.
*/

package mvs

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// substitute is the SUB character in EBCDIC, and '?' in ASCII
const substitute = 0x3f

const printablePunctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Codepage is a single byte character set usable for both decoding mainframe
// data to UTF-8, and encoding UTF-8 to mainframe data. It implements
// encoding.Encoding, so it plugs into the golang.org/x/text transformers.
type Codepage struct {
	name   string
	decode [256]rune
	encode map[rune]byte
}

var (
	// CP037 is EBCDIC US/Canada, used for PDS member names
	CP037 = newCodepage("cp037", charmap.CodePage037, nil)

	// CP273 is EBCDIC Germany/Austria, the default for control records and
	// text members
	CP273 = newCodepage("cp273", charmap.CodePage037, map[byte]rune{
		0x43: '{', 0x4a: 'Ä', 0x4f: '!', 0x59: '~', 0x5a: 'Ü', 0x5f: '^',
		0x63: '[', 0x6a: 'ö', 0x7c: '§', 0xa1: 'ß', 0xb0: '¢', 0xb5: '@',
		0xba: '¬', 0xbb: '|', 0xc0: 'ä', 0xcc: '¦', 0xd0: 'ü', 0xdc: '}',
		0xe0: 'Ö', 0xec: '\\', 0xfc: ']',
	})

	// Latin1 is ISO 8859-1, used when probing members for ASCII text
	Latin1 = newCodepage("latin1", charmap.ISO8859_1, nil)
)

var codepages = map[string]*Codepage{
	"cp037":      CP037,
	"037":        CP037,
	"ibm037":     CP037,
	"cp273":      CP273,
	"273":        CP273,
	"ibm273":     CP273,
	"latin1":     Latin1,
	"latin-1":    Latin1,
	"iso8859-1":  Latin1,
	"iso-8859-1": Latin1,
}

//
func newCodepage(name string, base *charmap.Charmap,
	overrides map[byte]rune) *Codepage {

	cp := &Codepage{name: name, encode: make(map[rune]byte, 256)}
	for ix := 0; ix < 256; ix++ {
		r := base.DecodeByte(byte(ix))
		if o, ok := overrides[byte(ix)]; ok {
			r = o
		}
		cp.decode[ix] = r
	}
	// lowest byte wins for characters with more than one code point
	for ix := 255; ix >= 0; ix-- {
		cp.encode[cp.decode[ix]] = byte(ix)
	}
	return cp
}

// CodepageByName looks up one of the supported code pages. Names are case
// insensitive.
func CodepageByName(name string) (*Codepage, error) {
	if cp, ok := codepages[strings.ToLower(strings.TrimSpace(name))]; ok {
		return cp, nil
	}
	return nil, fmt.Errorf("unsupported code page: '%s'", name)
}

//
func (cp *Codepage) Name() string {
	return cp.name
}

//
func (cp *Codepage) String() string {
	return cp.name
}

// Rune returns the character for code point b.
func (cp *Codepage) Rune(b byte) rune {
	return cp.decode[b]
}

// DecodeString decodes all of b. Decoding never fails, every code point maps
// to some character.
func (cp *Codepage) DecodeString(b []byte) string {

	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		sb.WriteRune(cp.decode[c])
	}
	return sb.String()
}

// Printable decodes b, replacing every character that is not printable with
// a dot. This is what dumps use for their character column.
func (cp *Codepage) Printable(b []byte) string {

	var sb strings.Builder
	sb.Grow(len(b))
	for _, c := range b {
		if r := cp.decode[c]; IsPrintable(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('.')
		}
	}
	return sb.String()
}

// EncodeString encodes s, substituting characters not present in the code
// page.
func (cp *Codepage) EncodeString(s string) []byte {

	ret := make([]byte, 0, len(s))
	for _, r := range s {
		if b, ok := cp.encode[r]; ok {
			ret = append(ret, b)
		} else {
			ret = append(ret, substitute)
		}
	}
	return ret
}

// SuspectRatio returns the percentage of bytes in b that do not decode to
// letters, digits, ASCII punctuation, or space. The result is truncated to an
// integer. An empty slice is considered fully suspect.
func (cp *Codepage) SuspectRatio(b []byte) int {

	if len(b) == 0 {
		return 100
	}

	suspects := 0
	for _, c := range b {
		if !IsPrintable(cp.decode[c]) {
			suspects++
		}
	}
	return suspects * 100 / len(b)
}

// IsPrintable reports whether r is an ASCII letter, digit, punctuation
// character, or space.
func IsPrintable(r rune) bool {
	switch {
	case r == ' ':
		return true
	case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z', '0' <= r && r <= '9':
		return true
	}
	return r < utf8.RuneSelf && strings.ContainsRune(printablePunctuation, r)
}

// NewDecoder implements encoding.Encoding
func (cp *Codepage) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: &decoder{cp: cp}}
}

// NewEncoder implements encoding.Encoding
func (cp *Codepage) NewEncoder() *encoding.Encoder {
	return &encoding.Encoder{Transformer: &encoder{cp: cp}}
}

type decoder struct {
	transform.NopResetter
	cp *Codepage
}

//
func (d *decoder) Transform(dst, src []byte, atEOF bool) (int, int, error) {

	nDst, nSrc := 0, 0
	var buf [utf8.UTFMax]byte

	for ; nSrc < len(src); nSrc++ {
		r := d.cp.decode[src[nSrc]]
		if r < utf8.RuneSelf {
			if nDst >= len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			dst[nDst] = byte(r)
			nDst++
			continue
		}
		size := utf8.EncodeRune(buf[:], r)
		if nDst+size > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		copy(dst[nDst:], buf[:size])
		nDst += size
	}

	return nDst, nSrc, nil
}

type encoder struct {
	transform.NopResetter
	cp *Codepage
}

//
func (e *encoder) Transform(dst, src []byte, atEOF bool) (int, int, error) {

	nDst, nSrc := 0, 0

	for nSrc < len(src) {
		if nDst >= len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}

		r, size := rune(src[nSrc]), 1
		if r >= utf8.RuneSelf {
			if !atEOF && !utf8.FullRune(src[nSrc:]) {
				return nDst, nSrc, transform.ErrShortSrc
			}
			r, size = utf8.DecodeRune(src[nSrc:])
		}

		if b, ok := e.cp.encode[r]; ok {
			dst[nDst] = b
		} else {
			dst[nDst] = substitute
		}
		nDst++
		nSrc += size
	}

	return nDst, nSrc, nil
}
