package core

// streaming.go normalizes uploaded import files before CSV decoding.
//
// Spreadsheet tools save "CSV" in several encodings:
//
//   - UTF-8 with a BOM (Excel "CSV UTF-8"): the BOM is dropped
//   - UTF-16 with a BOM (Excel "Unicode Text"): decoded to UTF-8
//   - Windows-1252 (Excel "CSV" on Windows): decoded to UTF-8
//
// Valid UTF-8 input is passed through unchanged.

import (
	"bytes"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var (
	utf16LEBOM = []byte{0xFF, 0xFE}
	utf16BEBOM = []byte{0xFE, 0xFF}
)

// BOMSkippingReader wraps an io.Reader and skips the UTF-8 BOM if present.
// The UTF-8 BOM is 0xEF 0xBB 0xBF and is commonly added by Windows programs.
type BOMSkippingReader struct {
	reader     io.Reader
	bomChecked bool
	buf        [3]byte
	bufData    []byte // bytes read during BOM detection that belong to the content
	bufOffset  int
}

// NewBOMSkippingReader creates a new BOM-skipping reader.
func NewBOMSkippingReader(r io.Reader) *BOMSkippingReader {
	return &BOMSkippingReader{
		reader: r,
	}
}

// Read implements io.Reader. On the first read, it checks for and skips the BOM.
func (r *BOMSkippingReader) Read(p []byte) (int, error) {
	if !r.bomChecked {
		r.bomChecked = true

		n, err := io.ReadFull(r.reader, r.buf[:])
		if n == 0 {
			if err == io.ErrUnexpectedEOF {
				err = io.EOF
			}
			return 0, err
		}

		if n >= 3 && r.buf[0] == 0xEF && r.buf[1] == 0xBB && r.buf[2] == 0xBF {
			r.bufData = nil
		} else {
			r.bufData = r.buf[:n]
			r.bufOffset = 0
		}

		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		if err != nil && err != io.EOF {
			return 0, err
		}
		if err == io.EOF && len(r.bufData) == 0 {
			return 0, io.EOF
		}
	}

	if r.bufData != nil && r.bufOffset < len(r.bufData) {
		copied := copy(p, r.bufData[r.bufOffset:])
		r.bufOffset += copied
		if r.bufOffset >= len(r.bufData) {
			r.bufData = nil
		}
		return copied, nil
	}

	return r.reader.Read(p)
}

// ReadText reads an import file and returns its content as UTF-8 text.
// A positive limit caps the file size; larger files fail with ErrFileTooLarge.
func ReadText(r io.Reader, limit int64) (string, error) {
	src := io.Reader(NewBOMSkippingReader(r))
	if limit > 0 {
		src = io.LimitReader(src, limit+1)
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return "", err
	}
	if limit > 0 && int64(len(data)) > limit {
		return "", ErrFileTooLarge
	}

	return DecodeBytes(data)
}

// DecodeBytes converts file content to UTF-8 text, detecting UTF-16 BOMs and
// falling back to Windows-1252 when the bytes are not valid UTF-8.
func DecodeBytes(data []byte) (string, error) {
	switch {
	case bytes.HasPrefix(data, utf16LEBOM):
		out, err := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder().Bytes(data)
		if err != nil {
			return "", err
		}
		return string(out), nil
	case bytes.HasPrefix(data, utf16BEBOM):
		out, err := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder().Bytes(data)
		if err != nil {
			return "", err
		}
		return string(out), nil
	case utf8.Valid(data):
		return string(data), nil
	}

	out, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
