package bib

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/boutros/marc"
)

// ErrUnknownFormat is returned when input is not line MARC, MARCXML or
// ISO 2709.
var ErrUnknownFormat = errors.New("unknown MARC format")

// sniffLen is how much input is inspected to detect the format.
const sniffLen = 64

// Decode parses exactly one record from text in any supported format.
func Decode(text string) (Record, error) {
	records, err := ReadRecords(strings.NewReader(strings.TrimLeft(text, " \t\r\n")))
	if err != nil {
		return Record{}, err
	}
	if len(records) != 1 {
		return Record{}, fmt.Errorf("expected 1 MARC record, found %d", len(records))
	}
	return records[0], nil
}

// ReadRecords decodes every record from r, detecting the format from its
// first bytes.
func ReadRecords(r io.Reader) ([]Record, error) {
	br := bufio.NewReader(r)
	sniff, err := br.Peek(sniffLen)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to read MARC input: %w", err)
	}
	if len(sniff) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrUnknownFormat)
	}

	format := marc.DetectFormat(sniff)
	switch format {
	case marc.MARC, marc.LineMARC, marc.MARCXML:
	default:
		return nil, ErrUnknownFormat
	}

	records, err := marc.NewDecoder(br, format).DecodeAll()
	if err != nil {
		return nil, fmt.Errorf("failed to decode MARC records: %w", err)
	}
	return records, nil
}
