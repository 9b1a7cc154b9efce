// Package gribio splits a stream of GRIB messages into individual GRIB2
// messages. GRIB1 messages are skipped.
package gribio

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/golang/glog"
)

// ErrNotGRIB is returned when a message does not start with "GRIB".
var ErrNotGRIB = errors.New("not a GRIB message")

type File struct {
	messages [][]byte
}

// Messages returns the raw GRIB2 messages in stream order.
func (f *File) Messages() [][]byte {
	return f.messages
}

func ReadFile(r io.Reader) (*File, error) {
	var messages [][]byte

	rr := bufio.NewReader(r)
	offset := 0
	for {
		skipCount, err := skipZeros(rr)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return &File{messages}, nil
			}
			return nil, fmt.Errorf("error parsing file: %w", err)
		}
		offset += skipCount

		parseType, messageLen, err := peekParseType(rr)
		if err != nil {
			return nil, fmt.Errorf("error encountered when expecting a GRIB message at byte offset %d: %w", offset, err)
		}
		glog.V(1).Infof("record @ offset %d is of type %s, %d bytes", offset, parseType, messageLen)
		recordBytes := make([]byte, int(messageLen))

		if readCount, err := io.ReadFull(rr, recordBytes); err != nil {
			return nil, fmt.Errorf("error while reading message of expected length %d; only read %d bytes: %w", messageLen, readCount, err)
		}

		switch parseType {
		case parseAsGRIB1:
			glog.Warningf("skipping GRIB edition 1 message @ byte offset %d", offset)
		case parseAsGRIB2:
			messages = append(messages, recordBytes)
		}
		offset += int(messageLen)
	}
}

func skipZeros(rr *bufio.Reader) (int, error) {
	skipCount := 0
	for {
		b, err := rr.ReadByte()
		if err != nil {
			return skipCount, err
		}
		if b == 0 {
			skipCount++
			continue
		}
		if err := rr.UnreadByte(); err != nil {
			return skipCount, err
		}
		return skipCount, nil
	}
}

type parseType int

const (
	parseAsInvalidMessage parseType = iota
	parseAsGRIB1
	parseAsGRIB2
)

func (p parseType) String() string {
	switch p {
	case parseAsGRIB1:
		return "GRIB1"
	case parseAsGRIB2:
		return "GRIB2"
	}
	return "invalid"
}

// minMessageLen is the size of a GRIB2 indicator plus end section.
const minMessageLen = 20

func peekParseType(rr *bufio.Reader) (parseType, uint64, error) {
	data, err := rr.Peek(16)
	if err != nil {
		return parseAsInvalidMessage, 0, fmt.Errorf("error while expecting GRIB record: %w", err)
	}

	if got, want := string(data[0:4]), "GRIB"; got != want {
		return parseAsInvalidMessage, 0, fmt.Errorf("first four bytes = %q, want %q: %w", got, want, ErrNotGRIB)
	}
	edition := data[7]

	switch edition {
	case 1:
		// https://apps.ecmwf.int/codes/grib/format/grib1/sections/0/
		messageLength := uint64(binary.BigEndian.Uint32([]byte{0, data[4], data[5], data[6]}))
		return parseAsGRIB1, messageLength, nil
	case 2:
		// https://apps.ecmwf.int/codes/grib/format/grib2/sections/0/
		messageLength := binary.BigEndian.Uint64(data[8 : 8+8])
		if messageLength < minMessageLen || messageLength > 1<<32 {
			return parseAsInvalidMessage, 0, fmt.Errorf("GRIB2 message length %d: %w", messageLength, ErrNotGRIB)
		}
		return parseAsGRIB2, messageLength, nil
	default:
		return parseAsInvalidMessage, 0, fmt.Errorf("invalid edition %d, wanted 1 or 2: %w", edition, ErrNotGRIB)
	}
}
