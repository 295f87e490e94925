package elf

import (
	"encoding/binary"
	"fmt"
	"io"
)

// landmarkKey names a position in the output stream that a later write
// needs to reference: "where did the program header table start", "where
// did segment N's data land".
type landmarkKey string

const landmarkProgramStart landmarkKey = "program-start"
const landmarkProgramCount landmarkKey = "program-count"

func landmarkProgramData(index int) landmarkKey {
	return landmarkKey(fmt.Sprintf("program-data-%d", index))
}

type pointerSize int

const (
	pointerBit16 pointerSize = iota
	pointerBit32
)

type pendingRequest struct {
	size   pointerSize
	key    landmarkKey
	stream int64
}

// landmarks resolves forward references in a single streaming write pass:
// request records where a placeholder was written and what value it needs;
// mark/set record what that value turns out to be; fillRequests seeks back
// and patches every placeholder once the whole file has been written.
type landmarks struct {
	values   map[landmarkKey]uint64
	requests []pendingRequest
}

func newLandmarks() *landmarks {
	return &landmarks{values: make(map[landmarkKey]uint64)}
}

func (l *landmarks) request(size pointerSize, key landmarkKey, w io.Seeker) error {
	position, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return &Error{Message: "query stream position", Cause: err}
	}

	l.requests = append(l.requests, pendingRequest{size: size, key: key, stream: position})
	return nil
}

func (l *landmarks) set(key landmarkKey, value uint64) {
	l.values[key] = value
}

func (l *landmarks) mark(key landmarkKey, w io.Seeker) error {
	position, err := w.Seek(0, io.SeekCurrent)
	if err != nil {
		return &Error{Message: "query stream position", Cause: err}
	}

	l.set(key, uint64(position))
	return nil
}

func (l *landmarks) fillRequests(w io.WriteSeeker) error {
	for _, request := range l.requests {
		value, ok := l.values[request.key]
		if !ok {
			continue
		}

		if _, err := w.Seek(request.stream, io.SeekStart); err != nil {
			return &Error{Message: "seek to landmark request", Cause: err}
		}

		switch request.size {
		case pointerBit16:
			var buf [2]byte
			binary.LittleEndian.PutUint16(buf[:], uint16(value))
			if _, err := w.Write(buf[:]); err != nil {
				return &Error{Message: "fill 16-bit landmark", Cause: err}
			}
		case pointerBit32:
			var buf [4]byte
			binary.LittleEndian.PutUint32(buf[:], uint32(value))
			if _, err := w.Write(buf[:]); err != nil {
				return &Error{Message: "fill 32-bit landmark", Cause: err}
			}
		}
	}

	return nil
}
