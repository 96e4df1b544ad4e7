package archive

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
)

// Record signatures and fixed sizes from the ZIP application note.
const (
	localHeaderSignature   = 0x04034B50
	centralHeaderSignature = 0x02014B50
	endRecordSignature     = 0x06054B50

	localHeaderSize   = 30
	centralHeaderSize = 46
	endRecordSize     = 22

	// versionStored is "2.0", the minimum for stored entries with directories.
	versionStored = 20
	methodStore   = 0
)

// Entry is a single file to be placed in an archive.
type Entry struct {
	Name string
	Data []byte
}

// Writer accumulates stored (uncompressed) entries into an in-memory ZIP
// archive. Local headers and data are written as entries are added; the
// central directory is kept aside and appended by Bytes.
//
// A Writer is not safe for concurrent use.
type Writer struct {
	buf     bytes.Buffer
	central bytes.Buffer
	names   map[string]struct{}
	count   int
}

// NewWriter returns an empty archive writer.
func NewWriter() *Writer {
	return &Writer{names: make(map[string]struct{})}
}

// Add appends one stored entry. Invalid names, duplicate names and entries
// too large for 32-bit ZIP fields are programmer errors and panic.
func (w *Writer) Add(name string, data []byte) {
	mustValidName(name)
	if _, dup := w.names[name]; dup {
		panic(fmt.Sprintf("archive: duplicate entry name %q", name))
	}
	if uint64(len(data)) > math.MaxUint32 {
		panic(fmt.Sprintf("archive: entry %q exceeds 4 GiB", name))
	}
	if w.count == math.MaxUint16 {
		panic("archive: too many entries")
	}
	offset := w.buf.Len()
	if uint64(offset) > math.MaxUint32 {
		panic("archive: archive exceeds 4 GiB")
	}
	w.names[name] = struct{}{}
	w.count++

	crc := Checksum(data)
	size := uint32(len(data))

	var local [localHeaderSize]byte
	le := binary.LittleEndian
	le.PutUint32(local[0:], localHeaderSignature)
	le.PutUint16(local[4:], versionStored)
	le.PutUint16(local[6:], 0) // flags
	le.PutUint16(local[8:], methodStore)
	le.PutUint16(local[10:], 0) // mod time
	le.PutUint16(local[12:], 0) // mod date
	le.PutUint32(local[14:], crc)
	le.PutUint32(local[18:], size) // compressed
	le.PutUint32(local[22:], size) // uncompressed
	le.PutUint16(local[26:], uint16(len(name)))
	le.PutUint16(local[28:], 0) // extra
	w.buf.Write(local[:])
	w.buf.WriteString(name)
	w.buf.Write(data)

	var central [centralHeaderSize]byte
	le.PutUint32(central[0:], centralHeaderSignature)
	le.PutUint16(central[4:], versionStored) // made by
	le.PutUint16(central[6:], versionStored) // needed
	le.PutUint16(central[8:], 0)
	le.PutUint16(central[10:], methodStore)
	le.PutUint16(central[12:], 0)
	le.PutUint16(central[14:], 0)
	le.PutUint32(central[16:], crc)
	le.PutUint32(central[20:], size)
	le.PutUint32(central[24:], size)
	le.PutUint16(central[28:], uint16(len(name)))
	le.PutUint16(central[30:], 0) // extra
	le.PutUint16(central[32:], 0) // comment
	le.PutUint16(central[34:], 0) // disk number start
	le.PutUint16(central[36:], 0) // internal attributes
	le.PutUint32(central[38:], 0) // external attributes
	le.PutUint32(central[42:], uint32(offset))
	w.central.Write(central[:])
	w.central.WriteString(name)
}

// Len reports the number of entries added so far.
func (w *Writer) Len() int {
	return w.count
}

// Bytes returns the complete archive: local entries, central directory and
// end record. The writer can keep accepting entries afterwards; each call
// returns a fresh slice.
func (w *Writer) Bytes() []byte {
	directoryOffset := w.buf.Len()
	directorySize := w.central.Len()
	if uint64(directoryOffset)+uint64(directorySize) > math.MaxUint32 {
		panic("archive: archive exceeds 4 GiB")
	}

	out := make([]byte, 0, directoryOffset+directorySize+endRecordSize)
	out = append(out, w.buf.Bytes()...)
	out = append(out, w.central.Bytes()...)

	var end [endRecordSize]byte
	le := binary.LittleEndian
	le.PutUint32(end[0:], endRecordSignature)
	le.PutUint16(end[4:], 0) // this disk
	le.PutUint16(end[6:], 0) // disk with central directory
	le.PutUint16(end[8:], uint16(w.count))
	le.PutUint16(end[10:], uint16(w.count))
	le.PutUint32(end[12:], uint32(directorySize))
	le.PutUint32(end[16:], uint32(directoryOffset))
	le.PutUint16(end[20:], 0) // comment length
	return append(out, end[:]...)
}

// Build writes entries, in order, into a stored ZIP archive.
func Build(entries []Entry) []byte {
	w := NewWriter()
	for _, e := range entries {
		w.Add(e.Name, e.Data)
	}
	return w.Bytes()
}

func mustValidName(name string) {
	switch {
	case name == "":
		panic("archive: empty entry name")
	case len(name) > math.MaxUint16:
		panic(fmt.Sprintf("archive: entry name too long (%d bytes)", len(name)))
	case strings.HasPrefix(name, "/"):
		panic(fmt.Sprintf("archive: entry name %q must be relative", name))
	case strings.Contains(name, `\`):
		panic(fmt.Sprintf("archive: entry name %q must use forward slashes", name))
	}
	for i := 0; i < len(name); i++ {
		if c := name[i]; c < 0x20 || c > 0x7E {
			panic(fmt.Sprintf("archive: entry name %q is not printable ASCII", name))
		}
	}
}
