package archive

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"io"
	"slices"
	"testing"
	"unicode/utf16"

	"github.com/klauspost/compress/zip"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

type testEntry struct {
	name string
	data []byte
	dir  bool
}

// rarBlock encodes a RAR 1.5 block: CRC16 (low half of CRC32 over the rest of
// the header), type, flags, size, body.
func rarBlock(htype byte, flags uint16, body []byte) []byte {
	b := make([]byte, 0, 7+len(body))
	b = append(b, 0, 0, htype)
	b = binary.LittleEndian.AppendUint16(b, flags)
	b = binary.LittleEndian.AppendUint16(b, uint16(7+len(body)))
	b = append(b, body...)
	binary.LittleEndian.PutUint16(b[0:2], uint16(crc32.ChecksumIEEE(b[2:])))
	return b
}

// buildRar writes a single-volume RAR 1.5 archive holding stored entries.
func buildRar(entries ...testEntry) []byte {
	const (
		blockArc  = 0x73
		blockFile = 0x74
		blockEnd  = 0x7b

		hasData   = 0x8000
		dirWindow = 0x00e0
		dosTime   = uint32(40<<9|1<<5|1) << 16
	)

	out := []byte("Rar!\x1a\x07\x00")
	out = append(out, rarBlock(blockArc, 0, make([]byte, 6))...)

	for _, e := range entries {
		flags := uint16(hasData)
		attr := uint32(0x20)
		if e.dir {
			flags |= dirWindow
			attr = 0x10
		}

		var body []byte
		body = binary.LittleEndian.AppendUint32(body, uint32(len(e.data)))
		body = binary.LittleEndian.AppendUint32(body, uint32(len(e.data)))
		body = append(body, 2) // win32
		body = binary.LittleEndian.AppendUint32(body, crc32.ChecksumIEEE(e.data))
		body = binary.LittleEndian.AppendUint32(body, dosTime)
		body = append(body, 29, 0x30) // unpack version 2.9, stored
		body = binary.LittleEndian.AppendUint16(body, uint16(len(e.name)))
		body = binary.LittleEndian.AppendUint32(body, attr)
		body = append(body, e.name...)

		out = append(out, rarBlock(blockFile, flags, body)...)
		out = append(out, e.data...)
	}

	return append(out, rarBlock(blockEnd, 0x4000, nil)...)
}

// bitField packs flags most significant bit first, the 7z bit vector layout.
func bitField(flags []bool) []byte {
	out := make([]byte, (len(flags)+7)/8)
	for i, f := range flags {
		if f {
			out[i/8] |= 0x80 >> (i % 8)
		}
	}
	return out
}

// build7z writes a 7z archive with one copy-coded folder per non-empty entry and
// a plain (unencoded) header. Sizes and counts must stay below 0x80, the largest
// 7z number that fits in a single byte.
func build7z(entries ...testEntry) []byte {
	const (
		idHeader        = 0x01
		idMainStreams   = 0x04
		idPackInfo      = 0x06
		idUnpackInfo    = 0x07
		idFilesInfo     = 0x05
		idSize          = 0x09
		idFolder        = 0x0b
		idCodersUnpack  = 0x0c
		idEmptyStream   = 0x0e
		idEmptyFile     = 0x0f
		idName          = 0x11
		idWinAttributes = 0x15
		idEnd           = 0x00
		attrDirectory   = 0x10
		attrArchive     = 0x20
		coderFlags      = 0x01
	)

	var packed []byte
	var sizes []byte
	var empty, emptyFile []bool
	hasDir := false
	for _, e := range entries {
		isEmpty := len(e.data) == 0
		empty = append(empty, isEmpty)
		if isEmpty {
			emptyFile = append(emptyFile, !e.dir)
		} else {
			packed = append(packed, e.data...)
			sizes = append(sizes, byte(len(e.data)))
		}
		hasDir = hasDir || e.dir
	}

	h := []byte{idHeader}
	if n := byte(len(sizes)); n > 0 {
		h = append(h, idMainStreams, idPackInfo, 0, n, idSize)
		h = append(h, sizes...)
		h = append(h, idEnd, idUnpackInfo, idFolder, n, 0)
		for range n {
			// one coder, simple, id length 1; id 0x00 is copy
			h = append(h, 1, coderFlags, 0)
		}
		h = append(h, idCodersUnpack)
		h = append(h, sizes...)
		h = append(h, idEnd, idEnd)
	}
	if len(entries) > 0 {
		h = append(h, idFilesInfo, byte(len(entries)))
		if slices.Contains(empty, true) {
			v := bitField(empty)
			h = append(h, idEmptyStream, byte(len(v)))
			h = append(h, v...)
			v = bitField(emptyFile)
			h = append(h, idEmptyFile, byte(len(v)))
			h = append(h, v...)
		}

		names := []byte{0} // not external
		for _, e := range entries {
			for _, r := range utf16.Encode([]rune(e.name)) {
				names = binary.LittleEndian.AppendUint16(names, r)
			}
			names = append(names, 0, 0)
		}
		h = append(h, idName, byte(len(names)))
		h = append(h, names...)

		if hasDir {
			attrs := []byte{1, 0} // all defined, not external
			for _, e := range entries {
				attr := uint32(attrArchive)
				if e.dir {
					attr = attrDirectory
				}
				attrs = binary.LittleEndian.AppendUint32(attrs, attr)
			}
			h = append(h, idWinAttributes, byte(len(attrs)))
			h = append(h, attrs...)
		}
		h = append(h, idEnd)
	}
	h = append(h, idEnd)

	var start []byte
	start = binary.LittleEndian.AppendUint64(start, uint64(len(packed)))
	start = binary.LittleEndian.AppendUint64(start, uint64(len(h)))
	start = binary.LittleEndian.AppendUint32(start, crc32.ChecksumIEEE(h))

	out := []byte{'7', 'z', 0xbc, 0xaf, 0x27, 0x1c, 0, 4}
	out = binary.LittleEndian.AppendUint32(out, crc32.ChecksumIEEE(start))
	out = append(out, start...)
	out = append(out, packed...)
	return append(out, h...)
}

func buildZip(t *testing.T, entries ...testEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		name := e.name
		if e.dir && name[len(name)-1] != '/' {
			name += "/"
		}
		w, err := zw.Create(name)
		require.NoError(t, err)
		if !e.dir {
			_, err = w.Write(e.data)
			require.NoError(t, err)
		}
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func writeFile(t *testing.T, fsys afero.Fs, path string, data []byte) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fsys, path, data, 0644))
}

// roundTripEntries is the archive {"a.txt": "hello", "dir/": <directory>, "b.txt": ""}.
func roundTripEntries() []testEntry {
	return []testEntry{
		{name: "a.txt", data: []byte("hello")},
		{name: "dir", dir: true},
		{name: "b.txt", data: []byte{}},
	}
}

// fakeEntry is one member of a fakeArchive.
type fakeEntry struct {
	name    string
	dir     bool
	size    int64
	unknown bool
	data    []byte
	testErr error
	skipErr error
}

// fakeArchive is a scripted Archive. headerErrAt >= 0 makes the ReadHeader call
// with that index fail with headerErr.
type fakeArchive struct {
	entries     []fakeEntry
	mode        Mode
	headerErrAt int
	headerErr   error
	chunk       int

	pos     int
	cur     *fakeEntry
	reads   int
	tested  []string
	skipped []string
	closed  int
}

func newFake(mode Mode, entries ...fakeEntry) *fakeArchive {
	return &fakeArchive{entries: entries, mode: mode, headerErrAt: -1, chunk: 2}
}

func (f *fakeArchive) ReadHeader() (*Header, error) {
	f.cur = nil
	defer func() { f.reads++ }()
	if f.reads == f.headerErrAt {
		return nil, f.headerErr
	}
	if f.pos >= len(f.entries) {
		return nil, io.EOF
	}
	f.cur = &f.entries[f.pos]
	f.pos++
	return &Header{Name: f.cur.name, IsDir: f.cur.dir, UnpackedSize: f.cur.size, UnknownSize: f.cur.unknown}, nil
}

func (f *fakeArchive) Skip() error {
	if f.cur == nil {
		return errNoEntry
	}
	f.skipped = append(f.skipped, f.cur.name)
	err := f.cur.skipErr
	f.cur = nil
	return err
}

func (f *fakeArchive) Test(fn Callback) error {
	if f.mode != ModeExtract {
		return errListMode
	}
	if f.cur == nil {
		return errNoEntry
	}
	e := f.cur
	f.cur = nil
	f.tested = append(f.tested, e.name)
	for off := 0; off < len(e.data); off += f.chunk {
		end := min(off+f.chunk, len(e.data))
		fn(e.data[off:end])
	}
	return e.testErr
}

func (f *fakeArchive) Close() error {
	f.closed++
	return nil
}
