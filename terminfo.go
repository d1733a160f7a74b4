// terminfo.go -- per-term statistics record, the TermIndex value type
//
// Author: Sudhi Herle <sudhi@herle.net>
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.
//
// Component F (section 4.F). The inline-postings branch (magic == 1)
// is the one place in this table layer compression touches the wire
// format; it is deliberately confined to this one record type rather
// than applied to the hash/slot/record layers that section 6 requires
// to stay literal and uncompressed. Grounded on
// klauspost/compress/zstd usage in rpcpool-yellowstone-faithful's block
// encoders for the encoder/decoder pooling idiom.
package ftstable

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"sync"

	"github.com/klauspost/compress/zstd"
)

const (
	termInfoMagicOffset = 0 // <i64 offset>, -1 means no postings
	termInfoMagicInline = 1 // inline, zstd-compressed posting tuple
)

// TermInfo aggregates per-term statistics used by scoring, plus either a
// file offset to an out-of-line posting list or a small inline one.
type TermInfo struct {
	Weight       float32
	DocFreq      uint32
	MinLenByte   byte
	MaxLenByte   byte
	MaxWeight    float32
	MaxWOL       float32
	Offset       int64   // valid when Postings == nil
	Postings     []int64 // valid when non-nil; inline small-terms postings
}

var zstdEncOnce sync.Once
var zstdEnc *zstd.Encoder
var zstdDecOnce sync.Once
var zstdDec *zstd.Decoder

func getZstdEncoder() *zstd.Encoder {
	zstdEncOnce.Do(func() {
		zstdEnc, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	})
	return zstdEnc
}

func getZstdDecoder() *zstd.Decoder {
	zstdDecOnce.Do(func() {
		zstdDec, _ = zstd.NewReader(nil)
	})
	return zstdDec
}

// ToBytes encodes the fixed header plus the postings suffix -- section
// 4.F's layout exactly, magic first so lazy readers can dispatch on it.
func (ti *TermInfo) ToBytes() ([]byte, error) {
	var buf bytes.Buffer

	magic := byte(termInfoMagicOffset)
	if ti.Postings != nil {
		magic = termInfoMagicInline
	}
	buf.WriteByte(magic)

	var f32 [4]byte
	binary.BigEndian.PutUint32(f32[:], math.Float32bits(ti.Weight))
	buf.Write(f32[:])

	var u32 [4]byte
	binary.BigEndian.PutUint32(u32[:], ti.DocFreq)
	buf.Write(u32[:])

	buf.WriteByte(ti.MinLenByte)
	buf.WriteByte(ti.MaxLenByte)

	binary.BigEndian.PutUint32(f32[:], math.Float32bits(ti.MaxWeight))
	buf.Write(f32[:])
	binary.BigEndian.PutUint32(f32[:], math.Float32bits(ti.MaxWOL))
	buf.Write(f32[:])

	if magic == termInfoMagicOffset {
		var i64 [8]byte
		binary.BigEndian.PutUint64(i64[:], uint64(ti.Offset))
		buf.Write(i64[:])
		return buf.Bytes(), nil
	}

	plain := make([]byte, 4+8*len(ti.Postings))
	binary.BigEndian.PutUint32(plain, uint32(len(ti.Postings)))
	for i, p := range ti.Postings {
		binary.BigEndian.PutUint64(plain[4+8*i:], uint64(p))
	}

	compressed := getZstdEncoder().EncodeAll(plain, nil)
	var clen [4]byte
	binary.BigEndian.PutUint32(clen[:], uint32(len(compressed)))
	buf.Write(clen[:])
	buf.Write(compressed)

	return buf.Bytes(), nil
}

// TermInfoFromBytes decodes a record produced by ToBytes.
func TermInfoFromBytes(b []byte) (*TermInfo, error) {
	mr := &mmapReader{buf: b}
	ti, _, err := termInfoDecode(mr, 0)
	return ti, err
}

func termInfoDecode(mr *mmapReader, off int64) (*TermInfo, int64, error) {
	magic, err := mr.ReadByte(off)
	if err != nil {
		return nil, 0, err
	}

	weight, err := mr.ReadF32(off + 1)
	if err != nil {
		return nil, 0, err
	}
	docFreq, err := mr.ReadU32(off + 5)
	if err != nil {
		return nil, 0, err
	}
	minLen, err := mr.ReadByte(off + 9)
	if err != nil {
		return nil, 0, err
	}
	maxLen, err := mr.ReadByte(off + 10)
	if err != nil {
		return nil, 0, err
	}
	maxWeight, err := mr.ReadF32(off + 11)
	if err != nil {
		return nil, 0, err
	}
	maxWOL, err := mr.ReadF32(off + 15)
	if err != nil {
		return nil, 0, err
	}

	ti := &TermInfo{
		Weight:     weight,
		DocFreq:    docFreq,
		MinLenByte: minLen,
		MaxLenByte: maxLen,
		MaxWeight:  maxWeight,
		MaxWOL:     maxWOL,
	}

	suffix := off + 19

	switch magic {
	case termInfoMagicOffset:
		o, err := mr.ReadI64(suffix)
		if err != nil {
			return nil, 0, err
		}
		ti.Offset = o
		return ti, suffix + 8, nil

	case termInfoMagicInline:
		clen, err := mr.ReadU32(suffix)
		if err != nil {
			return nil, 0, err
		}
		compressed, err := mr.ReadSlice(suffix+4, int(clen))
		if err != nil {
			return nil, 0, err
		}
		plain, err := getZstdDecoder().DecodeAll(compressed, nil)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: inline postings: %s", ErrFormat, err)
		}
		if len(plain) < 4 {
			return nil, 0, ErrFormat
		}
		n := binary.BigEndian.Uint32(plain)
		if len(plain) != 4+8*int(n) {
			return nil, 0, ErrFormat
		}
		postings := make([]int64, n)
		for i := range postings {
			postings[i] = int64(binary.BigEndian.Uint64(plain[4+8*i:]))
		}
		ti.Postings = postings
		return ti, suffix + 4 + int64(clen), nil

	default:
		return nil, 0, fmt.Errorf("%w: unknown TermInfo magic %d", ErrFormat, magic)
	}
}

// Lazy accessors: decode a single field directly from the mmap at a
// computed offset without materializing the whole record.

func readFrequency(mr *mmapReader, off int64) (float32, error) { return mr.ReadF32(off + 1) }
func readDocFreq(mr *mmapReader, off int64) (uint32, error)    { return mr.ReadU32(off + 5) }

func readMinAndMaxLength(mr *mmapReader, off int64) (min, max byte, err error) {
	min, err = mr.ReadByte(off + 9)
	if err != nil {
		return 0, 0, err
	}
	max, err = mr.ReadByte(off + 10)
	return min, max, err
}

func readMaxWeight(mr *mmapReader, off int64) (float32, error) { return mr.ReadF32(off + 11) }
func readMaxWOL(mr *mmapReader, off int64) (float32, error)    { return mr.ReadF32(off + 15) }
