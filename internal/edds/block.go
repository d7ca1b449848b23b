// Package edds implements the Enfusion EDDS container: a DDS header
// wrapping a table of LZ4-chunked mip blocks instead of raw pixel data,
// wired in as an optional compressed sibling to the native .dds/.sfi
// save/load paths. Grounded on imageset-packer's internal/edds/{edds,read,
// write}.go chunk-stream format (BlockMagicCOPY/LZ4, 64KB chunks, HC
// compression with COPY fallback, chain decoder with a rolling 64KB
// dictionary), rewired onto this repo's own internal/dds header/surface
// machinery and internal/bcn codec instead of imageset-packer's uint8
// image.RGBA pipeline.
package edds

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
)

const (
	// BlockMagicCOPY marks an uncompressed block body.
	BlockMagicCOPY = "COPY"
	// BlockMagicLZ4 marks an LZ4 chunk-stream block body.
	BlockMagicLZ4 = "LZ4 "

	// ChunkSize is the uncompressed size of one LZ4 chunk; 64KB is the
	// standard Enfusion chunk size.
	ChunkSize = 64 * 1024

	maxInt32        = int(^uint32(0) >> 1)
	copyThreshold   = 1024
	fallbackRatio   = 0.85
	dictCap         = 64 * 1024
	chunkHeaderSize = 4
)

// Block is one mip level's compressed (or raw) data, as stored between
// the block table and the pixel payload region of an EDDS file.
type Block struct {
	Magic            string
	Data             []byte
	Size             int32
	UncompressedSize int32
}

func writeBlockData(w io.Writer, block *Block) error {
	if block.Magic == BlockMagicLZ4 {
		if err := binary.Write(w, binary.LittleEndian, block.UncompressedSize); err != nil {
			return fmt.Errorf("writing uncompressed size: %w", err)
		}
		if _, err := w.Write(block.Data); err != nil {
			return fmt.Errorf("writing chunk stream: %w", err)
		}
		return nil
	}
	if _, err := w.Write(block.Data); err != nil {
		return fmt.Errorf("writing block data: %w", err)
	}
	return nil
}

// compressBlock compresses data into 64KB LZ4 HC chunks, falling back to
// an uncompressed COPY block if compression doesn't help enough.
func compressBlock(data []byte) (*Block, error) {
	if len(data) > maxInt32 {
		return nil, fmt.Errorf("input data too large: %d bytes", len(data))
	}
	uncompressedSize := int32(len(data))

	if len(data) < copyThreshold {
		return &Block{Magic: BlockMagicCOPY, Size: uncompressedSize, Data: data}, nil
	}

	var chunkStream bytes.Buffer
	compressBuf := make([]byte, lz4.CompressBlockBound(ChunkSize))

	for i := 0; i < len(data); i += ChunkSize {
		end := i + ChunkSize
		if end > len(data) {
			end = len(data)
		}
		srcChunk := data[i:end]
		isLast := end == len(data)

		cn, err := lz4.CompressBlockHC(srcChunk, compressBuf, 0, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("LZ4 compression failed: %w", err)
		}

		if cn == 0 || float64(cn) > float64(len(srcChunk))*fallbackRatio {
			return &Block{Magic: BlockMagicCOPY, Size: uncompressedSize, Data: data}, nil
		}
		if cn > 0x7FFFFF {
			return nil, fmt.Errorf("compressed chunk too large: %d", cn)
		}

		chunkStream.WriteByte(byte(cn))
		chunkStream.WriteByte(byte(cn >> 8))
		chunkStream.WriteByte(byte(cn >> 16))
		if isLast {
			chunkStream.WriteByte(0x80)
		} else {
			chunkStream.WriteByte(0x00)
		}
		chunkStream.Write(compressBuf[:cn])
	}

	compressedData := chunkStream.Bytes()
	totalOverhead := 4 + len(compressedData)
	if totalOverhead > maxInt32 {
		return nil, fmt.Errorf("compressed data too large: %d bytes", totalOverhead)
	}
	if float64(totalOverhead) > float64(len(data))*fallbackRatio {
		return &Block{Magic: BlockMagicCOPY, Size: uncompressedSize, Data: data}, nil
	}

	return &Block{
		Magic: BlockMagicLZ4, Size: int32(totalOverhead),
		UncompressedSize: uncompressedSize, Data: compressedData,
	}, nil
}

// decompressBlock inverts compressBlock. LZ4 blocks are a chain-decoded
// chunk stream with a rolling 64KB dictionary carried across chunks.
func decompressBlock(block *Block, expectedUncompressedSize int) ([]byte, error) {
	if block.Magic == BlockMagicCOPY {
		if len(block.Data) != expectedUncompressedSize {
			return nil, fmt.Errorf("COPY block size mismatch: expected %d, got %d", expectedUncompressedSize, len(block.Data))
		}
		out := make([]byte, len(block.Data))
		copy(out, block.Data)
		return out, nil
	}
	if block.Magic != BlockMagicLZ4 {
		return nil, fmt.Errorf("unknown block magic: %q", block.Magic)
	}

	targetSize := expectedUncompressedSize
	if block.UncompressedSize > 0 {
		targetSize = int(block.UncompressedSize)
	}
	if targetSize <= 0 {
		return nil, fmt.Errorf("invalid target size: %d", targetSize)
	}

	dict := make([]byte, dictCap)
	dictSize := 0
	target := make([]byte, targetSize)
	outIdx := 0

	r := bytes.NewReader(block.Data)
	for {
		if r.Len() < chunkHeaderSize {
			return nil, fmt.Errorf("LZ4 chunk-stream truncated (need %d bytes header, have %d)", chunkHeaderSize, r.Len())
		}
		var hdr [chunkHeaderSize]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return nil, fmt.Errorf("reading chunk header: %w", err)
		}
		cSize := int(hdr[0]) | int(hdr[1])<<8 | int(hdr[2])<<16
		flags := hdr[3]
		if flags&^0x80 != 0 {
			return nil, fmt.Errorf("unknown LZ4 flags: 0x%02x", flags)
		}
		if cSize <= 0 || cSize > r.Len() {
			return nil, fmt.Errorf("invalid compressed chunk size: %d (remaining %d)", cSize, r.Len())
		}

		compressed := make([]byte, cSize)
		if _, err := io.ReadFull(r, compressed); err != nil {
			return nil, fmt.Errorf("reading chunk data: %w", err)
		}

		remaining := targetSize - outIdx
		if remaining <= 0 {
			return nil, fmt.Errorf("decoded LZ4 overruns target buffer")
		}
		want := ChunkSize
		if want > remaining {
			want = remaining
		}
		dst := target[outIdx : outIdx+want]

		n, err := lz4.UncompressBlockWithDict(compressed, dst, dict[:dictSize])
		if err != nil {
			return nil, fmt.Errorf("LZ4 chunk decode failed: %w", err)
		}
		outIdx += n

		decoded := target[outIdx-n : outIdx]
		if len(decoded) >= dictCap {
			copy(dict, decoded[len(decoded)-dictCap:])
			dictSize = dictCap
		} else {
			avail := dictCap - dictSize
			if len(decoded) <= avail {
				copy(dict[dictSize:], decoded)
				dictSize += len(decoded)
			} else {
				shift := len(decoded) - avail
				copy(dict, dict[shift:dictSize])
				copy(dict[dictCap-len(decoded):], decoded)
				dictSize = dictCap
			}
		}

		if flags&0x80 != 0 {
			break
		}
	}

	if outIdx != targetSize {
		return nil, fmt.Errorf("LZ4 decoded size mismatch: expected %d, got %d", targetSize, outIdx)
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("LZ4 block length mismatch: %d bytes left after decode", r.Len())
	}
	return target, nil
}

type blockHeader struct {
	Magic string
	Size  int32
}

func readBlockTable(r io.Reader, count int) ([]blockHeader, error) {
	hdrs := make([]blockHeader, 0, count)
	for i := 0; i < count; i++ {
		magicBytes := make([]byte, 4)
		if _, err := io.ReadFull(r, magicBytes); err != nil {
			return nil, fmt.Errorf("reading block table magic %d: %w", i, err)
		}
		magic := string(magicBytes)

		var size int32
		if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
			return nil, fmt.Errorf("reading block table size %d: %w", i, err)
		}
		if magic != BlockMagicCOPY && magic != BlockMagicLZ4 {
			return nil, fmt.Errorf("unknown block magic in table %d: %q", i, magic)
		}
		if size < 0 {
			return nil, fmt.Errorf("invalid block size in table %d: %d", i, size)
		}
		hdrs = append(hdrs, blockHeader{Magic: magic, Size: size})
	}
	return hdrs, nil
}

func readBlockBody(r io.Reader, h blockHeader) (*Block, error) {
	data := make([]byte, h.Size)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("reading %s body: %w", h.Magic, err)
	}
	return &Block{Magic: h.Magic, Size: h.Size, Data: data}, nil
}
