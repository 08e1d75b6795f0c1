// Package compression lets configuration documents be stored compressed.
// A document whose name ends in a known suffix is decompressed before it is
// handed to a decoder; the suffix is also stripped before the decoder is
// chosen, so application.yaml.gz is decoded as YAML.
//
// Supported suffixes:
//   - .gz  gzip
//   - .zst zstandard
//   - .lz4 lz4 frame
//   - .sz  snappy framed stream (read and written with s2)
package compression

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Algorithm represents a compression algorithm.
type Algorithm string

const (
	// None represents no compression
	None Algorithm = "none"
	// Gzip represents gzip compression
	Gzip Algorithm = "gzip"
	// Zstd represents zstandard compression
	Zstd Algorithm = "zstd"
	// LZ4 represents lz4 compression
	LZ4 Algorithm = "lz4"
	// Snappy represents framed snappy compression
	Snappy Algorithm = "snappy"
)

// MaxDecompressedSize bounds the output of Decompress.
const MaxDecompressedSize = 64 << 20

// ErrTooLarge is returned when a document decompresses past MaxDecompressedSize.
var ErrTooLarge = errors.New("decompressed document exceeds size limit")

var extensions = map[Algorithm]string{
	Gzip:   ".gz",
	Zstd:   ".zst",
	LZ4:    ".lz4",
	Snappy: ".sz",
}

// Extension returns the file suffix for the algorithm, or "" for None.
func (a Algorithm) Extension() string {
	return extensions[a]
}

// FromName detects the algorithm from a document name suffix and returns it
// together with the name minus that suffix.
func FromName(name string) (Algorithm, string) {
	for alg, ext := range extensions {
		if strings.HasSuffix(name, ext) && len(name) > len(ext) {
			return alg, strings.TrimSuffix(name, ext)
		}
	}
	return None, name
}

// Decompress returns the decompressed form of data.
func Decompress(alg Algorithm, data []byte) ([]byte, error) {
	var r io.Reader
	src := bytes.NewReader(data)

	switch alg {
	case None, "":
		return data, nil
	case Gzip:
		gr, err := gzip.NewReader(src)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		defer gr.Close()
		r = gr
	case Zstd:
		zr, err := zstd.NewReader(src)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		defer zr.Close()
		r = zr
	case LZ4:
		r = lz4.NewReader(src)
	case Snappy:
		r = s2.NewReader(src)
	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %s", alg)
	}

	out, err := io.ReadAll(io.LimitReader(r, MaxDecompressedSize+1))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", alg, err)
	}
	if len(out) > MaxDecompressedSize {
		return nil, ErrTooLarge
	}
	return out, nil
}

// Compress returns data compressed with alg.
func Compress(alg Algorithm, data []byte) ([]byte, error) {
	var buf bytes.Buffer
	var w io.WriteCloser

	switch alg {
	case None, "":
		return data, nil
	case Gzip:
		w = gzip.NewWriter(&buf)
	case Zstd:
		zw, err := zstd.NewWriter(&buf)
		if err != nil {
			return nil, err
		}
		w = zw
	case LZ4:
		w = lz4.NewWriter(&buf)
	case Snappy:
		w = s2.NewWriter(&buf, s2.WriterSnappyCompat())
	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %s", alg)
	}

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
