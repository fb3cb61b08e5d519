package vecstore

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// File layout: 4-byte magic, u32 version, u32 dimension, u32 row count,
// then count*dim little-endian float32 values in row order.
const (
	fileMagic   = "RGVX"
	fileVersion = uint32(1)
)

// Save writes the index to path atomically: it writes a temp file in the
// same directory and renames it into place, so a crash never leaves a
// truncated index behind.
func Save(ix *FlatIndex, path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".vecstore-*")
	if err != nil {
		return fmt.Errorf("vecstore: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := writeIndex(tmp, ix); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}

	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("vecstore: close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("vecstore: rename into place: %w", err)
	}

	return nil
}

// Load reads an index previously written by Save.
func Load(path string) (*FlatIndex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vecstore: open index: %w", err)
	}
	defer func() { _ = f.Close() }()

	return readIndex(f)
}

func writeIndex(w io.Writer, ix *FlatIndex) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(fileMagic); err != nil {
		return fmt.Errorf("vecstore: write header: %w", err)
	}

	header := []uint32{fileVersion, uint32(ix.dim), uint32(len(ix.vectors))}
	for _, v := range header {
		if err := binary.Write(bw, binary.LittleEndian, v); err != nil {
			return fmt.Errorf("vecstore: write header: %w", err)
		}
	}

	for _, row := range ix.vectors {
		if err := binary.Write(bw, binary.LittleEndian, row); err != nil {
			return fmt.Errorf("vecstore: write vectors: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("vecstore: flush: %w", err)
	}

	return nil
}

func readIndex(r io.Reader) (*FlatIndex, error) {
	br := bufio.NewReader(r)

	magic := make([]byte, len(fileMagic))
	if _, err := io.ReadFull(br, magic); err != nil {
		return nil, fmt.Errorf("vecstore: read header: %w", err)
	}
	if string(magic) != fileMagic {
		return nil, fmt.Errorf("vecstore: bad magic %q, not an index file", magic)
	}

	var version, dim, count uint32
	for _, dst := range []*uint32{&version, &dim, &count} {
		if err := binary.Read(br, binary.LittleEndian, dst); err != nil {
			return nil, fmt.Errorf("vecstore: read header: %w", err)
		}
	}

	if version != fileVersion {
		return nil, fmt.Errorf("vecstore: unsupported index version %d", version)
	}

	ix, err := New(int(dim))
	if err != nil {
		return nil, err
	}

	ix.vectors = make([][]float32, count)
	for i := range ix.vectors {
		row := make([]float32, dim)
		if err := binary.Read(br, binary.LittleEndian, row); err != nil {
			return nil, fmt.Errorf("vecstore: read vector %d: %w", i, err)
		}
		ix.vectors[i] = row
	}

	return ix, nil
}
