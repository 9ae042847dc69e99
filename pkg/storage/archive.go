package storage

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/rubiojr/ssworld/pkg/core"
)

// zstd frame magic, little endian 0xFD2FB528.
var zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}

// Export writes records as a JSON array, zstd-compressed when compress is
// set. The array uses the same field names as the HTTP API.
func Export(w io.Writer, records []core.Record, compress bool) error {
	if records == nil {
		records = []core.Record{}
	}

	if !compress {
		return encodeRecords(w, records)
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("creating zstd encoder: %w", err)
	}
	if err := encodeRecords(zw, records); err != nil {
		zw.Close()
		return err
	}
	return zw.Close()
}

func encodeRecords(w io.Writer, records []core.Record) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}
	return nil
}

// Import reads an archive written by Export. Compression is detected from
// the stream.
func Import(r io.Reader) ([]core.Record, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(len(zstdMagic))
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading archive: %w", err)
	}

	var src io.Reader = br
	if bytes.Equal(head, zstdMagic) {
		zr, err := zstd.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("creating zstd decoder: %w", err)
		}
		defer zr.Close()
		src = zr
	}

	var records []core.Record
	if err := json.NewDecoder(src).Decode(&records); err != nil {
		return nil, fmt.Errorf("decoding records: %w", err)
	}
	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
	}
	return records, nil
}

type bulkPutter interface {
	PutAll(ctx context.Context, records []core.Record) error
}

// Restore puts every record into store, replacing records with the same
// ID, and returns how many were written.
func Restore(ctx context.Context, store Store, records []core.Record) (int, error) {
	if bp, ok := store.(bulkPutter); ok {
		if err := bp.PutAll(ctx, records); err != nil {
			return 0, err
		}
		return len(records), nil
	}

	for i, rec := range records {
		if err := store.Put(ctx, rec); err != nil {
			return i, err
		}
	}
	return len(records), nil
}
