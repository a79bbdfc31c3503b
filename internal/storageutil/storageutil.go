package storageutil

import (
	"context"
	"errors"
	"io"
	"time"

	gojson "github.com/goccy/go-json"
	"github.com/pierrec/lz4/v4"
)

// ErrObjectNotFound indicates an object was not found.
var ErrObjectNotFound = errors.New("object not found")

const operationTimeout = 5 * time.Second

type ReadSizeCloser interface {
	io.Reader
	io.Closer
	Size() int64
}

// ObjectHandler provides common interface for multiple storage providers.
type ObjectHandler interface {
	// Put writes a file to the storage provider with name being the path.
	Put(ctx context.Context, name string) (io.WriteCloser, error)
	// Get reads a file from the storage provider with name being the path.
	// If a key was not found, it will return ErrObjectNotFound.
	Get(ctx context.Context, name string) (ReadSizeCloser, error)
}

// Discarder is implemented by writers that can drop a partially written
// object instead of committing it on Close.
type Discarder interface {
	Discard()
}

// CompressedWrite encodes d as JSON, compresses it and writes it under objectName.
// On failure the object writer is discarded or, after cancelling the upload, closed.
func CompressedWrite(ctx context.Context, b ObjectHandler, objectName string, d interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	ow, err := b.Put(ctx, objectName)
	if err != nil {
		return err
	}
	abort := func() {
		if dw, ok := ow.(Discarder); ok {
			dw.Discard()
			return
		}
		cancel()
		_ = ow.Close()
	}
	zw := lz4.NewWriter(ow)
	_ = zw.Apply(lz4.CompressionLevelOption(lz4.Level9))
	err = gojson.NewEncoder(zw).Encode(d)
	if err != nil {
		abort()
		return err
	}
	err = zw.Close()
	if err != nil {
		abort()
		return err
	}
	return ow.Close()
}

// UnmarshalCompressed reads compressed JSON data and unmarshals it into d.
func UnmarshalCompressed(ctx context.Context, b ObjectHandler, objectName string, d interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, operationTimeout)
	defer cancel()

	or, err := b.Get(ctx, objectName)
	if err != nil {
		return err
	}
	defer or.Close()
	zr := lz4.NewReader(or)
	return gojson.NewDecoder(zr).Decode(d)
}
