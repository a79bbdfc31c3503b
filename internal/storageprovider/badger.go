package storageprovider

import (
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/dgraph-io/badger/v4"

	"github.com/getsentry/frameinfo/internal/storageutil"
)

// Badger implements storageutil.ObjectHandler on top of an embedded badger database.
type Badger struct {
	DB *badger.DB
}

// Put returns a writer buffering the object until Close commits it.
func (b *Badger) Put(ctx context.Context, name string) (io.WriteCloser, error) {
	return &badgerWriter{
		b:    &bytes.Buffer{},
		txn:  b.DB.NewTransaction(true),
		name: name,
	}, nil
}

// Get reads a file from the storage provider with name being the path.
// If a key was not found, it will return ErrObjectNotFound.
func (b *Badger) Get(ctx context.Context, name string) (storageutil.ReadSizeCloser, error) {
	txn := b.DB.NewTransaction(false)
	item, err := txn.Get([]byte(name))
	if err != nil {
		txn.Discard()
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, storageutil.ErrObjectNotFound
		}
		return nil, err
	}

	value, err := item.ValueCopy(nil)
	if err != nil {
		txn.Discard()
		return nil, err
	}

	return &badgerReader{
		txn:    txn,
		reader: bytes.NewReader(value),
		size:   item.ValueSize(),
	}, nil
}

type badgerWriter struct {
	b    *bytes.Buffer
	txn  *badger.Txn
	name string
}

func (bw *badgerWriter) Write(p []byte) (int, error) {
	return bw.b.Write(p)
}

func (bw *badgerWriter) Discard() {
	bw.txn.Discard()
}

func (bw *badgerWriter) Close() error {
	err := bw.txn.Set([]byte(bw.name), bw.b.Bytes())
	if err != nil {
		bw.txn.Discard()
		return err
	}
	return bw.txn.Commit()
}

type badgerReader struct {
	txn    *badger.Txn
	reader io.Reader
	size   int64
}

func (b *badgerReader) Read(p []byte) (n int, err error) {
	return b.reader.Read(p)
}

func (b *badgerReader) Close() error {
	b.txn.Discard()
	return nil
}

func (b *badgerReader) Size() int64 {
	return b.size
}
