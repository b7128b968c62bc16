package leveldb

import (
	"errors"
	"fmt"

	"github.com/custodia-chain/router/helper/kvdb"
	"github.com/hashicorp/go-hclog"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

const (
	// minCache is the minimum memory allocate to leveldb
	// half write, half read
	minCache = 16 // 16 MiB

	// minHandles is the minimum number of files handles to leveldb open files
	minHandles = 16

	DefaultCache        = 64   // 64 MiB
	DefaultHandles      = 128  // files handles to leveldb open files
	DefaultBloomKeyBits = 2048 // bloom filter bits (256 bytes)
)

// Builder creates a leveldb-backed KV storage
type Builder interface {
	// set cache size
	SetCacheSize(int) Builder

	// set handles
	SetHandles(int) Builder

	// set no sync
	SetNoSync(bool) Builder

	// build the storage
	Build() (kvdb.KVBatchStorage, error)
}

type builder struct {
	logger  hclog.Logger
	path    string
	options *opt.Options
}

// NewBuilder creates the new leveldb storage builder
func NewBuilder(logger hclog.Logger, path string) Builder {
	return &builder{
		logger: logger.Named("leveldb"),
		path:   path,
		options: &opt.Options{
			OpenFilesCacheCapacity: minHandles,
			BlockCacheCapacity:     minCache * opt.MiB,
			Filter:                 filter.NewBloomFilter(DefaultBloomKeyBits),
			NoSync:                 false,
		},
	}
}

func (b *builder) SetCacheSize(cache int) Builder {
	if cache < minCache {
		cache = minCache
	}

	b.options.BlockCacheCapacity = (cache / 2) * opt.MiB
	b.options.WriteBuffer = (cache / 4) * opt.MiB

	return b
}

func (b *builder) SetHandles(handles int) Builder {
	if handles < minHandles {
		handles = minHandles
	}

	b.options.OpenFilesCacheCapacity = handles

	return b
}

func (b *builder) SetNoSync(noSync bool) Builder {
	b.options.NoSync = noSync

	return b
}

func (b *builder) Build() (kvdb.KVBatchStorage, error) {
	db, err := leveldb.OpenFile(b.path, b.options)
	if err != nil {
		return nil, fmt.Errorf("open leveldb at %s: %w", b.path, err)
	}

	b.logger.Info("leveldb opened", "path", b.path, "nosync", b.options.NoSync)

	return &database{logger: b.logger, db: db}, nil
}

// database is the leveldb implementation of the kv storage
type database struct {
	logger hclog.Logger
	db     *leveldb.DB
}

func (kv *database) Set(k, v []byte) error {
	return kv.db.Put(k, v, nil)
}

func (kv *database) Get(k []byte) ([]byte, bool, error) {
	data, err := kv.db.Get(k, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, false, nil
		}

		return nil, false, err
	}

	return data, true, nil
}

func (kv *database) Close() error {
	kv.logger.Info("leveldb closed")

	return kv.db.Close()
}

type batch struct {
	db    *leveldb.DB
	batch *leveldb.Batch
}

func (kv *database) Batch() kvdb.KVBatch {
	return &batch{db: kv.db, batch: &leveldb.Batch{}}
}

func (b *batch) Set(k, v []byte) {
	b.batch.Put(k, v)
}

func (b *batch) Write() error {
	return b.db.Write(b.batch, nil)
}
