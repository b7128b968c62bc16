package helper

import (
	"github.com/custodia-chain/router/helper/kvdb/leveldb"
	"github.com/custodia-chain/router/store"
	"github.com/hashicorp/go-hclog"
)

// OpenStore opens the engine store persisted under dataDir
func OpenStore(dataDir string) (*store.Store, error) {
	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "store",
		Level: hclog.Warn,
	})

	db, err := leveldb.NewBuilder(logger, dataDir).Build()
	if err != nil {
		return nil, err
	}

	return store.NewStore(logger, db)
}
