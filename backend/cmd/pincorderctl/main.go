// Command pincorderctl runs administrative tasks against the Pincorder
// database: schema migration, university seeding and user removal.
package main

import (
	"log"
	"os"

	"pincorder/backend/config"
	"pincorder/backend/storage"
	"pincorder/backend/store"
)

func main() {
	open := func() (*store.Store, storage.FileStorage, error) {
		cfg, err := config.LoadConfig()
		if err != nil {
			return nil, nil, err
		}
		db, err := store.Open(cfg)
		if err != nil {
			return nil, nil, err
		}
		return store.New(db), storage.NewLocalStorage(cfg.MediaRoot), nil
	}

	if err := newRootCmd(os.Stdout, open).Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}
