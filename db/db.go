// Package db persists the query audit trail in an embedded Badger store.
// Records are keyed by timestamp so recent entries iterate first in reverse.
package db

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"

	"datachat/models"
)

const auditPrefix = "audit:"

type Store struct {
	badgerDB *badger.DB
}

func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create audit directory: %w", err)
	}

	opts := badger.DefaultOptions(dbPath)
	opts.Logger = nil // Disable badger logging for cleaner output

	badgerDB, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}

	return &Store{badgerDB: badgerDB}, nil
}

func (s *Store) Close() error {
	return s.badgerDB.Close()
}

// Append stores one audit record. The key embeds the record's timestamp in
// nanoseconds plus its ID, so keys are unique and sort chronologically.
func (s *Store) Append(rec models.AuditRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal audit record: %w", err)
	}

	return s.badgerDB.Update(func(txn *badger.Txn) error {
		key := []byte(fmt.Sprintf("%s%020d:%s", auditPrefix, rec.Timestamp.UnixNano(), rec.ID))
		return txn.Set(key, data)
	})
}

// Recent returns up to limit records, newest first.
func (s *Store) Recent(limit int) ([]models.AuditRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	var records []models.AuditRecord
	err := s.badgerDB.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		// "audit;" sorts just after every "audit:..." key, so a reverse
		// iteration seeded here starts at the newest record.
		for it.Seek([]byte("audit;")); it.ValidForPrefix([]byte(auditPrefix)); it.Next() {
			if len(records) >= limit {
				break
			}
			err := it.Item().Value(func(val []byte) error {
				var rec models.AuditRecord
				if err := json.Unmarshal(val, &rec); err != nil {
					return err
				}
				records = append(records, rec)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})

	return records, err
}
