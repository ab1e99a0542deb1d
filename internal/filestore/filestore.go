// Package filestore keeps every entity in one JSON document on disk. The
// document is loaded once, mirrored in memory and rewritten whole after each
// mutation. It is meant for a single process.
package filestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go-pos-inventory/internal/models"
	"go-pos-inventory/internal/store"

	"go.uber.org/zap"
)

type document struct {
	Suppliers []models.Supplier `json:"suppliers"`
	Customers []models.Customer `json:"customers"`
	Sellers   []models.Seller   `json:"sellers"`
	Products  []models.Product  `json:"products"`
	Sales     []models.Sale     `json:"sales"`
	SaleItems []models.SaleItem `json:"saleItems"`
}

// clone copies every collection so a mutation can be staged without touching
// the published snapshot.
func (d *document) clone() *document {
	return &document{
		Suppliers: append([]models.Supplier(nil), d.Suppliers...),
		Customers: append([]models.Customer(nil), d.Customers...),
		Sellers:   append([]models.Seller(nil), d.Sellers...),
		Products:  append([]models.Product(nil), d.Products...),
		Sales:     append([]models.Sale(nil), d.Sales...),
		SaleItems: append([]models.SaleItem(nil), d.SaleItems...),
	}
}

type Store struct {
	path string
	log  *zap.Logger

	mu  sync.RWMutex
	doc *document
}

var _ store.Store = (*Store)(nil)

// Open loads path, creating an empty document when the file does not exist.
func Open(path string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Store{path: path, log: log, doc: &document{}}

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, store.Storage("create data dir", err)
		}
		if err := s.flush(s.doc); err != nil {
			return nil, store.Storage("create document", err)
		}
		log.Info("Created empty file store", zap.String("path", path))
	case err != nil:
		return nil, store.Storage("read document", err)
	default:
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, s.doc); err != nil {
				return nil, store.Storage("decode document", fmt.Errorf("%s: %w", path, err))
			}
		}
		log.Info("Loaded file store",
			zap.String("path", path),
			zap.Int("products", len(s.doc.Products)),
			zap.Int("sales", len(s.doc.Sales)),
		)
	}
	return s, nil
}

func (s *Store) Kind() string { return "file" }

func (s *Store) Close() error { return nil }

// read runs fn against the current snapshot under the read lock.
func (s *Store) read(fn func(d *document)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.doc)
}

// mutate stages fn on a copy of the snapshot, writes the copy to disk and only
// then publishes it. When fn or the write fails nothing changes.
func (s *Store) mutate(op string, fn func(d *document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.doc.clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := s.flush(next); err != nil {
		s.log.Error("File store flush failed", zap.String("op", op), zap.Error(err))
		return store.Storage(op, err)
	}
	s.doc = next
	return nil
}

// flush replaces the file atomically: write a sibling temp file, then rename.
func (s *Store) flush(d *document) error {
	raw, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
