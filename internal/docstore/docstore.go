package docstore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned by Get when no document exists at the key.
var ErrNotFound = errors.New("document not found")

// Document is a single JSON record inside a named collection.
type Document struct {
	Collection string         `gorm:"primaryKey;size:64"`
	Key        string         `gorm:"primaryKey;size:512"`
	Data       datatypes.JSON `gorm:"not null"`
	UpdatedAt  time.Time
}

// Record is a document as returned from List.
type Record struct {
	Key  string
	Data []byte
}

// Conn is the operation surface shared by a Store and an open transaction.
// Callers that need a multi-step unit use Transaction; everything inside the
// closure runs against one backend transaction and commits or rolls back as
// a whole.
type Conn interface {
	Get(ctx context.Context, collection, key string) ([]byte, error)
	Set(ctx context.Context, collection, key string, data []byte) error
	Delete(ctx context.Context, collection, key string) error
	List(ctx context.Context, collection string) ([]Record, error)
	Transaction(ctx context.Context, fn func(tx Conn) error) error
}

// Store is a document store backed by a sqlite database.
type Store struct {
	db        *gorm.DB
	txTimeout time.Duration

	// boundCtx is set on transaction-scoped stores so every statement inside
	// the unit shares the transaction's deadline.
	boundCtx context.Context
}

func (s *Store) bind(ctx context.Context) context.Context {
	if s.boundCtx != nil {
		return s.boundCtx
	}
	return ctx
}

var _ Conn = (*Store)(nil)

// Open opens (or creates) the database at path and runs migrations.
// An empty path falls back to inklog.db. txTimeout bounds every
// Transaction call; zero means a 5 second default.
func Open(path string, txTimeout time.Duration) (*Store, error) {
	if path == "" {
		path = "inklog.db"
	}
	if txTimeout <= 0 {
		txTimeout = 5 * time.Second
	}

	if err := ensureParentDir(path); err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	if err := gdb.AutoMigrate(&Document{}); err != nil {
		return nil, err
	}

	return &Store{db: gdb, txTimeout: txTimeout}, nil
}

// OpenDB wraps an already-open gorm connection. Used by tests and by
// transaction scopes.
func OpenDB(gdb *gorm.DB, txTimeout time.Duration) (*Store, error) {
	if txTimeout <= 0 {
		txTimeout = 5 * time.Second
	}
	if err := gdb.AutoMigrate(&Document{}); err != nil {
		return nil, err
	}
	return &Store{db: gdb, txTimeout: txTimeout}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Get returns the raw document at key, or ErrNotFound.
func (s *Store) Get(ctx context.Context, collection, key string) ([]byte, error) {
	var doc Document
	err := s.db.WithContext(s.bind(ctx)).
		Where("collection = ? AND key = ?", collection, key).
		First(&doc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return []byte(doc.Data), nil
}

// Set creates or overwrites the document at key.
func (s *Store) Set(ctx context.Context, collection, key string, data []byte) error {
	doc := Document{
		Collection: collection,
		Key:        key,
		Data:       datatypes.JSON(data),
		UpdatedAt:  time.Now(),
	}
	return s.db.WithContext(s.bind(ctx)).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection"}, {Name: "key"}},
			UpdateAll: true,
		}).
		Create(&doc).Error
}

// Delete removes the document at key. Deleting a missing key is not an error.
func (s *Store) Delete(ctx context.Context, collection, key string) error {
	return s.db.WithContext(s.bind(ctx)).
		Where("collection = ? AND key = ?", collection, key).
		Delete(&Document{}).Error
}

// List returns every document in a collection ordered by key.
func (s *Store) List(ctx context.Context, collection string) ([]Record, error) {
	var docs []Document
	err := s.db.WithContext(s.bind(ctx)).
		Where("collection = ?", collection).
		Order("key asc").
		Find(&docs).Error
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(docs))
	for _, doc := range docs {
		records = append(records, Record{Key: doc.Key, Data: []byte(doc.Data)})
	}
	return records, nil
}

// Transaction runs fn inside one backend transaction bounded by the
// configured timeout. The deadline covers every statement issued through the
// transaction-scoped Conn, not just begin and commit. If fn returns an error
// the whole unit rolls back; readers never observe a half-applied state.
func (s *Store) Transaction(ctx context.Context, fn func(tx Conn) error) error {
	ctx, cancel := context.WithTimeout(s.bind(ctx), s.txTimeout)
	defer cancel()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx, txTimeout: s.txTimeout, boundCtx: ctx})
	})
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}

	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return errors.New("database path parent is not a directory")
		}
		return nil
	}

	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}

	return err
}
