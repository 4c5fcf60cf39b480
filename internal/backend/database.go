package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/zombor/billed/internal/bill"
)

const (
	billsBucketName   = "bills"
	uploadsBucketName = "uploads"
)

var ErrNotFound = errors.New("not found")

// DB defines the interface for database operations
type DB interface {
	// SaveBill inserts or replaces a bill
	SaveBill(b *bill.Bill) error

	// GetBill retrieves a bill by ID
	GetBill(id string) (*bill.Bill, error)

	// ListBills returns all bills
	ListBills() ([]*bill.Bill, error)

	// SaveUpload inserts or replaces an upload
	SaveUpload(u *Upload) error

	// GetUpload retrieves an upload by key
	GetUpload(key string) (*Upload, error)

	// Close closes the database connection
	Close() error
}

// BoltDB implements the DB interface using BoltDB
type BoltDB struct {
	db *bbolt.DB
}

// NewBoltDB creates a new BoltDB instance
func NewBoltDB(path string) (*BoltDB, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{billsBucketName, uploadsBucketName} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &BoltDB{db: db}, nil
}

func (b *BoltDB) put(bucketName, key string, v any) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshaling %s: %w", bucketName, err)
		}
		return tx.Bucket([]byte(bucketName)).Put([]byte(key), data)
	})
}

func (b *BoltDB) get(bucketName, key string, v any) error {
	return b.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(bucketName)).Get([]byte(key))
		if data == nil {
			return fmt.Errorf("%s %s: %w", bucketName, key, ErrNotFound)
		}
		return json.Unmarshal(data, v)
	})
}

// SaveBill saves a bill to the database
func (b *BoltDB) SaveBill(bl *bill.Bill) error {
	if bl.ID == "" {
		return fmt.Errorf("saving bill: empty id")
	}
	return b.put(billsBucketName, bl.ID, bl)
}

// GetBill retrieves a bill by ID
func (b *BoltDB) GetBill(id string) (*bill.Bill, error) {
	var bl bill.Bill
	if err := b.get(billsBucketName, id, &bl); err != nil {
		return nil, err
	}
	return &bl, nil
}

// ListBills returns all bills in key order
func (b *BoltDB) ListBills() ([]*bill.Bill, error) {
	bills := make([]*bill.Bill, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(billsBucketName))
		return bucket.ForEach(func(k, v []byte) error {
			var bl bill.Bill
			if err := json.Unmarshal(v, &bl); err != nil {
				return fmt.Errorf("unmarshaling bill: %w", err)
			}
			bills = append(bills, &bl)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return bills, nil
}

// SaveUpload saves an upload to the database
func (b *BoltDB) SaveUpload(u *Upload) error {
	return b.put(uploadsBucketName, u.Key, u)
}

// GetUpload retrieves an upload by key
func (b *BoltDB) GetUpload(key string) (*Upload, error) {
	var u Upload
	if err := b.get(uploadsBucketName, key, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Close closes the database connection
func (b *BoltDB) Close() error {
	return b.db.Close()
}
