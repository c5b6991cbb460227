package storage

import (
	"time"

	"github.com/sirupsen/logrus"
	bolt "go.etcd.io/bbolt"
)

// bucketName holds all storefront keys; a single bucket is enough because the
// session and cart stores already use disjoint key prefixes.
var bucketName = []byte("storefront")

// BoltKV implements KV on a bbolt file so state survives process restarts.
// Write errors cannot be surfaced through the KV contract; they are logged
// and the in-memory callers keep their state, which Initialize re-derives
// from whatever actually reached disk.
type BoltKV struct {
	db  *bolt.DB
	log logrus.FieldLogger
}

// OpenBolt opens (or creates) the store file at path.
func OpenBolt(path string, log logrus.FieldLogger) (*BoltKV, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &BoltKV{db: db, log: log}, nil
}

func (b *BoltKV) Get(key string) (string, bool) {
	var value string
	var found bool
	err := b.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketName).Get([]byte(key)); v != nil {
			value = string(v)
			found = true
		}
		return nil
	})
	if err != nil {
		b.log.WithError(err).WithField("key", key).Error("bolt get failed")
		return "", false
	}
	return value, found
}

func (b *BoltKV) Set(key, value string) {
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), []byte(value))
	})
	if err != nil {
		b.log.WithError(err).WithField("key", key).Error("bolt set failed")
	}
}

func (b *BoltKV) Remove(key string) {
	err := b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(key))
	})
	if err != nil {
		b.log.WithError(err).WithField("key", key).Error("bolt remove failed")
	}
}

// Close flushes and closes the underlying file.
func (b *BoltKV) Close() error {
	return b.db.Close()
}
