package store

import (
	"encoding/json"

	bolt "go.etcd.io/bbolt"
)

// migrate creates missing buckets and rebuilds the email index for any
// account that lacks an entry, so databases written before the index existed
// can still sign in.
func migrate(tx *bolt.Tx) error {
	for _, name := range buckets {
		_, err := tx.CreateBucketIfNotExists([]byte(name))
		if err != nil {
			return err
		}
	}

	return reindexEmails(tx)
}

func reindexEmails(tx *bolt.Tx) error {
	index := tx.Bucket([]byte(usersByEmail))

	cur := tx.Bucket([]byte(usersBucket)).Cursor()

	for k, v := cur.First(); k != nil; k, v = cur.Next() {
		var a account

		err := json.Unmarshal(v, &a)
		if err != nil {
			return err
		}

		key := []byte(NormalizeEmail(a.Email))

		if index.Get(key) != nil {
			continue
		}

		err = index.Put(key, k)
		if err != nil {
			return err
		}
	}

	return nil
}
