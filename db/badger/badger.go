package badger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/simpleauthlink/appticket/db"
)

const (
	appPrefix   = "app_"
	auditPrefix = "audit_"
	keySep      = "_"
)

// app and auditRecord are the CBOR documents stored as values, times are
// stored as unix nanoseconds.
type app struct {
	Name       string `cbor:"1,keyasint"`
	Group      string `cbor:"2,keyasint,omitempty"`
	AdminEmail string `cbor:"3,keyasint"`
	CreatedAt  int64  `cbor:"4,keyasint"`
}

type auditRecord struct {
	Id         string `cbor:"1,keyasint"`
	AppId      string `cbor:"2,keyasint"`
	IssuedAt   int64  `cbor:"3,keyasint"`
	VerifiedAt int64  `cbor:"4,keyasint"`
	Valid      bool   `cbor:"5,keyasint"`
	Reason     string `cbor:"6,keyasint,omitempty"`
	Remote     string `cbor:"7,keyasint,omitempty"`
}

// BadgerDriver implements db.DB over an embedded badger database. The config
// received by Init is the path of the data directory, an empty path opens an
// in-memory database.
type BadgerDriver struct {
	path string
	db   *badger.DB
}

func (b *BadgerDriver) Init(config any) error {
	path, ok := config.(string)
	if !ok {
		return db.ErrInvalidConfig
	}
	b.path = path
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	var err error
	if b.db, err = badger.Open(opts); err != nil {
		return errors.Join(db.ErrOpenConn, err)
	}
	return nil
}

func (b *BadgerDriver) Close() error {
	if err := b.db.Close(); err != nil {
		return errors.Join(db.ErrCloseConn, err)
	}
	return nil
}

func (b *BadgerDriver) AppById(appId string) (*db.App, error) {
	stored := &app{}
	if err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(appPrefix + appId))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return db.ErrAppNotFound
			}
			return errors.Join(db.ErrGetApp, err)
		}
		return item.Value(func(val []byte) error {
			if err := cbor.Unmarshal(val, stored); err != nil {
				return errors.Join(db.ErrGetApp, err)
			}
			return nil
		})
	}); err != nil {
		return nil, err
	}
	return &db.App{
		Id:         appId,
		Name:       stored.Name,
		Group:      stored.Group,
		AdminEmail: stored.AdminEmail,
		CreatedAt:  time.Unix(0, stored.CreatedAt),
	}, nil
}

func (b *BadgerDriver) SetApp(a *db.App) error {
	if a == nil || a.Id == "" {
		return db.ErrSetApp
	}
	bApp, err := cbor.Marshal(app{
		Name:       a.Name,
		Group:      a.Group,
		AdminEmail: a.AdminEmail,
		CreatedAt:  a.CreatedAt.UnixNano(),
	})
	if err != nil {
		return errors.Join(db.ErrSetApp, err)
	}
	return b.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(appPrefix+a.Id), bApp); err != nil {
			return errors.Join(db.ErrSetApp, err)
		}
		return nil
	})
}

func (b *BadgerDriver) DeleteApp(appId string) error {
	return b.db.Update(func(txn *badger.Txn) error {
		key := []byte(appPrefix + appId)
		if _, err := txn.Get(key); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return db.ErrAppNotFound
			}
			return errors.Join(db.ErrDelApp, err)
		}
		if err := txn.Delete(key); err != nil {
			return errors.Join(db.ErrDelApp, err)
		}
		return nil
	})
}

// auditKey composes the key of an audit record, the verification time is
// zero padded to keep the records of an app sorted by time.
func auditKey(appId string, verifiedAt int64, id string) []byte {
	return []byte(auditPrefix + appId + keySep + fmt.Sprintf("%020d", verifiedAt) + keySep + id)
}

func (b *BadgerDriver) AddAudit(record *db.AuditRecord) error {
	if record == nil || record.AppId == "" {
		return db.ErrSetAudit
	}
	stored := auditRecord{
		Id:         record.Id,
		AppId:      record.AppId,
		IssuedAt:   record.IssuedAt,
		VerifiedAt: record.VerifiedAt.UnixNano(),
		Valid:      record.Valid,
		Reason:     record.Reason,
		Remote:     record.Remote,
	}
	bRecord, err := cbor.Marshal(stored)
	if err != nil {
		return errors.Join(db.ErrSetAudit, err)
	}
	return b.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(auditKey(stored.AppId, stored.VerifiedAt, stored.Id), bRecord); err != nil {
			return errors.Join(db.ErrSetAudit, err)
		}
		return nil
	})
}

func (b *BadgerDriver) AuditByApp(appId string, limit int) ([]*db.AuditRecord, error) {
	records := []*db.AuditRecord{}
	prefix := []byte(auditPrefix + appId + keySep)
	if err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()
		// seek to the end of the prefix range to iterate the newest first
		for it.Seek(append(append([]byte{}, prefix...), 0xff)); it.ValidForPrefix(prefix); it.Next() {
			if limit > 0 && len(records) >= limit {
				return nil
			}
			stored := auditRecord{}
			if err := it.Item().Value(func(val []byte) error {
				return cbor.Unmarshal(val, &stored)
			}); err != nil {
				return errors.Join(db.ErrGetAudit, err)
			}
			records = append(records, &db.AuditRecord{
				Id:         stored.Id,
				AppId:      stored.AppId,
				IssuedAt:   stored.IssuedAt,
				VerifiedAt: time.Unix(0, stored.VerifiedAt),
				Valid:      stored.Valid,
				Reason:     stored.Reason,
				Remote:     stored.Remote,
			})
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return records, nil
}

func (b *BadgerDriver) DeleteAuditBefore(t time.Time) error {
	limit := t.UnixNano()
	var expired [][]byte
	if err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		prefix := []byte(auditPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			key := it.Item().KeyCopy(nil)
			// [prefix][appId]_[verifiedAt]_[id], app ids can not contain
			// the separator
			parts := strings.SplitN(strings.TrimPrefix(string(key), auditPrefix), keySep, 3)
			if len(parts) != 3 {
				continue
			}
			var verifiedAt int64
			if _, err := fmt.Sscanf(parts[1], "%d", &verifiedAt); err != nil {
				continue
			}
			if verifiedAt < limit {
				expired = append(expired, key)
			}
		}
		return nil
	}); err != nil {
		return errors.Join(db.ErrDelAudit, err)
	}
	wb := b.db.NewWriteBatch()
	for _, key := range expired {
		if err := wb.Delete(key); err != nil {
			wb.Cancel()
			return errors.Join(db.ErrDelAudit, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return errors.Join(db.ErrDelAudit, err)
	}
	return nil
}
