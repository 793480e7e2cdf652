package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/simpleauthlink/appticket/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AuditRecord struct {
	ID         string `bson:"_id"`
	AppId      string `bson:"app_id"`
	IssuedAt   int64  `bson:"issued_at"`
	VerifiedAt int64  `bson:"verified_at"`
	Valid      bool   `bson:"valid"`
	Reason     string `bson:"reason,omitempty"`
	Remote     string `bson:"remote,omitempty"`
}

func (md *MongoDriver) AddAudit(record *db.AuditRecord) error {
	if record == nil || record.AppId == "" || record.Id == "" {
		return db.ErrSetAudit
	}
	ctx, cancel := context.WithTimeout(md.ctx, queryTimeout)
	defer cancel()
	if _, err := md.audit.InsertOne(ctx, AuditRecord{
		ID:         record.Id,
		AppId:      record.AppId,
		IssuedAt:   record.IssuedAt,
		VerifiedAt: record.VerifiedAt.UnixNano(),
		Valid:      record.Valid,
		Reason:     record.Reason,
		Remote:     record.Remote,
	}); err != nil {
		return errors.Join(db.ErrSetAudit, err)
	}
	return nil
}

func (md *MongoDriver) AuditByApp(appId string, limit int) ([]*db.AuditRecord, error) {
	ctx, cancel := context.WithTimeout(md.ctx, queryTimeout)
	defer cancel()
	// newest records first
	opts := options.Find().SetSort(bson.D{{Key: "verified_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	cursor, err := md.audit.Find(ctx, bson.M{"app_id": appId}, opts)
	if err != nil {
		return nil, errors.Join(db.ErrGetAudit, err)
	}
	var stored []AuditRecord
	if err := cursor.All(ctx, &stored); err != nil {
		return nil, errors.Join(db.ErrGetAudit, err)
	}
	records := make([]*db.AuditRecord, 0, len(stored))
	for _, record := range stored {
		records = append(records, &db.AuditRecord{
			Id:         record.ID,
			AppId:      record.AppId,
			IssuedAt:   record.IssuedAt,
			VerifiedAt: time.Unix(0, record.VerifiedAt),
			Valid:      record.Valid,
			Reason:     record.Reason,
			Remote:     record.Remote,
		})
	}
	return records, nil
}

func (md *MongoDriver) DeleteAuditBefore(t time.Time) error {
	md.keysLock.Lock()
	defer md.keysLock.Unlock()
	ctx, cancel := context.WithTimeout(md.ctx, queryTimeout)
	defer cancel()
	if _, err := md.audit.DeleteMany(ctx, bson.M{"verified_at": bson.M{"$lt": t.UnixNano()}}); err != nil {
		return errors.Join(db.ErrDelAudit, err)
	}
	return nil
}
