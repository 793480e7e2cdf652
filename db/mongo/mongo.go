package mongo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/simpleauthlink/appticket/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	appsCollection  = "apps"
	auditCollection = "audit"
	queryTimeout    = 5 * time.Second
)

type Config struct {
	MongoURI string
	Database string
}

type MongoDriver struct {
	ctx      context.Context
	cancel   context.CancelFunc
	config   Config
	client   *mongo.Client
	keysLock sync.RWMutex

	apps  *mongo.Collection
	audit *mongo.Collection
}

func (md *MongoDriver) Init(config any) error {
	// validate config
	cfg, ok := config.(Config)
	if !ok {
		return db.ErrInvalidConfig
	}
	if cfg.Database == "" {
		return fmt.Errorf("%w: no database name provided", db.ErrInvalidConfig)
	}
	if cfg.MongoURI == "" {
		return fmt.Errorf("%w: no database url provided", db.ErrInvalidConfig)
	}
	// init the client options
	opts := options.Client()
	opts.ApplyURI(cfg.MongoURI)
	opts.SetMaxConnecting(200)
	timeout := time.Second * 10
	opts.SetConnectTimeout(timeout)
	// connect to the database
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return errors.Join(db.ErrOpenConn, err)
	}
	// check if the connection is available
	ctx, cancel2 := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel2()
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return errors.Join(db.ErrOpenConn, err)
	}
	// create the internal context
	md.ctx, md.cancel = context.WithCancel(context.Background())
	// set the client and config
	md.client = client
	md.config = cfg
	// instantiate the collections
	md.apps = client.Database(cfg.Database).Collection(appsCollection)
	md.audit = client.Database(cfg.Database).Collection(auditCollection)
	// create the indexes
	if err := md.createIndexes(); err != nil {
		return errors.Join(db.ErrOpenConn, err)
	}
	return nil
}

func (md *MongoDriver) Close() error {
	md.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), queryTimeout)
	defer cancel()
	if err := md.client.Disconnect(ctx); err != nil {
		return errors.Join(db.ErrCloseConn, err)
	}
	return nil
}

func (md *MongoDriver) createIndexes() error {
	ctx, cancel := context.WithTimeout(md.ctx, 20*time.Second)
	defer cancel()
	// create an index to list the audit records of an app by time
	if _, err := md.audit.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "app_id", Value: 1},
			{Key: "verified_at", Value: -1},
		},
	}); err != nil {
		return err
	}
	// create an index for the retention cleaner
	if _, err := md.audit.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "verified_at", Value: 1}},
	}); err != nil {
		return err
	}
	return nil
}
