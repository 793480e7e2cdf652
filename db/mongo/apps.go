package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/simpleauthlink/appticket/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type App struct {
	ID         string `bson:"_id"`
	Name       string `bson:"name"`
	Group      string `bson:"group,omitempty"`
	AdminEmail string `bson:"admin_email"`
	CreatedAt  int64  `bson:"created_at"`
}

func (md *MongoDriver) AppById(appId string) (*db.App, error) {
	ctx, cancel := context.WithTimeout(md.ctx, queryTimeout)
	defer cancel()
	// get app from the database based on the app id
	var app App
	if err := md.apps.FindOne(ctx, bson.M{"_id": appId}).Decode(&app); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, db.ErrAppNotFound
		}
		return nil, errors.Join(db.ErrGetApp, err)
	}
	return &db.App{
		Id:         app.ID,
		Name:       app.Name,
		Group:      app.Group,
		AdminEmail: app.AdminEmail,
		CreatedAt:  time.Unix(0, app.CreatedAt),
	}, nil
}

func (md *MongoDriver) SetApp(app *db.App) error {
	if app == nil || app.Id == "" {
		return db.ErrSetApp
	}
	md.keysLock.Lock()
	defer md.keysLock.Unlock()
	// create or replace app in the database
	ctx, cancel := context.WithTimeout(md.ctx, queryTimeout)
	defer cancel()
	dbApp := App{
		ID:         app.Id,
		Name:       app.Name,
		Group:      app.Group,
		AdminEmail: app.AdminEmail,
		CreatedAt:  app.CreatedAt.UnixNano(),
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := md.apps.ReplaceOne(ctx, bson.M{"_id": app.Id}, dbApp, opts); err != nil {
		return errors.Join(db.ErrSetApp, err)
	}
	return nil
}

func (md *MongoDriver) DeleteApp(appId string) error {
	md.keysLock.Lock()
	defer md.keysLock.Unlock()
	ctx, cancel := context.WithTimeout(md.ctx, queryTimeout)
	defer cancel()
	res, err := md.apps.DeleteOne(ctx, bson.M{"_id": appId})
	if err != nil {
		return errors.Join(db.ErrDelApp, err)
	}
	if res.DeletedCount == 0 {
		return db.ErrAppNotFound
	}
	return nil
}
