package mongo

import (
	"errors"
	"testing"

	"github.com/simpleauthlink/appticket/db"
)

func TestInitInvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		config any
	}{
		{"wrong type", "mongodb://localhost:27017"},
		{"no database", Config{MongoURI: "mongodb://localhost:27017"}},
		{"no uri", Config{Database: "appticket"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := new(MongoDriver).Init(tt.config); !errors.Is(err, db.ErrInvalidConfig) {
				t.Errorf("expected %v, got %v", db.ErrInvalidConfig, err)
			}
		})
	}
}
