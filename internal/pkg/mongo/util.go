package mongo

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

func mongoContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

func newColl(session mongo.Session, table string) *mongo.Collection {
	return session.Client().Database(store).Collection(table)
}

// sanitize drops mongo operator chars from user provided strings
func sanitize(s string) string {
	return strings.TrimLeft(s, "$")
}
