package mongo

import (
	"context"
	"fmt"
	"regexp"

	"go.mongodb.org/mongo-driver/mongo"
)

// MaxCASAttempts bounds optimistic version retries in Execute-style updates.
const MaxCASAttempts = 5

var dupIndexPattern = regexp.MustCompile(`index: (\S+) dup key`)

// DuplicateIndex reports whether err is a duplicate-key failure and, when the
// server names it, which unique index was violated.
func DuplicateIndex(err error) (string, bool) {
	if err == nil || !mongo.IsDuplicateKeyError(err) {
		return "", false
	}
	if m := dupIndexPattern.FindStringSubmatch(err.Error()); m != nil {
		return m[1], true
	}
	return "", true
}

// EnsureIndexes creates the given indexes; existing identical indexes are left alone.
func EnsureIndexes(ctx context.Context, coll *mongo.Collection, models ...mongo.IndexModel) error {
	if len(models) == 0 {
		return nil
	}
	if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("create indexes on %s: %w", coll.Name(), err)
	}
	return nil
}
