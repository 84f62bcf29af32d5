package mongo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestDuplicateIndex(t *testing.T) {
	t.Run("names the violated index", func(t *testing.T) {
		err := mongo.WriteException{WriteErrors: mongo.WriteErrors{{
			Code:    11000,
			Message: `E11000 duplicate key error collection: rishta_db.biodatas index: profile_id_unique dup key: { profile_id: 3 }`,
		}}}

		index, ok := DuplicateIndex(err)
		assert.True(t, ok)
		assert.Equal(t, "profile_id_unique", index)
	})

	t.Run("ignores other failures", func(t *testing.T) {
		_, ok := DuplicateIndex(errors.New("connection reset"))
		assert.False(t, ok)

		_, ok = DuplicateIndex(nil)
		assert.False(t, ok)
	})
}
