package mongoclient

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/x-xyz/marketplace/base/ptr"
)

type patchableListing struct {
	Sold   *bool      `bson:"sold,omitempty"`
	Buyer  *string    `bson:"buyer,omitempty"`
	SoldAt *time.Time `bson:"soldAt,omitempty"`
	Seller string     `bson:"seller"`
	Price  string     `bson:"price"`
	Note   string     `bson:"-"`
	hidden string
}

func TestMakeBsonM(t *testing.T) {
	at := time.Unix(1700000000, 0)
	patchable := &patchableListing{
		Sold:   ptr.Bool(false),
		SoldAt: &at,
		Price:  "100",
		Note:   "skipped",
		hidden: "skipped",
	}

	updater, err := MakeBsonM(patchable)
	require.NoError(t, err)
	require.Equal(t, bson.M{
		"sold":   false,
		"soldAt": at,
		"price":  "100",
	}, updater)

	updater, err = MakeBsonM(*patchable)
	require.NoError(t, err)
	require.Len(t, updater, 3)
}

func TestMakeBsonMRejectsNonStruct(t *testing.T) {
	_, err := MakeBsonM("sold")
	require.ErrorIs(t, err, ErrNotStruct)
}
