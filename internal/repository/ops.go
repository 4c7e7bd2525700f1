package repository

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson"
)

// AppliedOps lists the ids of the latest counter operations applied to a
// document.  A retried or redelivered operation finds its id there and
// matches nothing.
const AppliedOps = "appliedOps"

// keptOps bounds AppliedOps; an operation is never retried after this many
// newer ones have landed on the same document.
const keptOps = 32

// ErrNoOperation is returned by counter writes called without an operation id.
var ErrNoOperation = errors.New("operation id required")

// notApplied narrows filter to documents that have not seen op.
func notApplied(filter bson.M, op string) bson.M {
	f := bson.M{AppliedOps: bson.M{"$ne": op}}
	for k, v := range filter {
		f[k] = v
	}
	return f
}

// incrementOnce adds one to field and records op in the same update.
func incrementOnce(field, op string) bson.M {
	return bson.M{
		"$inc":  bson.M{field: 1},
		"$push": bson.M{AppliedOps: bson.M{"$each": bson.A{op}, "$slice": -keptOps}},
	}
}
