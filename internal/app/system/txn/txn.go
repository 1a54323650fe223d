// Package txn runs multi-collection writes in a MongoDB transaction when
// the deployment supports one, and sequentially when it does not
// (a standalone mongod in development).
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Server error codes meaning "transactions are unavailable here".
var notSupportedCodes = map[int32]bool{
	20:  true, // IllegalOperation: transaction numbers need a replica set
	51:  true,
	263: true, // OperationNotSupportedInTransaction
}

// IsNotSupported reports whether err says the server cannot run sessions or
// transactions, as opposed to the transaction itself failing.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && notSupportedCodes[ce.Code] {
		return true
	}

	msg := strings.ToLower(err.Error())
	has := func(s string) bool { return strings.Contains(msg, s) }

	switch {
	case has("transaction") && has("replica set"):
		return true
	case has("transaction") && has("session"):
		return true
	case has("session") && has("not supported"):
		return true
	case has("illegal operation"):
		return true
	}
	return false
}

// Run executes fn inside a transaction on db's client. If the server
// cannot run transactions, fn is run once more without one and a warning
// is logged. fn must be safe to retry: the driver retries it on transient
// transaction errors.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	sess, err := db.Client().StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return runPlain(ctx, log, err, fn)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		return runPlain(ctx, log, err, fn)
	}
	return err
}

func runPlain(ctx context.Context, log *zap.Logger, cause error, fn func(ctx context.Context) error) error {
	if log != nil {
		log.Warn("transactions unavailable; running writes sequentially", zap.Error(cause))
	}
	return fn(ctx)
}
