// internal/app/system/txn/txn.go
package txn

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// unsupported latches once the deployment has told us it cannot run
// transactions, so later calls skip straight to the sequential path.
var unsupported atomic.Bool

// Run executes fn inside a multi-document transaction. When the deployment
// does not support transactions (standalone server) fn runs once without one
// and a warning is logged; callers that need atomicity in that mode must
// compensate themselves, using Active to tell the two modes apart.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	if unsupported.Load() {
		return fn(ctx)
	}

	sess, err := db.Client().StartSession()
	if err != nil {
		if IsNotSupported(err) {
			return fallback(ctx, log, err, fn)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		return fallback(ctx, log, err, fn)
	}
	return err
}

func fallback(ctx context.Context, log *zap.Logger, cause error, fn func(ctx context.Context) error) error {
	if unsupported.CompareAndSwap(false, true) && log != nil {
		log.Warn("transactions not supported; running multi-document writes sequentially",
			zap.Error(cause))
	}
	return fn(ctx)
}

// Active reports whether ctx carries a transaction started by Run.
func Active(ctx context.Context) bool {
	return mongo.SessionFromContext(ctx) != nil
}

// illegalOperation is the server code a standalone mongod returns when a
// command carries a transaction number.
const illegalOperation = 20

const standaloneMessage = "transaction numbers are only allowed"

// IsNotSupported reports whether err means the deployment cannot run
// transactions. It matches the server's IllegalOperation code or its
// standalone message only, since a match disables transactions for the life
// of the process.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == illegalOperation {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), standaloneMessage)
}

// reset clears the latched unsupported state. Used by tests.
func reset() { unsupported.Store(false) }
