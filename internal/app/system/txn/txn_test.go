package txn

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func TestIsNotSupported(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New("duplicate key"), false},
		{mongo.CommandError{Code: 20, Message: "Transaction numbers are only allowed on a replica set member or mongos"}, true},
		{mongo.CommandError{Code: 20}, true},
		{fmt.Errorf("enroll: %w", mongo.CommandError{Code: 20}), true},
		{errors.New("Transaction numbers are only allowed on a replica set member or mongos"), true},
		{mongo.CommandError{Code: 51}, false},
		{mongo.CommandError{Code: 263, Message: "Cannot run 'create' in a multi-document transaction"}, false},
		{mongo.CommandError{Code: 11000, Message: "E11000 duplicate key"}, false},
		{mongo.CommandError{Code: 251, Message: "Transaction 3 has been aborted"}, false},
		{errors.New("cannot start transaction in this session"), false},
		{errors.New("write conflict during transaction on replica set"), false},
	}
	for _, tt := range tests {
		if got := IsNotSupported(tt.err); got != tt.want {
			t.Errorf("IsNotSupported(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestActive_NoSession(t *testing.T) {
	if Active(context.Background()) {
		t.Error("plain context should not report an active transaction")
	}
}

func TestFallback_LatchesUnsupported(t *testing.T) {
	t.Cleanup(reset)

	calls := 0
	err := fallback(context.Background(), zap.NewNop(), errors.New("session not supported"), func(ctx context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("fallback returned %v", err)
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
	if !unsupported.Load() {
		t.Error("expected unsupported to be latched")
	}
}
