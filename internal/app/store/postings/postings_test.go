package postings

import (
	"testing"
	"time"

	"github.com/dalemusser/careerhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
)

func TestFilterQuery_StatusUsesEffectiveStatus(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	q := Filter{Status: models.PostingActive, Search: "go", Now: now}.Query()
	if _, ok := q["$or"]; !ok {
		t.Error("search clause was dropped")
	}
	and, ok := q["$and"].(bson.A)
	if !ok || len(and) != 1 {
		t.Fatalf("$and: got %#v", q["$and"])
	}
	m := and[0].(bson.M)
	if m["status"] != models.PostingActive {
		t.Errorf("status: got %v", m["status"])
	}
	if got, ok := m["application_deadline"].(bson.M); !ok || got["$not"].(bson.M)["$lt"] != now {
		t.Errorf("deadline predicate: got %#v", m["application_deadline"])
	}
	if _, ok := m["$expr"]; !ok {
		t.Error("capacity predicate missing")
	}
}

func TestStatusMatch_StoredStatuses(t *testing.T) {
	for _, s := range []string{models.PostingDraft, models.PostingOnHold} {
		if got := StatusMatch(s, time.Now()); len(got) != 1 || got["status"] != s {
			t.Errorf("%s: got %#v", s, got)
		}
	}
	for _, s := range []string{models.PostingClosed, models.PostingFilled} {
		if _, ok := StatusMatch(s, time.Now())["$or"]; !ok {
			t.Errorf("%s should also match stale Active postings", s)
		}
	}
}

func TestFilterQuery_NoStatus(t *testing.T) {
	if q := (Filter{}).Query(); len(q) != 0 {
		t.Errorf("empty filter: got %#v", q)
	}
}
