package paging

import (
	"net/http/httptest"
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "/x", 1, DefaultLimit},
		{"explicit", "/x?page=3&limit=25", 3, 25},
		{"invalid page", "/x?page=abc&limit=5", 1, 5},
		{"zero page", "/x?page=0", 1, DefaultLimit},
		{"negative limit", "/x?limit=-4", 1, DefaultLimit},
		{"limit clamped", "/x?limit=1000", 1, MaxLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.url, nil)
			p := Parse(r)
			if p.Page != tt.wantPage || p.Limit != tt.wantLimit {
				t.Errorf("Parse(%q) = %+v, want page=%d limit=%d", tt.url, p, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestPage_Skip(t *testing.T) {
	if got := (Page{Page: 3, Limit: 10}).Skip(); got != 20 {
		t.Errorf("Skip() = %d, want 20", got)
	}
	if got := (Page{Page: 1, Limit: 10}).Skip(); got != 0 {
		t.Errorf("Skip() = %d, want 0", got)
	}
}

func TestNewInfo(t *testing.T) {
	tests := []struct {
		name  string
		page  Page
		total int64
		want  Info
	}{
		{"empty", Page{1, 10}, 0, Info{Current: 1, TotalPages: 0, Total: 0}},
		{"single partial page", Page{1, 10}, 7, Info{Current: 1, TotalPages: 1, Total: 7}},
		{"exact multiple", Page{1, 10}, 30, Info{Current: 1, TotalPages: 3, Total: 30, HasNext: true}},
		{"middle", Page{2, 10}, 30, Info{Current: 2, TotalPages: 3, Total: 30, HasNext: true, HasPrev: true}},
		{"last page", Page{3, 10}, 25, Info{Current: 3, TotalPages: 3, Total: 25, HasPrev: true}},
		{"past the end", Page{5, 10}, 25, Info{Current: 5, TotalPages: 3, Total: 25, HasPrev: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NewInfo(tt.page, tt.total); got != tt.want {
				t.Errorf("NewInfo() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNewList_NilItems(t *testing.T) {
	l := NewList[int](nil, Page{1, 10}, 0)
	if l.Items == nil {
		t.Error("Items should be an empty slice, not nil")
	}
}

func TestSort(t *testing.T) {
	allowed := map[string]string{"price": "price", "newest": "created_at"}
	tests := []struct {
		raw  string
		want bson.D
	}{
		{"price", bson.D{{Key: "price", Value: 1}}},
		{"-price", bson.D{{Key: "price", Value: -1}}},
		{" newest ", bson.D{{Key: "created_at", Value: 1}}},
		{"-", nil},
		{"", nil},
		{"password_hash", nil},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := Sort(tt.raw, allowed)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Sort(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}
