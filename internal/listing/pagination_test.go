package listing

import (
	"net/url"
	"strings"
	"testing"
)

func TestSiblingPagesMiddle(t *testing.T) {
	params := Params{Ordering: OrderLastUpdated, Page: 2, NSFW: true}

	// 3 pages worth of results.
	previous, next := SiblingPages("http://example.com/api/listing/rr2/", params, 50)
	if previous == nil || next == nil {
		t.Fatalf("expected both sibling links, got previous=%v next=%v", previous, next)
	}

	prevURL, err := url.Parse(*previous)
	if err != nil {
		t.Fatalf("previous is not a URL: %v", err)
	}
	if got := prevURL.Query().Get("page"); got != "1" {
		t.Errorf("previous page = %s, want 1", got)
	}

	nextURL, err := url.Parse(*next)
	if err != nil {
		t.Fatalf("next is not a URL: %v", err)
	}
	if got := nextURL.Query().Get("page"); got != "3" {
		t.Errorf("next page = %s, want 3", got)
	}

	// Links only differ in the page parameter.
	trim := func(u string) string {
		u = strings.ReplaceAll(u, "page=1", "page=N")
		return strings.ReplaceAll(u, "page=3", "page=N")
	}
	if trim(*previous) != trim(*next) {
		t.Errorf("sibling links not canonicalized identically:\n%s\n%s", *previous, *next)
	}
}

func TestSiblingPagesEdges(t *testing.T) {
	tests := []struct {
		name         string
		page         int
		count        int
		wantPrevious bool
		wantNext     bool
	}{
		{"first of three", 1, 50, false, true},
		{"last of three", 3, 50, true, false},
		{"single page", 1, 5, false, false},
		{"empty", 1, 0, false, false},
		{"exact boundary", 1, PageSize, false, false},
		{"one over boundary", 1, PageSize + 1, false, true},
	}

	for _, tt := range tests {
		params := Params{Ordering: OrderLastUpdated, Page: tt.page}
		previous, next := SiblingPages("http://example.com/x/", params, tt.count)
		if (previous != nil) != tt.wantPrevious {
			t.Errorf("%s: previous = %v, want present=%v", tt.name, previous, tt.wantPrevious)
		}
		if (next != nil) != tt.wantNext {
			t.Errorf("%s: next = %v, want present=%v", tt.name, next, tt.wantNext)
		}
	}
}
