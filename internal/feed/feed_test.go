package feed

import (
	"testing"
	"time"
)

func testItems(base time.Time) []Item {
	return []Item{
		{Kind: KindFollow, Timestamp: base.Add(1 * time.Minute)},
		{Kind: KindLike, Timestamp: base.Add(5 * time.Minute)},
		{Kind: KindComment, Timestamp: base.Add(3 * time.Minute)},
		{Kind: KindRepost, Timestamp: base.Add(2 * time.Minute)},
		{Kind: KindLike, Timestamp: base.Add(4 * time.Minute)},
	}
}

func TestSliceNewest_Ordering(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	got := sliceNewest(testItems(base), 0, 10)

	if len(got) != 5 {
		t.Fatalf("expected 5 items, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i].Timestamp.After(got[i-1].Timestamp) {
			t.Errorf("items out of order at index %d: %v before %v", i, got[i-1].Timestamp, got[i].Timestamp)
		}
	}
	if got[0].Kind != KindLike {
		t.Errorf("expected newest item first, got kind %s", got[0].Kind)
	}
}

func TestSliceNewest_Window(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		offset  int
		limit   int
		wantLen int
	}{
		{"first page", 0, 2, 2},
		{"middle page", 2, 2, 2},
		{"partial last page", 4, 2, 1},
		{"offset past end", 10, 2, 0},
		{"limit past end", 0, 100, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sliceNewest(testItems(base), tt.offset, tt.limit)
			if len(got) != tt.wantLen {
				t.Errorf("sliceNewest(offset=%d, limit=%d) returned %d items, want %d",
					tt.offset, tt.limit, len(got), tt.wantLen)
			}
		})
	}
}

func TestSliceNewest_StableAcrossPages(t *testing.T) {
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	items := testItems(base)

	all := sliceNewest(append([]Item(nil), items...), 0, 10)
	page1 := sliceNewest(append([]Item(nil), items...), 0, 3)
	page2 := sliceNewest(append([]Item(nil), items...), 3, 3)

	paged := append(page1, page2...)
	if len(paged) != len(all) {
		t.Fatalf("pages cover %d items, want %d", len(paged), len(all))
	}
	for i := range all {
		if paged[i].Timestamp != all[i].Timestamp {
			t.Errorf("page seam mismatch at index %d", i)
		}
	}
}
