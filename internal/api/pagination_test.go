package api

import (
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/gin-gonic/gin"
)

func testContext(target string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	return c
}

func TestParsePageParams(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		wantPage    int
		wantPerPage int
		wantErr     bool
	}{
		{"defaults", "/api/posts", 1, 10, false},
		{"explicit window", "/api/posts?page=3&per_page=25", 3, 25, false},
		{"per_page clamped", "/api/posts?per_page=500", 1, 100, false},
		{"zero per_page falls back", "/api/posts?per_page=0", 1, 10, false},
		{"page zero rejected", "/api/posts?page=0", 0, 0, true},
		{"negative page rejected", "/api/posts?page=-2", 0, 0, true},
		{"non-numeric page rejected", "/api/posts?page=abc", 0, 0, true},
		{"non-numeric per_page rejected", "/api/posts?per_page=lots", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := parsePageParams(testContext(tt.target))
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePageParams() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if p.page != tt.wantPage {
				t.Errorf("page = %d, want %d", p.page, tt.wantPage)
			}
			if p.perPage != tt.wantPerPage {
				t.Errorf("per_page = %d, want %d", p.perPage, tt.wantPerPage)
			}
		})
	}
}

func TestPageParamsOffset(t *testing.T) {
	tests := []struct {
		page    int
		perPage int
		want    int
	}{
		{1, 10, 0},
		{2, 10, 10},
		{5, 25, 100},
	}

	for _, tt := range tests {
		p := pageParams{page: tt.page, perPage: tt.perPage}
		if got := p.offset(); got != tt.want {
			t.Errorf("offset(page=%d, perPage=%d) = %d, want %d", tt.page, tt.perPage, got, tt.want)
		}
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total   int64
		perPage int
		want    int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{100, 10, 10},
		{101, 10, 11},
	}

	for _, tt := range tests {
		if got := totalPages(tt.total, tt.perPage); got != tt.want {
			t.Errorf("totalPages(%d, %d) = %d, want %d", tt.total, tt.perPage, got, tt.want)
		}
	}
}

func TestCollectionEnvelope(t *testing.T) {
	c := testContext("/api/posts?page=2&per_page=10&language=en")
	p := pageParams{page: 2, perPage: 10}

	env := collection(c, "posts", []gin.H{{"id": 1}}, p, 35)

	meta := env["_meta"].(gin.H)
	if meta["page"] != 2 || meta["per_page"] != 10 {
		t.Errorf("unexpected meta window: %v", meta)
	}
	if meta["total_pages"] != 4 {
		t.Errorf("total_pages = %v, want 4", meta["total_pages"])
	}
	if meta["total_items"] != int64(35) {
		t.Errorf("total_items = %v, want 35", meta["total_items"])
	}

	links := env["_links"].(gin.H)
	self := links["self"].(string)
	next := links["next"].(string)
	prev := links["prev"].(string)

	for name, link := range map[string]string{"self": self, "next": next, "prev": prev} {
		if queryParam(t, link, "language") != "en" {
			t.Errorf("%s link %q dropped the language parameter", name, link)
		}
	}
	if queryParam(t, next, "page") != "3" {
		t.Errorf("next link %q should point at page 3", next)
	}
	if queryParam(t, prev, "page") != "1" {
		t.Errorf("prev link %q should point at page 1", prev)
	}
}

func queryParam(t *testing.T, link, name string) string {
	t.Helper()
	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("link %q does not parse: %v", link, err)
	}
	return u.Query().Get(name)
}

func TestCollectionEnvelope_Edges(t *testing.T) {
	t.Run("first page has no prev", func(t *testing.T) {
		c := testContext("/api/posts?page=1")
		env := collection(c, "posts", nil, pageParams{page: 1, perPage: 10}, 25)
		links := env["_links"].(gin.H)
		if links["prev"] != nil {
			t.Errorf("prev = %v, want nil", links["prev"])
		}
		if links["next"] == nil {
			t.Error("expected next link on first of three pages")
		}
	})

	t.Run("last page has no next", func(t *testing.T) {
		c := testContext("/api/posts?page=3")
		env := collection(c, "posts", nil, pageParams{page: 3, perPage: 10}, 25)
		links := env["_links"].(gin.H)
		if links["next"] != nil {
			t.Errorf("next = %v, want nil", links["next"])
		}
	})

	t.Run("page beyond range yields empty items and no next", func(t *testing.T) {
		c := testContext("/api/posts?page=9")
		env := collection(c, "posts", nil, pageParams{page: 9, perPage: 10}, 25)
		items := env["posts"].([]gin.H)
		if len(items) != 0 {
			t.Errorf("expected empty item list, got %d items", len(items))
		}
		links := env["_links"].(gin.H)
		if links["next"] != nil {
			t.Errorf("next = %v, want nil", links["next"])
		}
	})
}
