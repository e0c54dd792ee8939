package api

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	defaultPerPage = 10
	maxPerPage     = 100
)

// pageParams is the validated pagination window of a collection request
type pageParams struct {
	page    int
	perPage int
}

// parsePageParams reads page/per_page from the query string. Pages are
// 1-based; page below 1 is rejected, per_page is clamped to the maximum
// without complaint.
func parsePageParams(c *gin.Context) (pageParams, error) {
	p := pageParams{page: 1, perPage: defaultPerPage}

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return p, fmt.Errorf("page must be an integer")
		}
		if page < 1 {
			return p, fmt.Errorf("page must be 1 or greater")
		}
		p.page = page
	}

	if raw := c.Query("per_page"); raw != "" {
		perPage, err := strconv.Atoi(raw)
		if err != nil {
			return p, fmt.Errorf("per_page must be an integer")
		}
		if perPage > 0 {
			p.perPage = perPage
		}
	}
	if p.perPage > maxPerPage {
		p.perPage = maxPerPage
	}
	return p, nil
}

func (p pageParams) offset() int {
	return (p.page - 1) * p.perPage
}

// paginate counts the query and loads the requested window into dest
func paginate(query *gorm.DB, p pageParams, dest interface{}) (int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	if err := query.Offset(p.offset()).Limit(p.perPage).Find(dest).Error; err != nil {
		return 0, err
	}
	return total, nil
}

// collection wraps one page of rendered items in the hyperlinked envelope:
// the items under their type key, _meta with the window counts, and _links
// reproducing the request URL with adjusted page numbers.
func collection(c *gin.Context, typeKey string, items []gin.H, p pageParams, total int64) gin.H {
	if items == nil {
		items = []gin.H{}
	}

	pages := totalPages(total, p.perPage)

	links := gin.H{
		"self": pageURL(c, p.page, p.perPage),
		"next": nil,
		"prev": nil,
	}
	if p.page < pages {
		links["next"] = pageURL(c, p.page+1, p.perPage)
	}
	if p.page > 1 {
		links["prev"] = pageURL(c, p.page-1, p.perPage)
	}

	return gin.H{
		typeKey: items,
		"_meta": gin.H{
			"page":        p.page,
			"per_page":    p.perPage,
			"total_pages": pages,
			"total_items": total,
		},
		"_links": links,
	}
}

func totalPages(total int64, perPage int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

// pageURL rebuilds the request URL for another page, keeping every other
// query parameter intact.
func pageURL(c *gin.Context, page, perPage int) string {
	u := *c.Request.URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	u.RawQuery = q.Encode()
	return u.RequestURI()
}
