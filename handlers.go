package blogapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// handleRoot serves a small banner so load balancers and humans can see
// the service is up without hitting the store.
func (a *App) handleRoot(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": a.Config.Name + " API is running"})
}

// bindListQuery extracts listing parameters from the request. Defaults
// apply only to absent parameters; an explicit value is validated as
// given, so ?page=0 is rejected rather than quietly treated as page 1.
// Malformed or out-of-range parameters are rejected here, before the
// store is touched.
func bindListQuery(c echo.Context) (ListQuery, *ValidationError) {
	q := ListQuery{
		Page:  DefaultPage,
		Limit: DefaultLimit,
		Q:     c.QueryParam("q"),
		Tag:   c.QueryParam("tag"),
	}
	if v := c.QueryParam("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return ListQuery{}, &ValidationError{Field: "page", Message: "page must be an integer"}
		}
		q.Page = n
	}
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return ListQuery{}, &ValidationError{Field: "limit", Message: "limit must be an integer"}
		}
		q.Limit = n
	}
	if verr := q.Validate(); verr != nil {
		return ListQuery{}, verr
	}
	return q, nil
}

// handleListPosts serves GET /api/posts: a paginated, searchable,
// tag-filterable window of post summaries, newest first.
func (a *App) handleListPosts(c echo.Context) error {
	q, verr := bindListQuery(c)
	if verr != nil {
		return c.JSON(http.StatusBadRequest, verr)
	}
	items, total, err := a.Store.ListPosts(c.Request().Context(), q)
	if err != nil {
		return err
	}
	if items == nil {
		items = []PostSummary{}
	}
	return c.JSON(http.StatusOK, ListPage{
		Page:  q.Page,
		Limit: q.Limit,
		Total: total,
		Pages: Pages(total, q.Limit),
		Items: items,
	})
}

// handleGetPost serves GET /api/posts/:slug with the full post body.
func (a *App) handleGetPost(c echo.Context) error {
	slug := c.Param("slug")
	post, err := a.Store.GetPost(c.Request().Context(), slug)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "post not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, post)
}

// handleListTags serves GET /api/tags.
func (a *App) handleListTags(c echo.Context) error {
	tags, err := a.Store.ListTags(c.Request().Context())
	if err != nil {
		return err
	}
	if tags == nil {
		tags = []string{}
	}
	return c.JSON(http.StatusOK, map[string][]string{"tags": tags})
}

// handleSeed serves POST /api/seed: populate the store with deterministic
// sample posts up to ?total (default 1500). Re-running is a no-op once the
// target is met.
func (a *App) handleSeed(c echo.Context) error {
	if !a.seedLimiter.Allow(c.RealIP()) {
		return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "too many seed requests"})
	}
	total := DefaultSeedTotal
	if v := c.QueryParam("total"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return c.JSON(http.StatusBadRequest, &ValidationError{Field: "total", Message: "total must be an integer"})
		}
		total = n
	}
	if total < 1 {
		return c.JSON(http.StatusBadRequest, &ValidationError{Field: "total", Message: "total must be >= 1"})
	}

	res, err := a.Store.Seed(c.Request().Context(), total, a.now().UTC())
	if err != nil {
		return err
	}
	if res.Existing >= total {
		return c.JSON(http.StatusOK, map[string]any{
			"status":  "ok",
			"message": fmt.Sprintf("store already has %d posts", res.Existing),
		})
	}
	return c.JSON(http.StatusOK, map[string]any{
		"status":   "ok",
		"inserted": res.Inserted,
		"total":    res.Total,
	})
}

// handleFeed serves the RSS feed with the newest posts.
func (a *App) handleFeed(c echo.Context) error {
	posts, _, err := a.Store.ListPosts(c.Request().Context(), ListQuery{Page: 1, Limit: MaxLimit})
	if err != nil {
		return err
	}
	return a.renderRSS(c, posts)
}

// handleSitemap serves a sitemap covering every post, paging through the
// store one window at a time.
func (a *App) handleSitemap(c echo.Context) error {
	ctx := c.Request().Context()
	var all []PostSummary
	for page := 1; ; page++ {
		posts, total, err := a.Store.ListPosts(ctx, ListQuery{Page: page, Limit: MaxLimit})
		if err != nil {
			return err
		}
		all = append(all, posts...)
		if len(all) >= total || len(posts) == 0 {
			break
		}
	}
	return a.renderSitemap(c, all)
}

// handleHealthz reports store connectivity for operational checks.
func (a *App) handleHealthz(c echo.Context) error {
	if err := a.Store.Ping(c.Request().Context()); err != nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":   "degraded",
			"database": "unreachable",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status":   "ok",
		"database": "connected",
	})
}

// httpErrorHandler renders every unhandled error as a JSON body.
func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	message := "internal server error"
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		message = fmt.Sprintf("%v", he.Message)
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		message = "internal server error"
	}
	_ = c.JSON(code, map[string]string{"error": message})
}
