package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// listUpdates returns one page of the current user's activity feed, then
// marks the feed read: counters reset and last_updates_read_time stamped.
func (s *Server) listUpdates(c *gin.Context) {
	p, err := parsePageParams(c)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx := c.Request.Context()
	user := currentUser(c)

	items, total, err := s.feed.Updates(ctx, user, p.offset(), p.perPage)
	if err != nil {
		internalError(c, err)
		return
	}

	rendered := make([]gin.H, 0, len(items))
	for _, item := range items {
		rendered = append(rendered, renderFeedItem(item))
	}

	if err := s.feed.ResetCounters(ctx, user); err != nil {
		s.logger.Warn("failed to reset unread counters", zap.Int64("user_id", user.ID), zap.Error(err))
	}
	user.LastUpdatesReadTime = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Warn("failed to stamp feed read time", zap.Int64("user_id", user.ID), zap.Error(err))
	}

	c.JSON(http.StatusOK, collection(c, "updates", rendered, p, total))
}

// listNotifications returns the current user's notifications newer than the
// since timestamp, oldest first.
func (s *Server) listNotifications(c *gin.Context) {
	var since float64
	if raw := c.Query("since"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			badRequest(c, "since must be a number")
			return
		}
		since = parsed
	}

	ctx := c.Request.Context()
	user := currentUser(c)

	notifs, err := s.notifs.ListSince(ctx, user.ID, since)
	if err != nil {
		internalError(c, err)
		return
	}

	counters, err := s.feed.Counters(ctx, user.ID)
	if err != nil {
		internalError(c, err)
		return
	}

	items := make([]gin.H, 0, len(notifs))
	for _, n := range notifs {
		items = append(items, renderNotification(n))
	}
	c.JSON(http.StatusOK, gin.H{
		"notifications": items,
		"counters":      counters,
	})
}
