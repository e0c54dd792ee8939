package feed

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/covernet/covernet/internal/cache"
	"github.com/covernet/covernet/internal/db"
	"github.com/covernet/covernet/internal/models"
	"github.com/covernet/covernet/pkg/logging"
)

// Item kinds in the merged activity feed.
const (
	KindFollow  = "follow"
	KindLike    = "like"
	KindComment = "comment"
	KindRepost  = "repost"
)

// countersTTL bounds staleness for cached unread counters when an
// invalidation is missed.
const countersTTL = time.Minute

// Item is a single event in a user's activity feed
type Item struct {
	Kind      string
	Timestamp time.Time
	Payload   interface{}
}

// Service assembles activity feeds and maintains per-user unread counters
type Service struct {
	feed   *db.FeedRepository
	notifs *db.NotificationRepository
	cache  *cache.Cache
	logger *zap.Logger
	now    func() time.Time
}

// NewService creates a new feed service
func NewService(feed *db.FeedRepository, notifs *db.NotificationRepository, c *cache.Cache) *Service {
	return &Service{
		feed:   feed,
		notifs: notifs,
		cache:  c,
		logger: logging.WithComponent("feed"),
		now:    time.Now,
	}
}

// Updates returns one page of the user's activity feed, newest first, along
// with the total number of unread items. Events are everything addressed to
// the user since their last read time.
func (s *Service) Updates(ctx context.Context, user *models.User, offset, limit int) ([]Item, int64, error) {
	since := user.LastUpdatesReadTime

	follows, err := s.feed.NewFollows(ctx, user.ID, since)
	if err != nil {
		return nil, 0, err
	}
	likes, err := s.feed.NewLikes(ctx, user.ID, since)
	if err != nil {
		return nil, 0, err
	}
	comments, err := s.feed.NewComments(ctx, user.ID, since)
	if err != nil {
		return nil, 0, err
	}
	reposts, err := s.feed.NewReposts(ctx, user.ID, since)
	if err != nil {
		return nil, 0, err
	}

	items := make([]Item, 0, len(follows)+len(likes)+len(comments)+len(reposts))
	for _, f := range follows {
		items = append(items, Item{Kind: KindFollow, Timestamp: f.ModifiedAt, Payload: f})
	}
	for _, l := range likes {
		items = append(items, Item{Kind: KindLike, Timestamp: l.ModifiedAt, Payload: l})
	}
	for _, c := range comments {
		items = append(items, Item{Kind: KindComment, Timestamp: c.ModifiedAt, Payload: c})
	}
	for _, r := range reposts {
		items = append(items, Item{Kind: KindRepost, Timestamp: r.ModifiedAt, Payload: r})
	}

	total := int64(len(items))
	return sliceNewest(items, offset, limit), total, nil
}

// NotifyFollow recounts unread follows for the followed user and stores the
// counter notification.
func (s *Service) NotifyFollow(ctx context.Context, user *models.User) error {
	follows, err := s.feed.NewFollows(ctx, user.ID, user.LastUpdatesReadTime)
	if err != nil {
		return err
	}
	return s.Notify(ctx, user.ID, models.NotifyFollowCount, len(follows))
}

// NotifyLike recounts unread likes on the user's posts and stores the counter
// notification.
func (s *Service) NotifyLike(ctx context.Context, user *models.User) error {
	likes, err := s.feed.NewLikes(ctx, user.ID, user.LastUpdatesReadTime)
	if err != nil {
		return err
	}
	return s.Notify(ctx, user.ID, models.NotifyLikeCount, len(likes))
}

// NotifyComment recounts unread comments on the user's posts and stores the
// counter notification.
func (s *Service) NotifyComment(ctx context.Context, user *models.User) error {
	comments, err := s.feed.NewComments(ctx, user.ID, user.LastUpdatesReadTime)
	if err != nil {
		return err
	}
	return s.Notify(ctx, user.ID, models.NotifyCommentCount, len(comments))
}

// NotifyRepost recounts unread reposts of the user's posts and stores the
// counter notification.
func (s *Service) NotifyRepost(ctx context.Context, user *models.User) error {
	reposts, err := s.feed.NewReposts(ctx, user.ID, user.LastUpdatesReadTime)
	if err != nil {
		return err
	}
	return s.Notify(ctx, user.ID, models.NotifyRepostCount, len(reposts))
}

// ResetCounters zeroes the four unread counters after the user has read
// their feed.
func (s *Service) ResetCounters(ctx context.Context, user *models.User) error {
	for _, name := range []string{
		models.NotifyFollowCount,
		models.NotifyLikeCount,
		models.NotifyCommentCount,
		models.NotifyRepostCount,
	} {
		if err := s.Notify(ctx, user.ID, name, 0); err != nil {
			return err
		}
	}
	return nil
}

// Counters returns the user's current unread counter snapshot. Reads go
// through the Redis cache; every Notify invalidates the key.
func (s *Service) Counters(ctx context.Context, userID int64) (map[string]int, error) {
	key := cache.UnreadCountersKey(userID)
	if raw, err := s.cache.Get(key); err == nil {
		var counters map[string]int
		if err := json.Unmarshal([]byte(raw), &counters); err == nil {
			return counters, nil
		}
	}

	counters := make(map[string]int, 4)
	for _, name := range []string{
		models.NotifyFollowCount,
		models.NotifyLikeCount,
		models.NotifyCommentCount,
		models.NotifyRepostCount,
	} {
		notif, err := s.notifs.GetByName(ctx, userID, name)
		if err != nil {
			return nil, err
		}
		value := 0
		if notif != nil {
			if err := json.Unmarshal([]byte(notif.Payload), &value); err != nil {
				s.logger.Warn("unreadable counter payload", zap.Int64("user_id", userID), zap.String("name", name))
			}
		}
		counters[name] = value
	}

	if raw, err := json.Marshal(counters); err == nil {
		if err := s.cache.Set(key, raw, countersTTL); err != nil && err != cache.ErrCacheDisabled {
			s.logger.Warn("failed to cache unread counters", zap.Int64("user_id", userID), zap.Error(err))
		}
	}
	return counters, nil
}

// Notify stores the latest value for a named per-user notification. Only the
// newest value per name is kept.
func (s *Service) Notify(ctx context.Context, userID int64, name string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	notif := &models.Notification{
		Name:      name,
		UserID:    userID,
		Timestamp: float64(s.now().UnixNano()) / float64(time.Second),
		Payload:   string(payload),
	}
	if err := s.notifs.Replace(ctx, notif); err != nil {
		return err
	}
	if err := s.cache.Delete(cache.UnreadCountersKey(userID)); err != nil && err != cache.ErrCacheDisabled {
		s.logger.Warn("failed to invalidate unread counters", zap.Int64("user_id", userID), zap.Error(err))
	}
	return nil
}

// sliceNewest sorts items newest first and returns the requested window
func sliceNewest(items []Item, offset, limit int) []Item {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Timestamp.After(items[j].Timestamp)
	})
	if offset >= len(items) {
		return []Item{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
