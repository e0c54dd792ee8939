package api

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/covernet/covernet/internal/feed"
	"github.com/covernet/covernet/internal/models"
)

// JSON serializers for every resource. Timestamps render as RFC 3339 UTC,
// nullable columns as null.

func renderTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func renderNullString(s sql.NullString) interface{} {
	if !s.Valid {
		return nil
	}
	return s.String
}

func renderNullInt(n sql.NullInt64) interface{} {
	if !n.Valid {
		return nil
	}
	return n.Int64
}

func renderUser(u *models.User) gin.H {
	return gin.H{
		"id":          u.ID,
		"username":    u.Username,
		"email":       u.Email,
		"name":        u.Name,
		"is_admin":    u.IsAdmin,
		"created_at":  renderTime(u.CreatedAt),
		"modified_at": renderTime(u.ModifiedAt),
		"_links": gin.H{
			"self":      fmt.Sprintf("/api/users/%d", u.ID),
			"followers": fmt.Sprintf("/api/users/%d/followers", u.ID),
			"followed":  fmt.Sprintf("/api/users/%d/followed", u.ID),
			"posts":     fmt.Sprintf("/api/users/%d/posts", u.ID),
		},
	}
}

func renderPost(p *models.Post) gin.H {
	return gin.H{
		"id":          p.ID,
		"body":        p.Body,
		"media_url":   renderNullString(p.MediaURL),
		"media_class": renderNullString(p.MediaClass),
		"media_type":  renderNullString(p.MediaType),
		"language":    p.Language,
		"is_comment":  p.IsComment,
		"is_repost":   p.IsRepost,
		"user_id":     p.UserID,
		"created_at":  renderTime(p.CreatedAt),
		"modified_at": renderTime(p.ModifiedAt),
		"_links": gin.H{
			"self":     fmt.Sprintf("/api/posts/%d", p.ID),
			"author":   fmt.Sprintf("/api/users/%d", p.UserID),
			"comments": fmt.Sprintf("/api/posts/%d/comments", p.ID),
			"reposts":  fmt.Sprintf("/api/posts/%d/reposts", p.ID),
			"likes":    fmt.Sprintf("/api/posts/%d/likes", p.ID),
		},
	}
}

func renderFollow(f *models.Follow) gin.H {
	return gin.H{
		"follower_id": f.FollowerID,
		"followed_id": f.FollowedID,
		"created_at":  renderTime(f.CreatedAt),
		"modified_at": renderTime(f.ModifiedAt),
		"_links": gin.H{
			"self":     fmt.Sprintf("/api/follows/%d/%d", f.FollowerID, f.FollowedID),
			"follower": fmt.Sprintf("/api/users/%d", f.FollowerID),
			"followed": fmt.Sprintf("/api/users/%d", f.FollowedID),
		},
	}
}

func renderLike(l *models.Like) gin.H {
	return gin.H{
		"user_id":     l.UserID,
		"post_id":     l.PostID,
		"created_at":  renderTime(l.CreatedAt),
		"modified_at": renderTime(l.ModifiedAt),
		"_links": gin.H{
			"self": fmt.Sprintf("/api/likes/%d/%d", l.UserID, l.PostID),
			"user": fmt.Sprintf("/api/users/%d", l.UserID),
			"post": fmt.Sprintf("/api/posts/%d", l.PostID),
		},
	}
}

func renderComment(cm *models.Comment) gin.H {
	return gin.H{
		"parent_id":   cm.ParentID,
		"comment_id":  cm.CommentID,
		"created_at":  renderTime(cm.CreatedAt),
		"modified_at": renderTime(cm.ModifiedAt),
		"_links": gin.H{
			"self":    fmt.Sprintf("/api/comments/%d/%d", cm.ParentID, cm.CommentID),
			"parent":  fmt.Sprintf("/api/posts/%d", cm.ParentID),
			"comment": fmt.Sprintf("/api/posts/%d", cm.CommentID),
		},
	}
}

func renderRepost(rp *models.Repost) gin.H {
	return gin.H{
		"root_id":     rp.RootID,
		"repost_id":   rp.RepostID,
		"created_at":  renderTime(rp.CreatedAt),
		"modified_at": renderTime(rp.ModifiedAt),
		"_links": gin.H{
			"self":   fmt.Sprintf("/api/reposts/%d/%d", rp.RootID, rp.RepostID),
			"root":   fmt.Sprintf("/api/posts/%d", rp.RootID),
			"repost": fmt.Sprintf("/api/posts/%d", rp.RepostID),
		},
	}
}

func renderNotification(n *models.Notification) gin.H {
	return gin.H{
		"id":        n.ID,
		"name":      n.Name,
		"user_id":   n.UserID,
		"timestamp": n.Timestamp,
		"payload":   n.Payload,
	}
}

func renderTask(t *models.Task, progress int) gin.H {
	return gin.H{
		"id":          t.ID,
		"name":        t.Name,
		"description": t.Description,
		"user_id":     t.UserID,
		"complete":    t.Complete,
		"progress":    progress,
		"_links": gin.H{
			"self": fmt.Sprintf("/api/tasks/%s", t.ID),
			"user": fmt.Sprintf("/api/users/%d", t.UserID),
		},
	}
}

func renderFeedItem(item feed.Item) gin.H {
	out := gin.H{
		"kind":      item.Kind,
		"timestamp": renderTime(item.Timestamp),
	}
	switch payload := item.Payload.(type) {
	case *models.Follow:
		out["follow"] = renderFollow(payload)
	case *models.Like:
		out["like"] = renderLike(payload)
	case *models.Comment:
		out["comment"] = renderComment(payload)
	case *models.Repost:
		out["repost"] = renderRepost(payload)
	}
	return out
}

func renderGroup(g *models.Group) gin.H {
	return gin.H{
		"kgcId":       g.KgcID,
		"groupName":   g.GroupName,
		"country":     g.Country,
		"startYear":   renderNullInt(g.StartYear),
		"endYear":     renderNullInt(g.EndYear),
		"created_at":  renderTime(g.CreatedAt),
		"modified_at": renderTime(g.ModifiedAt),
		"_links": gin.H{
			"self":          fmt.Sprintf("/api/groups/%d", g.KgcID),
			"organizations": fmt.Sprintf("/api/groups/%d/organizations", g.KgcID),
		},
	}
}

func renderOrganization(o *models.Organization) gin.H {
	return gin.H{
		"facId":       o.FacID,
		"kgcId":       o.KgcID,
		"facName":     o.FacName,
		"startYear":   renderNullInt(o.StartYear),
		"endYear":     renderNullInt(o.EndYear),
		"created_at":  renderTime(o.CreatedAt),
		"modified_at": renderTime(o.ModifiedAt),
		"_links": gin.H{
			"self":              fmt.Sprintf("/api/organizations/%d", o.FacID),
			"group":             fmt.Sprintf("/api/groups/%d", o.KgcID),
			"violentTactics":    fmt.Sprintf("/api/organizations/%d/violent_tactics", o.FacID),
			"nonviolentTactics": fmt.Sprintf("/api/organizations/%d/nonviolent_tactics", o.FacID),
		},
	}
}

func renderViolentTactic(t *models.ViolentTactic) gin.H {
	return gin.H{
		"id":                   t.ID,
		"facId":                t.FacID,
		"year":                 t.Year,
		"againstState":         t.AgainstState,
		"againstStateFatal":    t.AgainstStateFatal,
		"againstOrg":           t.AgainstOrg,
		"againstOrgFatal":      t.AgainstOrgFatal,
		"againstIngroup":       t.AgainstIngroup,
		"againstIngroupFatal":  t.AgainstIngroupFatal,
		"againstOutgroup":      t.AgainstOutgroup,
		"againstOutgroupFatal": t.AgainstOutgroupFatal,
		"created_at":           renderTime(t.CreatedAt),
		"modified_at":          renderTime(t.ModifiedAt),
		"_links": gin.H{
			"self":         fmt.Sprintf("/api/violent_tactics/%d", t.ID),
			"organization": fmt.Sprintf("/api/organizations/%d", t.FacID),
		},
	}
}

func renderNonviolentTactic(t *models.NonviolentTactic) gin.H {
	return gin.H{
		"id":                      t.ID,
		"facId":                   t.FacID,
		"year":                    t.Year,
		"economicNoncooperation":  t.EconomicNoncooperation,
		"protestDemonstration":    t.ProtestDemonstration,
		"nonviolentIntervention":  t.NonviolentIntervention,
		"socialNoncooperation":    t.SocialNoncooperation,
		"institutionalAction":     t.InstitutionalAction,
		"politicalNoncooperation": t.PoliticalNoncooperation,
		"created_at":              renderTime(t.CreatedAt),
		"modified_at":             renderTime(t.ModifiedAt),
		"_links": gin.H{
			"self":         fmt.Sprintf("/api/nonviolent_tactics/%d", t.ID),
			"organization": fmt.Sprintf("/api/organizations/%d", t.FacID),
		},
	}
}
