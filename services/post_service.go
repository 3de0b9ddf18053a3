package services

import (
	"strings"
	"time"

	"venturelync/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostService struct {
	DB          *gorm.DB
	Progression *ProgressionService
}

func NewPostService(db *gorm.DB, progression *ProgressionService) *PostService {
	return &PostService{DB: db, Progression: progression}
}

// FeedPost is one row of the feed/post listing with author info and counters
type FeedPost struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	Content         string    `json:"content"`
	XPEarned        int64     `json:"xp_earned"`
	CreatedAt       time.Time `json:"created_at"`
	AuthorName      string    `json:"author_name"`
	AuthorUsername  string    `json:"author_username"`
	AuthorImage     *string   `json:"author_image,omitempty"`
	AuthorLevel     int       `json:"author_level"`
	AuthorStreak    int       `json:"author_streak"`
	LikesCount      int64     `json:"likes_count"`
	CommentsCount   int64     `json:"comments_count"`
	UserHasLiked    bool      `json:"user_has_liked"`
	RecentBadgeIcon *string   `json:"recent_badge_icon,omitempty"`
}

// CreatePost records a qualifying activity: validates the typed request,
// resolves today's UTC calendar date, and hands off to the transactional
// progression update.
func (s *PostService) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	type Req struct {
		Content     string `json:"content"`
		IsFirstPost bool   `json:"is_first_post"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid JSON",
			"cause": err.Error(),
		})
	}
	if strings.TrimSpace(req.Content) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "content is required"})
	}

	today := CalendarDate(time.Now())
	post, event, err := s.Progression.RecordPost(userID, req.Content, req.IsFirstPost, today)
	if err != nil {
		if strings.Contains(err.Error(), "profile not found") {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create post",
			"cause": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"success":        true,
		"post_id":        post.ID,
		"xp_earned":      event.XPAwarded,
		"new_streak":     event.NewStreak,
		"badge_unlocked": event.BadgeUnlocked,
	})
}

// GetPosts returns the caller's posts (?user_only=true) or the global feed
func (s *PostService) GetPosts(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	userOnly := c.Query("user_only") == "true"

	query := `
		SELECT p.id, p.user_id, p.content, p.xp_earned, p.created_at,
		       up.name AS author_name,
		       up.username AS author_username,
		       up.profile_image AS author_image,
		       up.level AS author_level,
		       up.streak AS author_streak,
		       (SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id) AS likes_count,
		       (SELECT COUNT(*) FROM comments cm WHERE cm.post_id = p.id) AS comments_count,
		       EXISTS(SELECT 1 FROM likes l WHERE l.post_id = p.id AND l.user_id = @viewer) AS user_has_liked
		FROM posts p
		INNER JOIN user_profiles up ON up.user_id = p.user_id
		WHERE p.deleted_at IS NULL`
	if userOnly {
		query += ` AND p.user_id = @viewer`
	}
	query += ` ORDER BY p.created_at DESC`
	if !userOnly {
		query += ` LIMIT 50`
	}

	var posts []FeedPost
	if err := s.DB.Raw(query, map[string]interface{}{"viewer": userID}).Scan(&posts).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch posts",
			"cause": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"posts": posts})
}

// GetFeed returns the 50 most recent posts enriched with each author's most
// recently earned badge icon and the latest comment per post.
func (s *PostService) GetFeed(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	var posts []FeedPost
	if err := s.DB.Raw(`
		SELECT p.id, p.user_id, p.content, p.xp_earned, p.created_at,
		       up.name AS author_name,
		       up.username AS author_username,
		       up.profile_image AS author_image,
		       up.level AS author_level,
		       up.streak AS author_streak,
		       (SELECT bt.icon FROM user_badges ub
		          INNER JOIN badge_types bt ON bt.id = ub.badge_type_id
		          WHERE ub.user_id = p.user_id
		          ORDER BY ub.earned_at DESC LIMIT 1) AS recent_badge_icon,
		       (SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id) AS likes_count,
		       (SELECT COUNT(*) FROM comments cm WHERE cm.post_id = p.id) AS comments_count,
		       EXISTS(SELECT 1 FROM likes l WHERE l.post_id = p.id AND l.user_id = ?) AS user_has_liked
		FROM posts p
		INNER JOIN user_profiles up ON up.user_id = p.user_id
		WHERE p.deleted_at IS NULL
		ORDER BY p.created_at DESC
		LIMIT 50
	`, userID).Scan(&posts).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch feed",
			"cause": err.Error(),
		})
	}

	if len(posts) == 0 {
		return c.JSON(fiber.Map{"posts": posts})
	}

	// Top comment per post, one query for the page
	postIDs := make([]string, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}
	type topComment struct {
		PostID    string    `json:"-"`
		Content   string    `json:"content"`
		Username  string    `json:"username"`
		CreatedAt time.Time `json:"created_at"`
	}
	var comments []topComment
	if err := s.DB.Raw(`
		SELECT c.post_id, c.content, up.username, c.created_at
		FROM comments c
		INNER JOIN user_profiles up ON up.user_id = c.user_id
		WHERE c.post_id IN ? AND c.deleted_at IS NULL
		ORDER BY c.created_at DESC
	`, postIDs).Scan(&comments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch feed comments",
			"cause": err.Error(),
		})
	}

	topByPost := make(map[string]*topComment)
	for i := range comments {
		if _, ok := topByPost[comments[i].PostID]; !ok {
			topByPost[comments[i].PostID] = &comments[i]
		}
	}

	type feedItem struct {
		FeedPost
		TopComment *topComment `json:"top_comment,omitempty"`
	}
	items := make([]feedItem, len(posts))
	for i, p := range posts {
		items[i] = feedItem{FeedPost: p, TopComment: topByPost[p.ID]}
	}

	return c.JSON(fiber.Map{"posts": items})
}

// ToggleLike likes or unlikes a post. A fresh like credits social XP
// (core + reputation); an unlike does not claw XP back.
func (s *PostService) ToggleLike(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	postID := c.Params("id")

	var existing models.Like
	err := s.DB.Where("user_id = ? AND post_id = ?", userID, postID).First(&existing).Error
	if err == nil {
		if err := s.DB.Delete(&existing).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to unlike post",
				"cause": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"liked": false})
	}
	if err != gorm.ErrRecordNotFound {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to process like",
			"cause": err.Error(),
		})
	}

	var post models.Post
	if err := s.DB.Select("id").Where("id = ?", postID).First(&post).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "post not found"})
	}

	like := models.Like{ID: uuid.NewString(), UserID: userID, PostID: postID}
	if err := s.DB.Create(&like).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to like post",
			"cause": err.Error(),
		})
	}

	if err := s.Progression.AwardSocialXP(userID, DefaultSocialXPWeights.LikeXP, "reputation"); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to award like XP",
			"cause": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"liked": true})
}

// CommentNode is a comment with author info and nested replies
type CommentNode struct {
	ID        string         `json:"id"`
	PostID    string         `json:"post_id"`
	UserID    string         `json:"user_id"`
	Content   string         `json:"content"`
	ParentID  *string        `json:"parent_id,omitempty"`
	UserName  string         `json:"user_name"`
	Username  string         `json:"username"`
	Level     int            `json:"level"`
	CreatedAt time.Time      `json:"created_at"`
	Replies   []*CommentNode `json:"replies"`
}

// GetComments returns a post's comments as a nested tree (one reply level)
func (s *PostService) GetComments(c *fiber.Ctx) error {
	postID := c.Query("post_id")
	if postID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "post_id is required"})
	}

	var flat []CommentNode
	if err := s.DB.Raw(`
		SELECT c.id, c.post_id, c.user_id, c.content, c.parent_id, c.created_at,
		       up.name AS user_name, up.username, up.level
		FROM comments c
		INNER JOIN user_profiles up ON up.user_id = c.user_id
		WHERE c.post_id = ? AND c.deleted_at IS NULL
		ORDER BY c.created_at ASC
	`, postID).Scan(&flat).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to fetch comments",
			"cause": err.Error(),
		})
	}

	byID := make(map[string]*CommentNode, len(flat))
	roots := make([]*CommentNode, 0, len(flat))
	for i := range flat {
		flat[i].Replies = []*CommentNode{}
		byID[flat[i].ID] = &flat[i]
	}
	for i := range flat {
		node := &flat[i]
		if node.ParentID == nil {
			roots = append(roots, node)
		} else if parent, ok := byID[*node.ParentID]; ok {
			parent.Replies = append(parent.Replies, node)
		} else {
			roots = append(roots, node) // orphaned reply, surface at top level
		}
	}

	return c.JSON(fiber.Map{"comments": roots})
}

// CreateComment adds a comment (optionally a reply) and credits community XP
func (s *PostService) CreateComment(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)

	type Req struct {
		PostID   string  `json:"post_id"`
		Content  string  `json:"content"`
		ParentID *string `json:"parent_id"`
	}
	var req Req
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid JSON",
			"cause": err.Error(),
		})
	}
	if req.PostID == "" || strings.TrimSpace(req.Content) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "post_id and content are required"})
	}

	var post models.Post
	if err := s.DB.Select("id").Where("id = ?", req.PostID).First(&post).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "post not found"})
	}

	comment := models.Comment{
		ID:       uuid.NewString(),
		PostID:   req.PostID,
		UserID:   userID,
		Content:  req.Content,
		ParentID: req.ParentID,
	}
	if err := s.DB.Create(&comment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create comment",
			"cause": err.Error(),
		})
	}

	if err := s.Progression.AwardSocialXP(userID, DefaultSocialXPWeights.CommentXP, "community"); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to award comment XP",
			"cause": err.Error(),
		})
	}

	return c.JSON(fiber.Map{"success": true, "comment": comment})
}
