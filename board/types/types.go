package types

import "strconv"

// Identity is the authenticated user's profile, as returned by GET /me and
// as stored in the session. Field names follow the backend's JSON.
type Identity struct {
	UserID       int64  `json:"user_id"`
	Email        string `json:"email"`
	Nickname     string `json:"nickname"`
	ProfileImage string `json:"profile_image,omitempty"`
}

type Comment struct {
	CommentID int64  `json:"comment_id"`
	UserID    int64  `json:"user_id"`
	Content   string `json:"content"`
}

// AuthorName is the display name for a comment author. The listing payload
// carries no nickname for comments, so this is always the id fallback form.
func (c Comment) AuthorName() string {
	return "#" + strconv.FormatInt(c.UserID, 10)
}

// Post is the server-owned projection of a post. The listing payload omits
// Comments; the detail payload includes them in server order.
type Post struct {
	PostID       int64     `json:"post_id"`
	UserID       int64     `json:"user_id"`
	UserNickname string    `json:"user_nickname,omitempty"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	Image        string    `json:"image,omitempty"`
	LikeCount    int       `json:"like_count"`
	ViewCount    int       `json:"view_count"`
	Comments     []Comment `json:"comments,omitempty"`
}

func (p Post) AuthorName() string {
	if p.UserNickname != "" {
		return p.UserNickname
	}
	return "#" + strconv.FormatInt(p.UserID, 10)
}

// PostPage is one page of the cursor-paginated post listing. NextCursor is
// an opaque continuation token; the client never interprets it, only replays
// it on the next request. Empty means the server declared no further pages.
type PostPage struct {
	Posts      []Post
	HasNext    bool
	NextCursor string
}

// Prediction is the image-classification result.
type Prediction struct {
	Top1Label     string             `json:"top1_label"`
	Top1Score     float64            `json:"top1_score"`
	Probabilities map[string]float64 `json:"probabilities"`
}
