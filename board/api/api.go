// Package api exposes the backend's operations as typed calls over the
// request gateway. It owns the response-envelope unwrapping and the wire
// shapes; callers deal in board/types values only.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"juicyboard/client-go/board/gateway"
	"juicyboard/client-go/board/session"
	"juicyboard/client-go/board/types"
)

type Client struct {
	GW      *gateway.Client
	Session *session.Store
}

func New(gw *gateway.Client, sess *session.Store) *Client {
	return &Client{GW: gw, Session: sess}
}

// Upload is a file selected by the user for a multipart request.
type Upload struct {
	Filename string
	Data     []byte
}

// Login obtains a token, fetches the profile with that token, and persists
// identity and credential as one atomic session write. Nothing is stored
// until both calls have succeeded.
func (c *Client) Login(ctx context.Context, email, password string) (*types.Identity, error) {
	raw, err := c.GW.Call(ctx, http.MethodPost, "/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	var res struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(gateway.Unwrap(raw), &res); err != nil {
		return nil, fmt.Errorf("login payload: %w", err)
	}
	if res.AccessToken == "" {
		return nil, fmt.Errorf("login payload: missing access_token")
	}

	// The session is not written yet, so /me is called with the fresh
	// token explicitly.
	id, err := c.withToken(res.AccessToken).Me(ctx)
	if err != nil {
		return nil, err
	}
	if err := c.Session.Save(ctx, *id, res.AccessToken); err != nil {
		return nil, err
	}
	return id, nil
}

func (c *Client) withToken(token string) *Client {
	return &Client{GW: c.GW.WithCreds(gateway.StaticToken(token)), Session: c.Session}
}

// Register signs a new user up. The backend takes a multipart form so the
// optional profile image rides along with the fields.
func (c *Client) Register(ctx context.Context, email, password, nickname string, profileImage *Upload) error {
	fields := map[string]string{
		"email":    email,
		"password": password,
		"nickname": nickname,
	}
	body, contentType, err := buildMultipart(fields, "profile_image", profileImage)
	if err != nil {
		return err
	}
	_, err = c.GW.CallRaw(ctx, http.MethodPost, "/signup", body, contentType)
	return err
}

func (c *Client) Me(ctx context.Context) (*types.Identity, error) {
	raw, err := c.GW.Call(ctx, http.MethodGet, "/me", nil)
	if err != nil {
		return nil, err
	}
	var id types.Identity
	if err := json.Unmarshal(gateway.Unwrap(raw), &id); err != nil {
		return nil, fmt.Errorf("profile payload: %w", err)
	}
	return &id, nil
}

// UpdateProfile patches the nickname and, when given, the profile image.
// On success the stored session identity is refreshed in place; the
// credential half of the pair is untouched.
func (c *Client) UpdateProfile(ctx context.Context, nickname string, profileImage *Upload) error {
	body, contentType, err := buildMultipart(map[string]string{"nickname": nickname}, "profile_image", profileImage)
	if err != nil {
		return err
	}
	if _, err := c.GW.CallRaw(ctx, http.MethodPatch, "/me", body, contentType); err != nil {
		return err
	}

	if cur := c.Session.Current(ctx); cur != nil {
		id := cur.Identity
		id.Nickname = nickname
		return c.Session.UpdateIdentity(ctx, id)
	}
	return nil
}

// DeleteAccount removes the account server-side, then clears the local
// session.
func (c *Client) DeleteAccount(ctx context.Context) error {
	if _, err := c.GW.Call(ctx, http.MethodDelete, "/me", nil); err != nil {
		return err
	}
	return c.Session.Clear(ctx)
}

func (c *Client) UpdatePassword(ctx context.Context, password string) error {
	_, err := c.GW.Call(ctx, http.MethodPatch, "/me/password", map[string]string{
		"password": password,
	})
	return err
}

// ListPosts requests one page of the post feed. The first page is requested
// with no cursor parameter; later pages replay the server's continuation
// token verbatim. Both the {posts, has_next, next_cursor} shape and a bare
// post list are accepted.
func (c *Client) ListPosts(ctx context.Context, cursor string, limit int) (*types.PostPage, error) {
	path := "/posts?limit=" + strconv.Itoa(limit)
	if cursor != "" {
		path = "/posts?cursor=" + url.QueryEscape(cursor) + "&limit=" + strconv.Itoa(limit)
	}
	raw, err := c.GW.Call(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	return decodePostPage(gateway.Unwrap(raw))
}

func decodePostPage(data json.RawMessage) (*types.PostPage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var posts []types.Post
		if err := json.Unmarshal(trimmed, &posts); err != nil {
			return nil, fmt.Errorf("post list payload: %w", err)
		}
		return &types.PostPage{Posts: posts}, nil
	}

	var res struct {
		Posts      []types.Post `json:"posts"`
		HasNext    bool         `json:"has_next"`
		NextCursor *json.Number `json:"next_cursor"`
	}
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	if err := dec.Decode(&res); err != nil {
		return nil, fmt.Errorf("post page payload: %w", err)
	}
	page := &types.PostPage{Posts: res.Posts, HasNext: res.HasNext}
	if res.NextCursor != nil {
		page.NextCursor = res.NextCursor.String()
	}
	return page, nil
}

func (c *Client) GetPost(ctx context.Context, id string) (*types.Post, error) {
	raw, err := c.GW.Call(ctx, http.MethodGet, "/posts/"+url.PathEscape(id), nil)
	if err != nil {
		return nil, err
	}
	var p types.Post
	if err := json.Unmarshal(gateway.Unwrap(raw), &p); err != nil {
		return nil, fmt.Errorf("post payload: %w", err)
	}
	return &p, nil
}

// CreatePost returns the new post's id, or "" when the backend did not
// report one.
func (c *Client) CreatePost(ctx context.Context, title, content, image string) (string, error) {
	raw, err := c.GW.Call(ctx, http.MethodPost, "/posts", postBody(title, content, image))
	if err != nil {
		return "", err
	}
	var res struct {
		PostID *json.Number `json:"post_id"`
	}
	dec := json.NewDecoder(bytes.NewReader(gateway.Unwrap(raw)))
	dec.UseNumber()
	if err := dec.Decode(&res); err != nil || res.PostID == nil {
		return "", nil
	}
	return res.PostID.String(), nil
}

func (c *Client) UpdatePost(ctx context.Context, id, title, content, image string) error {
	_, err := c.GW.Call(ctx, http.MethodPatch, "/posts/"+url.PathEscape(id), postBody(title, content, image))
	return err
}

func (c *Client) DeletePost(ctx context.Context, id string) error {
	_, err := c.GW.Call(ctx, http.MethodDelete, "/posts/"+url.PathEscape(id), nil)
	return err
}

// postBody sends image as null, not "", when no image is set.
func postBody(title, content, image string) map[string]any {
	var img any
	if image != "" {
		img = image
	}
	return map[string]any{"title": title, "content": content, "image": img}
}

func (c *Client) SetLike(ctx context.Context, postID string, liked bool) error {
	_, err := c.GW.Call(ctx, http.MethodPost, "/posts/"+url.PathEscape(postID)+"/like", map[string]bool{
		"is_like": liked,
	})
	return err
}

func (c *Client) AddComment(ctx context.Context, postID, content string) error {
	_, err := c.GW.Call(ctx, http.MethodPost, "/posts/"+url.PathEscape(postID)+"/comments", map[string]string{
		"content": content,
	})
	return err
}

func (c *Client) EditComment(ctx context.Context, postID, commentID, content string) error {
	path := "/posts/" + url.PathEscape(postID) + "/comments/" + url.PathEscape(commentID)
	_, err := c.GW.Call(ctx, http.MethodPatch, path, map[string]string{
		"content": content,
	})
	return err
}

// UploadImage stores an image and returns its URL.
func (c *Client) UploadImage(ctx context.Context, file Upload) (string, error) {
	body, contentType, err := buildMultipart(nil, "file", &file)
	if err != nil {
		return "", err
	}
	raw, err := c.GW.CallRaw(ctx, http.MethodPost, "/upload/image", body, contentType)
	if err != nil {
		return "", err
	}
	var res struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(gateway.Unwrap(raw), &res); err != nil {
		return "", fmt.Errorf("upload payload: %w", err)
	}
	return res.URL, nil
}

// Predict submits an image to the classification endpoint.
func (c *Client) Predict(ctx context.Context, file Upload) (*types.Prediction, error) {
	body, contentType, err := buildMultipart(nil, "file", &file)
	if err != nil {
		return nil, err
	}
	raw, err := c.GW.CallRaw(ctx, http.MethodPost, "/predict-fruit-veg", body, contentType)
	if err != nil {
		return nil, err
	}
	var pred types.Prediction
	if err := json.Unmarshal(gateway.Unwrap(raw), &pred); err != nil {
		return nil, fmt.Errorf("prediction payload: %w", err)
	}
	return &pred, nil
}

func buildMultipart(fields map[string]string, fileField string, file *Upload) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	if file != nil {
		fw, err := w.CreateFormFile(fileField, file.Filename)
		if err != nil {
			return nil, "", err
		}
		if _, err := fw.Write(file.Data); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
