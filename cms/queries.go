package cms

import (
	"context"
)

const publishedPosts = `*[_type == "post" && defined(slug.current) && !(_id in path("drafts.**"))]`

const postProjection = `{
  _id,
  title,
  "slug": slug.current,
  excerpt,
  publishedAt,
  mainImage{asset{_ref}, alt},
  body
}`

const (
	listPostsQuery = publishedPosts + ` | order(publishedAt desc) ` + postProjection
	getPostQuery   = `*[_type == "post" && slug.current == $slug && !(_id in path("drafts.**"))][0] ` + postProjection
	listSlugsQuery = publishedPosts + ` | order(publishedAt desc).slug.current`
)

// ListPosts returns every published post, newest first. Each call is a
// fresh read and returns a new slice.
func (c *Client) ListPosts(ctx context.Context) ([]Post, error) {
	var wire []wirePost
	if err := c.fetch(ctx, "list_posts", listPostsQuery, nil, &wire); err != nil {
		return nil, err
	}

	posts := make([]Post, 0, len(wire))
	for _, w := range wire {
		posts = append(posts, w.post())
	}
	return posts, nil
}

// GetPost returns the post whose slug equals slug exactly. ErrNotFound is
// returned when there is no such post.
func (c *Client) GetPost(ctx context.Context, slug string) (Post, error) {
	if slug == "" {
		return Post{}, ErrNotFound
	}

	var wire *wirePost
	if err := c.fetch(ctx, "get_post", getPostQuery, map[string]string{"slug": slug}, &wire); err != nil {
		return Post{}, err
	}
	if wire == nil {
		return Post{}, ErrNotFound
	}
	return wire.post(), nil
}

// ListSlugs returns the slug of every published post.
func (c *Client) ListSlugs(ctx context.Context) ([]string, error) {
	var slugs []string
	if err := c.fetch(ctx, "list_slugs", listSlugsQuery, nil, &slugs); err != nil {
		return nil, err
	}
	if slugs == nil {
		slugs = []string{}
	}
	return slugs, nil
}
