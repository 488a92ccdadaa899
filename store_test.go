package blogapi

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "test_blog.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testPost(slug string, created time.Time, tags ...string) Post {
	return Post{
		Title:     "Post " + slug,
		Slug:      slug,
		Excerpt:   "excerpt for " + slug,
		Content:   "content body for " + slug,
		Author:    "Alex Carter",
		Tags:      tags,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestInsertAndGetPost(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	created := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	post := Post{
		Title:      "Test Post",
		Slug:       "test-post",
		Excerpt:    "A test post summary",
		Content:    "# Test Content\n\nThis is test content.",
		Author:     "Jordan Lee",
		Tags:       []string{"go", "testing", "go"},
		CoverImage: "",
		CreatedAt:  created,
		UpdatedAt:  created,
	}

	if err := s.InsertPost(ctx, post); err != nil {
		t.Fatalf("InsertPost failed: %v", err)
	}

	got, err := s.GetPost(ctx, "test-post")
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}

	if got.Title != post.Title {
		t.Errorf("Title = %q, want %q", got.Title, post.Title)
	}
	if got.Excerpt != post.Excerpt {
		t.Errorf("Excerpt = %q, want %q", got.Excerpt, post.Excerpt)
	}
	if got.Content != post.Content {
		t.Errorf("Content = %q, want %q", got.Content, post.Content)
	}
	if got.Author != post.Author {
		t.Errorf("Author = %q, want %q", got.Author, post.Author)
	}
	if got.CoverImage != "" {
		t.Errorf("CoverImage = %q, want empty", got.CoverImage)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created)
	}
	// duplicate tag values collapse to one
	if len(got.Tags) != 2 || got.Tags[0] != "go" || got.Tags[1] != "testing" {
		t.Errorf("Tags = %v, want [go testing]", got.Tags)
	}
}

func TestInsertDuplicateSlug(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if err := s.InsertPost(ctx, testPost("dup", now, "go")); err != nil {
		t.Fatalf("first InsertPost failed: %v", err)
	}
	err := s.InsertPost(ctx, testPost("dup", now, "web"))
	if !errors.Is(err, ErrDuplicateSlug) {
		t.Fatalf("expected ErrDuplicateSlug, got %v", err)
	}

	count, err := s.CountPosts(ctx)
	if err != nil {
		t.Fatalf("CountPosts failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
	// first insert wins untouched
	got, err := s.GetPost(ctx, "dup")
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "go" {
		t.Errorf("Tags = %v, want [go]", got.Tags)
	}
}

func TestInsertPostValidation(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	p := testPost("no-title", time.Now().UTC())
	p.Title = "  "
	err := s.InsertPost(ctx, p)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if verr.Field != "title" {
		t.Errorf("Field = %q, want title", verr.Field)
	}
}

func TestGetPostNotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetPost(context.Background(), "nonexistent")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestListPostsNewestFirst(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, slug := range []string{"oldest", "middle", "newest"} {
		if err := s.InsertPost(ctx, testPost(slug, base.Add(time.Duration(i)*time.Hour), "go")); err != nil {
			t.Fatalf("InsertPost failed: %v", err)
		}
	}

	got, total, err := s.ListPosts(ctx, ListQuery{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if total != 3 {
		t.Errorf("total = %d, want 3", total)
	}
	want := []string{"newest", "middle", "oldest"}
	for i, w := range want {
		if got[i].Slug != w {
			t.Errorf("posts[%d] = %q, want %q", i, got[i].Slug, w)
		}
	}
}

func TestListPostsPaginationComplete(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	// one shared timestamp, like a seed batch: ordering must still be
	// stable across windows
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	slugs := []string{"post-a", "post-b", "post-c", "post-d", "post-e"}
	for _, slug := range slugs {
		if err := s.InsertPost(ctx, testPost(slug, now, "go")); err != nil {
			t.Fatalf("InsertPost failed: %v", err)
		}
	}

	seen := make(map[string]int)
	var collected int
	for page := 1; page <= Pages(len(slugs), 2); page++ {
		got, total, err := s.ListPosts(ctx, ListQuery{Page: page, Limit: 2})
		if err != nil {
			t.Fatalf("ListPosts page %d failed: %v", page, err)
		}
		if total != len(slugs) {
			t.Errorf("total = %d, want %d", total, len(slugs))
		}
		for _, p := range got {
			seen[p.Slug]++
			collected++
		}
	}
	if collected != len(slugs) {
		t.Errorf("collected %d posts across pages, want %d", collected, len(slugs))
	}
	for _, slug := range slugs {
		if seen[slug] != 1 {
			t.Errorf("slug %q seen %d times, want exactly once", slug, seen[slug])
		}
	}
}

func TestListPostsTagExactMatch(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if err := s.InsertPost(ctx, testPost("ai-post", now, "ai", "tech")); err != nil {
		t.Fatalf("InsertPost failed: %v", err)
	}
	if err := s.InsertPost(ctx, testPost("generated-post", now, "ai-generated")); err != nil {
		t.Fatalf("InsertPost failed: %v", err)
	}

	got, total, err := s.ListPosts(ctx, ListQuery{Page: 1, Limit: 10, Tag: "ai"})
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if total != 1 || len(got) != 1 || got[0].Slug != "ai-post" {
		t.Fatalf("tag=ai matched %v (total %d), want only ai-post", got, total)
	}

	// exact equality is case-sensitive
	_, total, err = s.ListPosts(ctx, ListQuery{Page: 1, Limit: 10, Tag: "AI"})
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if total != 0 {
		t.Errorf("tag=AI matched %d posts, want 0", total)
	}
}

func TestListPostsSearch(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	inTitle := testPost("in-title", now, "go")
	inTitle.Title = "All About Lorem"
	inContent := testPost("in-content", now, "go")
	inContent.Content = "Lorem ipsum dolor sit amet."
	inTag := testPost("in-tag", now, "lorem-notes")
	miss := testPost("miss", now, "go")

	for _, p := range []Post{inTitle, inContent, inTag, miss} {
		if err := s.InsertPost(ctx, p); err != nil {
			t.Fatalf("InsertPost failed: %v", err)
		}
	}

	got, total, err := s.ListPosts(ctx, ListQuery{Page: 1, Limit: 10, Q: "LOREM"})
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if total != 3 {
		t.Fatalf("q=LOREM matched %d posts, want 3", total)
	}
	for _, p := range got {
		if p.Slug == "miss" {
			t.Errorf("post %q should not match", p.Slug)
		}
	}

	_, total, err = s.ListPosts(ctx, ListQuery{Page: 1, Limit: 10, Q: "zzz-absent"})
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if total != 0 {
		t.Errorf("q=zzz-absent matched %d posts, want 0", total)
	}
}

func TestListPostsSearchNonASCII(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	p := testPost("iceman", now, "history")
	p.Title = "Ötzi the Iceman"
	if err := s.InsertPost(ctx, p); err != nil {
		t.Fatalf("InsertPost failed: %v", err)
	}

	// ASCII letters fold case-insensitively; the non-ASCII rune must
	// match as written on both sides
	_, total, err := s.ListPosts(ctx, ListQuery{Page: 1, Limit: 10, Q: "ÖTZI"})
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if total != 1 {
		t.Errorf("q=ÖTZI matched %d posts, want 1", total)
	}
}

func TestListPostsSearchAndTag(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	both := testPost("both", now, "ai")
	both.Content = "lorem ipsum"
	tagOnly := testPost("tag-only", now, "ai")
	qOnly := testPost("q-only", now, "tech")
	qOnly.Content = "lorem ipsum"

	for _, p := range []Post{both, tagOnly, qOnly} {
		if err := s.InsertPost(ctx, p); err != nil {
			t.Fatalf("InsertPost failed: %v", err)
		}
	}

	got, total, err := s.ListPosts(ctx, ListQuery{Page: 1, Limit: 10, Q: "lorem", Tag: "ai"})
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if total != 1 || len(got) != 1 || got[0].Slug != "both" {
		t.Fatalf("combined filter matched %v (total %d), want only both", got, total)
	}
}

func TestListTags(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if err := s.InsertPost(ctx, testPost("p1", now, "go", "web")); err != nil {
		t.Fatalf("InsertPost failed: %v", err)
	}
	if err := s.InsertPost(ctx, testPost("p2", now, "go", "api")); err != nil {
		t.Fatalf("InsertPost failed: %v", err)
	}

	got, err := s.ListTags(ctx)
	if err != nil {
		t.Fatalf("ListTags failed: %v", err)
	}
	want := []string{"api", "go", "web"}
	if len(got) != len(want) {
		t.Fatalf("ListTags = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ListTags[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{",", nil},
		{",go,", []string{"go"}},
		{",go,web,", []string{"go", "web"}},
		{",go, web ,rust,", []string{"go", "web", "rust"}},
	}

	for _, tt := range tests {
		got := parseTags(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("parseTags(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseTags(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
			}
		}
	}
}
