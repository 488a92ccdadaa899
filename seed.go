package blogapi

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultSeedTotal is the number of sample posts a seed run targets when
// the caller does not ask for a specific count.
const DefaultSeedTotal = 1500

// Fixed pools for sample content. Every generated field derives from the
// post index and these lists, so re-seeding reproduces identical records.
var (
	seedAuthors = []string{
		"Alex Carter", "Jordan Lee", "Taylor Morgan", "Riley Brooks", "Casey Kim",
		"Avery Patel", "Jamie Rivera", "Morgan Blake", "Quinn Parker", "Drew Nguyen",
	}
	seedTagPool = []string{
		"tech", "design", "business", "ai", "dev", "life", "product", "growth", "marketing", "tutorial",
	}
	seedParagraphs = []string{
		"Lorem ipsum dolor sit amet, consectetur adipiscing elit. Vivamus at mi sit amet odio ultrices pulvinar.",
		"Curabitur at sapien sollicitudin, aliquam neque et, lacinia augue. Mauris nec massa quis justo cursus.",
		"Suspendisse potenti. Ut a ligula sed arcu vestibulum dapibus vitae non mi. Donec vel sagittis risus.",
		"Integer vitae dui at sapien volutpat ullamcorper. Praesent feugiat, enim vitae suscipit dapibus, urna massa.",
		"Sed sit amet tortor vitae justo scelerisque rhoncus. Cras at semper elit. Proin pretium, sapien ut bibendum.",
	}
)

// generatePost synthesizes the sample post for index i. It is a pure
// function of i apart from the batch timestamp, which the caller supplies
// once per run.
func generatePost(i int, now time.Time) Post {
	idx := fmt.Sprintf("%04d", i)
	title := "Sample Blog Post " + idx
	content := strings.Join([]string{
		"# " + title,
		seedParagraphs[(i+0)%len(seedParagraphs)],
		seedParagraphs[(i+1)%len(seedParagraphs)],
		seedParagraphs[(i+2)%len(seedParagraphs)],
		"## Key Takeaways",
		"- Insight one about the topic",
		"- Practical tip for readers",
		"- Closing thought to inspire action",
	}, "\n\n")
	tags := DedupeTags([]string{
		seedTagPool[i%len(seedTagPool)],
		seedTagPool[(i*3)%len(seedTagPool)],
		seedTagPool[(i*7)%len(seedTagPool)],
	})
	return Post{
		Title:     title,
		Slug:      Slugify(title),
		Excerpt:   fmt.Sprintf("This is a short summary for post %s. %s", idx, seedParagraphs[i%len(seedParagraphs)]),
		Content:   content,
		Author:    seedAuthors[i%len(seedAuthors)],
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Seed ensures the store holds at least total posts, generating and
// inserting any shortfall. If the store already holds total or more, the
// run is a no-op reporting the existing count.
//
// Each record is inserted individually so re-seeding is idempotent: a slug
// that already exists is skipped and contributes nothing to Inserted. Any
// other insert failure aborts the batch — a duplicate is expected, a store
// failure is not.
func (s *Store) Seed(ctx context.Context, total int, now time.Time) (SeedResult, error) {
	existing, err := s.CountPosts(ctx)
	if err != nil {
		return SeedResult{}, fmt.Errorf("seed: count posts: %w", err)
	}
	if existing >= total {
		return SeedResult{Existing: existing, Total: existing}, nil
	}

	inserted := 0
	for i := 1; i <= total; i++ {
		p := generatePost(i, now)
		switch err := s.InsertPost(ctx, p); {
		case errors.Is(err, ErrDuplicateSlug):
			continue
		case err != nil:
			return SeedResult{Inserted: inserted, Existing: existing}, fmt.Errorf("seed: insert %q: %w", p.Slug, err)
		}
		inserted++
	}
	postsSeeded.Add(float64(inserted))

	count, err := s.CountPosts(ctx)
	if err != nil {
		return SeedResult{Inserted: inserted, Existing: existing}, fmt.Errorf("seed: count posts: %w", err)
	}
	return SeedResult{Inserted: inserted, Existing: existing, Total: count}, nil
}
