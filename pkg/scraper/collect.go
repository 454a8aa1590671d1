package scraper

import (
	"context"

	"tokscraper/pkg/errors"
	"tokscraper/pkg/tiktok"
)

// collect walks the listing feed for target page by page. Pagination is
// strictly sequential: each page's cursor is needed before the next request
// can be signed. It returns the collected posts in feed order plus the final
// cursor for checkpointing.
//
// Termination: desired count reached, the feed reports no more pages, or a
// page yields zero unseen records. The last condition guards against feeds
// that repeat their tail forever.
func (s *Scraper) collect(ctx context.Context, target *tiktok.ScrapeTarget, desired int, startCursor int64) ([]tiktok.Post, int64, error) {
	cursor := startCursor
	if cursor < target.MinCursor {
		cursor = target.MinCursor
	}

	seen := make(map[string]bool)
	var posts []tiktok.Post

	for {
		listURL := tiktok.ListingURL(s.client.BaseURL(), *target, cursor, 0)

		sig, err := s.signer.Sign(ctx, listURL)
		if err != nil {
			return posts, cursor, err
		}

		page, err := s.client.FetchItemList(ctx, tiktok.SignedURL(listURL, sig))
		if err != nil {
			return posts, cursor, errors.Newf(errors.KindCollection,
				"collection failed at cursor %d: %v", cursor, err)
		}
		if page.StatusCode != 0 {
			return posts, cursor, errors.Newf(errors.KindCollection,
				"collection failed at cursor %d: status %d", cursor, page.StatusCode)
		}

		added := 0
		truncated := false
		for i, item := range page.Items {
			if seen[item.ID] {
				continue
			}
			seen[item.ID] = true
			posts = append(posts, item)
			added++
			if desired > 0 && len(posts) >= desired {
				truncated = i < len(page.Items)-1
				break
			}
		}

		// The cursor only moves forward, and only past fully consumed
		// pages: a page cut short by the desired count keeps the cursor
		// at its start so a resumed run picks up the untaken tail.
		if !truncated && page.MaxCursor > cursor {
			cursor = page.MaxCursor
		}

		s.logger.DebugWithFields("page collected", map[string]interface{}{
			"target": target.ID,
			"added":  added,
			"total":  len(posts),
			"cursor": cursor,
		})

		if desired > 0 && len(posts) >= desired {
			return posts[:desired], cursor, nil
		}
		if !page.HasMore || added == 0 {
			return posts, cursor, nil
		}
	}
}
