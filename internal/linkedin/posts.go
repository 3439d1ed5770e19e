package linkedin

import (
	"regexp"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/sells-group/bizintel/internal/htmltext"
	"github.com/sells-group/bizintel/internal/model"
)

const (
	maxPostRunes = 500

	postsWallText       = "LinkedIn requires login to view detailed post content. The company has posted content, but it's not accessible without authentication."
	postsCountKnownText = "This company has approximately %d posts on LinkedIn. Login required to view content."
	fetchFailedStatus   = "Failed to authenticate"
	noPostsText         = "This company has no posts on LinkedIn yet."
	postsUnreadableText = "Unable to extract posts due to LinkedIn's page structure."
)

var (
	postCountPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)\s*posts?`),
		regexp.MustCompile(`(?i)(\d+)\s*articles?`),
		regexp.MustCompile(`(?i)(\d+)\s*activit(?:y|ies)`),
		regexp.MustCompile(`(?i)posted\s*(\d+)`),
		regexp.MustCompile(`(?i)shared\s*(\d+)`),
	}
	postDateRe  = regexp.MustCompile(`(?i)(ago|day|week|month|year|hour|minute)`)
	reactionsRe = regexp.MustCompile(`(?i)(\d+)\s*(?:reactions?|likes?)`)
	noPostsRe   = regexp.MustCompile(`(?i)no posts yet|no updates|share their first`)

	postContainerClasses = []string{"feed-shared-update", "post-content", "update-components", "feed-shared-update-v2"}
	postTextClasses      = []string{"feed-shared-text", "update-text", "post-text", "update-content"}
)

// ParsePosts reads posts from an unwalled /posts page. The block always has
// at least one entry: an explanatory one when no post could be read.
func ParsePosts(doc *goquery.Document) *model.PostsBlock {
	containers := htmltext.WithClass(doc.Selection, "div, article", postContainerClasses...)
	if containers.Length() == 0 {
		containers = doc.Find(`div[data-urn*="update"]`)
	}
	if containers.Length() == 0 {
		containers = htmltext.WithClass(doc.Selection, "p, div", "feed-shared-text", "update-content", "post-text")
	}

	posts := []model.Post{}
	seen := map[string]bool{}
	containers.Each(func(_ int, c *goquery.Selection) {
		src := c
		if inner := htmltext.WithClass(c, "*", postTextClasses...).First(); inner.Length() > 0 {
			src = inner
		}
		text := htmltext.Clean(src.Text())
		if utf8.RuneCountInString(text) <= 10 || seen[text] {
			return
		}
		seen[text] = true

		post := model.Post{Text: truncatePost(text)}
		if d := htmltext.FindOwn(c, "span, time", postDateRe); d.Length() > 0 {
			post.Date = htmltext.Clean(d.Text())
		}
		if m := reactionsRe.FindStringSubmatch(c.Text()); m != nil {
			post.Reactions = m[1]
		}
		posts = append(posts, post)
	})

	block := &model.PostsBlock{Count: model.Known(len(posts)), Posts: posts}
	if n, ok := ownStringCount(doc, postCountPatterns); ok {
		block.Count = model.Known(n)
	}
	if len(posts) == 0 {
		if noPostsRe.MatchString(doc.Text()) {
			block.Posts = []model.Post{{Text: noPostsText, Date: "N/A"}}
		} else {
			block.Posts = []model.Post{{Text: postsUnreadableText, Date: "Recently"}}
		}
	}
	return block
}

func truncatePost(text string) string {
	r := []rune(text)
	if len(r) <= maxPostRunes {
		return text
	}
	return string(r[:maxPostRunes]) + "..."
}

func postsWall() *model.PostsBlock {
	return &model.PostsBlock{
		Count:                  model.Unknown(model.SentinelLoginRequired),
		Posts:                  []model.Post{{Text: postsWallText, Date: "Recently"}},
		AuthenticationRequired: true,
		AuthenticationStatus:   AuthStatus,
	}
}

// postsUnreachable reports a posts page that could not be fetched at all.
func postsUnreachable() *model.PostsBlock {
	return &model.PostsBlock{
		Count:                  model.Failed(model.SentinelFetchError),
		Posts:                  []model.Post{},
		AuthenticationRequired: true,
		AuthenticationStatus:   fetchFailedStatus,
	}
}

func postsFailure(reason string) *model.PostsBlock {
	return &model.PostsBlock{
		Count: model.Failed(model.SentinelError),
		Posts: []model.Post{{Text: "Error extracting posts: " + reason, Date: "Error"}},
		Error: reason,
	}
}
