package content

import (
	"context"
	"fmt"
	"strings"

	"github.com/medilearn/apiserver/types"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const (
	youtubeProvider   = "youtube"
	youtubeMaxResults = 5
	youtubeWatchURL   = "https://www.youtube.com/watch?v="
)

// YouTubeOptions configures the YouTube Data API client.
type YouTubeOptions struct {
	APIKey string

	// Endpoint overrides the API base URL. Empty uses the public endpoint.
	Endpoint string
}

// YouTubeSearcher searches videos through the YouTube Data API v3.
type YouTubeSearcher struct {
	svc   *youtube.Service
	guard *guard
}

func NewYouTubeSearcher(ctx context.Context, opts YouTubeOptions, settings GuardSettings) (*YouTubeSearcher, error) {
	clientOpts := []option.ClientOption{option.WithAPIKey(opts.APIKey)}
	if strings.TrimSpace(opts.Endpoint) != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
	}

	svc, err := youtube.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	return &YouTubeSearcher{
		svc:   svc,
		guard: newGuard(youtubeProvider, settings),
	}, nil
}

// SearchVideos returns up to five videos for the category, narrowed to the
// preferred channels the category knows about.
func (y *YouTubeSearcher) SearchVideos(ctx context.Context, category types.Category, preferredSources []string) ([]types.ContentItem, error) {
	query := SearchQuery(category, preferredSources)

	return y.guard.do(ctx, func(ctx context.Context) ([]types.ContentItem, error) {
		resp, err := y.svc.Search.List([]string{"snippet"}).
			Q(query).
			MaxResults(youtubeMaxResults).
			Type("video").
			RelevanceLanguage("en").
			Context(ctx).
			Do()
		if err != nil {
			return nil, err
		}

		slug := Slug(category.Name)
		items := make([]types.ContentItem, 0, len(resp.Items))
		for i, result := range resp.Items {
			if result == nil || result.Snippet == nil || result.Id == nil {
				continue
			}
			items = append(items, types.ContentItem{
				ID:          fmt.Sprintf("youtube-%s-%d", slug, i),
				Title:       result.Snippet.Title,
				Description: result.Snippet.Description,
				Source:      types.ContentSource{Name: result.Snippet.ChannelTitle},
				URL:         youtubeWatchURL + result.Id.VideoId,
				URLToImage:  thumbnailURL(result.Snippet.Thumbnails),
				PublishedAt: result.Snippet.PublishedAt,
				Type:        types.ContentVideo,
			})
		}
		return items, nil
	})
}

// SearchQuery is the category query, or "(<query>) (<A> OR <B>)" when some
// preferred sources are among the category's known channels.
func SearchQuery(category types.Category, preferredSources []string) string {
	if len(preferredSources) == 0 {
		return category.Query
	}

	preferred := make(map[string]struct{}, len(preferredSources))
	for _, s := range preferredSources {
		preferred[s] = struct{}{}
	}

	var channels []string
	for _, source := range category.VideoSources {
		if _, ok := preferred[source]; ok {
			channels = append(channels, source)
		}
	}
	if len(channels) == 0 {
		return category.Query
	}
	return fmt.Sprintf("(%s) (%s)", category.Query, strings.Join(channels, " OR "))
}

func thumbnailURL(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	if t.High != nil && t.High.Url != "" {
		return t.High.Url
	}
	if t.Default != nil {
		return t.Default.Url
	}
	return ""
}
