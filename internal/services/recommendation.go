package services

import (
	"context"

	"github.com/medilearn/apiserver/internal/content"
	"github.com/medilearn/apiserver/internal/metrics"
	"github.com/medilearn/apiserver/types"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	maxVideosPerCategory   = 5
	maxArticlesPerCategory = 5
	maxItemsPerCategory    = 10
	sampleCategories       = 2
	maxParallelCategories  = 4
)

// RecommendationService merges searched and static content per category.
// Either searcher may be nil.
type RecommendationService struct {
	catalog  *content.Catalog
	videos   content.VideoSearcher
	articles content.ArticleSearcher
}

func NewRecommendationService(catalog *content.Catalog, videos content.VideoSearcher, articles content.ArticleSearcher) *RecommendationService {
	return &RecommendationService{catalog: catalog, videos: videos, articles: articles}
}

// Categories returns the known categories in catalog order.
func (s *RecommendationService) Categories() []types.Category {
	out := make([]types.Category, len(s.catalog.Categories))
	copy(out, s.catalog.Categories)
	return out
}

// Recommend builds the recommendations for the requested categories. Unknown
// names are skipped and the "Recently Read Articles" section is always set.
// Provider failures degrade to static content.
func (s *RecommendationService) Recommend(ctx context.Context, categories, preferredSources []string) (types.Recommendations, error) {
	var wanted []types.Category
	seen := make(map[string]struct{}, len(categories))
	for _, name := range categories {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		if cat, ok := s.catalog.Category(name); ok {
			wanted = append(wanted, cat)
		}
	}

	results := make([][]types.ContentItem, len(wanted))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelCategories)
	for i, cat := range wanted {
		i, cat := i, cat
		g.Go(func() error {
			results[i] = s.forCategory(gctx, cat, preferredSources)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	recs := types.Recommendations{
		content.RecentlyReadSection: s.catalog.RecentlyReadItems(),
	}
	for i, cat := range wanted {
		recs[cat.Name] = results[i]
	}
	return recs, nil
}

// Sample returns the static content of the first two categories.
func (s *RecommendationService) Sample() types.Recommendations {
	recs := types.Recommendations{}
	for i, cat := range s.catalog.Categories {
		if i == sampleCategories {
			break
		}
		recs[cat.Name] = s.catalog.StaticFor(cat.Name)
	}
	return recs
}

func (s *RecommendationService) forCategory(ctx context.Context, cat types.Category, preferredSources []string) []types.ContentItem {
	log := zerolog.Ctx(ctx).With().Str("category", cat.Name).Logger()

	var videos, articles []types.ContentItem
	g, gctx := errgroup.WithContext(ctx)
	if s.videos != nil {
		g.Go(func() error {
			items, err := s.videos.SearchVideos(gctx, cat, preferredSources)
			if err != nil {
				log.Warn().Err(err).Msg("video search failed")
				return nil
			}
			videos = items
			return nil
		})
	}
	if s.articles != nil {
		g.Go(func() error {
			items, err := s.articles.SearchArticles(gctx, cat)
			if err != nil {
				log.Warn().Err(err).Msg("article search failed")
				return nil
			}
			articles = items
			return nil
		})
	}
	_ = g.Wait()

	static := s.catalog.StaticFor(cat.Name)
	merged := MergeContent(videos, static, articles)
	if len(videos) == 0 && len(articles) == 0 {
		metrics.FallbackServed.WithLabelValues("recommendations").Inc()
	}
	return merged
}

// MergeContent combines searched videos, static items and searched articles:
// up to five videos first, then up to five articles, at most ten items. When
// there is nothing at all the static list is returned.
func MergeContent(videos, static, articles []types.ContentItem) []types.ContentItem {
	all := make([]types.ContentItem, 0, len(videos)+len(static)+len(articles))
	all = append(all, videos...)
	all = append(all, static...)
	all = append(all, articles...)
	if len(all) == 0 {
		if static == nil {
			return []types.ContentItem{}
		}
		return static
	}

	var vids, arts []types.ContentItem
	for _, item := range all {
		if item.Type == types.ContentVideo || content.IsYouTubeURL(item.URL) {
			vids = append(vids, item)
		}
		if item.Type == types.ContentArticle && !content.IsYouTubeURL(item.URL) {
			arts = append(arts, item)
		}
	}

	out := make([]types.ContentItem, 0, maxItemsPerCategory)
	out = append(out, vids[:min(len(vids), maxVideosPerCategory)]...)
	out = append(out, arts[:min(len(arts), maxArticlesPerCategory)]...)
	if len(out) > maxItemsPerCategory {
		out = out[:maxItemsPerCategory]
	}
	return out
}
