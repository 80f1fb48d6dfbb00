package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/medilearn/apiserver/internal/content"
	"github.com/medilearn/apiserver/internal/services"
	"github.com/medilearn/apiserver/internal/testutil/mocks"
	"github.com/medilearn/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	fitness   = "Fitness / General Physical Health"
	nutrition = "Nutrition & Healthy Eating"
	sleep     = "Sleep & Recovery"
)

func videos(n int, prefix string) []types.ContentItem {
	out := make([]types.ContentItem, n)
	for i := range out {
		out[i] = types.ContentItem{
			ID:    fmt.Sprintf("%s-v%d", prefix, i),
			Title: fmt.Sprintf("video %d", i),
			URL:   fmt.Sprintf("https://www.youtube.com/watch?v=%s%d", prefix, i),
			Type:  types.ContentVideo,
		}
	}
	return out
}

func articles(n int, prefix string) []types.ContentItem {
	out := make([]types.ContentItem, n)
	for i := range out {
		out[i] = types.ContentItem{
			ID:    fmt.Sprintf("%s-a%d", prefix, i),
			Title: fmt.Sprintf("article %d", i),
			URL:   fmt.Sprintf("https://news.example/%s/%d", prefix, i),
			Type:  types.ContentArticle,
		}
	}
	return out
}

func TestRecommend_NoProvidersReturnsStatic(t *testing.T) {
	catalog := content.DefaultCatalog()
	svc := services.NewRecommendationService(catalog, nil, nil)

	requested := make([]string, 0, len(catalog.Categories))
	for _, c := range catalog.Categories {
		requested = append(requested, c.Name)
	}

	recs, err := svc.Recommend(context.Background(), requested, nil)
	require.NoError(t, err)

	assert.Equal(t, catalog.RecentlyReadItems(), recs[content.RecentlyReadSection])
	for _, name := range requested {
		assert.NotEmpty(t, recs[name], "static fallback for %s", name)
	}
	assert.Len(t, recs, len(requested)+1)

	// Only videos and articles survive the merge; the order is videos first.
	assert.Equal(t, []types.ContentItem{
		catalog.StaticFor(nutrition)[1],
		catalog.StaticFor(nutrition)[2],
		catalog.StaticFor(nutrition)[0],
	}, recs[nutrition])
}

func TestRecommend_SkipsUnknownCategories(t *testing.T) {
	svc := services.NewRecommendationService(content.DefaultCatalog(), nil, nil)

	recs, err := svc.Recommend(context.Background(), []string{"Astrology", sleep, sleep}, nil)
	require.NoError(t, err)

	assert.Len(t, recs, 2)
	assert.Contains(t, recs, content.RecentlyReadSection)
	assert.Contains(t, recs, sleep)
	assert.NotContains(t, recs, "Astrology")
}

func TestRecommend_EmptyRequestOnlyRecentlyRead(t *testing.T) {
	svc := services.NewRecommendationService(content.DefaultCatalog(), nil, nil)

	recs, err := svc.Recommend(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Len(t, recs, 1)
	assert.Len(t, recs[content.RecentlyReadSection], 3)
}

func TestRecommend_MergesProviderResults(t *testing.T) {
	catalog := content.DefaultCatalog()
	vs := new(mocks.MockVideoSearcher)
	as := new(mocks.MockArticleSearcher)
	cat, _ := catalog.Category(fitness)

	vs.On("SearchVideos", mock.Anything, cat, []string{"MadFit"}).Return(videos(4, "yt"), nil)
	as.On("SearchArticles", mock.Anything, cat).Return(articles(8, "news"), nil)

	svc := services.NewRecommendationService(catalog, vs, as)
	recs, err := svc.Recommend(context.Background(), []string{fitness}, []string{"MadFit"})
	require.NoError(t, err)

	got := recs[fitness]
	require.Len(t, got, 10)
	// Four searched videos, then the first static video, then five articles.
	assert.Equal(t, "yt-v0", got[0].ID)
	assert.Equal(t, "yt-v3", got[3].ID)
	assert.Equal(t, catalog.StaticFor(fitness)[0].URL, got[4].URL)
	assert.Equal(t, "news-a0", got[5].ID)
	assert.Equal(t, "news-a4", got[9].ID)
	vs.AssertExpectations(t)
	as.AssertExpectations(t)
}

func TestRecommend_ProviderErrorsDegrade(t *testing.T) {
	catalog := content.DefaultCatalog()
	vs := new(mocks.MockVideoSearcher)
	as := new(mocks.MockArticleSearcher)
	vs.On("SearchVideos", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("quota exceeded"))
	as.On("SearchArticles", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

	svc := services.NewRecommendationService(catalog, vs, as)
	recs, err := svc.Recommend(context.Background(), []string{sleep}, nil)
	require.NoError(t, err)

	assert.Equal(t, catalog.StaticFor(sleep), recs[sleep])
}

func TestRecommend_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := services.NewRecommendationService(content.DefaultCatalog(), nil, nil)
	_, err := svc.Recommend(ctx, []string{sleep}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSample_FirstTwoCategories(t *testing.T) {
	catalog := content.DefaultCatalog()
	svc := services.NewRecommendationService(catalog, nil, nil)

	recs := svc.Sample()
	assert.Len(t, recs, 2)
	assert.Equal(t, catalog.StaticFor(fitness), recs[fitness])
	assert.Equal(t, catalog.StaticFor(nutrition), recs[nutrition])
}

func TestMergeContent(t *testing.T) {
	t.Run("empty input returns empty list", func(t *testing.T) {
		got := services.MergeContent(nil, nil, nil)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("youtube urls count as videos", func(t *testing.T) {
		static := []types.ContentItem{
			{ID: "s1", URL: "https://www.youtube.com/watch?v=x", Type: types.ContentArticle},
			{ID: "s2", URL: "/quiz", Type: types.ContentQuiz},
		}
		got := services.MergeContent(nil, static, nil)
		require.Len(t, got, 1)
		assert.Equal(t, "s1", got[0].ID)
	})

	t.Run("caps each kind at five", func(t *testing.T) {
		got := services.MergeContent(videos(7, "v"), nil, articles(7, "a"))
		require.Len(t, got, 10)
		assert.Equal(t, "v-v4", got[4].ID)
		assert.Equal(t, "a-a0", got[5].ID)
	})

	t.Run("articles fill when videos are short", func(t *testing.T) {
		got := services.MergeContent(videos(1, "v"), nil, articles(3, "a"))
		assert.Len(t, got, 4)
	})
}
