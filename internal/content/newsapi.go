package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/medilearn/apiserver/types"
)

const (
	newsAPIProvider = "newsapi"
	newsAPIPageSize = 10
	maxNewsBody     = 4 << 20
)

// NewsAPIOptions configures the NewsAPI client.
type NewsAPIOptions struct {
	APIKey  string
	BaseURL string

	// HTTPClient defaults to a client using the provider timeout.
	HTTPClient *http.Client
}

// NewsAPISearcher searches articles through NewsAPI's /v2/everything.
type NewsAPISearcher struct {
	apiKey  string
	baseURL string
	client  *http.Client
	guard   *guard
}

func NewNewsAPISearcher(opts NewsAPIOptions, settings GuardSettings) *NewsAPISearcher {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		baseURL = "https://newsapi.org"
	}
	g := newGuard(newsAPIProvider, settings)
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: g.timeout}
	}

	return &NewsAPISearcher{
		apiKey:  opts.APIKey,
		baseURL: baseURL,
		client:  client,
		guard:   g,
	}
}

type newsResponse struct {
	Status   string        `json:"status"`
	Code     string        `json:"code"`
	Message  string        `json:"message"`
	Articles []newsArticle `json:"articles"`
}

type newsArticle struct {
	Source      types.ContentSource `json:"source"`
	Author      string              `json:"author"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	URL         string              `json:"url"`
	URLToImage  string              `json:"urlToImage"`
	PublishedAt string              `json:"publishedAt"`
}

// SearchArticles returns the relevant English articles that have both a title
// and a description.
func (n *NewsAPISearcher) SearchArticles(ctx context.Context, category types.Category) ([]types.ContentItem, error) {
	return n.guard.do(ctx, func(ctx context.Context) ([]types.ContentItem, error) {
		payload, err := n.fetch(ctx, category.Query)
		if err != nil {
			return nil, err
		}

		slug := Slug(category.Name)
		items := make([]types.ContentItem, 0, len(payload.Articles))
		for _, a := range payload.Articles {
			if a.Title == "" || a.Description == "" {
				continue
			}
			items = append(items, types.ContentItem{
				ID:          fmt.Sprintf("news-%s-%d", slug, len(items)),
				Title:       a.Title,
				Description: a.Description,
				Source:      a.Source,
				Author:      a.Author,
				URL:         a.URL,
				URLToImage:  a.URLToImage,
				PublishedAt: a.PublishedAt,
				Type:        types.ContentArticle,
			})
		}
		return items, nil
	})
}

func (n *NewsAPISearcher) fetch(ctx context.Context, query string) (newsResponse, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("language", "en")
	params.Set("sortBy", "relevancy")
	params.Set("pageSize", strconv.Itoa(newsAPIPageSize))
	params.Set("apiKey", n.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.baseURL+"/v2/everything?"+params.Encode(), nil)
	if err != nil {
		return newsResponse{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return newsResponse{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxNewsBody))
	if err != nil {
		return newsResponse{}, err
	}

	var payload newsResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		if resp.StatusCode != http.StatusOK {
			return newsResponse{}, fmt.Errorf("newsapi status %d", resp.StatusCode)
		}
		return newsResponse{}, fmt.Errorf("decode newsapi response: %w", err)
	}
	if resp.StatusCode != http.StatusOK || payload.Status == "error" {
		return newsResponse{}, fmt.Errorf("newsapi status %d: %s %s", resp.StatusCode, payload.Code, payload.Message)
	}
	return payload, nil
}
