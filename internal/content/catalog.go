// Package content holds the built-in content catalog and the clients for the
// external content search APIs.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/medilearn/apiserver/types"
	"gopkg.in/yaml.v3"
)

// RecentlyReadSection is the recommendations key that is always present.
const RecentlyReadSection = "Recently Read Articles"

//go:embed catalog.yaml
var embeddedCatalog []byte

// StatsFallback is the sample dashboard shown when a user has no activity.
type StatsFallback struct {
	QuizzesTaken       int                    `yaml:"quizzesTaken"`
	FlashcardsReviewed int                    `yaml:"flashcardsReviewed"`
	Articles           []types.ArticleSummary `yaml:"articles"`
}

// Catalog is the static content known to the server. It is read-only after load.
type Catalog struct {
	Categories    []types.Category               `yaml:"categories"`
	Static        map[string][]types.ContentItem `yaml:"static"`
	RecentlyRead  []types.ContentItem            `yaml:"recentlyRead"`
	StatsFallback StatsFallback                  `yaml:"statsFallback"`
	Flashcards    []types.Flashcard              `yaml:"flashcards"`

	byName map[string]int
}

// LoadCatalog reads the catalog at path, or the built-in one when path is empty.
func LoadCatalog(path string) (*Catalog, error) {
	data := embeddedCatalog
	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		data = raw
	}
	return ParseCatalog(data)
}

// DefaultCatalog returns the built-in catalog.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(embeddedCatalog)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog is invalid: %v", err))
	}
	return c
}

// ParseCatalog decodes and checks a YAML catalog.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if len(c.Categories) == 0 {
		return nil, errors.New("catalog has no categories")
	}

	c.byName = make(map[string]int, len(c.Categories))
	for i, cat := range c.Categories {
		if strings.TrimSpace(cat.Name) == "" || strings.TrimSpace(cat.Query) == "" {
			return nil, fmt.Errorf("category %d needs a name and a query", i)
		}
		if _, dup := c.byName[cat.Name]; dup {
			return nil, fmt.Errorf("duplicate category %q", cat.Name)
		}
		c.byName[cat.Name] = i
	}
	for name := range c.Static {
		if _, ok := c.byName[name]; !ok {
			return nil, fmt.Errorf("static content for unknown category %q", name)
		}
	}
	return &c, nil
}

// Category looks up a category by its exact name.
func (c *Catalog) Category(name string) (types.Category, bool) {
	i, ok := c.byName[name]
	if !ok {
		return types.Category{}, false
	}
	return c.Categories[i], true
}

// StaticFor returns a copy of the static items for a category.
func (c *Catalog) StaticFor(name string) []types.ContentItem {
	return cloneItems(c.Static[name])
}

// RecentlyReadItems returns a copy of the "Recently Read Articles" section.
func (c *Catalog) RecentlyReadItems() []types.ContentItem {
	return cloneItems(c.RecentlyRead)
}

// FallbackArticles returns a copy of the sample recently read articles.
func (c *Catalog) FallbackArticles() []types.ArticleSummary {
	out := make([]types.ArticleSummary, len(c.StatsFallback.Articles))
	copy(out, c.StatsFallback.Articles)
	return out
}

func cloneItems(items []types.ContentItem) []types.ContentItem {
	out := make([]types.ContentItem, len(items))
	copy(out, items)
	return out
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Slug replaces every whitespace run in a category name with a hyphen.
func Slug(category string) string {
	return whitespaceRun.ReplaceAllString(category, "-")
}

// IsYouTubeURL reports whether url points at youtube.com.
func IsYouTubeURL(url string) bool {
	return strings.Contains(url, "youtube.com")
}
