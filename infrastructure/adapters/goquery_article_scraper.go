package adapters

import (
	"article-narration-pipeline/application/ports/outbound"
	"article-narration-pipeline/domain"
	"bytes"
	"context"
	"fmt"
	"github.com/PuerkitoBio/goquery"
	"net/http"
	"net/url"
	"strings"
)

const (
	articleImageSelector     = ".amp-wp-article-content > figure a"
	articleHeaderSelector    = ".amp-wp-title"
	articleTitleSelector     = ".amp-wp-article-content > h2"
	articleParagraphSelector = ".amp-wp-article-content > p"
)

type goqueryArticleScraper struct {
	logger  outbound.LoggerPort
	fetcher outbound.ContentFetcher
}

// NewGoqueryArticleScraper extracts articles laid out with the AMP WordPress theme.
func NewGoqueryArticleScraper(logger outbound.LoggerPort, fetcher outbound.ContentFetcher) outbound.ArticleScraperPort {
	return &goqueryArticleScraper{
		logger:  logger,
		fetcher: fetcher,
	}
}

func (s *goqueryArticleScraper) Scrape(ctx context.Context, pageURL string) (*domain.Article, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse article url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	payload, err := s.fetcher.FetchContent(req)
	if err != nil {
		return nil, fmt.Errorf("download article: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("parse article: %w", err)
	}

	article := extractArticle(doc, base)
	article.URL = pageURL

	s.logger.DebugWithFields("Article scraped", map[string]interface{}{
		"url":    pageURL,
		"titles": len(article.Titles),
		"images": len(article.ImageURLs),
		"chars":  len(article.Text),
	})

	return article, nil
}

func extractArticle(doc *goquery.Document, base *url.URL) *domain.Article {
	article := &domain.Article{
		Header:    strings.TrimSpace(doc.Find(articleHeaderSelector).First().Text()),
		Titles:    make([]string, 0),
		ImageURLs: make([]string, 0),
	}

	doc.Find(articleImageSelector).Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			return
		}
		if ref, err := url.Parse(strings.TrimSpace(href)); err == nil {
			href = base.ResolveReference(ref).String()
		}
		article.ImageURLs = append(article.ImageURLs, href)
	})

	doc.Find(articleTitleSelector).Each(func(_ int, sel *goquery.Selection) {
		if title := strings.TrimSpace(sel.Text()); title != "" {
			article.Titles = append(article.Titles, title)
		}
	})

	paragraphs := make([]string, 0)
	doc.Find(articleParagraphSelector).Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	article.Text = strings.Join(paragraphs, " ")

	return article
}
