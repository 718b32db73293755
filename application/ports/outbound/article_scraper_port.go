package outbound

import (
	"article-narration-pipeline/domain"
	"context"
)

type ArticleScraperPort interface {
	Scrape(ctx context.Context, url string) (*domain.Article, error)
}
