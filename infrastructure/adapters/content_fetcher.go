package adapters

import (
	"article-narration-pipeline/application/ports/outbound"
	"fmt"
	"io"
	"net/http"
	"time"
)

type contentFetcher struct {
	logger    outbound.LoggerPort
	client    *http.Client
	userAgent string
}

func NewContentFetcher(logger outbound.LoggerPort, timeout time.Duration, userAgent string) outbound.ContentFetcher {
	return &contentFetcher{
		logger:    logger,
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

func (c *contentFetcher) FetchContent(req *http.Request) ([]byte, error) {
	if c.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	res, err := c.client.Do(req)
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to send the HTTP request", map[string]interface{}{
			"method": req.Method,
			"URL":    req.URL.String(),
		})
		return nil, err
	}

	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			c.logger.ErrorWithFields(err, "Failed to close the response body", map[string]interface{}{
				"method": req.Method,
				"URL":    req.URL.String(),
			})
		}
	}(res.Body)

	if res.StatusCode != http.StatusOK {
		bodyPayload, err := io.ReadAll(io.LimitReader(res.Body, 4096))
		c.logger.ErrorWithFields(err, "HTTP request returned non-OK status code", map[string]interface{}{
			"method":  req.Method,
			"URL":     req.URL.String(),
			"status":  res.StatusCode,
			"message": string(bodyPayload),
		})
		return nil, fmt.Errorf("HTTP request returned non-OK status code: %d", res.StatusCode)
	}

	payload, err := io.ReadAll(res.Body)
	if err != nil {
		c.logger.ErrorWithFields(err, "Failed to read the response body", map[string]interface{}{
			"method": req.Method,
			"URL":    req.URL.String(),
		})
		return nil, err
	}

	return payload, nil
}
