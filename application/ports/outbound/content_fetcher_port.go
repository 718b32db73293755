package outbound

import "net/http"

type ContentFetcher interface {
	FetchContent(req *http.Request) ([]byte, error)
}
