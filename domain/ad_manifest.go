package domain

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	keywordMinScore = 0.80
	keywordType     = "ORGANIZATION"
)

// Keywords returns distinct organisation names detected with score >= 0.80, in detection order.
func Keywords(entities []Entity) []string {
	seen := make(map[string]struct{})
	keywords := make([]string, 0)
	for _, e := range entities {
		if e.Score < keywordMinScore || e.Type != keywordType {
			continue
		}
		if _, ok := seen[e.Text]; ok {
			continue
		}
		seen[e.Text] = struct{}{}
		keywords = append(keywords, e.Text)
	}
	return keywords
}

// KeywordString renders every keyword followed by ';'.
func KeywordString(entities []Entity) string {
	var builder strings.Builder
	for _, k := range Keywords(entities) {
		builder.WriteString(k)
		builder.WriteString(";")
	}
	return builder.String()
}

func AdTagURL(adsURL string, entities []Entity) string {
	query := url.Values{"keywords": []string{KeywordString(entities)}}
	return adsURL + "?" + query.Encode()
}

const vmapTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<vmap:VMAP xmlns:vmap="http://www.iab.net/videosuite/vmap" version="1.0">
    <vmap:AdBreak timeOffset="start" breakType="linear" breakId="pre">
        <vmap:AdSource id="ad-source-1" followRedirects="true">
            <vmap:AdTagURI templateType="vast3">
                <![CDATA[ %[1]s ]]>
            </vmap:AdTagURI>
        </vmap:AdSource>
    </vmap:AdBreak>
    <vmap:AdBreak timeOffset="end" breakType="linear" breakId="post">
        <vmap:AdSource id="ad-source-1" followRedirects="true">
            <vmap:AdTagURI templateType="vast3">
                <![CDATA[ %[1]s ]]>
            </vmap:AdTagURI>
        </vmap:AdSource>
    </vmap:AdBreak>
</vmap:VMAP>`

// AdManifest builds the pre-roll/post-roll VMAP document pointing at adTagURL.
func AdManifest(adTagURL string) string {
	return fmt.Sprintf(vmapTemplate, adTagURL)
}
