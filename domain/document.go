package domain

type Engine string

const (
	StandardEngine Engine = "standard"
	NeuralEngine   Engine = "neural"
)

type DetectedLanguage struct {
	LanguageCode string  `json:"LanguageCode"`
	Score        float64 `json:"Score"`
}

type Entity struct {
	Text        string  `json:"Text"`
	Type        string  `json:"Type"`
	Score       float64 `json:"Score"`
	BeginOffset int64   `json:"BeginOffset"`
	EndOffset   int64   `json:"EndOffset"`
}

type Article struct {
	URL       string
	Header    string
	Titles    []string
	Text      string
	ImageURLs []string
}

// Document is written once to text/{AssetId} and only read afterwards.
type Document struct {
	AssetID      AssetID  `json:"AssetId"`
	Text         string   `json:"Text"`
	LanguageCode string   `json:"LanguageCode"`
	VoiceID      string   `json:"VoiceId"`
	Engine       Engine   `json:"Engine"`
	URL          string   `json:"Url"`
	ImagesURLs   []string `json:"ImagesURLs"`
	TitlesText   []string `json:"TitlesText"`
	Entities     []Entity `json:"Entities"`
	SRTFile      string   `json:"SRTFile"`
	VMAPFile     string   `json:"VMAPFile"`
}

type VideoTrigger struct {
	Bucket      string         `json:"Bucket"`
	Key         string         `json:"Key"`
	AssetID     AssetID        `json:"AssetId"`
	ArticleBody Document       `json:"ArticleBody"`
	Metadata    MetadataRecord `json:"Metadata"`
}
