package domain

import (
	"fmt"
	"github.com/google/uuid"
	"path"
	"strings"
)

const (
	TextPrefix          = "text/"
	FullAudioPrefix     = "audio/full/"
	PreviewAudioPrefix  = "audio/preview/"
	ImageOutputPrefix   = "image/output/"
	VideoTriggerPrefix  = "video-trigger/"
	PreviewVideoPrefix  = "output/preview/"
	FullVideoPrefix     = "output/full/hls/"
	SubtitlePrefix      = "srt/preview/"
	AdManifestPrefix    = "vmap/"
	assetIDSuffix       = ".json"
	subtitleSuffix      = ".srt"
	previewAudioSuffix  = ".wav"
	previewVideoSuffix  = ".mp4"
	processedImageExt   = ".tga"
	fullNarrationSuffix = ".mp3"
)

// AssetID is <uuid>.json so the document key satisfies the text/ + .json route.
type AssetID string

func NewAssetID() AssetID {
	return AssetID(uuid.NewString() + assetIDSuffix)
}

func (a AssetID) String() string {
	return string(a)
}

// Base strips the .json suffix, leaving the bare uuid used by video outputs.
func (a AssetID) Base() string {
	return strings.TrimSuffix(string(a), assetIDSuffix)
}

type ObjectRef struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

func (o ObjectRef) URI() string {
	return fmt.Sprintf("s3://%s/%s", o.Bucket, o.Key)
}

func DocumentKey(id AssetID) string {
	return TextPrefix + id.String()
}

func SubtitleKey(id AssetID) string {
	return SubtitlePrefix + id.String() + subtitleSuffix
}

func AdManifestKey(id AssetID) string {
	return AdManifestPrefix + id.String()
}

func VideoTriggerKey(id AssetID) string {
	return VideoTriggerPrefix + id.String()
}

// NarrationOutputPrefix is where the narration engine drops <task>.mp3 for the document key.
func NarrationOutputPrefix(documentKey string) (string, error) {
	id, err := AssetIDFromDocumentKey(documentKey)
	if err != nil {
		return "", err
	}
	return FullAudioPrefix + id.String() + "/", nil
}

func AssetIDFromDocumentKey(key string) (AssetID, error) {
	if !strings.HasPrefix(key, TextPrefix) {
		return "", fmt.Errorf("%w: %s is not a document key", ErrUnexpectedKey, key)
	}
	id := strings.TrimPrefix(key, TextPrefix)
	if id == "" || strings.Contains(id, "/") {
		return "", fmt.Errorf("%w: %s has no asset id", ErrUnexpectedKey, key)
	}
	return AssetID(id), nil
}

// MediaKey describes an audio/<format>/<asset>/<file>.<ext> object.
type MediaKey struct {
	Key       string
	AssetID   AssetID
	Format    string
	FileName  string
	Extension string
}

func (m MediaKey) BaseName() string {
	return strings.TrimSuffix(m.FileName, "."+m.Extension)
}

// PreviewAudioKey maps audio/full/<asset>/<task>.mp3 to audio/preview/<asset>/<task>.wav.
func (m MediaKey) PreviewAudioKey() string {
	return PreviewAudioPrefix + m.AssetID.String() + "/" + m.BaseName() + previewAudioSuffix
}

func ParseAudioKey(key string) (MediaKey, error) {
	parts := strings.Split(key, "/")
	if len(parts) < 4 || parts[0] != "audio" {
		return MediaKey{}, fmt.Errorf("%w: %s is not an audio key", ErrUnexpectedKey, key)
	}
	fileName := parts[len(parts)-1]
	ext := strings.TrimPrefix(path.Ext(fileName), ".")
	if ext == "" {
		return MediaKey{}, fmt.Errorf("%w: %s has no extension", ErrUnexpectedKey, key)
	}
	return MediaKey{
		Key:       key,
		AssetID:   AssetID(strings.Join(parts[2:len(parts)-1], "/")),
		Format:    parts[1],
		FileName:  fileName,
		Extension: ext,
	}, nil
}

func ProcessedImageKey(id AssetID, sourceFileName string) string {
	return ImageOutputPrefix + id.String() + "/" + sourceFileName + processedImageExt
}

func AssetIDFromVideoTriggerKey(key string) (AssetID, error) {
	if !strings.HasPrefix(key, VideoTriggerPrefix) {
		return "", fmt.Errorf("%w: %s is not a video trigger key", ErrUnexpectedKey, key)
	}
	id := path.Base(key)
	if id == "" || id == "." || id == "/" {
		return "", fmt.Errorf("%w: %s has no asset id", ErrUnexpectedKey, key)
	}
	return AssetID(id), nil
}

func PreviewVideoDestination(bucket string, id AssetID) string {
	return fmt.Sprintf("s3://%s/%s%s", bucket, PreviewVideoPrefix, id.Base())
}

func FullVideoDestination(bucket string, id AssetID) string {
	return fmt.Sprintf("s3://%s/%s%s/", bucket, FullVideoPrefix, id.Base())
}

type VideoKind string

const (
	PreviewVideo VideoKind = "preview"
	FullVideo    VideoKind = "full"
)

// ParseVideoKey accepts output/preview/<uuid>.mp4 and output/full/hls/<uuid>/<name>.m3u8.
func ParseVideoKey(key string) (VideoKind, AssetID, error) {
	parts := strings.Split(key, "/")
	switch {
	case strings.HasPrefix(key, PreviewVideoPrefix) && len(parts) == 3 && strings.HasSuffix(key, previewVideoSuffix):
		return PreviewVideo, AssetID(strings.TrimSuffix(parts[2], previewVideoSuffix) + assetIDSuffix), nil
	case strings.HasPrefix(key, FullVideoPrefix) && len(parts) >= 5 && parts[3] != "":
		return FullVideo, AssetID(parts[3] + assetIDSuffix), nil
	}
	return "", "", fmt.Errorf("%w: %s is not a video output key", ErrUnexpectedKey, key)
}

// FullVideoStreamURI points at the HLS directory so every rendition manifest records the same value.
func FullVideoStreamURI(bucket string, id AssetID) string {
	return FullVideoDestination(bucket, id)
}
