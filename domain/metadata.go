package domain

import (
	"time"
)

type NarrationStatus string

const (
	NarrationNotStarted NarrationStatus = "NOT_STARTED"
	NarrationInProgress NarrationStatus = "IN_PROGRESS"
	NarrationDone       NarrationStatus = "DONE"
)

func (s NarrationStatus) rank() int {
	switch s {
	case NarrationNotStarted:
		return 1
	case NarrationInProgress:
		return 2
	case NarrationDone:
		return 3
	}
	return 0
}

// CanAdvanceTo allows forward moves and re-applying the current status.
func (s NarrationStatus) CanAdvanceTo(next NarrationStatus) bool {
	return next.rank() >= s.rank()
}

// AllowedPredecessors lists the statuses from which next may be applied.
func AllowedPredecessors(next NarrationStatus) []NarrationStatus {
	all := []NarrationStatus{NarrationNotStarted, NarrationInProgress, NarrationDone}
	allowed := make([]NarrationStatus, 0, len(all))
	for _, s := range all {
		if s.CanAdvanceTo(next) {
			allowed = append(allowed, s)
		}
	}
	return allowed
}

type StageStatus string

const (
	StageStatusDone      StageStatus = "DONE"
	StageStatusFailed    StageStatus = "FAILED"
	StageStatusSubmitted StageStatus = "SUBMITTED"
	WorkflowComplete     StageStatus = "COMPLETE"
)

// Attribute names shared by every metadata backend.
const (
	AttrAssetID                  = "AssetId"
	AttrBucket                   = "Bucket"
	AttrFullNarration            = "FullNarration"
	AttrVoiceID                  = "VoiceId"
	AttrArticlePath              = "ArticlePath"
	AttrLanguageCode             = "LanguageCode"
	AttrEngine                   = "Engine"
	AttrURL                      = "Url"
	AttrFullNarrationFile        = "FullNarrationFile"
	AttrFullNarrationDuration    = "FullNarrationDurationInSeconds"
	AttrAudioPreview             = "AudioPreview"
	AttrAudioPreviewStatus       = "AudioPreviewStatus"
	AttrImagesURLs               = "ImagesURLs"
	AttrPostProducedImagesS3Path = "PostProducedImagesS3Paths"
	AttrImagesStatus             = "ImagesStatus"
	AttrPreviewVideoJob          = "PreviewVideoJob"
	AttrFullVideoJob             = "FullVideoJob"
	AttrVideoStatus              = "VideoStatus"
	AttrPreviewVideoFile         = "PreviewVideoFile"
	AttrFullVideoStream          = "FullVideoStream"
	AttrWorkflowStatus           = "WorkflowStatus"
	AttrUpdatedAt                = "UpdatedAt"
)

type MetadataRecord struct {
	AssetID                        AssetID         `json:"AssetId" dynamodbav:"AssetId"`
	Bucket                         string          `json:"Bucket,omitempty" dynamodbav:"Bucket,omitempty"`
	FullNarration                  NarrationStatus `json:"FullNarration,omitempty" dynamodbav:"FullNarration,omitempty"`
	VoiceID                        string          `json:"VoiceId,omitempty" dynamodbav:"VoiceId,omitempty"`
	ArticlePath                    string          `json:"ArticlePath,omitempty" dynamodbav:"ArticlePath,omitempty"`
	LanguageCode                   string          `json:"LanguageCode,omitempty" dynamodbav:"LanguageCode,omitempty"`
	Engine                         Engine          `json:"Engine,omitempty" dynamodbav:"Engine,omitempty"`
	URL                            string          `json:"Url,omitempty" dynamodbav:"Url,omitempty"`
	FullNarrationFile              string          `json:"FullNarrationFile,omitempty" dynamodbav:"FullNarrationFile,omitempty"`
	FullNarrationDurationInSeconds float64         `json:"FullNarrationDurationInSeconds,omitempty" dynamodbav:"FullNarrationDurationInSeconds,omitempty"`
	AudioPreview                   string          `json:"AudioPreview,omitempty" dynamodbav:"AudioPreview,omitempty"`
	AudioPreviewStatus             StageStatus     `json:"AudioPreviewStatus,omitempty" dynamodbav:"AudioPreviewStatus,omitempty"`
	ImagesURLs                     []string        `json:"ImagesURLs,omitempty" dynamodbav:"ImagesURLs,omitempty"`
	PostProducedImagesS3Paths      []string        `json:"PostProducedImagesS3Paths,omitempty" dynamodbav:"PostProducedImagesS3Paths,omitempty"`
	ImagesStatus                   StageStatus     `json:"ImagesStatus,omitempty" dynamodbav:"ImagesStatus,omitempty"`
	PreviewVideoJob                string          `json:"PreviewVideoJob,omitempty" dynamodbav:"PreviewVideoJob,omitempty"`
	FullVideoJob                   string          `json:"FullVideoJob,omitempty" dynamodbav:"FullVideoJob,omitempty"`
	VideoStatus                    StageStatus     `json:"VideoStatus,omitempty" dynamodbav:"VideoStatus,omitempty"`
	PreviewVideoFile               string          `json:"PreviewVideoFile,omitempty" dynamodbav:"PreviewVideoFile,omitempty"`
	FullVideoStream                string          `json:"FullVideoStream,omitempty" dynamodbav:"FullVideoStream,omitempty"`
	WorkflowStatus                 StageStatus     `json:"WorkflowStatus,omitempty" dynamodbav:"WorkflowStatus,omitempty"`
	UpdatedAt                      time.Time       `json:"UpdatedAt,omitempty" dynamodbav:"UpdatedAt,omitempty"`
}

func (r MetadataRecord) VideosRecorded() bool {
	return r.PreviewVideoFile != "" && r.FullVideoStream != ""
}

type Stage string

const (
	StageSeeded      Stage = "SEEDED"
	StageNarrating   Stage = "NARRATING"
	StageNarrated    Stage = "NARRATED"
	StagePreviewed   Stage = "PREVIEWED"
	StageIllustrated Stage = "ILLUSTRATED"
	StageRendering   Stage = "RENDERING"
	StageComplete    Stage = "COMPLETE"
	StageFailed      Stage = "FAILED"
)

// Stage derives how far the asset has travelled through the pipeline.
func (r MetadataRecord) Stage() Stage {
	switch {
	case r.WorkflowStatus == WorkflowComplete:
		return StageComplete
	case r.AudioPreviewStatus == StageStatusFailed, r.ImagesStatus == StageStatusFailed, r.VideoStatus == StageStatusFailed:
		return StageFailed
	case r.VideoStatus == StageStatusSubmitted:
		return StageRendering
	case r.ImagesStatus == StageStatusDone:
		return StageIllustrated
	case r.AudioPreviewStatus == StageStatusDone:
		return StagePreviewed
	case r.FullNarration == NarrationDone:
		return StageNarrated
	case r.FullNarration == NarrationInProgress:
		return StageNarrating
	}
	return StageSeeded
}

// Terminal reports whether no further pipeline writes are expected.
func (r MetadataRecord) Terminal() bool {
	s := r.Stage()
	return s == StageComplete || s == StageFailed
}

type FieldValue struct {
	Name  string
	Value interface{}
}

// StatusGuard restricts an update to records whose Field currently holds one of Allowed
// (or is absent when AllowMissing is set).
type StatusGuard struct {
	Field        string
	Allowed      []string
	AllowMissing bool
}

// MetadataUpdate is a field-level merge. Fields not named are left untouched.
type MetadataUpdate struct {
	AssetID   AssetID
	Fields    []FieldValue
	MustExist bool
	Guard     *StatusGuard
}

func NewMetadataUpdate(id AssetID) *MetadataUpdate {
	return &MetadataUpdate{AssetID: id, MustExist: true}
}

func (u *MetadataUpdate) Set(name string, value interface{}) *MetadataUpdate {
	for i := range u.Fields {
		if u.Fields[i].Name == name {
			u.Fields[i].Value = value
			return u
		}
	}
	u.Fields = append(u.Fields, FieldValue{Name: name, Value: value})
	return u
}

// Seed is the only update allowed to create a record.
func (u *MetadataUpdate) Seed() *MetadataUpdate {
	u.MustExist = false
	return u
}

func (u *MetadataUpdate) AdvanceNarration(next NarrationStatus) *MetadataUpdate {
	allowed := make([]string, 0, 3)
	for _, s := range AllowedPredecessors(next) {
		allowed = append(allowed, string(s))
	}
	u.Guard = &StatusGuard{Field: AttrFullNarration, Allowed: allowed, AllowMissing: true}
	return u.Set(AttrFullNarration, next)
}

func NarrationSubmitted(id AssetID) *MetadataUpdate {
	return NewMetadataUpdate(id).AdvanceNarration(NarrationInProgress)
}

func (u *MetadataUpdate) Value(name string) (interface{}, bool) {
	for _, f := range u.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

func (g *StatusGuard) Permits(current string) bool {
	if current == "" {
		return g.AllowMissing
	}
	for _, a := range g.Allowed {
		if a == current {
			return true
		}
	}
	return false
}
