package adapters

import (
	"article-narration-pipeline/application/ports/outbound"
	"article-narration-pipeline/config"
	"article-narration-pipeline/domain"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/client"
	"github.com/aws/aws-sdk-go/service/mediaconvert"
	"github.com/aws/aws-sdk-go/service/mediaconvert/mediaconvertiface"
	"os"
	"path/filepath"
)

const (
	audioSelectorName    = "Audio Selector 1"
	captionSelectorName  = "Captions Selector 1"
	builtinSettingsLabel = "Default"
)

//go:embed mediaconvert_templates/preview_mp4.json
var previewJobTemplate []byte

//go:embed mediaconvert_templates/full_hls.json
var fullJobTemplate []byte

type jobTemplate struct {
	label    string
	settings []byte
}

type mediaConvertVideoJobs struct {
	logger          outbound.LoggerPort
	mediaConvertSvc mediaconvertiface.MediaConvertAPI
	videoConfig     *config.VideoConfig
	preview         jobTemplate
	full            jobTemplate
}

// NewMediaConvertVideoJobs resolves the account endpoint unless one is configured and loads the
// job settings templates.
func NewMediaConvertVideoJobs(ctx context.Context, logger outbound.LoggerPort, sess client.ConfigProvider,
	videoConfig *config.VideoConfig) (outbound.VideoJobPort, error) {
	endpoint := videoConfig.Endpoint
	if endpoint == "" {
		out, err := mediaconvert.New(sess).DescribeEndpointsWithContext(ctx, &mediaconvert.DescribeEndpointsInput{
			MaxResults: aws.Int64(1),
		})
		if err != nil {
			return nil, fmt.Errorf("describe mediaconvert endpoints: %w", err)
		}
		if len(out.Endpoints) == 0 {
			return nil, fmt.Errorf("no mediaconvert endpoint available")
		}
		endpoint = aws.StringValue(out.Endpoints[0].Url)
	}

	preview, err := loadJobTemplate(videoConfig.PreviewJobSettings, previewJobTemplate)
	if err != nil {
		return nil, err
	}
	full, err := loadJobTemplate(videoConfig.FullJobSettings, fullJobTemplate)
	if err != nil {
		return nil, err
	}

	svc := mediaconvert.New(sess, aws.NewConfig().WithEndpoint(endpoint))
	return newMediaConvertVideoJobs(logger, svc, videoConfig, preview, full), nil
}

func newMediaConvertVideoJobs(logger outbound.LoggerPort, svc mediaconvertiface.MediaConvertAPI, videoConfig *config.VideoConfig,
	preview jobTemplate, full jobTemplate) *mediaConvertVideoJobs {
	return &mediaConvertVideoJobs{
		logger:          logger,
		mediaConvertSvc: svc,
		videoConfig:     videoConfig,
		preview:         preview,
		full:            full,
	}
}

func loadJobTemplate(path string, builtin []byte) (jobTemplate, error) {
	if path == "" {
		return jobTemplate{label: builtinSettingsLabel, settings: builtin}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return jobTemplate{}, fmt.Errorf("read job settings %s: %w", path, err)
	}
	if !json.Valid(raw) {
		return jobTemplate{}, fmt.Errorf("job settings %s is not valid JSON", path)
	}
	return jobTemplate{label: filepath.Base(path), settings: raw}, nil
}

func (t jobTemplate) decode() (*mediaconvert.JobSettings, error) {
	var settings mediaconvert.JobSettings
	if err := json.Unmarshal(t.settings, &settings); err != nil {
		return nil, fmt.Errorf("decode job settings %s: %w", t.label, err)
	}
	if len(settings.Inputs) == 0 || len(settings.OutputGroups) == 0 || len(settings.OutputGroups[0].Outputs) == 0 {
		return nil, fmt.Errorf("job settings %s need an input and an output", t.label)
	}
	return &settings, nil
}

func (m *mediaConvertVideoJobs) SubmitPreview(ctx context.Context, params outbound.PreviewVideoParams) (*domain.VideoJob, error) {
	settings, err := m.preview.decode()
	if err != nil {
		return nil, err
	}

	input := settings.Inputs[0]
	input.FileInput = aws.String(m.videoConfig.PreviewTemplateURL)
	setExternalAudio(input, params.AudioURI)

	images := make([]*mediaconvert.InsertableImage, 0, len(params.ImageURIs))
	for i, uri := range params.ImageURIs {
		images = append(images, m.insertableImage(uri, i))
	}
	input.ImageInserter = &mediaconvert.ImageInserter{InsertableImages: images}

	input.CaptionSelectors = map[string]*mediaconvert.CaptionSelector{
		captionSelectorName: {
			SourceSettings: &mediaconvert.CaptionSourceSettings{
				SourceType:         aws.String(mediaconvert.CaptionSourceTypeSrt),
				FileSourceSettings: &mediaconvert.FileSourceSettings{SourceFile: aws.String(params.SubtitleURI)},
			},
		},
	}
	for _, caption := range settings.OutputGroups[0].Outputs[0].CaptionDescriptions {
		if caption.DestinationSettings == nil || caption.DestinationSettings.BurninDestinationSettings == nil {
			continue
		}
		burnin := caption.DestinationSettings.BurninDestinationSettings
		burnin.FontColor = aws.String(m.videoConfig.CaptionFontColor)
		burnin.YPosition = aws.Int64(m.videoConfig.CaptionYPosition)
	}

	for _, group := range settings.OutputGroups {
		groupType := aws.StringValue(group.OutputGroupSettings.Type)
		if groupType != mediaconvert.OutputGroupTypeFileGroupSettings || group.OutputGroupSettings.FileGroupSettings == nil {
			return nil, fmt.Errorf("unexpected output group type %s in preview settings", groupType)
		}
		group.OutputGroupSettings.FileGroupSettings.Destination = aws.String(params.Destination)
	}

	return m.createJob(ctx, domain.PreviewVideo, params.AssetID, params.Destination, m.videoConfig.PreviewTemplateURL, m.preview.label, settings)
}

func (m *mediaConvertVideoJobs) SubmitFull(ctx context.Context, params outbound.FullVideoParams) (*domain.VideoJob, error) {
	settings, err := m.full.decode()
	if err != nil {
		return nil, err
	}

	input := settings.Inputs[0]
	input.FileInput = aws.String(m.videoConfig.TemplateURL)
	setExternalAudio(input, params.AudioURI)
	input.InputClippings = []*mediaconvert.InputClipping{{EndTimecode: aws.String(params.EndTimecode)}}

	images := make([]*mediaconvert.InsertableImage, 0, len(params.Images))
	for i, slot := range params.Images {
		image := m.insertableImage(slot.ImageURI, i)
		image.StartTime = aws.String(slot.StartTimecode)
		image.Duration = aws.Int64(slot.DurationMs)
		images = append(images, image)
	}
	input.ImageInserter = &mediaconvert.ImageInserter{InsertableImages: images}

	settings.OutputGroups[0].Outputs[0].NameModifier = aws.String(params.NameModifier)
	for _, group := range settings.OutputGroups {
		groupType := aws.StringValue(group.OutputGroupSettings.Type)
		if groupType != mediaconvert.OutputGroupTypeHlsGroupSettings || group.OutputGroupSettings.HlsGroupSettings == nil {
			return nil, fmt.Errorf("unexpected output group type %s in full video settings", groupType)
		}
		group.OutputGroupSettings.HlsGroupSettings.Destination = aws.String(params.Destination)
	}

	return m.createJob(ctx, domain.FullVideo, params.AssetID, params.Destination, m.videoConfig.TemplateURL, m.full.label, settings)
}

func (m *mediaConvertVideoJobs) insertableImage(uri string, layer int) *mediaconvert.InsertableImage {
	return &mediaconvert.InsertableImage{
		ImageInserterInput: aws.String(uri),
		Width:              aws.Int64(m.videoConfig.ImageWidth),
		Height:             aws.Int64(m.videoConfig.ImageHeight),
		ImageX:             aws.Int64(m.videoConfig.ImageOffset),
		ImageY:             aws.Int64(m.videoConfig.ImageOffset),
		Layer:              aws.Int64(int64(layer)),
	}
}

func setExternalAudio(input *mediaconvert.Input, audioURI string) {
	selector, ok := input.AudioSelectors[audioSelectorName]
	if !ok || selector == nil {
		selector = &mediaconvert.AudioSelector{DefaultSelection: aws.String(mediaconvert.AudioDefaultSelectionDefault)}
		if input.AudioSelectors == nil {
			input.AudioSelectors = make(map[string]*mediaconvert.AudioSelector)
		}
		input.AudioSelectors[audioSelectorName] = selector
	}
	selector.ExternalAudioFileInput = aws.String(audioURI)
}

func (m *mediaConvertVideoJobs) createJob(ctx context.Context, kind domain.VideoKind, assetID domain.AssetID, destination string,
	templateURL string, settingsLabel string, settings *mediaconvert.JobSettings) (*domain.VideoJob, error) {
	out, err := m.mediaConvertSvc.CreateJobWithContext(ctx, &mediaconvert.CreateJobInput{
		Role:     aws.String(m.videoConfig.Role),
		Settings: settings,
		UserMetadata: map[string]*string{
			"assetID":     aws.String(assetID.String()),
			"application": aws.String(m.videoConfig.Application),
			"input":       aws.String(templateURL),
			"settings":    aws.String(settingsLabel),
		},
	})
	if err != nil {
		m.logger.ErrorWithFields(err, "Failed to create MediaConvert job", map[string]interface{}{
			"asset_id": assetID,
			"kind":     kind,
		})
		return nil, err
	}
	if out.Job == nil {
		return nil, fmt.Errorf("mediaconvert returned no job for %s", assetID)
	}

	m.logger.InfoWithFields("MediaConvert job created", map[string]interface{}{
		"asset_id": assetID,
		"kind":     kind,
		"job_id":   aws.StringValue(out.Job.Id),
	})

	return &domain.VideoJob{
		ID:          aws.StringValue(out.Job.Id),
		Kind:        kind,
		Destination: destination,
	}, nil
}
