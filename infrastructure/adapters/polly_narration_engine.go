package adapters

import (
	"article-narration-pipeline/application/ports/outbound"
	"article-narration-pipeline/config"
	"context"
	"fmt"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/polly"
	"github.com/aws/aws-sdk-go/service/polly/pollyiface"
)

type pollyNarrationEngine struct {
	logger          outbound.LoggerPort
	pollySvc        pollyiface.PollyAPI
	narrationConfig *config.NarrationConfig
}

func NewPollyNarrationEngine(logger outbound.LoggerPort, pollySvc pollyiface.PollyAPI, narrationConfig *config.NarrationConfig) outbound.NarrationEnginePort {
	return &pollyNarrationEngine{
		logger:          logger,
		pollySvc:        pollySvc,
		narrationConfig: narrationConfig,
	}
}

// Submit starts an asynchronous synthesis task that writes <prefix><task id>.<format> to the bucket.
func (p *pollyNarrationEngine) Submit(ctx context.Context, req outbound.NarrationRequest) (*outbound.NarrationJob, error) {
	input := &polly.StartSpeechSynthesisTaskInput{
		Text:               aws.String(req.Text),
		VoiceId:            aws.String(req.VoiceID),
		OutputFormat:       aws.String(p.narrationConfig.OutputFormat),
		OutputS3BucketName: aws.String(req.OutputBucket),
		OutputS3KeyPrefix:  aws.String(req.OutputPrefix),
		TextType:           aws.String(p.narrationConfig.TextType),
	}
	if req.Engine != "" {
		input.Engine = aws.String(string(req.Engine))
	}
	if req.LanguageCode != "" {
		input.LanguageCode = aws.String(req.LanguageCode)
	}

	out, err := p.pollySvc.StartSpeechSynthesisTaskWithContext(ctx, input)
	if err != nil {
		p.logger.ErrorWithFields(err, "Failed to start speech synthesis task", map[string]interface{}{
			"voice":  req.VoiceID,
			"prefix": req.OutputPrefix,
		})
		return nil, err
	}
	if out.SynthesisTask == nil {
		return nil, fmt.Errorf("speech synthesis task missing from response")
	}

	task := out.SynthesisTask
	return &outbound.NarrationJob{
		TaskID:    aws.StringValue(task.TaskId),
		Status:    aws.StringValue(task.TaskStatus),
		OutputURI: aws.StringValue(task.OutputUri),
	}, nil
}
