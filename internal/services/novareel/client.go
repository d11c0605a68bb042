// Package novareel drives asynchronous text-to-video generation through
// Amazon Bedrock's Nova Reel model.
//
// Generation is a three phase protocol: start an async invocation, poll it
// until it settles, then download the rendered clip from the S3 location the
// invocation reports. All provider-side outcomes surface as
// *services.Failure so the pipeline can report them verbatim.
package novareel

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/document"
	brtypes "github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"chronoreel/internal/config"
	"chronoreel/internal/logging"
	"chronoreel/internal/services"
	"chronoreel/internal/textutil"
)

// TimeoutReason is the failure reason reported when the poll budget runs out.
const TimeoutReason = "timeout waiting for video generation"

const promptPrefix = "Cinematic historical scene: "

// maxPromptLength caps the text sent to the model; longer prompts are
// rejected by the service.
const maxPromptLength = 400

// BedrockAPI is the subset of the Bedrock runtime client used here.
type BedrockAPI interface {
	StartAsyncInvoke(ctx context.Context, params *bedrockruntime.StartAsyncInvokeInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.StartAsyncInvokeOutput, error)
	GetAsyncInvoke(ctx context.Context, params *bedrockruntime.GetAsyncInvokeInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.GetAsyncInvokeOutput, error)
}

// S3API is the subset of the S3 client used to fetch rendered clips.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Client generates short video clips from text prompts.
type Client struct {
	modelID      string
	outputS3URI  string
	pollInterval time.Duration
	maxAttempts  int
	duration     int
	fps          int
	dimension    string
	bedrock      BedrockAPI
	s3           S3API
	logger       *slog.Logger
	sleep        func(ctx context.Context, d time.Duration) error
	seed         func() int64
}

// Option customizes the client.
type Option func(*Client)

// WithBedrockClient injects a Bedrock runtime client (used in tests).
func WithBedrockClient(api BedrockAPI) Option {
	return func(c *Client) {
		if api != nil {
			c.bedrock = api
		}
	}
}

// WithS3Client injects an S3 client (used in tests).
func WithS3Client(api S3API) Option {
	return func(c *Client) {
		if api != nil {
			c.s3 = api
		}
	}
}

// WithSleeper overrides the inter-poll delay (used in tests).
func WithSleeper(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Client) {
		if sleep != nil {
			c.sleep = sleep
		}
	}
}

// WithSeeder overrides generation seed selection (used in tests).
func WithSeeder(seed func() int64) Option {
	return func(c *Client) {
		if seed != nil {
			c.seed = seed
		}
	}
}

// NewClient constructs a Nova Reel client from configuration. AWS credentials
// are resolved from the default chain unless clients are injected.
func NewClient(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Client, error) {
	settings := config.Default().NovaReel
	if cfg != nil {
		settings = cfg.NovaReel
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	client := &Client{
		modelID:      settings.ModelID,
		outputS3URI:  settings.OutputS3URI,
		pollInterval: time.Duration(settings.PollIntervalSeconds) * time.Second,
		maxAttempts:  settings.PollMaxAttempts,
		duration:     settings.DurationSeconds,
		fps:          settings.FPS,
		dimension:    settings.Dimension,
		logger:       logger.With(logging.String(logging.FieldComponent, "novareel")),
		sleep:        sleepContext,
		seed:         func() int64 { return rand.Int64N(2147483647) },
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.bedrock == nil || client.s3 == nil {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(settings.Region))
		if err != nil {
			return nil, fmt.Errorf("load aws config: %w", err)
		}
		if client.bedrock == nil {
			client.bedrock = bedrockruntime.NewFromConfig(awsCfg)
		}
		if client.s3 == nil {
			client.s3 = s3.NewFromConfig(awsCfg)
		}
	}
	return client, nil
}

// Generate renders a clip for prompt and writes the raw video to destPath.
// The clip carries no audio track; the caller merges the voiceover.
func (c *Client) Generate(ctx context.Context, prompt, destPath string) error {
	videoPrompt := promptPrefix + textutil.Truncate(prompt, maxPromptLength)

	modelInput := document.NewLazyDocument(map[string]any{
		"taskType": "TEXT_VIDEO",
		"textToVideoParams": map[string]any{
			"text": videoPrompt,
		},
		"videoGenerationConfig": map[string]any{
			"durationSeconds": c.duration,
			"fps":             c.fps,
			"dimension":       c.dimension,
			"seed":            c.seed(),
		},
	})

	started, err := c.bedrock.StartAsyncInvoke(ctx, &bedrockruntime.StartAsyncInvokeInput{
		ModelId:    aws.String(c.modelID),
		ModelInput: modelInput,
		OutputDataConfig: &brtypes.AsyncInvokeOutputDataConfigMemberS3OutputDataConfig{
			Value: brtypes.AsyncInvokeS3OutputDataConfig{
				S3Uri: aws.String(c.outputS3URI),
			},
		},
	})
	if err != nil {
		return services.Failf("start video generation: %v", err)
	}

	arn := aws.ToString(started.InvocationArn)
	logging.WithContext(ctx, c.logger).Info("video generation started", logging.String("invocation_arn", arn))

	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		status, err := c.bedrock.GetAsyncInvoke(ctx, &bedrockruntime.GetAsyncInvokeInput{
			InvocationArn: aws.String(arn),
		})
		if err != nil {
			return services.Failf("poll video generation: %v", err)
		}

		switch status.Status {
		case brtypes.AsyncInvokeStatusCompleted:
			uri, err := reportedS3URI(status.OutputDataConfig)
			if err != nil {
				return services.Failf("%v", err)
			}
			return c.download(ctx, uri, destPath)
		case brtypes.AsyncInvokeStatusFailed:
			reason := aws.ToString(status.FailureMessage)
			if reason == "" {
				reason = "video generation failed"
			}
			return services.Failf("%s", reason)
		}

		if err := c.sleep(ctx, c.pollInterval); err != nil {
			return err
		}
	}

	return &services.Failure{Reason: TimeoutReason}
}

func reportedS3URI(cfg brtypes.AsyncInvokeOutputDataConfig) (string, error) {
	s3cfg, ok := cfg.(*brtypes.AsyncInvokeOutputDataConfigMemberS3OutputDataConfig)
	if !ok || s3cfg.Value.S3Uri == nil {
		return "", fmt.Errorf("invocation completed without an output location")
	}
	return aws.ToString(s3cfg.Value.S3Uri), nil
}

func (c *Client) download(ctx context.Context, uri, destPath string) error {
	bucket, key, err := splitS3URI(uri)
	if err != nil {
		return services.Failf("%v", err)
	}

	object, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return services.Failf("download generated video: %v", err)
	}
	defer object.Body.Close()

	file, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create video file: %w", err)
	}
	defer file.Close()

	written, err := io.Copy(file, object.Body)
	if err != nil {
		return fmt.Errorf("write video file: %w", err)
	}

	logging.WithContext(ctx, c.logger).Info("generated video downloaded",
		logging.String("s3_uri", uri),
		logging.Int("bytes", int(written)),
	)
	return nil
}

func splitS3URI(uri string) (bucket, key string, err error) {
	trimmed := strings.TrimPrefix(uri, "s3://")
	if trimmed == uri {
		return "", "", fmt.Errorf("unexpected output location %q", uri)
	}
	bucket, key, found := strings.Cut(trimmed, "/")
	if !found || bucket == "" || key == "" {
		return "", "", fmt.Errorf("unexpected output location %q", uri)
	}
	return bucket, key, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
