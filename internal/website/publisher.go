// Package website renders the static site and publishes it to S3 behind
// CloudFront.
package website

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	cftypes "github.com/aws/aws-sdk-go-v2/service/cloudfront/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog/log"

	appconfig "gr8tracker/internal/config"
	"gr8tracker/internal/metrics"
	"gr8tracker/internal/models"
	"gr8tracker/internal/render"
)

// CloudFormation output keys published by the static-website stack.
const (
	outputBucketName     = "WebsiteBucketName"
	outputDistributionID = "CloudFrontDistributionId"
)

type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type cloudfrontAPI interface {
	CreateInvalidation(ctx context.Context, params *cloudfront.CreateInvalidationInput, optFns ...func(*cloudfront.Options)) (*cloudfront.CreateInvalidationOutput, error)
}

type cloudformationAPI interface {
	DescribeStacks(ctx context.Context, params *cloudformation.DescribeStacksInput, optFns ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error)
}

// Publisher writes the rendered site to a local directory, uploads it to
// the website bucket and invalidates the CloudFront cache.
type Publisher struct {
	s3         s3API
	cloudfront cloudfrontAPI
	cfn        cloudformationAPI

	staticDir      string
	bucket         string
	distributionID string
	stackName      string

	location *time.Location
	now      func() time.Time
}

// NewPublisher builds a Publisher. Bucket and distribution come from the
// configuration when set, otherwise they are resolved from the
// CloudFormation stack outputs on the first publish.
func NewPublisher(ctx context.Context, cfg *appconfig.Config, runtime appconfig.RuntimeContext) (*Publisher, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		loc = time.UTC
	}

	return &Publisher{
		s3:             s3.NewFromConfig(awsCfg),
		cloudfront:     cloudfront.NewFromConfig(awsCfg),
		cfn:            cloudformation.NewFromConfig(awsCfg),
		staticDir:      runtime.StaticDir,
		bucket:         cfg.WebsiteBucket,
		distributionID: cfg.CloudFrontDistID,
		stackName:      cfg.WebsiteStackName,
		location:       loc,
		now:            time.Now,
	}, nil
}

// Publish renders the site, writes it to the static directory, uploads
// it and invalidates the CDN cache.
func (p *Publisher) Publish(ctx context.Context, bundle models.StatsBundle) error {
	if err := p.WriteLocal(bundle); err != nil {
		metrics.RecordWebsitePublish("error")
		return err
	}

	if err := p.resolveStackOutputs(ctx); err != nil {
		metrics.RecordWebsitePublish("error")
		return err
	}

	if err := p.upload(ctx); err != nil {
		metrics.RecordWebsitePublish("error")
		return err
	}

	p.invalidate(ctx)

	metrics.RecordWebsitePublish("success")
	log.Info().Str("bucket", p.bucket).Msg("Website published")
	return nil
}

// WriteLocal renders index.html and the favicon into the static
// directory without touching AWS.
func (p *Publisher) WriteLocal(bundle models.StatsBundle) error {
	html, err := render.WebsiteHTML(bundle, p.now().In(p.location))
	if err != nil {
		return err
	}

	assetsDir := filepath.Join(p.staticDir, "assets")
	if err := os.MkdirAll(assetsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create static directory: %w", err)
	}

	indexPath := filepath.Join(p.staticDir, "index.html")
	if err := os.WriteFile(indexPath, []byte(html), 0o644); err != nil {
		return fmt.Errorf("failed to write index.html: %w", err)
	}

	if err := os.WriteFile(filepath.Join(assetsDir, "gr8.svg"), render.FaviconSVG(), 0o644); err != nil {
		return fmt.Errorf("failed to write favicon: %w", err)
	}

	log.Info().Str("path", indexPath).Msg("Website content written")
	return nil
}

// resolveStackOutputs fills in the bucket and distribution ID from the
// CloudFormation stack when the configuration left them empty.
func (p *Publisher) resolveStackOutputs(ctx context.Context) error {
	if p.bucket != "" {
		return nil
	}

	out, err := p.cfn.DescribeStacks(ctx, &cloudformation.DescribeStacksInput{
		StackName: aws.String(p.stackName),
	})
	if err != nil {
		return fmt.Errorf("failed to describe stack %s: %w", p.stackName, err)
	}
	if len(out.Stacks) == 0 {
		return fmt.Errorf("stack %s not found", p.stackName)
	}

	for _, output := range out.Stacks[0].Outputs {
		switch aws.ToString(output.OutputKey) {
		case outputBucketName:
			p.bucket = aws.ToString(output.OutputValue)
		case outputDistributionID:
			if p.distributionID == "" {
				p.distributionID = aws.ToString(output.OutputValue)
			}
		}
	}

	if p.bucket == "" {
		return fmt.Errorf("could not find %s in stack %s outputs", outputBucketName, p.stackName)
	}
	return nil
}

func (p *Publisher) upload(ctx context.Context) error {
	return filepath.Walk(p.staticDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		key, err := filepath.Rel(p.staticDir, path)
		if err != nil {
			return err
		}
		key = filepath.ToSlash(key)

		body, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		log.Debug().Str("key", key).Str("bucket", p.bucket).Msg("Uploading file")
		_, err = p.s3.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(p.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(body),
			ContentType: aws.String(contentType(path)),
		})
		if err != nil {
			return fmt.Errorf("failed to upload %s: %w", key, err)
		}
		return nil
	})
}

// invalidate clears the CloudFront cache. Failures only log a warning,
// the stale cache expires on its own.
func (p *Publisher) invalidate(ctx context.Context) {
	if p.distributionID == "" {
		return
	}

	ref := fmt.Sprintf("gr8tracker-%d", p.now().UnixNano())
	_, err := p.cloudfront.CreateInvalidation(ctx, &cloudfront.CreateInvalidationInput{
		DistributionId: aws.String(p.distributionID),
		InvalidationBatch: &cftypes.InvalidationBatch{
			CallerReference: aws.String(ref),
			Paths: &cftypes.Paths{
				Quantity: aws.Int32(1),
				Items:    []string{"/*"},
			},
		},
	})
	if err != nil {
		log.Warn().Err(err).Str("distribution", p.distributionID).Msg("Could not invalidate CloudFront cache")
		return
	}
	log.Info().Str("distribution", p.distributionID).Msg("Created CloudFront invalidation")
}

func contentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html":
		return "text/html"
	case ".css":
		return "text/css"
	case ".js":
		return "application/javascript"
	case ".json":
		return "application/json"
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".svg":
		return "image/svg+xml"
	case ".ico":
		return "image/x-icon"
	default:
		return "application/octet-stream"
	}
}
