package website

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	cfntypes "github.com/aws/aws-sdk-go-v2/service/cloudformation/types"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gr8tracker/internal/models"
)

type fakeS3 struct {
	objects map[string]string
	types   map[string]string
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.objects == nil {
		f.objects = map[string]string{}
		f.types = map[string]string{}
	}
	body, _ := io.ReadAll(in.Body)
	f.objects[aws.ToString(in.Key)] = string(body)
	f.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

type fakeCloudFront struct {
	invalidated []string
}

func (f *fakeCloudFront) CreateInvalidation(_ context.Context, in *cloudfront.CreateInvalidationInput, _ ...func(*cloudfront.Options)) (*cloudfront.CreateInvalidationOutput, error) {
	f.invalidated = append(f.invalidated, aws.ToString(in.DistributionId))
	return &cloudfront.CreateInvalidationOutput{}, nil
}

type fakeCFN struct {
	outputs map[string]string
	err     error
}

func (f *fakeCFN) DescribeStacks(_ context.Context, _ *cloudformation.DescribeStacksInput, _ ...func(*cloudformation.Options)) (*cloudformation.DescribeStacksOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	stack := cfntypes.Stack{}
	for key, value := range f.outputs {
		stack.Outputs = append(stack.Outputs, cfntypes.Output{
			OutputKey:   aws.String(key),
			OutputValue: aws.String(value),
		})
	}
	return &cloudformation.DescribeStacksOutput{Stacks: []cfntypes.Stack{stack}}, nil
}

func testPublisher(t *testing.T) (*Publisher, *fakeS3, *fakeCloudFront, *fakeCFN) {
	t.Helper()
	s3c := &fakeS3{}
	cf := &fakeCloudFront{}
	cfn := &fakeCFN{outputs: map[string]string{
		"WebsiteBucketName":        "site-bucket",
		"CloudFrontDistributionId": "DIST123",
	}}
	p := &Publisher{
		s3:         s3c,
		cloudfront: cf,
		cfn:        cfn,
		staticDir:  t.TempDir(),
		stackName:  "static-website",
		location:   time.UTC,
		now:        func() time.Time { return time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC) },
	}
	return p, s3c, cf, cfn
}

func testBundle() models.StatsBundle {
	return models.BuildBundle(models.DerivedStats{
		TotalGoals:    886,
		GoalsNeeded:   9,
		RecordGoals:   894,
		ProjectedDate: "04/12/2025",
	})
}

func TestWriteLocal(t *testing.T) {
	p, _, _, _ := testPublisher(t)

	require.NoError(t, p.WriteLocal(testBundle()))

	html, err := os.ReadFile(filepath.Join(p.staticDir, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(html), "The GR8 Chase")

	svg, err := os.ReadFile(filepath.Join(p.staticDir, "assets", "gr8.svg"))
	require.NoError(t, err)
	assert.Contains(t, string(svg), "<svg")
}

func TestPublishResolvesStackAndUploads(t *testing.T) {
	p, s3c, cf, _ := testPublisher(t)

	require.NoError(t, p.Publish(context.Background(), testBundle()))

	assert.Equal(t, "site-bucket", p.bucket)
	assert.Contains(t, s3c.objects, "index.html")
	assert.Contains(t, s3c.objects, "assets/gr8.svg")
	assert.Equal(t, "text/html", s3c.types["index.html"])
	assert.Equal(t, "image/svg+xml", s3c.types["assets/gr8.svg"])
	assert.Equal(t, []string{"DIST123"}, cf.invalidated)
}

func TestPublishUsesConfiguredBucket(t *testing.T) {
	p, s3c, _, cfn := testPublisher(t)
	p.bucket = "configured-bucket"
	cfn.err = assert.AnError

	require.NoError(t, p.Publish(context.Background(), testBundle()))
	assert.Contains(t, s3c.objects, "index.html")
}

func TestPublishFailsWithoutBucketOutput(t *testing.T) {
	p, _, _, cfn := testPublisher(t)
	cfn.outputs = map[string]string{"Other": "x"}

	err := p.Publish(context.Background(), testBundle())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WebsiteBucketName")
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "text/html", contentType("a/index.html"))
	assert.Equal(t, "image/svg+xml", contentType("assets/gr8.svg"))
	assert.Equal(t, "application/octet-stream", contentType("file.bin"))
}
