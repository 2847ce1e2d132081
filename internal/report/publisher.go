package report

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"finledger/internal/logging"
	"finledger/internal/netx"
)

// S3Settings describes the object storage the report service publishes to.
// Endpoint is the base URL of an S3-compatible server such as MinIO.
type S3Settings struct {
	Region    string
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
}

// Publisher stores an exported report artifact and returns its storage key.
type Publisher interface {
	Publish(ctx context.Context, fileName string, content []byte) (string, error)
}

// S3Publisher uploads artifacts through presigned PUT URLs so the
// storage credentials never leave this process.
type S3Publisher struct {
	settings S3Settings
	logger   logging.Logger

	// seams for tests
	presignPut func(ctx context.Context, bucket, key string) (string, error)
	upload     func(ctx context.Context, url, contentType string, content []byte) error
}

func NewS3Publisher(settings S3Settings, logger logging.Logger) *S3Publisher {
	p := &S3Publisher{
		settings: settings,
		logger:   logger.With("module", "s3_publisher"),
		upload:   netx.UploadToPresignedURL,
	}
	p.presignPut = p.presignPutURL
	return p
}

func (p *S3Publisher) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(p.settings.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			p.settings.AccessKey,
			p.settings.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(p.settings.Endpoint)
		o.UsePathStyle = true
	})

	return s3.NewPresignClient(client), nil
}

func (p *S3Publisher) presignPutURL(ctx context.Context, bucket, key string) (string, error) {
	presignClient, err := p.getPresignClient(ctx)
	if err != nil {
		return "", err
	}

	req, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

// StorageKey places artifacts under reports/yyyy/mm so a bucket listing
// groups them by publication month.
func StorageKey(fileName string, now time.Time) string {
	return fmt.Sprintf("reports/%d/%02d/%s", now.Year(), now.Month(), fileName)
}

func contentTypeFor(fileName string) string {
	switch filepath.Ext(fileName) {
	case ".json":
		return "application/json"
	case ".csv":
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}

func (p *S3Publisher) Publish(ctx context.Context, fileName string, content []byte) (string, error) {
	key := StorageKey(fileName, time.Now())

	url, err := p.presignPut(ctx, p.settings.Bucket, key)
	if err != nil {
		return "", fmt.Errorf("presign put: %w", err)
	}

	if err := p.upload(ctx, url, contentTypeFor(fileName), content); err != nil {
		return "", fmt.Errorf("upload report: %w", err)
	}

	p.logger.Info(ctx, "report published", "key", key, "bytes", len(content))
	return key, nil
}
