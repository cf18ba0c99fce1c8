package s3

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"taxfiling/internal/config"
	"taxfiling/internal/port"
)

// archiveClient stores filing export archives. Objects are written with
// server-side encryption since they carry full recipient TINs.
type archiveClient struct {
	presigner *s3.PresignClient
	uploader  *manager.Uploader
}

// NewS3Client returns the S3-backed export archive.
func NewS3Client(ctx context.Context, cfg *config.S3Config) (port.ArchiveStorage, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &archiveClient{
		presigner: s3.NewPresignClient(client),
		uploader:  manager.NewUploader(client),
	}, nil
}

func (c *archiveClient) Upload(ctx context.Context, obj port.ArchiveObject) (*port.ArchivedObject, error) {
	put := &s3.PutObjectInput{
		Bucket:               aws.String(obj.Bucket),
		Key:                  aws.String(obj.Key),
		Body:                 obj.Body,
		ContentType:          aws.String(obj.ContentType),
		Metadata:             obj.Metadata,
		ServerSideEncryption: types.ServerSideEncryptionAes256,
	}
	if obj.Size > 0 {
		put.ContentLength = aws.Int64(obj.Size)
	}

	result, err := c.uploader.Upload(ctx, put)
	if err != nil {
		return nil, fmt.Errorf("s3 upload %s: %w", obj.Key, err)
	}
	return &port.ArchivedObject{
		Location: result.Location,
		ETag:     aws.ToString(result.ETag),
	}, nil
}

func (c *archiveClient) GetPresignedURL(ctx context.Context, bucket, key string, expirySeconds int64) (string, error) {
	result, err := c.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(time.Duration(expirySeconds)*time.Second))
	if err != nil {
		return "", fmt.Errorf("s3 presign %s: %w", key, err)
	}
	return result.URL, nil
}
