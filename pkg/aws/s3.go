package aws

import (
	"context"
	"fmt"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// UploadPresigner issues presigned PUT URLs.
type UploadPresigner interface {
	PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (string, map[string]string, error)
}

// S3Presigner presigns uploads into a single bucket.
type S3Presigner struct {
	presigner *s3.PresignClient
	bucket    string
}

func NewS3Presigner(cfg sdkaws.Config, bucket string) *S3Presigner {
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
	})
	return &S3Presigner{presigner: s3.NewPresignClient(client), bucket: bucket}
}

// PresignPut returns the URL and the headers the client must send with the PUT.
func (p *S3Presigner) PresignPut(ctx context.Context, key, contentType string, expiry time.Duration) (string, map[string]string, error) {
	presigned, err := p.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      sdkaws.String(p.bucket),
		Key:         sdkaws.String(key),
		ContentType: sdkaws.String(contentType),
	}, func(o *s3.PresignOptions) {
		o.Expires = expiry
	})
	if err != nil {
		return "", nil, fmt.Errorf("failed to presign put object: %w", err)
	}

	headers := make(map[string]string)
	for k, v := range presigned.SignedHeader {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}
	return presigned.URL, headers, nil
}
