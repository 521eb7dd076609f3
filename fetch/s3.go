package fetch

import (
	"context"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/minio/minio-go/v7"
)

// s3Endpoint is the endpoint the anonymous storage client talks to.
const s3Endpoint = "s3.amazonaws.com"

func downloadS3(ctx context.Context, o Options, bucket, key, dst string) error {
	r := o.Resolver
	if r == nil {
		r = NewCredentialResolver()
	}
	strategy, cfg, err := chooseS3Strategy(ctx, o.Profile, r)
	if err != nil {
		return err
	}
	switch strategy {
	case StrategySession:
		return downloadS3Session(ctx, cfg, bucket, key, dst)
	case StrategyAnonymous:
		return downloadS3Anonymous(ctx, bucket, key, dst)
	default:
		return fmt.Errorf("unknown transfer strategy %d", strategy)
	}
}

// downloadS3Session streams the object through an authenticated session
// using the transfer manager.
func downloadS3Session(ctx context.Context, cfg aws.Config, bucket, key, dst string) error {
	f, err := os.Create(dst)
	if err != nil {
		return err
	}
	dl := manager.NewDownloader(s3.NewFromConfig(cfg))
	if _, err := dl.Download(ctx, f, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}); err != nil {
		f.Close()
		return fmt.Errorf("download s3://%s/%s: %w", bucket, key, err)
	}
	return f.Close()
}

// downloadS3Anonymous fetches the object with the dedicated storage client,
// unauthenticated. Nil credentials make the client sign nothing.
func downloadS3Anonymous(ctx context.Context, bucket, key, dst string) error {
	client, err := minio.New(s3Endpoint, &minio.Options{Secure: true})
	if err != nil {
		return err
	}
	if err := client.FGetObject(ctx, bucket, key, dst, minio.GetObjectOptions{}); err != nil {
		return fmt.Errorf("download s3://%s/%s: %w", bucket, key, err)
	}
	return nil
}
