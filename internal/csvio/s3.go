package csvio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ignite/outreach/internal/pkg/logger"
)

// IsS3Path reports whether a source path points at S3.
func IsS3Path(path string) bool {
	return strings.HasPrefix(path, "s3://")
}

// parseS3Path splits s3://bucket/key into its parts.
func parseS3Path(path string) (bucket, key string, err error) {
	rest := strings.TrimPrefix(path, "s3://")
	slash := strings.IndexByte(rest, '/')
	if slash <= 0 || slash == len(rest)-1 {
		return "", "", fmt.Errorf("invalid s3 path %q, want s3://bucket/key", path)
	}
	return rest[:slash], rest[slash+1:], nil
}

// S3Options selects the AWS region and credential profile for s3:// sources.
// Zero values fall back to the default credential chain.
type S3Options struct {
	Region  string
	Profile string
}

// Open returns a reader for a local file or an s3:// object. The caller
// closes it.
func Open(ctx context.Context, path string, opts S3Options) (io.ReadCloser, error) {
	if !IsS3Path(path) {
		return os.Open(path)
	}

	bucket, key, err := parseS3Path(path)
	if err != nil {
		return nil, err
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}
	if opts.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(opts.Profile))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	downloader := manager.NewDownloader(s3.NewFromConfig(awsCfg))

	buf := manager.NewWriteAtBuffer(nil)
	n, err := downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("download s3://%s/%s: %w", bucket, key, err)
	}

	logger.Info("[Import] downloaded source from s3", "bucket", bucket, "key", key, "bytes", n)
	return io.NopCloser(bytes.NewReader(buf.Bytes())), nil
}
