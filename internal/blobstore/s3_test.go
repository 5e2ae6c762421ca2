package blobstore

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/postline/internal/common"
)

func stubSeams(t *testing.T) {
	t.Helper()
	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	origPut := putObject
	origPresign := presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		putObject = origPut
		presignGetObject = origPresign
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return &s3.PresignClient{}
	}
}

func testStore() *S3Store {
	return NewS3Store(S3Config{
		User:         "minioadmin",
		Password:     "minioadmin",
		Bucket:       "postimages",
		Region:       "us-east-1",
		BaseEndpoint: "http://127.0.0.1:9000/",
	})
}

func TestS3Store_Upload(t *testing.T) {
	t.Run("puts object under key", func(t *testing.T) {
		stubSeams(t)

		var gotBucket, gotKey, gotBody string
		putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
			gotBucket = *in.Bucket
			gotKey = *in.Key
			b, err := io.ReadAll(in.Body)
			require.NoError(t, err)
			gotBody = string(b)
			return &s3.PutObjectOutput{}, nil
		}

		key, err := testStore().Upload(context.Background(), "images/abc", []byte("imgdata"))
		require.NoError(t, err)
		assert.Equal(t, "images/abc", key)
		assert.Equal(t, "postimages", gotBucket)
		assert.Equal(t, "images/abc", gotKey)
		assert.Equal(t, "imgdata", gotBody)
	})

	t.Run("put failure", func(t *testing.T) {
		stubSeams(t)

		putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
			return nil, errors.New("put-fail")
		}

		_, err := testStore().Upload(context.Background(), "images/abc", []byte("imgdata"))
		assert.ErrorIs(t, err, common.ErrUpload)
	})

	t.Run("config load failure", func(t *testing.T) {
		stubSeams(t)

		loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
			return aws.Config{}, errors.New("load-fail")
		}

		_, err := testStore().Upload(context.Background(), "images/abc", []byte("imgdata"))
		assert.ErrorIs(t, err, common.ErrUpload)
	})
}

func TestS3Store_DownloadURL(t *testing.T) {
	t.Run("returns presigned url", func(t *testing.T) {
		stubSeams(t)

		presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
			assert.Equal(t, "postimages", *in.Bucket)
			assert.Equal(t, "images/abc", *in.Key)
			return &v4.PresignedHTTPRequest{URL: "http://127.0.0.1:9000/postimages/images/abc?signed"}, nil
		}

		url, err := testStore().DownloadURL(context.Background(), "images/abc")
		require.NoError(t, err)
		assert.Equal(t, "http://127.0.0.1:9000/postimages/images/abc?signed", url)
	})

	t.Run("presign failure", func(t *testing.T) {
		stubSeams(t)

		presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
			return nil, errors.New("presign-fail")
		}

		_, err := testStore().DownloadURL(context.Background(), "images/abc")
		assert.ErrorIs(t, err, common.ErrUpload)
	})
}

func TestRandomImageKey(t *testing.T) {
	k1 := RandomImageKey()
	k2 := RandomImageKey()

	assert.True(t, strings.HasPrefix(k1, "images/"))
	assert.NotEqual(t, k1, k2)
}
