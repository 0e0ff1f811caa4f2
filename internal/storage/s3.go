package storage

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Options configures an S3-compatible backend (AWS or MinIO).
type S3Options struct {
	Bucket    string
	Region    string
	Endpoint  string // empty for AWS
	AccessKey string
	SecretKey string
	BaseURL   string // public link prefix
}

type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type S3Uploader struct {
	api     objectAPI
	bucket  string
	baseURL string
}

func NewS3Uploader(ctx context.Context, o S3Options) (*S3Uploader, error) {
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(o.Region)}
	if o.AccessKey != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, ""),
		))
	}
	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(so *s3.Options) {
		if o.Endpoint != "" {
			so.BaseEndpoint = aws.String(o.Endpoint)
			so.UsePathStyle = true
		}
	})

	base := o.BaseURL
	if base == "" {
		if o.Endpoint != "" {
			base = publicLink(o.Endpoint, o.Bucket)
		} else {
			base = "https://" + o.Bucket + ".s3." + o.Region + ".amazonaws.com"
		}
	}
	return newS3Uploader(client, o.Bucket, base), nil
}

func newS3Uploader(api objectAPI, bucket, baseURL string) *S3Uploader {
	return &S3Uploader{api: api, bucket: bucket, baseURL: baseURL}
}

func (u *S3Uploader) Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (string, error) {
	_, err := u.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(objectName),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}
	return publicLink(u.baseURL, objectName), nil
}

func (u *S3Uploader) Delete(ctx context.Context, objectName string) error {
	_, err := u.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(objectName),
	})
	return err
}
