package storage

import (
	"bytes"
	"context"
	"errors"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

type S3Client interface {
	// UploadFile stores data under key and returns the key.
	UploadFile(ctx context.Context, key string, data []byte) (string, error)
	DeleteFile(ctx context.Context, key string) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	PublicURL(key string) string
}

type storageClient struct {
	bucket  string
	baseURL string
	client  *s3.Client
	presign *s3.PresignClient
}

func NewStorageClient(ctx context.Context, region, bucket, publicBaseURL string) (S3Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}

	if publicBaseURL == "" {
		publicBaseURL = "https://" + bucket + ".s3." + region + ".amazonaws.com/"
	}

	client := s3.NewFromConfig(cfg)
	return &storageClient{
		bucket:  bucket,
		baseURL: strings.TrimSuffix(publicBaseURL, "/") + "/",
		client:  client,
		presign: s3.NewPresignClient(client),
	}, nil
}

func (s *storageClient) UploadFile(ctx context.Context, key string, data []byte) (string, error) {
	if key == "" {
		return "", errors.New("key is empty")
	}

	mimeType := mime.TypeByExtension(filepath.Ext(key))
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: &mimeType,
	}

	_, err := s.client.PutObject(ctx, input)
	if err != nil {
		return "", err
	}
	return key, nil
}

func (s *storageClient) DeleteFile(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})

	var noKey *types.NoSuchKey
	if errors.As(err, &noKey) {
		return nil
	}
	return err
}

func (s *storageClient) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

func (s *storageClient) PublicURL(key string) string {
	return s.baseURL + key
}
