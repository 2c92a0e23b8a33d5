package storage

import (
	"context"
	"errors"
	"fmt"
	"kitchenlog/internal/utils"
	"mime/multipart"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var (
	AllowImage = []string{".jpg", ".jpeg", ".png"}

	ErrFileTypeNotAllowed = errors.New("file type not allowed")
	ErrStorageDisabled    = errors.New("object storage is not configured")
)

type (
	AwsS3 interface {
		UploadFile(ctx context.Context, fileName string, file *multipart.FileHeader, folder string, allowed ...string) (string, error)
		CopyFile(ctx context.Context, objectKey string, fileName string, folder string) (string, error)
		DeleteFile(ctx context.Context, objectKey string) error
		GetPublicLinkKey(objectKey string) string
		GetObjectKeyFromLink(link string) string
	}

	awsS3 struct {
		client *s3.Client
		bucket string
		region string
		base   string
	}
)

func NewAwsS3() AwsS3 {
	bucket := utils.GetConfig("AWS_S3_BUCKET")
	region := utils.GetConfig("AWS_S3_REGION")
	endpoint := utils.GetConfig("AWS_S3_ENDPOINT")

	cfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			utils.GetConfig("AWS_ACCESS_KEY"),
			utils.GetConfig("AWS_SECRET_KEY"),
			"",
		)),
	)
	if err != nil {
		return &awsS3{bucket: bucket, region: region}
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})

	base := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", bucket, region)
	if endpoint != "" {
		base = strings.TrimSuffix(endpoint, "/") + "/" + bucket + "/"
	}

	return &awsS3{
		client: client,
		bucket: bucket,
		region: region,
		base:   base,
	}
}

// CheckExtension reports whether the uploaded file name has one of the allowed extensions.
func CheckExtension(fileName string, allowed ...string) error {
	if len(allowed) == 0 {
		return nil
	}
	ext := strings.ToLower(filepath.Ext(fileName))
	if !slices.Contains(allowed, ext) {
		return fmt.Errorf("%w: %s", ErrFileTypeNotAllowed, ext)
	}
	return nil
}

func (a *awsS3) put(ctx context.Context, objectKey string, file *multipart.FileHeader) error {
	if a.client == nil || a.bucket == "" {
		return ErrStorageDisabled
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(objectKey),
		Body:        src,
		ContentType: aws.String(file.Header.Get("Content-Type")),
	})
	return err
}

func newObjectKey(folder, fileName, ext string) string {
	return fmt.Sprintf("%s/%s-%s%s", folder, fileName, uuid.NewString()[:8], ext)
}

func (a *awsS3) UploadFile(ctx context.Context, fileName string, file *multipart.FileHeader, folder string, allowed ...string) (string, error) {
	if err := CheckExtension(file.Filename, allowed...); err != nil {
		return "", err
	}

	objectKey := newObjectKey(folder, fileName, strings.ToLower(filepath.Ext(file.Filename)))
	if err := a.put(ctx, objectKey, file); err != nil {
		return "", err
	}
	return objectKey, nil
}

// CopyFile duplicates an existing object under a fresh key in folder and
// returns that key.
func (a *awsS3) CopyFile(ctx context.Context, objectKey string, fileName string, folder string) (string, error) {
	if a.client == nil || a.bucket == "" {
		return "", ErrStorageDisabled
	}

	newKey := newObjectKey(folder, fileName, strings.ToLower(filepath.Ext(objectKey)))
	_, err := a.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(a.bucket),
		CopySource: aws.String(a.bucket + "/" + objectKey),
		Key:        aws.String(newKey),
	})
	if err != nil {
		return "", err
	}
	return newKey, nil
}

func (a *awsS3) DeleteFile(ctx context.Context, objectKey string) error {
	if a.client == nil || a.bucket == "" {
		return ErrStorageDisabled
	}
	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(objectKey),
	})
	return err
}

func (a *awsS3) GetPublicLinkKey(objectKey string) string {
	return a.base + objectKey
}

func (a *awsS3) GetObjectKeyFromLink(link string) string {
	if a.base == "" || !strings.HasPrefix(link, a.base) {
		return ""
	}
	return strings.TrimPrefix(link, a.base)
}
