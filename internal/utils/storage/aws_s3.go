package storage

import (
	"Cookbook-Backend/internal/utils"
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	AllowImage = []string{"image/jpeg", "image/png", "image/webp"}

	ErrInvalidImagePayload = errors.New("invalid base64 image payload")
	ErrContentTypeNotAllowed = errors.New("content type not allowed")
)

type (
	AwsS3 interface {
		UploadBase64(fileName string, payload string, folder string, allowTypes ...string) (string, error)
		DeleteFile(objectKey string) error
		GetObjectKeyFromLink(link string) string
		GetPublicLink(objectKey string) string
	}

	awsS3 struct {
		client *s3.Client
		bucket string
		region string
	}
)

func NewAwsS3() AwsS3 {
	utils.LoadConfig()
	region := utils.GetConfig("AWS_S3_REGION")

	cfg, err := awsconfig.LoadDefaultConfig(
		context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				utils.GetConfig("AWS_ACCESS_KEY"),
				utils.GetConfig("AWS_SECRET_KEY"),
				"",
			),
		),
	)
	if err != nil {
		log.Printf("Error loading AWS config: %s\n", err)
	}

	return &awsS3{
		client: s3.NewFromConfig(cfg),
		bucket: utils.GetConfig("AWS_S3_BUCKET"),
		region: region,
	}
}

// UploadBase64 decodes a base64 image payload (with or without the
// "data:image/...;base64," prefix) and stores it under folder/fileName.
// Returns the object key.
func (s *awsS3) UploadBase64(fileName string, payload string, folder string, allowTypes ...string) (string, error) {
	if idx := strings.Index(payload, ";base64,"); idx >= 0 {
		payload = payload[idx+len(";base64,"):]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", ErrInvalidImagePayload
	}

	contentType := http.DetectContentType(data)
	if len(allowTypes) > 0 {
		allowed := false
		for _, t := range allowTypes {
			if t == contentType {
				allowed = true
				break
			}
		}
		if !allowed {
			return "", ErrContentTypeNotAllowed
		}
	}

	ext := "jpg"
	switch contentType {
	case "image/png":
		ext = "png"
	case "image/webp":
		ext = "webp"
	}
	objectKey := fmt.Sprintf("%s/%s.%s", folder, fileName, ext)

	_, err = s.client.PutObject(context.Background(), &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}

	return objectKey, nil
}

func (s *awsS3) DeleteFile(objectKey string) error {
	_, err := s.client.DeleteObject(context.Background(), &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(objectKey),
	})
	return err
}

func (s *awsS3) GetPublicLink(objectKey string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, objectKey)
}

func (s *awsS3) GetObjectKeyFromLink(link string) string {
	prefix := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", s.bucket, s.region)
	return strings.TrimPrefix(link, prefix)
}
