package utils

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
)

// S3Storage uploads request images and bid attachments to an S3-compatible
// object store.
type S3Storage struct {
	Bucket   string
	Region   string
	Endpoint string
	client   *s3.S3
}

func NewS3Storage(accessKey, secretKey, bucket, region, endpoint string) (*S3Storage, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String(region),
		Endpoint: aws.String(endpoint),
		Credentials: credentials.NewStaticCredentials(
			accessKey, secretKey, "",
		),
	})
	if err != nil {
		return nil, err
	}
	return &S3Storage{
		Bucket:   bucket,
		Region:   region,
		Endpoint: endpoint,
		client:   s3.New(sess),
	}, nil
}

// Upload stores the file under a random object name inside folder and returns
// the public URL. The original name only contributes its extension.
func (s *S3Storage) Upload(file []byte, originalName, folder, contentType string) (string, error) {
	objectName := uuid.New().String() + filepath.Ext(originalName)
	key := fmt.Sprintf("%s/%s", folder, objectName)

	_, err := s.client.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(s.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(file),
		ContentLength: aws.Int64(int64(len(file))),
		ContentType:   aws.String(contentType),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return "", fmt.Errorf("unable to upload file to S3: %v", err)
	}

	return fmt.Sprintf("%s/%s/%s", s.Endpoint, s.Bucket, key), nil
}
