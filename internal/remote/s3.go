package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/pageza/alchemorsel-v2/mealplan/internal/model"
)

// ObjectAPI is the subset of the S3 client used by S3PlanStore.
type ObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3PlanStore keeps the remote plan as one JSON object per namespace.
type S3PlanStore struct {
	client ObjectAPI
	bucket string
	key    string
}

// NewS3PlanStore creates a store writing meal-plans/<namespace>.json in bucket.
func NewS3PlanStore(client ObjectAPI, bucket, namespace string) *S3PlanStore {
	if namespace == "" {
		namespace = "default"
	}
	return &S3PlanStore{
		client: client,
		bucket: bucket,
		key:    fmt.Sprintf("meal-plans/%s.json", namespace),
	}
}

// Key returns the object key of the plan.
func (s *S3PlanStore) Key() string {
	return s.key
}

// Load reads the plan object. A missing object means nothing is stored.
func (s *S3PlanStore) Load(ctx context.Context) (model.PlanDocument, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return model.PlanDocument{}, nil
		}
		return model.PlanDocument{}, fmt.Errorf("failed to download meal plan from S3: %w", err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return model.PlanDocument{}, fmt.Errorf("failed to read meal plan from S3: %w", err)
	}
	return decodePlan(data)
}

// Save overwrites the plan object.
func (s *S3PlanStore) Save(ctx context.Context, plan model.CalendarPlan) error {
	data, err := encodePlan(plan)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload meal plan to S3: %w", err)
	}
	log.Printf("[RemotePlanStore] Uploaded meal plan to s3://%s/%s", s.bucket, s.key)
	return nil
}
