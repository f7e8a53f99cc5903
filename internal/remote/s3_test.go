package remote

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/alchemorsel-v2/mealplan/internal/model"
)

type fakeObjects struct {
	objects map[string][]byte
	err     error
}

func (f *fakeObjects) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("The specified key does not exist.")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeObjects) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func TestS3RoundTrip(t *testing.T) {
	ctx := context.Background()
	objects := &fakeObjects{objects: map[string][]byte{}}
	store := NewS3PlanStore(objects, "plans", "device-a")
	assert.Equal(t, "meal-plans/device-a.json", store.Key())

	doc, err := store.Load(ctx)
	require.NoError(t, err, "a missing object means nothing is stored")
	assert.Empty(t, doc.Days)

	require.NoError(t, store.Save(ctx, model.CalendarPlan{
		"2025-01-12": {{InstanceID: "R1-1", RecipeID: "R1", Title: "Pancakes"}},
	}))
	assert.Contains(t, objects.objects, "plans/meal-plans/device-a.json")

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Days["2025-01-12"], 1)
	assert.Equal(t, "Pancakes", loaded.Days["2025-01-12"][0].Title)
}

func TestS3Failures(t *testing.T) {
	ctx := context.Background()
	objects := &fakeObjects{objects: map[string][]byte{}, err: errors.New("access denied")}
	store := NewS3PlanStore(objects, "plans", "")

	_, err := store.Load(ctx)
	assert.ErrorContains(t, err, "access denied")
	assert.ErrorContains(t, store.Save(ctx, model.CalendarPlan{}), "access denied")
}
