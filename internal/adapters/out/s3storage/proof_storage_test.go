package s3storage_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"fulfillment/internal/adapters/out/s3storage"
	"fulfillment/internal/pkg/errs"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPutObjectAPI struct {
	mock.Mock
}

func (m *MockPutObjectAPI) PutObject(
	ctx context.Context,
	params *s3.PutObjectInput,
	_ ...func(*s3.Options),
) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if out, ok := args.Get(0).(*s3.PutObjectOutput); ok {
		return out, args.Error(1)
	}
	return nil, args.Error(1)
}

func TestUpload_DefaultBucketURL(t *testing.T) {
	client := new(MockPutObjectAPI)
	client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		return aws.ToString(in.Bucket) == "proofs" &&
			aws.ToString(in.Key) == "deliveries/d-1/photo 1.jpg" &&
			aws.ToString(in.ContentType) == "image/jpeg" &&
			aws.ToInt64(in.ContentLength) == 4
	})).Return(&s3.PutObjectOutput{}, nil)

	storage := s3storage.NewProofStorageWithClient(client, s3storage.Config{
		Region:    "eu-west-1",
		Bucket:    "proofs",
		KeyPrefix: "/deliveries/",
	})

	url, err := storage.Upload(context.Background(), "d-1/photo 1.jpg", "image/jpeg", strings.NewReader("jpeg"), 4)

	require.NoError(t, err)
	assert.Equal(t, "https://proofs.s3.eu-west-1.amazonaws.com/deliveries/d-1/photo%201.jpg", url)
	client.AssertExpectations(t)
}

func TestUpload_CustomEndpointAndPublicURL(t *testing.T) {
	client := new(MockPutObjectAPI)
	client.On("PutObject", mock.Anything, mock.Anything).Return(&s3.PutObjectOutput{}, nil)

	minio := s3storage.NewProofStorageWithClient(client, s3storage.Config{
		Bucket:   "proofs",
		Endpoint: "http://localhost:9000/",
	})
	url, err := minio.Upload(context.Background(), "a.png", "image/png", strings.NewReader("x"), 0)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000/proofs/a.png", url)

	cdn := s3storage.NewProofStorageWithClient(client, s3storage.Config{
		Bucket:        "proofs",
		PublicBaseURL: "https://cdn.afrimercato.example/",
	})
	url, err = cdn.Upload(context.Background(), "a.png", "image/png", strings.NewReader("x"), 0)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.afrimercato.example/a.png", url)
}

func TestUpload_Errors(t *testing.T) {
	client := new(MockPutObjectAPI)
	denied := errors.New("access denied")
	client.On("PutObject", mock.Anything, mock.Anything).Return(nil, denied)
	storage := s3storage.NewProofStorageWithClient(client, s3storage.Config{Region: "eu-west-1", Bucket: "proofs"})

	_, err := storage.Upload(context.Background(), "", "image/png", strings.NewReader("x"), 1)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = storage.Upload(context.Background(), "a.png", "image/png", strings.NewReader("x"), 1)
	require.ErrorIs(t, err, denied)
}
