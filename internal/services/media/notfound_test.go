package media

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
)

func TestIsMinIONotFound(t *testing.T) {
	assert.True(t, isMinIONotFound(minio.ErrorResponse{Code: "NoSuchKey", StatusCode: http.StatusNotFound}))
	assert.True(t, isMinIONotFound(minio.ErrorResponse{StatusCode: http.StatusNotFound}))
	assert.False(t, isMinIONotFound(minio.ErrorResponse{Code: "NoSuchBucket", StatusCode: http.StatusNotFound}))
	assert.False(t, isMinIONotFound(minio.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden}))
	assert.False(t, isMinIONotFound(errors.New("dial tcp: connection refused")))
}

func TestIsS3NotFound(t *testing.T) {
	assert.True(t, isS3NotFound(&types.NotFound{}))
	assert.True(t, isS3NotFound(fmt.Errorf("head: %w", &types.NoSuchKey{})))
	assert.True(t, isS3NotFound(&smithy.GenericAPIError{Code: "NotFound"}))
	assert.False(t, isS3NotFound(&smithy.GenericAPIError{Code: "AccessDenied"}))
	assert.False(t, isS3NotFound(errors.New("timeout")))
}
