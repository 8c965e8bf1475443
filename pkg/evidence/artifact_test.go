package evidence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewArtifactContentHashMatchesBytes(t *testing.T) {
	a := NewArtifact(TypeHTTPRequest, []byte("GET / HTTP/1.1"), HTTPRequestMetadata("GET", "/"), time.Now())
	assert.True(t, a.VerifyIntegrity())
}

func TestArtifactVerifyIntegrityDetectsTamper(t *testing.T) {
	a := NewArtifact(TypeHTTPResponse, []byte("200 OK"), nil, time.Now())
	a.Bytes = []byte("500 Internal Server Error")
	assert.False(t, a.VerifyIntegrity())
}
