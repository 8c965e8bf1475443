package evidence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFinalizeReportsIncompleteWhenRequiredTypeMissing(t *testing.T) {
	c := NewCollector() // defaults to HTTPRequest + HTTPResponse
	c.Add(NewArtifact(TypeHTTPRequest, []byte("req"), nil, time.Now()))

	bundle := c.Finalize()
	assert.False(t, bundle.Complete)
	assert.Len(t, bundle.Artifacts, 1)
}

func TestFinalizeSucceedsWhenAllRequiredTypesPresent(t *testing.T) {
	c := NewCollector()
	c.Add(NewArtifact(TypeHTTPRequest, []byte("req"), nil, time.Now()))
	c.Add(NewArtifact(TypeHTTPResponse, []byte("resp"), nil, time.Now()))

	bundle := c.Finalize()
	assert.True(t, bundle.Complete)
	assert.Len(t, bundle.Artifacts, 2)
	assert.True(t, bundle.VerifyAllIntegrity())
}

func TestFinalizeResetsCollectorForTheNextFinding(t *testing.T) {
	c := NewCollector()
	c.Add(NewArtifact(TypeHTTPRequest, []byte("req"), nil, time.Now()))
	c.Add(NewArtifact(TypeHTTPResponse, []byte("resp"), nil, time.Now()))
	first := c.Finalize()
	assert.Len(t, first.Artifacts, 2)

	second := c.Finalize()
	assert.Empty(t, second.Artifacts)
	assert.False(t, second.Complete)
}

func TestBundleVerifyAllIntegrityCatchesTamperedArtifact(t *testing.T) {
	c := NewCollector()
	c.Add(NewArtifact(TypeHTTPRequest, []byte("req"), nil, time.Now()))
	c.Add(NewArtifact(TypeHTTPResponse, []byte("resp"), nil, time.Now()))
	bundle := c.Finalize()

	bundle.Artifacts[0].Bytes = []byte("tampered")
	assert.False(t, bundle.VerifyAllIntegrity())
}

func TestCollectorCustomRequiredTypes(t *testing.T) {
	c := NewCollector(TypeStateSnapshot)
	assert.False(t, c.Finalize().Complete)

	c.Add(NewArtifact(TypeStateSnapshot, []byte("{}"), nil, time.Now()))
	assert.True(t, c.Finalize().Complete)
}
