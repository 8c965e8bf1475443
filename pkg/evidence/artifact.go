// Package evidence collects and content-verifies the artifacts a finding is
// built on — HTTP traffic, DOM snapshots, screenshots, state captures, raw
// exploit output — and bundles them for handoff.
package evidence

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Type classifies an evidence artifact by what it captures.
type Type string

const (
	TypeHTTPRequest  Type = "HTTPRequest"
	TypeHTTPResponse Type = "HTTPResponse"
	TypeDOMSnapshot  Type = "DOMSnapshot"
	TypeScreenshot   Type = "Screenshot"
	TypeStateSnapshot Type = "StateSnapshot"
	TypeExploitOutput Type = "ExploitOutput"
	TypeCustom        Type = "Custom"
)

// Artifact is one piece of captured evidence, addressed by the SHA-256 of
// its own bytes so tampering after capture is detectable.
type Artifact struct {
	ID          uuid.UUID
	EvidenceType Type
	Bytes       []byte
	ContentHash string
	Metadata    map[string]string
	CapturedAt  time.Time
}

// NewArtifact builds an artifact from raw bytes, computing its content hash
// at construction time so ContentHash is always consistent with Bytes for
// any artifact built by NewArtifact.
func NewArtifact(evidenceType Type, data []byte, metadata map[string]string, capturedAt time.Time) Artifact {
	return Artifact{
		ID:           uuid.New(),
		EvidenceType: evidenceType,
		Bytes:        data,
		ContentHash:  hashBytes(data),
		Metadata:     metadata,
		CapturedAt:   capturedAt,
	}
}

// VerifyIntegrity recomputes the artifact's content hash and compares it
// against the stored one, catching bytes that were altered after capture.
func (a Artifact) VerifyIntegrity() bool {
	return hashBytes(a.Bytes) == a.ContentHash
}

func hashBytes(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HTTPRequestMetadata builds the metadata map an HTTP request artifact
// carries.
func HTTPRequestMetadata(method, url string) map[string]string {
	return map[string]string{"method": method, "url": url}
}

// HTTPResponseMetadata builds the metadata map an HTTP response artifact
// carries.
func HTTPResponseMetadata(statusCode int) map[string]string {
	return map[string]string{"status_code": fmt.Sprintf("%d", statusCode)}
}
