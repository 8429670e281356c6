package storage

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ayush/item-catalog/backend/internal/apperr"
	"github.com/ayush/item-catalog/backend/internal/models"
	"github.com/ayush/item-catalog/backend/internal/validate"
)

const (
	// GrantTTL is the lifetime of every signed URL.
	GrantTTL = 60 * time.Second

	DefaultExtension   = "png"
	maxExtensionLength = 10
)

// UploadSigner signs write-once uploads with the service credential.
type UploadSigner interface {
	PresignUpload(ctx context.Context, key, contentType string, ttl time.Duration) (*url.URL, error)
}

// DownloadSigner signs reads with the low-privilege credential.
type DownloadSigner interface {
	PresignDownload(ctx context.Context, key string, ttl time.Duration) (*url.URL, error)
}

// UploadRequest is a validated upload-url body.
type UploadRequest struct {
	Extension   string
	ContentType string
}

// Issuer hands out signed URL grants. Either signer may be nil when its
// credential is not configured; the matching grant then fails with a
// configuration error.
type Issuer struct {
	uploads   UploadSigner
	downloads DownloadSigner
}

func NewIssuer(uploads UploadSigner, downloads DownloadSigner) *Issuer {
	return &Issuer{uploads: uploads, downloads: downloads}
}

// CanUpload reports a configuration error if uploads cannot be signed.
func (i *Issuer) CanUpload() error {
	if i.uploads == nil {
		return apperr.Configuration("storage service credentials are not configured")
	}
	return nil
}

// CanDownload reports a configuration error if reads cannot be signed.
func (i *Issuer) CanDownload() error {
	if i.downloads == nil {
		return apperr.Configuration("storage read credentials are not configured")
	}
	return nil
}

// ObjectKey namespaces a fresh random object name under ownerID.
func ObjectKey(ownerID, extension string) string {
	return fmt.Sprintf("%s/%s.%s", ownerID, uuid.NewString(), extension)
}

// ParseUploadRequest validates the optional upload fields. A nil body is
// treated as empty.
func ParseUploadRequest(body map[string]any) (UploadRequest, error) {
	req := UploadRequest{Extension: DefaultExtension}
	if raw, ok := body["file_extension"]; ok {
		ext, err := validate.FileExtension("file_extension", raw, maxExtensionLength)
		if err != nil {
			return UploadRequest{}, err
		}
		req.Extension = ext
	}
	if raw, ok := body["content_type"]; ok {
		ct, err := validate.MIMEType("content_type", raw)
		if err != nil {
			return UploadRequest{}, err
		}
		req.ContentType = ct
	}
	return req, nil
}

// UploadGrant signs a write-once upload of a new object owned by ownerID.
func (i *Issuer) UploadGrant(ctx context.Context, ownerID string, req UploadRequest) (models.UploadGrant, error) {
	if err := i.CanUpload(); err != nil {
		return models.UploadGrant{}, err
	}

	key := ObjectKey(ownerID, req.Extension)
	u, err := i.uploads.PresignUpload(ctx, key, req.ContentType, GrantTTL)
	if err != nil {
		return models.UploadGrant{}, apperr.Upstream("Failed to create upload URL", err)
	}
	return models.UploadGrant{
		UploadURL: u.String(),
		Token:     u.Query().Get("X-Amz-Signature"),
		ObjectKey: key,
	}, nil
}

// ParseObjectPath extracts the object path of a sign request. Leading
// slashes are dropped.
func ParseObjectPath(body map[string]any) (string, error) {
	if body == nil {
		return "", apperr.Validation("Missing request body")
	}
	path, ok := body["path"].(string)
	if !ok {
		return "", apperr.Validation("path must be a string")
	}
	path = strings.TrimLeft(strings.TrimSpace(path), "/")
	if path == "" {
		return "", apperr.Validation("path must not be empty")
	}
	return path, nil
}

// DownloadGrant signs a time-boxed read of path.
func (i *Issuer) DownloadGrant(ctx context.Context, path string) (models.DownloadGrant, error) {
	if err := i.CanDownload(); err != nil {
		return models.DownloadGrant{}, err
	}

	u, err := i.downloads.PresignDownload(ctx, path, GrantTTL)
	if err != nil {
		return models.DownloadGrant{}, apperr.Upstream("Failed to create signed URL", err)
	}
	return models.DownloadGrant{
		SignedURL: u.String(),
		ExpiresIn: int(GrantTTL / time.Second),
	}, nil
}
