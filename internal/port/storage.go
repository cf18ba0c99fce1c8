package port

import (
	"context"
	"io"
)

// ArchiveObject is one filing export written to the archive bucket.
// Metadata is stored with the object (tenant, tax year, form count) so an
// archived file can be traced back to its export without opening it.
type ArchiveObject struct {
	Bucket      string
	Key         string
	Body        io.Reader
	ContentType string
	Size        int64
	Metadata    map[string]string
}

// ArchivedObject identifies a stored export.
type ArchivedObject struct {
	Location string
	ETag     string
}

// ArchiveStorage keeps filing export archives and hands out short-lived
// download links for them.
type ArchiveStorage interface {
	Upload(ctx context.Context, obj ArchiveObject) (*ArchivedObject, error)
	GetPresignedURL(ctx context.Context, bucket, key string, expirySeconds int64) (string, error)
}
