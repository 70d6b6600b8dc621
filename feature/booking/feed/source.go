package feed

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"booking-sync/core/storage"
	"booking-sync/feature/booking/models"

	"github.com/minio/minio-go/v7"
)

// Source lists, reads and archives batch exports in object storage.
type Source struct {
	client        storage.Client
	bucket        string
	feedPrefix    string
	archivePrefix string
}

// NewSource creates a source over bucket.
func NewSource(client storage.Client, bucket, feedPrefix, archivePrefix string) *Source {
	return &Source{
		client:        client,
		bucket:        bucket,
		feedPrefix:    strings.Trim(feedPrefix, "/"),
		archivePrefix: strings.Trim(archivePrefix, "/"),
	}
}

// AccountPrefix is the folder holding pending exports of account.
func (s *Source) AccountPrefix(account string) string {
	return path.Join(s.feedPrefix, account) + "/"
}

// Pending returns the export objects of account in name order.
// Exports are named so that name order is delivery order.
func (s *Source) Pending(ctx context.Context, account string) ([]string, error) {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket %s does not exist", s.bucket)
	}

	// Stops the lister goroutine when returning before the listing is drained.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var names []string
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    s.AccountPrefix(account),
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list feed: %w", obj.Err)
		}
		if strings.HasSuffix(obj.Key, ".json") {
			names = append(names, obj.Key)
		}
	}
	sort.Strings(names)
	return names, nil
}

// Read downloads and decodes one export.
func (s *Source) Read(ctx context.Context, objectName string) ([]models.ExternalBookingRecord, error) {
	data, err := storage.ReadObject(ctx, s.client, s.bucket, objectName)
	if err != nil {
		return nil, err
	}
	records, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", objectName, err)
	}
	return records, nil
}

// ArchiveName is where objectName goes once applied.
func (s *Source) ArchiveName(objectName string) string {
	rel := strings.TrimPrefix(strings.TrimPrefix(objectName, s.feedPrefix), "/")
	return path.Join(s.archivePrefix, rel)
}

// Archive moves objectName under the archive prefix.
func (s *Source) Archive(ctx context.Context, objectName string) error {
	data, err := storage.ReadObject(ctx, s.client, s.bucket, objectName)
	if err != nil {
		return err
	}

	target := s.ArchiveName(objectName)
	if _, err := s.client.PutObject(ctx, s.bucket, target, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"}); err != nil {
		return fmt.Errorf("failed to write archive %s: %w", target, err)
	}

	if err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove %s: %w", objectName, err)
	}
	return nil
}
