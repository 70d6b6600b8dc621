// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client. The booking feed reads channel manager batch
// exports from a bucket through this interface and archives them after a
// committed run.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (see core/storage/mocks).
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	data, err := storage.ReadObject(ctx, client, "channel-feed", "feed/acme/0001.json")
package storage
