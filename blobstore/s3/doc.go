// Package s3 provides an S3 implementation of the blobstore.BlobStore interface,
// used to read and write DynamoDB-JSON export files in place.
//
// # Usage
//
//	cfg, _ := config.LoadDefaultConfig(ctx)
//	store := s3.NewStore(awss3.NewFromConfig(cfg), "my-bucket", "exports/")
//
//	r := export.NewReader(store)
//	err := r.Each(ctx, "AWSDynamoDB/01700000000000-abcdef/data/", fn)
//
// # Features
//
//   - Range reads for efficient partial fetches
//   - Multipart uploads for large files via feature/s3/manager
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
