// Package minio provides a BlobStore implementation using the MinIO client,
// for keeping DynamoDB-JSON export files on MinIO or any other
// S3-compatible storage (Ceph, SeaweedFS, Garage).
//
// # Basic Usage
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "exports", "scratch/")
//	w := export.NewWriter(store, export.WithCompression(export.Zstd))
//
// Uploads are streamed, so large export files never need to fit in memory.
package minio
