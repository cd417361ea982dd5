// Package publish uploads produced artifacts (transcripts, images) to
// S3-compatible object storage with minio-go and reports their URLs.
package publish
