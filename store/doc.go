// Package store is the durable tier: one JSON object per day in an
// S3-compatible bucket.
//
// Objects are named <prefix>/<YYYY-MM-DD>.json, written with content type
// application/json and a public-read ACL so clients or a CDN can fetch
// archived days directly. Writes are unconditional; the last writer wins.
//
// Three backends are provided:
//
//   - MinioStore, using minio-go, for MinIO and other S3-compatible servers
//   - S3Store, using the AWS SDK v2, for Amazon S3
//   - MemoryStore, for local development and tests
//
// Backend failures wrap ErrStoreUnavailable. Reading a day that was never
// written returns ErrNotFound.
package store
