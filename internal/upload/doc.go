// Package upload pushes the regular files of a directory tree to an S3 bucket,
// one PUT per file, and reports a per-file Outcome.
//
// Two Uploader implementations share the same object naming and outcome
// messages:
//
//   - SignedUploader signs each PUT itself with package sigv4 and sends it
//     through a plain HTTP client.
//   - SDKUploader hands the PUT to the aws-sdk-go-v2 S3 client.
//
// Driver walks the tree, captures the run timestamp, derives the signing key
// once, and calls the selected Uploader for every file. Per-file failures are
// recorded and never stop the walk.
package upload
