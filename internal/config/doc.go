// Package config loads runtime configuration for the uploader.
//
// Sources & precedence
//
//  1. Built-in defaults, declared as envDefault struct tags.
//  2. An optional .env file in the working directory (see readDotEnv).
//  3. Process environment variables, which override earlier values.
//
// The .env values and the environment are merged into one map and parsed
// with github.com/caarlos0/env.
//
// # Variables
//
//	DIRECTORY_PATH  root directory to upload            (./files)
//	BUCKET_NAME     target bucket                       (bucket-name)
//	AWS_REGION      target region                       (region)
//	AWS_ACCESS_KEY  SigV4 access key id                 (abc)
//	AWS_SECRET_KEY  SigV4 secret key                    (xyz)
//	UPLOAD_BACKEND  sigv4 or sdk                        (sigv4)
//	HTTP_TIMEOUT    per-request timeout, Go duration    (30s)
//	JOURNAL_PATH    SQLite run journal, empty disables  ()
//	LOG_LEVEL       debug, info, warn or error          (info)
//
// The defaults only make smoke runs possible; they do not authenticate
// against real S3.
package config
