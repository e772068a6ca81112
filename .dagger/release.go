package main

import (
	"context"
	"fmt"
	"path"

	"dagger/newsvec/internal/dagger"
)

// bucket is an S3-compatible destination for release artifacts.
type bucket struct {
	endpoint        *dagger.Secret
	name            *dagger.Secret
	accessKeyId     *dagger.Secret
	secretAccessKey *dagger.Secret
}

// withChecksums adds a SHA256SUMS file covering every binary in artifacts.
func withChecksums(artifacts *dagger.Directory) *dagger.Directory {
	sums := dag.Container().
		From("debian:bookworm-slim").
		WithDirectory("/artifacts", artifacts).
		WithWorkdir("/artifacts").
		WithExec([]string{"sh", "-c", "find . -type f -name newsvec | sort | xargs sha256sum > SHA256SUMS"}).
		File("/artifacts/SHA256SUMS")

	return artifacts.WithFile("SHA256SUMS", sums)
}

// sync copies artifacts to every prefix in the bucket.
func (b *bucket) sync(ctx context.Context, artifacts *dagger.Directory, prefixes ...string) error {
	name, err := b.name.Plaintext(ctx)
	if err != nil {
		return fmt.Errorf("reading bucket name: %w", err)
	}
	endpoint, err := b.endpoint.Plaintext(ctx)
	if err != nil {
		return fmt.Errorf("reading bucket endpoint: %w", err)
	}

	awsCli := dag.Container().
		From("amazon/aws-cli:latest").
		WithSecretVariable("AWS_ACCESS_KEY_ID", b.accessKeyId).
		WithSecretVariable("AWS_SECRET_ACCESS_KEY", b.secretAccessKey).
		WithEnvVariable("AWS_DEFAULT_REGION", "auto").
		WithDirectory("/artifacts", artifacts).
		WithWorkdir("/artifacts")

	for _, prefix := range prefixes {
		_, err := awsCli.
			WithExec([]string{"aws", "s3", "sync", ".", "s3://" + path.Join(name, prefix), "--endpoint-url", endpoint}).
			Sync(ctx)
		if err != nil {
			return fmt.Errorf("uploading artifacts to %s: %w", prefix, err)
		}
	}
	return nil
}

// Release builds versioned binaries with checksums and uploads them under
// the version prefix and "latest".
func (n *Newsvec) Release(
	ctx context.Context,

	// Version string (e.g., "v1.0.0")
	version string,

	// Git commit SHA
	commit string,

	endpoint *dagger.Secret,
	bucketName *dagger.Secret,
	accessKeyId *dagger.Secret,
	secretAccessKey *dagger.Secret,

	// Also upload under "latest"
	// +optional
	// +default=true
	latest bool,
) (*dagger.Directory, error) {
	artifacts := withChecksums(n.BuildRelease(ctx, version, commit))

	prefixes := []string{version}
	if latest {
		prefixes = append(prefixes, "latest")
	}

	b := &bucket{endpoint: endpoint, name: bucketName, accessKeyId: accessKeyId, secretAccessKey: secretAccessKey}
	return artifacts, b.sync(ctx, artifacts, prefixes...)
}

// Nightly builds the current commit and uploads it under "nightly".
func (n *Newsvec) Nightly(
	ctx context.Context,
	commit string,
	endpoint *dagger.Secret,
	bucketName *dagger.Secret,
	accessKeyId *dagger.Secret,
	secretAccessKey *dagger.Secret,
) (*dagger.Directory, error) {
	artifacts := withChecksums(n.BuildRelease(ctx, "nightly-"+commit, commit))

	b := &bucket{endpoint: endpoint, name: bucketName, accessKeyId: accessKeyId, secretAccessKey: secretAccessKey}
	return artifacts, b.sync(ctx, artifacts, "nightly")
}
