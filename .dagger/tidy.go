package main

import (
	"context"
	"errors"
	"fmt"

	"dagger/newsvec/internal/dagger"
)

// CheckGoModTidy fails when "go mod tidy" would change go.mod or go.sum.
//
// +check
func (n *Newsvec) CheckGoModTidy(ctx context.Context) (string, error) {
	return n.check(ctx,
		"go.mod and go.sum are not tidy: run 'go mod tidy'",
		"cp go.mod go.mod.HEAD && cp go.sum go.sum.HEAD && go mod tidy && "+
			"diff -u go.mod.HEAD go.mod && diff -u go.sum.HEAD go.sum",
	)
}

// CheckGofmt fails when any Go file is not gofmt-formatted.
//
// +check
func (n *Newsvec) CheckGofmt(ctx context.Context) (string, error) {
	return n.check(ctx,
		"files are not gofmt-formatted: run 'gofmt -w .'",
		`unformatted=$(gofmt -l $(find . -name '*.go' -not -path './.dagger/*')); `+
			`[ -z "$unformatted" ] || { echo "$unformatted"; exit 1; }`,
	)
}

// check runs script in the Go container. A non-zero exit is reported with
// failure and the script's stdout.
func (n *Newsvec) check(ctx context.Context, failure, script string) (string, error) {
	out, err := n.goContainer().
		WithExec([]string{"sh", "-c", script}).
		Stdout(ctx)

	var e *dagger.ExecError
	if errors.As(err, &e) {
		return "", fmt.Errorf("%s\n\n%s", failure, e.Stdout)
	} else if err != nil {
		return "", fmt.Errorf("unexpected error: %w", err)
	}
	return out, nil
}
