// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package blastdb

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"

	"github.com/pdiddy/emmdb/internal/container"
	"github.com/pdiddy/emmdb/pkg/types"
)

const binMakeblastdb = "makeblastdb"

// Indexer builds a sequence database from a FASTA file.
type Indexer interface {
	// Name identifies the indexer in messages.
	Name() string

	// Check returns nil when the indexer can be invoked.
	Check(ctx context.Context) error

	// Index builds the database at dbOut from fastaPath and returns the
	// tool's combined output.
	Index(ctx context.Context, fastaPath, dbOut string) (string, error)
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error
}

type osExecutor struct{}

func (osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (osExecutor) Run(ctx context.Context, name string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

// Native runs makeblastdb from PATH.
type Native struct {
	dbType string
	exec   executor
}

// NewNative returns an Indexer running the local makeblastdb binary.
func NewNative(dbType string) *Native {
	return newNative(dbType, osExecutor{})
}

func newNative(dbType string, exec executor) *Native {
	if dbType == "" {
		dbType = types.DefaultDBType
	}
	return &Native{dbType: dbType, exec: exec}
}

func (n *Native) Name() string { return binMakeblastdb }

func (n *Native) Check(ctx context.Context) error {
	if _, err := n.exec.LookPath(binMakeblastdb); err != nil {
		return fmt.Errorf("%s is not installed, install BLAST+ to proceed: %w", binMakeblastdb, err)
	}
	var out bytes.Buffer
	if err := n.exec.Run(ctx, binMakeblastdb, []string{"-version"}, &out, &out); err != nil {
		return fmt.Errorf("%s -version: %w", binMakeblastdb, err)
	}
	return nil
}

func (n *Native) Index(ctx context.Context, fastaPath, dbOut string) (string, error) {
	var out bytes.Buffer
	err := n.exec.Run(ctx, binMakeblastdb, makeblastdbArgs(fastaPath, n.dbType, dbOut), &out, &out)
	return out.String(), err
}

// Containerized runs makeblastdb inside a BLAST+ image, mounting the
// directories that hold the input and the database.
type Containerized struct {
	runtime container.Runtime
	image   string
	dbType  string
}

// NewContainerized returns an Indexer running makeblastdb in image on rt.
func NewContainerized(rt container.Runtime, image, dbType string) *Containerized {
	if image == "" {
		image = types.DefaultBlastImage
	}
	if dbType == "" {
		dbType = types.DefaultDBType
	}
	return &Containerized{runtime: rt, image: image, dbType: dbType}
}

func (c *Containerized) Name() string {
	return binMakeblastdb + " (" + c.runtime.Name() + " " + c.image + ")"
}

func (c *Containerized) Check(ctx context.Context) error {
	return c.runtime.ImageExists(ctx, c.image)
}

const (
	inputMount  = "/data"
	outputMount = "/out"
)

func (c *Containerized) Index(ctx context.Context, fastaPath, dbOut string) (string, error) {
	inDir, err := filepath.Abs(filepath.Dir(fastaPath))
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", fastaPath, err)
	}
	outDir, err := filepath.Abs(filepath.Dir(dbOut))
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", dbOut, err)
	}

	mounts := []container.Mount{{Source: inDir, Target: inputMount}}
	outTarget := inputMount
	if outDir != inDir {
		mounts = append(mounts, container.Mount{Source: outDir, Target: outputMount})
		outTarget = outputMount
	}

	spec := container.RunSpec{
		Image: c.image,
		Args: append([]string{binMakeblastdb}, makeblastdbArgs(
			inputMount+"/"+filepath.Base(fastaPath),
			c.dbType,
			outTarget+"/"+filepath.Base(dbOut),
		)...),
		Mounts:  mounts,
		WorkDir: inputMount,
	}

	var out bytes.Buffer
	err = c.runtime.Run(ctx, spec, &out, &out)
	return out.String(), err
}

func makeblastdbArgs(in, dbType, out string) []string {
	return []string{"-in", in, "-dbtype", dbType, "-out", out}
}

// Runtime modes accepted by Select.
const (
	ModeAuto   = "auto"
	ModeNative = "native"
	ModeDocker = "docker"
	ModePodman = "podman"
)

// Select returns the Indexer for mode. In auto mode a makeblastdb on PATH
// wins; otherwise a detected container runtime is used. When neither is
// present the native indexer is returned so its Check reports the problem.
func Select(ctx context.Context, cfg types.BlastConfig) (Indexer, error) {
	return selectIndexer(ctx, cfg, osExecutor{}, container.DetectRuntime)
}

func selectIndexer(ctx context.Context, cfg types.BlastConfig, exec executor, detect func(context.Context) (container.Runtime, error)) (Indexer, error) {
	switch cfg.Runtime {
	case ModeNative:
		return newNative(cfg.DBType, exec), nil
	case ModeDocker, ModePodman:
		rt, err := container.Named(cfg.Runtime)
		if err != nil {
			return nil, err
		}
		return NewContainerized(rt, cfg.Image, cfg.DBType), nil
	case ModeAuto, "":
		if _, err := exec.LookPath(binMakeblastdb); err == nil {
			return newNative(cfg.DBType, exec), nil
		}
		if rt, err := detect(ctx); err == nil {
			return NewContainerized(rt, cfg.Image, cfg.DBType), nil
		}
		return newNative(cfg.DBType, exec), nil
	}
	return nil, fmt.Errorf("unknown blast runtime %q (want auto, native, docker, or podman)", cfg.Runtime)
}
