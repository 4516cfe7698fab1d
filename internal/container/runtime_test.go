// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package container

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	availableBins map[string]bool // binary -> whether LookPath succeeds
	runnableCmds  map[string]bool // "bin arg1 arg2" -> whether RunSilent succeeds
	runPipedFunc  func(name string, args []string, stdout, stderr io.Writer) error
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) RunSilent(_ context.Context, name string, args ...string) error {
	key := name + " " + strings.Join(args, " ")
	if m.runnableCmds[key] {
		return nil
	}
	return errors.New("command failed: " + key)
}

func (m *mockExecutor) RunPiped(_ context.Context, name string, args []string, stdout, stderr io.Writer) error {
	if m.runPipedFunc != nil {
		return m.runPipedFunc(name, args, stdout, stderr)
	}
	return nil
}

func TestDetectRuntime(t *testing.T) {
	tests := []struct {
		name     string
		exec     *mockExecutor
		wantName string
		wantErr  bool
	}{
		{
			name: "docker available",
			exec: &mockExecutor{
				availableBins: map[string]bool{"docker": true},
				runnableCmds:  map[string]bool{"docker info": true},
			},
			wantName: "docker",
		},
		{
			name: "podman fallback when docker missing",
			exec: &mockExecutor{
				availableBins: map[string]bool{"podman": true},
				runnableCmds:  map[string]bool{"podman info": true},
			},
			wantName: "podman",
		},
		{
			name:    "neither available",
			exec:    &mockExecutor{},
			wantErr: true,
		},
		{
			name: "docker on PATH but info fails, podman works",
			exec: &mockExecutor{
				availableBins: map[string]bool{"docker": true, "podman": true},
				runnableCmds:  map[string]bool{"podman info": true},
			},
			wantName: "podman",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, err := detectRuntime(context.Background(), tt.exec)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "no container runtime available")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, rt.Name())
		})
	}
}

func TestImageExists(t *testing.T) {
	ctx := context.Background()
	docker := newDockerRuntime(&mockExecutor{runnableCmds: map[string]bool{"docker image inspect ncbi/blast:latest": true}})
	assert.NoError(t, docker.ImageExists(ctx, "ncbi/blast:latest"))

	podman := newPodmanRuntime(&mockExecutor{runnableCmds: map[string]bool{"podman image exists ncbi/blast:latest": true}})
	assert.NoError(t, podman.ImageExists(ctx, "ncbi/blast:latest"))

	missing := newDockerRuntime(&mockExecutor{})
	err := missing.ImageExists(ctx, "ncbi/blast:latest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ncbi/blast:latest")
}

func TestRun(t *testing.T) {
	var gotName string
	var gotArgs []string
	exec := &mockExecutor{
		runPipedFunc: func(name string, args []string, stdout, stderr io.Writer) error {
			gotName, gotArgs = name, args
			io.WriteString(stdout, "Adding sequences from FASTA; added 5 sequences")
			return nil
		},
	}
	rt := newPodmanRuntime(exec)

	spec := RunSpec{
		Image:   "ncbi/blast:latest",
		Args:    []string{"makeblastdb", "-in", "/data/db.fasta"},
		Mounts:  []Mount{{Source: "/home/u/emm", Target: "/data"}},
		WorkDir: "/data",
	}
	var out, errOut bytes.Buffer
	require.NoError(t, rt.Run(context.Background(), spec, &out, &errOut))

	assert.Equal(t, "podman", gotName)
	assert.Equal(t, []string{
		"run", "--rm", "-v", "/home/u/emm:/data", "-w", "/data",
		"ncbi/blast:latest", "makeblastdb", "-in", "/data/db.fasta",
	}, gotArgs)
	assert.Contains(t, out.String(), "added 5 sequences")
}

func TestRunFailureIsWrapped(t *testing.T) {
	exec := &mockExecutor{
		runPipedFunc: func(string, []string, io.Writer, io.Writer) error {
			return errors.New("exit status 1")
		},
	}
	err := newDockerRuntime(exec).Run(context.Background(), RunSpec{Image: "ncbi/blast:latest"}, io.Discard, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "running docker container ncbi/blast:latest")
}

func TestNamed(t *testing.T) {
	rt, err := Named("docker")
	require.NoError(t, err)
	assert.Equal(t, "docker", rt.Name())

	rt, err = Named("podman")
	require.NoError(t, err)
	assert.Equal(t, "podman", rt.Name())

	_, err = Named("lxc")
	assert.ErrorContains(t, err, "unknown container runtime")
}
