package mips

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// RunSPIM runs assembly under an external spim binary and returns what the
// program printed. spim's own banner line is stripped.
func RunSPIM(ctx context.Context, spimPath string, assembly string) (string, error) {
	if spimPath == "" {
		spimPath = "spim"
	}
	bin, err := exec.LookPath(spimPath)
	if err != nil {
		return "", errors.Wrapf(ErrSpimUnavailable, "%s: %v", spimPath, err)
	}

	// Create temp directory
	tmpDir, err := os.MkdirTemp("", "minijavac-spim-")
	if err != nil {
		return "", errors.Wrap(err, "failed to create temp dir")
	}
	defer os.RemoveAll(tmpDir)

	// Write assembly to file
	asmPath := filepath.Join(tmpDir, "program.s")
	if err := os.WriteFile(asmPath, []byte(assembly), 0o644); err != nil {
		return "", errors.Wrap(err, "failed to write assembly")
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, "-file", asmPath)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return "", errors.Wrapf(err, "spim failed\n%s", stderr.String())
	}
	logger.Debug("spim finished", "path", bin, "bytes", stdout.Len())
	return stripSpimBanner(stdout.String()), nil
}

// stripSpimBanner drops the "Loaded: .../exceptions.s" line spim prints first.
func stripSpimBanner(out string) string {
	if strings.HasPrefix(out, "Loaded:") {
		if nl := strings.IndexByte(out, '\n'); nl >= 0 {
			return out[nl+1:]
		}
		return ""
	}
	return out
}
