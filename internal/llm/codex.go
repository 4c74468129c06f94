package llm

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const (
	defaultCodexBin = "codex"
	jsonOnlySuffix  = "\nReturn ONLY valid JSON."
)

// CodexClient runs a local CLI that reads a prompt on stdin and writes its
// answer to stdout.
type CodexClient struct {
	bin     string
	args    []string
	timeout time.Duration
}

func NewCodexClient(opts Options, args ...string) *CodexClient {
	bin := opts.CodexBin
	if bin == "" {
		bin = defaultCodexBin
	}
	return &CodexClient{bin: bin, args: args, timeout: opts.timeout()}
}

func (c *CodexClient) Complete(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.bin, c.args...)
	cmd.Stdin = strings.NewReader(prompt + jsonOnlySuffix)
	cmd.WaitDelay = time.Second

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%s timed out after %s: %w", c.bin, c.timeout, ctx.Err())
		}
		return "", fmt.Errorf("%s failed: %w: %s", c.bin, err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}
