package auth

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

// CodeProvider supplies an authorization code when no loopback listener can
// capture it. The returned string may be a bare code or the full redirect URL.
type CodeProvider interface {
	Code(ctx context.Context) (string, error)
}

// TerminalCodeProvider prompts on Out and reads one line from In.
type TerminalCodeProvider struct {
	In  io.Reader
	Out io.Writer
}

func (p *TerminalCodeProvider) Code(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fmt.Fprint(p.Out, "Enter the authorization code (or paste the full redirect URL): ")
	line, err := bufio.NewReader(p.In).ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read authorization code: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// StaticCodeProvider returns a code supplied up front, e.g. from a flag.
type StaticCodeProvider string

func (p StaticCodeProvider) Code(context.Context) (string, error) {
	return string(p), nil
}
