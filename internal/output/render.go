package output

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// GenerateImage runs the dot binary to render an image next to the
// document, equivalent to "dot -T<format> -O <file>".
func GenerateImage(ctx context.Context, dotFile, format string) error {
	cmd := exec.CommandContext(ctx, "dot", "-T"+format, "-O", dotFile)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("dot -T%s failed: %w: %s", format, err, strings.TrimSpace(out.String()))
	}
	return nil
}
