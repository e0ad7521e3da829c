package version

import (
	"context"
	"fmt"
	"io"
	"strings"

	"powertun/domain/app"
)

// Tag is set via -ldflags "-X powertun/presentation/runners/version.Tag=..." at release time.
var Tag = "version not set"

type Runner struct {
	out io.Writer
}

func NewRunner(out io.Writer) *Runner { return &Runner{out: out} }

func (r *Runner) Run(_ context.Context) {
	_, _ = fmt.Fprintf(r.out, "%s %s\n", app.Name, Tag)
}

// Current returns the trimmed build tag.
func Current() string {
	return strings.TrimSpace(Tag)
}
