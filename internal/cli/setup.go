package cli

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/example/wds/internal/ctxutil"
	"github.com/example/wds/internal/wire"
)

// serviceContext initializes the services and returns the command context
// tagged with the configured actor.
func serviceContext(cmd *cobra.Command) (context.Context, error) {
	if err := wire.Init(); err != nil {
		return nil, err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return ctxutil.WithActorID(ctx, wire.Config().Actor), nil
}

// parseID parses a positive numeric id argument.
func parseID(kind, arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.Errorf("invalid %s id %q", kind, arg)
	}
	return id, nil
}

// splitList splits a comma-separated flag value, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
