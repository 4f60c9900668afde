package autowire

import (
	"fmt"
	"log/slog"
)

// Warmup asks c for every type in names, in order, so that each one's
// dependency list is inspected and cached ahead of normal use. Each resolved
// type is logged at info level on logger, or slog.Default() when nil. It
// stops at the first failure.
func Warmup(c Container, names []string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	for _, name := range names {
		if _, err := c.Get(name); err != nil {
			return fmt.Errorf("warm up %q: %w", name, err)
		}
		logger.Info("autowire: resolved", "type", name)
	}
	return nil
}
