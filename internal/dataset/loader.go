package dataset

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// LoadBaselineDir discovers the baseline CSV files in dir and loads the
// ones that exist into a fresh registry, one goroutine per file. A
// role whose baseline file is absent is simply left unpopulated; the
// readiness check surfaces that later. A file that exists but fails to
// parse aborts the load.
func LoadBaselineDir(ctx context.Context, dir string) (*Registry, error) {
	registry := NewRegistry()

	var mu sync.Mutex
	g, _ := errgroup.WithContext(ctx)

	for _, role := range Roles {
		role := role
		path := filepath.Join(dir, BaselineFiles[role])
		if _, err := os.Stat(path); os.IsNotExist(err) {
			log.Debug().Str("role", string(role)).Str("path", path).Msg("baseline file not found, skipping")
			continue
		}
		g.Go(func() error {
			t, err := ReadTableFile(path)
			if err != nil {
				return err
			}
			mu.Lock()
			registry.Set(role, t)
			mu.Unlock()
			log.Info().Str("role", string(role)).Int("rows", t.Len()).Msg("baseline dataset loaded")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return registry, nil
}
