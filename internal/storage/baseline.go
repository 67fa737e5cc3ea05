package storage

import (
	"context"
	"path"
	"path/filepath"

	"github.com/meio-shop/backend-go/internal/dataset"
	"github.com/rs/zerolog/log"
)

// FetchBaseline downloads the five baseline dataset CSVs from object
// storage into destDir. Only objects actually present under the prefix
// are downloaded; absent roles are left for the registry readiness
// check to report.
func FetchBaseline(ctx context.Context, store ObjectStorage, prefix, destDir string) error {
	objects, err := store.ListObjects(ctx, prefix)
	if err != nil {
		return err
	}
	available := make(map[string]struct{}, len(objects))
	for _, obj := range objects {
		available[obj.Key] = struct{}{}
	}

	for _, role := range dataset.Roles {
		name := dataset.BaselineFiles[role]
		key := path.Join(prefix, name)
		if _, ok := available[key]; !ok {
			log.Warn().Str("role", string(role)).Str("key", key).Msg("baseline object not in bucket")
			continue
		}
		dest := filepath.Join(destDir, name)
		if err := store.DownloadObject(ctx, key, dest); err != nil {
			return err
		}
		log.Info().Str("role", string(role)).Str("dest", dest).Msg("baseline object fetched")
	}
	return nil
}
