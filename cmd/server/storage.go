package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/athan/internal/config"
	"github.com/Nixie-Tech-LLC/athan/internal/db"
	"github.com/Nixie-Tech-LLC/athan/internal/storage"
	"github.com/Nixie-Tech-LLC/athan/internal/timetable"
)

// InitStorage selects and returns the configured storage backend
func InitStorage(cfg *config.Config) storage.Storage {
	if cfg.Storage.UseSpaces {
		spacesStorage, err := storage.NewSpacesStorage(
			cfg.Storage.SpacesEndpoint,
			cfg.Storage.SpacesRegion,
			cfg.Storage.SpacesBucket,
			cfg.Storage.SpacesAccessKey,
			cfg.Storage.SpacesSecretKey,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Spaces storage")
		}
		log.Info().Str("bucket", cfg.Storage.SpacesBucket).Msg("using DigitalOcean Spaces storage")
		return spacesStorage
	}

	local := storage.NewLocalStorage(cfg.Storage.UploadDir)
	log.Info().Str("dir", cfg.Storage.UploadDir).Msg("using local file storage")
	return local
}

// importStartupTimetable loads ATHAN_TIMETABLE from storage. A single-month
// file is taken as the current month.
func importStartupTimetable(ctx context.Context, cfg *config.Config, store db.Store, files storage.Storage) error {
	key := cfg.Athan.Timetable
	format, err := timetable.FormatFromFilename(key)
	if err != nil {
		return err
	}
	data, err := storage.ReadAll(files, key)
	if err != nil {
		return fmt.Errorf("read %s: %w", key, err)
	}

	months, err := timetable.Import(ctx, store, cfg.Athan.City, data, format, 0)
	if errors.Is(err, timetable.ErrMonthRequired) {
		months, err = timetable.Import(ctx, store, cfg.Athan.City, data, format, time.Now().Month())
	}
	if err != nil {
		return err
	}
	log.Info().Str("key", key).Int("months", len(months)).Msg("startup timetable imported")
	return nil
}
