// Command seed copies building archetypes from a local file into the
// configured storage, typically the Firestore emulator.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/levenlabs/go-lflag"
	"github.com/peakguard/peakguard/pkg/log"
	"github.com/peakguard/peakguard/pkg/storage"
)

func main() {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		os.Setenv("FIRESTORE_EMULATOR_HOST", "127.0.0.1:8087")
	}
	from := lflag.String("seed-file", "data/archetypes.yaml", "Archetypes file to seed from (YAML or building metadata CSV)")
	s := storage.Configured()
	lflag.Configure()

	ctx := context.Background()
	defer s.Close()

	src := storage.NewFileProvider(*from)
	if err := src.Init(ctx); err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to read seed file", slog.String("file", *from), slog.Any("error", err))
		os.Exit(1)
	}
	list, err := src.ListArchetypes(ctx)
	if err != nil {
		log.Ctx(ctx).ErrorContext(ctx, "failed to list seed archetypes", slog.Any("error", err))
		os.Exit(1)
	}

	log.Ctx(ctx).InfoContext(ctx, "seeding archetypes", slog.Int("count", len(list)))
	for _, a := range list {
		if err := s.UpsertArchetype(ctx, a); err != nil {
			log.Ctx(ctx).ErrorContext(ctx, "failed to upsert archetype", slog.String("use", a.Use), slog.Any("error", err))
			os.Exit(1)
		}
		log.Ctx(ctx).DebugContext(ctx, "seeded archetype", slog.String("use", a.Use), slog.Float64("typicalAreaSqFt", a.TypicalAreaSqFt))
	}
	log.Ctx(ctx).InfoContext(ctx, "seeding complete")
}
