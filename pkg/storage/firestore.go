package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/levenlabs/go-lflag"
	"github.com/peakguard/peakguard/pkg/log"
	"github.com/peakguard/peakguard/pkg/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const archetypesCollection = "building_archetypes"

// FirestoreProvider implements the Database interface using Google Cloud
// Firestore. Each archetype is a document keyed by its path escaped use
// holding the archetype as JSON.
type FirestoreProvider struct {
	client    *firestore.Client
	projectID string
	database  string
}

// configuredFirestore sets up the Firestore provider.
// It registers flags for configuration.
func configuredFirestore() *FirestoreProvider {
	projectID := lflag.String("firestore-project-id", "", "Google Cloud Project ID for Firestore")
	database := lflag.String("firestore-database", "", "Google Cloud Firestore Database")
	emulator := lflag.String("firestore-emulator", "", "Use Firestore emulator")

	f := &FirestoreProvider{}

	lflag.Do(func() {
		f.projectID = *projectID
		f.database = *database

		// set this because that's how firestore client expects it
		if *emulator != "" {
			os.Setenv("FIRESTORE_EMULATOR_HOST", *emulator)
		}
	})

	return f
}

// Validate checks if the provider is properly configured.
func (f *FirestoreProvider) Validate() error {
	// the project ID may be empty, in which case it's detected
	return nil
}

// Init initializes the Firestore client.
// This must be called before using the provider methods.
func (f *FirestoreProvider) Init(ctx context.Context) error {
	projectID := f.projectID
	if projectID == "" {
		projectID = firestore.DetectProjectID
	}
	database := f.database
	if database == "" {
		database = firestore.DefaultDatabaseID
	}
	client, err := firestore.NewClientWithDatabase(ctx, projectID, database)
	if err != nil {
		return fmt.Errorf("failed to create firestore client (project=%s, database=%s): %w", projectID, database, err)
	}
	f.client = client
	return nil
}

// Close closes the Firestore client connection.
func (f *FirestoreProvider) Close() error {
	if f.client != nil {
		return f.client.Close()
	}
	return nil
}

// docID returns the document ID for a building use. Uses like
// "Lodging/residential" contain a slash which Firestore reads as a path
// separator.
func docID(use string) string {
	return url.PathEscape(use)
}

func decodeArchetype(doc *firestore.DocumentSnapshot) (types.BuildingArchetype, error) {
	val, err := doc.DataAt("json")
	if err != nil {
		return types.BuildingArchetype{}, fmt.Errorf("archetype %s missing json: %w", doc.Ref.ID, err)
	}
	jsonStr, ok := val.(string)
	if !ok {
		return types.BuildingArchetype{}, fmt.Errorf("archetype %s json not string", doc.Ref.ID)
	}
	var a types.BuildingArchetype
	if err := json.Unmarshal([]byte(jsonStr), &a); err != nil {
		return types.BuildingArchetype{}, fmt.Errorf("failed to unmarshal archetype %s: %w", doc.Ref.ID, err)
	}
	return a, nil
}

// ListArchetypes retrieves all archetypes from the "building_archetypes"
// collection. Malformed documents are skipped.
func (f *FirestoreProvider) ListArchetypes(ctx context.Context) ([]types.BuildingArchetype, error) {
	iter := f.client.Collection(archetypesCollection).OrderBy(firestore.DocumentID, firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var out []types.BuildingArchetype
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error iterating archetypes: %w", err)
		}

		a, err := decodeArchetype(doc)
		if err != nil {
			log.Ctx(ctx).WarnContext(ctx, "skipping malformed archetype", slog.String("use", doc.Ref.ID), slog.Any("err", err))
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// GetArchetype retrieves a single archetype by use.
func (f *FirestoreProvider) GetArchetype(ctx context.Context, use string) (types.BuildingArchetype, error) {
	if use == "" {
		return types.BuildingArchetype{}, fmt.Errorf("%w: empty use", ErrArchetypeNotFound)
	}
	doc, err := f.client.Collection(archetypesCollection).Doc(docID(use)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return types.BuildingArchetype{}, fmt.Errorf("%w: %s", ErrArchetypeNotFound, use)
		}
		return types.BuildingArchetype{}, fmt.Errorf("failed to get archetype %s: %w", use, err)
	}
	return decodeArchetype(doc)
}

// UpsertArchetype adds or replaces an archetype document.
func (f *FirestoreProvider) UpsertArchetype(ctx context.Context, a types.BuildingArchetype) error {
	if err := validateArchetype(a); err != nil {
		return err
	}
	jsonBytes, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to marshal archetype %s: %w", a.Use, err)
	}
	_, err = f.client.Collection(archetypesCollection).Doc(docID(a.Use)).Set(ctx, map[string]interface{}{
		"json": string(jsonBytes),
	})
	if err != nil {
		return fmt.Errorf("failed to upsert archetype %s: %w", a.Use, err)
	}
	return nil
}
