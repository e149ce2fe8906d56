package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/levenlabs/go-lflag"
	"github.com/peakguard/peakguard/pkg/types"

	"gopkg.in/yaml.v3"
)

// FileProvider serves archetypes from a local file. YAML files list the
// archetypes directly. CSV files are building metadata with one row per
// building and are reduced to the mean square footage per primary use.
type FileProvider struct {
	path       string
	archetypes map[string]types.BuildingArchetype
}

func configuredFile() *FileProvider {
	path := lflag.String("archetypes-file", "data/archetypes.yaml", "Path to the building archetypes (YAML or building metadata CSV)")

	f := &FileProvider{}

	lflag.Do(func() {
		f.path = *path
	})

	return f
}

// NewFileProvider creates a FileProvider for path. Init must be called before
// use.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

// Init reads the archetype file.
func (f *FileProvider) Init(ctx context.Context) error {
	file, err := os.Open(f.path)
	if err != nil {
		return fmt.Errorf("failed to open archetypes file: %w", err)
	}
	defer file.Close()

	var list []types.BuildingArchetype
	switch strings.ToLower(filepath.Ext(f.path)) {
	case ".yaml", ".yml":
		list, err = readArchetypesYAML(file)
	case ".csv":
		list, err = readBuildingMetadataCSV(file)
	default:
		err = fmt.Errorf("unsupported archetypes file type: %s", f.path)
	}
	if err != nil {
		return fmt.Errorf("failed to read archetypes from %s: %w", f.path, err)
	}

	f.archetypes = make(map[string]types.BuildingArchetype, len(list))
	for _, a := range list {
		if err := validateArchetype(a); err != nil {
			return err
		}
		f.archetypes[a.Use] = a
	}
	if len(f.archetypes) == 0 {
		return errors.New("archetypes file is empty")
	}
	return nil
}

func readArchetypesYAML(r io.Reader) ([]types.BuildingArchetype, error) {
	var doc struct {
		Archetypes []types.BuildingArchetype `yaml:"archetypes"`
	}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, err
	}
	return doc.Archetypes, nil
}

func readBuildingMetadataCSV(r io.Reader) ([]types.BuildingArchetype, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	useCol, areaCol := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case "primary_use":
			useCol = i
		case "square_feet":
			areaCol = i
		}
	}
	if useCol < 0 || areaCol < 0 {
		return nil, errors.New("csv must have primary_use and square_feet columns")
	}

	type agg struct {
		sum float64
		n   int
	}
	byUse := make(map[string]*agg)
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		area, err := strconv.ParseFloat(strings.TrimSpace(rec[areaCol]), 64)
		if err != nil {
			// rows without an area don't count towards the mean
			continue
		}
		use := strings.TrimSpace(rec[useCol])
		a, ok := byUse[use]
		if !ok {
			a = &agg{}
			byUse[use] = a
		}
		a.sum += area
		a.n++
	}

	var out []types.BuildingArchetype
	for use, a := range byUse {
		out = append(out, types.BuildingArchetype{Use: use, TypicalAreaSqFt: a.sum / float64(a.n)})
	}
	return out, nil
}

// ListArchetypes implements Database.
func (f *FileProvider) ListArchetypes(ctx context.Context) ([]types.BuildingArchetype, error) {
	out := make([]types.BuildingArchetype, 0, len(f.archetypes))
	for _, a := range f.archetypes {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Use < out[j].Use })
	return out, nil
}

// GetArchetype implements Database.
func (f *FileProvider) GetArchetype(ctx context.Context, use string) (types.BuildingArchetype, error) {
	a, ok := f.archetypes[use]
	if !ok {
		return types.BuildingArchetype{}, fmt.Errorf("%w: %s", ErrArchetypeNotFound, use)
	}
	return a, nil
}

// UpsertArchetype implements Database. The file is never written.
func (f *FileProvider) UpsertArchetype(ctx context.Context, a types.BuildingArchetype) error {
	return ErrReadOnly
}

// Close implements Database.
func (f *FileProvider) Close() error {
	return nil
}
