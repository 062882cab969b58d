package service

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/pageza/recipe-chatbot/backend/internal/metrics"
	"github.com/pageza/recipe-chatbot/backend/internal/model"
	"github.com/pageza/recipe-chatbot/backend/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RecipeUpserter is the catalog operation ingestion needs
type RecipeUpserter interface {
	Upsert(ctx context.Context, parsed types.ParsedRecipe) (*model.Recipe, bool, error)
}

// IngestionService loads recipe files and directories into the catalog
type IngestionService struct {
	recipes    RecipeUpserter
	parser     RecipeParser
	recognizer TextRecognizer
	workers    int
	logger     *zap.Logger
}

// NewIngestionService creates a new IngestionService instance. workers bounds how many
// files ProcessDirectory handles at once.
func NewIngestionService(recipes RecipeUpserter, parser RecipeParser, recognizer TextRecognizer, workers int, logger *zap.Logger) *IngestionService {
	if workers < 1 {
		workers = 1
	}
	return &IngestionService{
		recipes:    recipes,
		parser:     parser,
		recognizer: recognizer,
		workers:    workers,
		logger:     logger,
	}
}

// IsSupportedFile reports whether ProcessDirectory picks up the file at path
func IsSupportedFile(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt", ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

func isImageFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) != ".txt"
}

// LoadFile upserts every recipe in a structured text file. A file without structured
// records is handed to the model parser as a single recipe.
func (s *IngestionService) LoadFile(ctx context.Context, path string) (types.IngestReport, error) {
	var report types.IngestReport

	data, err := os.ReadFile(path)
	if err != nil {
		return report, fmt.Errorf("failed to read %s: %w", path, err)
	}

	records := ParseStructuredText(string(data))
	if len(records) == 0 {
		s.logger.Info("No structured recipes found. Attempting unstructured parsing.", zap.String("file", path))
		parsed, err := s.parser.ParseText(ctx, string(data))
		if err != nil {
			return report, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		records = []types.ParsedRecipe{parsed}
	}

	for _, rec := range records {
		report.Add(s.store(ctx, path, rec))
	}
	return report, nil
}

// ProcessDirectory ingests every supported file directly inside dir. Files are handled
// concurrently but reported in name order; a failing file never stops the run.
func (s *IngestionService) ProcessDirectory(ctx context.Context, dir string) (types.IngestReport, error) {
	var report types.IngestReport

	entries, err := os.ReadDir(dir)
	if err != nil {
		return report, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() && IsSupportedFile(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	s.logger.Info("processing recipe directory",
		zap.String("dir", dir),
		zap.Int("files", len(files)),
		zap.Int("workers", s.workers),
	)

	results := make([]types.IngestResult, len(files))
	var g errgroup.Group
	g.SetLimit(s.workers)
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = s.fail(path, err)
				return nil
			}
			results[i] = s.ProcessFile(ctx, path)
			return nil
		})
	}
	_ = g.Wait()

	report.Add(results...)
	return report, nil
}

// ProcessFile ingests a single text or image file
func (s *IngestionService) ProcessFile(ctx context.Context, path string) types.IngestResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return s.fail(path, err)
	}

	text := string(data)
	if isImageFile(path) {
		text, err = s.recognizer.Recognize(ctx, data, mime.TypeByExtension(strings.ToLower(filepath.Ext(path))))
		if err != nil {
			return s.fail(path, err)
		}
	}

	var parsed types.ParsedRecipe
	if records := ParseStructuredText(text); len(records) > 0 && records[0].HasTitle() {
		parsed = records[0]
	} else {
		parsed, err = s.parser.ParseText(ctx, text)
		if err != nil {
			return s.fail(path, err)
		}
	}
	return s.store(ctx, path, parsed)
}

func (s *IngestionService) store(ctx context.Context, source string, rec types.ParsedRecipe) types.IngestResult {
	if !rec.HasTitle() {
		s.logger.Warn("Skipping recipe with no title.", zap.String("source", source))
		return s.record(types.IngestResult{Source: source, Outcome: types.IngestSkipped})
	}

	recipe, created, err := s.recipes.Upsert(ctx, rec)
	if err != nil {
		res := s.fail(source, err)
		res.Title = rec.Title
		return res
	}

	outcome := types.IngestUpdated
	if created {
		outcome = types.IngestCreated
	}
	s.logger.Info("recipe ingested",
		zap.String("source", source),
		zap.String("title", recipe.Title),
		zap.String("outcome", string(outcome)),
	)
	return s.record(types.IngestResult{Source: source, Title: recipe.Title, Outcome: outcome})
}

func (s *IngestionService) fail(source string, err error) types.IngestResult {
	s.logger.Error("failed to ingest recipe", zap.String("source", source), zap.Error(err))
	return s.record(types.IngestResult{Source: source, Outcome: types.IngestFailed, Error: err.Error()})
}

func (s *IngestionService) record(res types.IngestResult) types.IngestResult {
	metrics.IngestedRecords.WithLabelValues(string(res.Outcome)).Inc()
	return res
}
