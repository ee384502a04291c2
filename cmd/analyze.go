package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pathwell/labscan/internal/utils"
	"github.com/pathwell/labscan/pkg/catalog"
	"github.com/pathwell/labscan/pkg/ocr"
	"github.com/pathwell/labscan/pkg/ocr/tesseract"
	"github.com/pathwell/labscan/pkg/ocr/vision"
	"github.com/pathwell/labscan/pkg/pipeline"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [image]...",
	Short: "Extract lab test results from report images",
	Long: `Analyze one or more photographed or scanned lab-report images and print
the recognized test results as JSON: test name, value, unit, reference
range, and a Low/Normal/High/Unparseable flag per result.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

var (
	engineName     string
	language       string
	catalogPath    string
	outputPath     string
	workers        int
	ocrTimeout     time.Duration
	ocrConfidence  float64
	fuzzyThreshold float64
)

// imageReport is the per-image envelope written to the output. Exactly one
// of Results and Error is meaningful; an image with no recognizable tests
// reports an empty (not null) result list.
type imageReport struct {
	Image   string               `json:"image"`
	Results []pipeline.LabResult `json:"results"`
	Error   string               `json:"error,omitempty"`
}

func init() {
	RootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&engineName, "engine", envOr("LABSCAN_ENGINE", "tesseract"), "OCR engine to use: tesseract, vision")
	analyzeCmd.Flags().StringVar(&language, "language", envOr("LABSCAN_LANGUAGE", "eng"), "Tesseract language code")
	analyzeCmd.Flags().StringVar(&catalogPath, "catalog", os.Getenv("LABSCAN_CATALOG"), "Path to a test-catalog YAML file (built-in catalog if empty)")
	analyzeCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write JSON to this file instead of stdout")
	analyzeCmd.Flags().IntVar(&workers, "workers", 4, "Number of images processed concurrently")
	analyzeCmd.Flags().DurationVar(&ocrTimeout, "ocr-timeout", envDurationOr("LABSCAN_OCR_TIMEOUT", 30*time.Second), "Timeout for a single OCR invocation")
	analyzeCmd.Flags().Float64Var(&ocrConfidence, "ocr-confidence", envFloatOr("LABSCAN_OCR_CONFIDENCE", 0.4), "Mean OCR confidence below which results are degraded")
	analyzeCmd.Flags().Float64Var(&fuzzyThreshold, "fuzzy-threshold", envFloatOr("LABSCAN_FUZZY_THRESHOLD", 0.75), "Minimum accepted fuzzy test-name match confidence")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cat, err := loadCatalog(catalogPath)
	if err != nil {
		return err
	}

	registry := ocr.NewRegistry()
	registry.Register(tesseract.New(language))
	registry.Register(vision.New())

	if !registry.HasEngine(engineName) {
		return fmt.Errorf("unsupported engine %q (available: %s)", engineName, strings.Join(registry.List(), ", "))
	}
	engine, err := registry.Get(engineName)
	if err != nil {
		return err
	}
	defer func() {
		if err := engine.Close(); err != nil {
			slog.Warn("closing ocr engine", "engine", engine.Name(), "err", err)
		}
	}()

	analyzer := pipeline.New(engine, cat, pipeline.Config{
		OCRConfidenceThreshold: ocrConfidence,
		FuzzyThreshold:         fuzzyThreshold,
		OCRTimeout:             ocrTimeout,
	})

	slog.Info("analyzing images", "count", len(args), "engine", engine.Name(), "catalog_entries", cat.Len())

	reports := analyzeAll(cmd, analyzer, args)

	out := os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(reports)
}

// analyzeAll fans the images out over a bounded worker pool. Per-image
// failures land in that image's report; they never abort the batch.
func analyzeAll(cmd *cobra.Command, analyzer *pipeline.Analyzer, paths []string) []imageReport {
	jobs := make(chan int)
	reports := make([]imageReport, len(paths))

	n := workers
	if n < 1 {
		n = 1
	}
	if n > len(paths) {
		n = len(paths)
	}

	var wg sync.WaitGroup
	for w := 0; w < n; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				reports[i] = analyzeOne(cmd, analyzer, paths[i])
			}
		}()
	}

	for i := range paths {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return reports
}

func analyzeOne(cmd *cobra.Command, analyzer *pipeline.Analyzer, path string) imageReport {
	report := imageReport{Image: path, Results: []pipeline.LabResult{}}

	data, err := os.ReadFile(path)
	if err != nil {
		report.Error = err.Error()
		return report
	}

	formatHint := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	results, err := analyzer.Analyze(cmd.Context(), data, formatHint)
	if err != nil {
		slog.Error("analysis failed", "image", path, "err", utils.MaskSensitiveError(err))
		report.Error = utils.MaskSensitiveData(err.Error())
		return report
	}

	slog.Debug("analysis complete", "image", path, "results", len(results))
	report.Results = results
	return report
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(path)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Warn("ignoring invalid float in environment", "key", key, "value", v)
		return fallback
	}
	return f
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		slog.Warn("ignoring invalid duration in environment", "key", key, "value", v)
		return fallback
	}
	return d
}
