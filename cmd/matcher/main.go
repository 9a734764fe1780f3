// Command matcher ranks a waiting list of candidate recipients against a
// single donor by Predicted Heart Mass, blood-type compatibility, and the
// configured priority rules, then writes a ranking report.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/phm-match-engine/internal/audit"
	"github.com/phm-match-engine/internal/config"
	"github.com/phm-match-engine/internal/domain"
	"github.com/phm-match-engine/internal/ingest"
	"github.com/phm-match-engine/internal/report"
	"github.com/phm-match-engine/internal/service"
	"github.com/phm-match-engine/pkg/bloodtype"
)

func main() {
	var (
		rosterPath     = flag.String("roster", "", "path to the recipient roster CSV (required)")
		donorName      = flag.String("donor-name", "", "donor name")
		donorGender    = flag.String("donor-gender", "", "donor gender: male or female (required)")
		donorAge       = flag.Float64("donor-age", 0, "donor age in years (required)")
		donorHeight    = flag.Float64("donor-height", 0, "donor height, cm or m (required)")
		donorWeight    = flag.Float64("donor-weight", 0, "donor weight in kg (required)")
		donorBloodType = flag.String("donor-blood-type", "", "donor blood type, e.g. O- (optional)")
		rankingPolicy  = flag.String("ranking-policy", "", "ranking policy: clinical or waitlist (overrides config)")
		compatPolicy   = flag.String("compatibility-policy", "", "compatibility policy: full-chart or abo-only (overrides config)")
		outputPath     = flag.String("out", "", "report output path (overrides config; default stdout)")
		outputFormat   = flag.String("format", "", "report format: markdown or html (overrides config)")
	)
	flag.Parse()

	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	cfg := configManager.GetConfig()
	applyOverrides(cfg, *rankingPolicy, *compatPolicy, *outputPath, *outputFormat)

	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to configure logging: %v", err)
	}

	if *rosterPath == "" {
		log.Fatal("A roster file is required (-roster)")
	}

	donor, err := buildDonor(*donorName, *donorGender, *donorAge, *donorHeight, *donorWeight, *donorBloodType)
	if err != nil {
		log.Fatalf("Invalid donor: %v", err)
	}

	recipients, dropped, err := readRoster(logger, *rosterPath)
	if err != nil {
		log.Fatalf("Failed to read roster: %v", err)
	}

	engine, err := service.NewMatchEngine(logger, cfg.Engine, cfg.Cache.MaxRuns)
	if err != nil {
		log.Fatalf("Failed to create match engine: %v", err)
	}

	ctx := context.Background()

	// Rows the roster reader had to drop join the engine's skip manifest
	// so the report shows every excluded candidate in one place.
	result, err := engine.Run(ctx, donor, recipients, dropped...)
	if err != nil {
		log.Fatalf("Match run failed: %v", err)
	}

	if err := writeReport(logger, cfg.Report, result); err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}

	if cfg.Audit.Enabled {
		if err := saveAudit(ctx, cfg.Audit, result); err != nil {
			// The ranking already succeeded; a broken audit store should
			// not discard it.
			logger.WithError(err).Error("Failed to record audit entry")
		}
	}
}

// applyOverrides folds command-line overrides into the loaded config.
func applyOverrides(cfg *domain.Config, rankingPolicy, compatPolicy, outputPath, outputFormat string) {
	if rankingPolicy != "" {
		cfg.Engine.RankingPolicy = rankingPolicy
	}
	if compatPolicy != "" {
		cfg.Engine.CompatibilityPolicy = compatPolicy
	}
	if outputPath != "" {
		cfg.Report.OutputPath = outputPath
	}
	if outputFormat != "" {
		cfg.Report.Format = outputFormat
	}
}

// newLogger builds the application logger from the logging configuration.
func newLogger(cfg domain.LoggingConfig) (*logrus.Logger, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	logger.SetLevel(level)

	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	switch cfg.Output {
	case "stdout":
		logger.SetOutput(os.Stdout)
	default:
		logger.SetOutput(os.Stderr)
	}

	return logger, nil
}

// buildDonor assembles and validates the donor from command-line inputs.
func buildDonor(name, gender string, age, height, weight float64, rawBloodType string) (domain.Donor, error) {
	parsedGender, err := domain.ParseGender(gender)
	if err != nil {
		return domain.Donor{}, fmt.Errorf("donor gender %q: %w", gender, err)
	}

	bt, err := bloodtype.Parse(rawBloodType)
	if err != nil {
		return domain.Donor{}, err
	}

	donor := domain.Donor{
		Name: name,
		Profile: domain.BiometricProfile{
			Gender: parsedGender,
			Age:    age,
			Height: height,
			Weight: weight,
		},
		BloodType: bt,
	}

	if err := donor.Validate(); err != nil {
		return domain.Donor{}, err
	}
	return donor, nil
}

// readRoster parses the recipient roster file.
func readRoster(logger *logrus.Logger, path string) ([]domain.Recipient, []domain.SkippedRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	return ingest.NewRosterReader(logger).Read(file)
}

// writeReport renders the result and writes it to the configured target.
func writeReport(logger *logrus.Logger, cfg domain.ReportConfig, result *domain.MatchResult) error {
	generator := report.NewGenerator(logger)

	var content []byte
	switch cfg.Format {
	case "html":
		rendered, err := generator.RenderHTML(result)
		if err != nil {
			return err
		}
		content = rendered
	default:
		content = []byte(generator.RenderMarkdown(result))
	}

	if cfg.OutputPath == "" {
		_, err := os.Stdout.Write(content)
		return err
	}
	return os.WriteFile(cfg.OutputPath, content, 0644)
}

// saveAudit records the run in the audit trail.
func saveAudit(ctx context.Context, cfg domain.AuditConfig, result *domain.MatchResult) error {
	store, err := audit.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	return store.Save(ctx, &audit.RunEntry{
		RunID:               result.RunID,
		DonorName:           result.DonorName,
		RankingPolicy:       result.RankingPolicy.String(),
		CompatibilityPolicy: result.CompatibilityPolicy.String(),
		RecordCount:         len(result.Records),
		SkippedCount:        len(result.Skipped),
		Duration:            result.ProcessingTime,
		CreatedAt:           result.CreatedAt,
	})
}
