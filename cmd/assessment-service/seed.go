package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/SAP-F-2025/talentflow-assessment/internal/cache"
	"github.com/SAP-F-2025/talentflow-assessment/internal/config"
	"github.com/SAP-F-2025/talentflow-assessment/internal/repositories/postgres"
	"github.com/SAP-F-2025/talentflow-assessment/internal/services"
	"github.com/SAP-F-2025/talentflow-assessment/internal/utils"
	"github.com/SAP-F-2025/talentflow-assessment/internal/validator"
	"github.com/SAP-F-2025/talentflow-assessment/pkg"
)

var (
	seedJobID uint
	seedForce bool
)

var seedCmd = &cobra.Command{
	Use:   "seed FILE",
	Short: "Load a structure document into a job's assessment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if seedJobID == 0 {
			return fmt.Errorf("--job is required")
		}

		data, format, err := readDocument(args[0])
		if err != nil {
			return err
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger := utils.ToSlogLogger(utils.NewLogger(cfg.Environment))
		ctx := cmd.Context()

		db, err := pkg.InitDatabase(ctx, cfg)
		if err != nil {
			return err
		}
		if err := postgres.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		repo := postgres.NewRepository(db)

		exists, err := repo.Assessment().ExistsByJobID(ctx, nil, seedJobID)
		if err != nil {
			return fmt.Errorf("failed to check job %d: %w", seedJobID, err)
		}
		if exists && !seedForce {
			return fmt.Errorf("job %d already has an assessment; pass --force to replace it", seedJobID)
		}

		// the cache is optional here; without it a running server sees the
		// new structure once its entry expires
		var assessmentCache *cache.AssessmentCache
		if client, err := pkg.NewRedisClient(ctx, cfg); err == nil {
			defer client.Close()
			assessmentCache = cache.NewAssessmentCache(cache.NewRedisCache(client, logger), cfg.CacheTTL, logger)
		}

		manager := services.NewServiceManager(repo, assessmentCache, nil, logger, validator.New())

		resp, err := manager.ImportExport().ImportStructure(ctx, seedJobID, data, format, services.EditContext{UserID: "seed"})
		if err != nil {
			logger.Error("Seed failed", "job_id", seedJobID, "error", services.FormatError(err))
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "job %d: saved %q version %d (%d questions, fingerprint %s)\n",
			seedJobID, resp.Structure.Title, resp.Version, len(resp.Structure.Questions()), resp.Fingerprint)
		return nil
	},
}

func init() {
	seedCmd.Flags().UintVar(&seedJobID, "job", 0, "job id to attach the assessment to")
	seedCmd.Flags().BoolVar(&seedForce, "force", false, "replace an existing assessment")
}
