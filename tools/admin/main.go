package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/tnqbao/charcoal-cms/config"
	"github.com/tnqbao/charcoal-cms/infra"
	"github.com/tnqbao/charcoal-cms/repository"
	"github.com/tnqbao/charcoal-cms/service"
)

// toolEnv holds the subset of infra the one-shot commands need. Redis and RabbitMQ are not dialed.
type toolEnv struct {
	cfg    *config.Config
	db     *infra.PostgresClient
	repo   *repository.Repository
	logger *infra.LoggerClient
}

func openEnv() *toolEnv {
	if err := godotenv.Load("staging.env"); err != nil {
		log.Println("No .env file found, continuing with environment variables")
	}
	cfg := config.NewConfig()
	db := infra.InitPostgresClient(cfg.EnvConfig)
	return &toolEnv{
		cfg:    cfg,
		db:     db,
		repo:   repository.NewRepository(db.DB),
		logger: infra.InitLoggerClient(cfg.EnvConfig),
	}
}

func (e *toolEnv) Close() {
	_ = e.logger.Shutdown(context.Background())
	_ = e.db.Close()
}

func main() {
	rootCommand := &cobra.Command{
		Use:   "charcoal-admin",
		Short: "Maintenance commands for the charcoal CMS",
	}

	migrateCommand := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			env := openEnv()
			defer env.Close()
			return env.repo.Migrate()
		},
	}
	rootCommand.AddCommand(migrateCommand)

	var email, name, password, role string
	createAdminCommand := &cobra.Command{
		Use:   "create-admin",
		Short: "Provision an admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			env := openEnv()
			defer env.Close()

			auth := service.NewAuthService(env.repo.AdminUserRepo, nil, env.logger)
			user, err := auth.CreateAdmin(cmd.Context(), service.AdminInput{
				Email:    email,
				Name:     name,
				Password: password,
				Role:     role,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s admin %s (%s)\n", user.Role, user.Email, user.ID)
			return nil
		},
	}
	createAdminCommand.Flags().StringVar(&email, "email", "", "login email")
	createAdminCommand.Flags().StringVar(&name, "name", "", "display name")
	createAdminCommand.Flags().StringVar(&password, "password", "", "initial password, at least 8 characters")
	createAdminCommand.Flags().StringVar(&role, "role", "editor", "owner or editor")
	_ = createAdminCommand.MarkFlagRequired("email")
	_ = createAdminCommand.MarkFlagRequired("name")
	_ = createAdminCommand.MarkFlagRequired("password")
	rootCommand.AddCommand(createAdminCommand)

	var batchSize int
	sweepCommand := &cobra.Command{
		Use:   "sweep-uploads",
		Short: "Delete objects of uploads that were presigned but never confirmed",
		RunE: func(cmd *cobra.Command, args []string) error {
			env := openEnv()
			defer env.Close()

			storage, _ := infra.InitObjectStorage(env.cfg.EnvConfig)
			owners := map[string]service.OwnerLookup{
				service.OwnerProduct:    env.repo.ProductRepo,
				service.OwnerTeamMember: env.repo.TeamMemberRepo,
				service.OwnerPage:       env.repo.PageMetadataRepo,
			}
			media := service.NewMediaService(env.repo.MediaAssetRepo, env.repo.PendingUploadRepo, storage, owners, service.MediaOptions{
				PresignTTL: env.cfg.EnvConfig.Storage.PresignTTL,
				PendingTTL: env.cfg.EnvConfig.Upload.PendingTTL,
				MaxBytes:   env.cfg.EnvConfig.Upload.MaxBytes,
			}, env.logger)

			report, err := media.SweepExpiredUploads(cmd.Context(), batchSize)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "scanned %d, orphaned %d, already confirmed %d, failed %d\n",
				report.Scanned, report.Orphaned, report.AlreadyConfirmed, report.Failed)
			return nil
		},
	}
	sweepCommand.Flags().IntVar(&batchSize, "batch", 500, "maximum expired uploads to reconcile")
	rootCommand.AddCommand(sweepCommand)

	if err := rootCommand.Execute(); err != nil {
		os.Exit(1)
	}
}
