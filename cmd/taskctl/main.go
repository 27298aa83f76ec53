package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"taskboard/config"
	"taskboard/logging"
	"taskboard/migrations"
	"taskboard/repositories"

	"github.com/spf13/cobra"
)

var Version = "dev"

var envFile string

func main() {
	rootCmd := &cobra.Command{
		Use:           "taskctl",
		Short:         "Maintenance commands for the taskboard database",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "dotenv file to load before reading the environment")

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withMigrator loads the configuration, opens the stores and runs fn.
func withMigrator(fn func(ctx context.Context, cfg *config.Config, m *migrations.Migrator) error) error {
	cfg := config.Load(envFile)
	logging.InitLogger(logging.Options{
		SystemName: "taskctl",
		File:       cfg.LogFile,
		Level:      cfg.LogLevel,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if cfg.MongoURI == repositories.MemoryURI {
		return fmt.Errorf("MONGO_URI=%s keeps data in the API process; point taskctl at MongoDB", repositories.MemoryURI)
	}
	stores, err := repositories.Open(ctx, cfg.MongoURI, cfg.MongoDBName, cfg.MongoUseTransactions)
	if err != nil {
		return err
	}
	defer stores.Close(context.Background())

	return fn(ctx, cfg, migrations.NewMigrator(stores.Members, stores.Projects, stores.Tasks))
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Bring existing data up to date",
	}

	auth := &cobra.Command{
		Use:   "auth",
		Short: "Create the default admin and give legacy members a password and role",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(runAuth)
		},
	}
	defaultProject := &cobra.Command{
		Use:   "default-project",
		Short: "Create the default project and move project-less tasks into it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(runDefaultProject)
		},
	}
	all := &cobra.Command{
		Use:   "all",
		Short: "Run every migration in order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(func(ctx context.Context, cfg *config.Config, m *migrations.Migrator) error {
				if err := runAuth(ctx, cfg, m); err != nil {
					return err
				}
				return runDefaultProject(ctx, cfg, m)
			})
		},
	}

	cmd.AddCommand(auth, defaultProject, all)
	return cmd
}

func runAuth(ctx context.Context, cfg *config.Config, m *migrations.Migrator) error {
	report, err := m.Auth(ctx, cfg.AdminPassword)
	if err != nil {
		return fmt.Errorf("auth migration failed: %w", err)
	}
	switch {
	case report.AdminCreated:
		fmt.Printf("✓ Default admin created (%s)\n", migrations.AdminEmail)
	case report.AdminUpdated:
		fmt.Println("✓ Admin account updated")
	}
	fmt.Printf("✓ %d members updated\n", report.MembersUpdated)
	return nil
}

func runDefaultProject(ctx context.Context, _ *config.Config, m *migrations.Migrator) error {
	report, err := m.DefaultProject(ctx)
	if err != nil {
		return fmt.Errorf("default project migration failed: %w", err)
	}
	if report.Created {
		fmt.Println("✓ Default project created")
	} else {
		fmt.Println("✓ Default project already exists")
	}
	fmt.Printf("✓ %d tasks moved to %q\n", report.TasksAdopted, report.Project.Name)
	return nil
}

func seedCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "seed [fixture.yaml]",
		Short: "Replace all data with a fixture (the bundled demo data by default)",
		Long: `Delete every member, project and task, then load the fixture.

Examples:
  taskctl seed --yes
  taskctl seed fixtures/seed.yaml --yes`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("seed deletes all existing data; rerun with --yes to confirm")
			}
			fixture, err := loadFixture(args)
			if err != nil {
				return err
			}
			return withMigrator(func(ctx context.Context, _ *config.Config, m *migrations.Migrator) error {
				report, err := m.Seed(ctx, fixture)
				if err != nil {
					return fmt.Errorf("seed failed: %w", err)
				}
				fmt.Printf("✓ Seeded %d members, %d projects, %d tasks\n", report.Members, report.Projects, report.Tasks)
				return nil
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm that existing data is deleted")
	return cmd
}
