package kfamilies

import (
	"context"
	"fmt"
	"slices"

	"github.com/akngs/k-families-data/pkg/config"
	"github.com/akngs/k-families-data/pkg/driver"
	"github.com/akngs/k-families-data/pkg/sqlstore"
	"github.com/akngs/k-families-data/pkg/tabular"
	"github.com/akngs/k-families-data/pkg/types"
	"github.com/spf13/cobra"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the output tables into PostgreSQL and/or Neo4j",
	Long: `Read the committed output tables and replace their contents in the selected
stores. PostgreSQL is loaded in a single transaction; Neo4j in batches.`,
	RunE: runLoad,
}

func init() {
	rootCmd.AddCommand(loadCmd)

	loadCmd.Flags().StringSlice("target", []string{"postgres"}, "stores to load (postgres, neo4j)")
	loadCmd.Flags().String("dsn", "", "PostgreSQL DSN")
	loadCmd.Flags().String("neo4j-uri", "", "Neo4j URI")
	loadCmd.Flags().String("neo4j-user", "", "Neo4j username")
	loadCmd.Flags().String("neo4j-password", "", "Neo4j password")
}

func runLoad(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("dsn") {
		cfg.Database.DSN, _ = cmd.Flags().GetString("dsn")
	}
	if cmd.Flags().Changed("neo4j-uri") {
		cfg.Graph.URI, _ = cmd.Flags().GetString("neo4j-uri")
	}
	if cmd.Flags().Changed("neo4j-user") {
		cfg.Graph.Username, _ = cmd.Flags().GetString("neo4j-user")
	}
	if cmd.Flags().Changed("neo4j-password") {
		cfg.Graph.Password, _ = cmd.Flags().GetString("neo4j-password")
	}
	targets, _ := cmd.Flags().GetStringSlice("target")
	if len(targets) == 0 {
		return errNothingToDo
	}
	for _, t := range targets {
		if t != "postgres" && t != "neo4j" {
			return fmt.Errorf("unknown load target %q", t)
		}
	}

	ds, err := tabular.ReadDatasetDir(cfg.Data.OutputDir)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	if slices.Contains(targets, "postgres") {
		if err := loadPostgres(ctx, cfg, ds); err != nil {
			return err
		}
	}
	if slices.Contains(targets, "neo4j") {
		if err := loadNeo4j(ctx, cfg, ds); err != nil {
			return err
		}
	}
	return nil
}

func loadPostgres(ctx context.Context, cfg *config.Config, ds *types.Dataset) error {
	poolCfg := sqlstore.DefaultPostgresStoreConfig()
	if cfg.Database.MaxOpenConns > 0 {
		poolCfg.MaxOpenConns = cfg.Database.MaxOpenConns
	}
	if cfg.Database.MaxIdleConns > 0 {
		poolCfg.MaxIdleConns = cfg.Database.MaxIdleConns
	}

	store, err := sqlstore.NewPostgresStore(ctx, cfg.Database.DSN, poolCfg)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Replace(ctx, ds); err != nil {
		return fmt.Errorf("failed to load PostgreSQL: %w", err)
	}
	counts, err := store.Counts(ctx)
	if err != nil {
		return err
	}
	appLogger.Info("Loaded PostgreSQL", "tables", counts)
	return nil
}

func loadNeo4j(ctx context.Context, cfg *config.Config, ds *types.Dataset) error {
	d, err := driver.NewNeo4jDriver(cfg.Graph.URI, cfg.Graph.Username, cfg.Graph.Password, cfg.Graph.Database)
	if err != nil {
		return err
	}
	defer d.Close()

	if err := d.VerifyConnectivity(ctx); err != nil {
		return fmt.Errorf("failed to connect to neo4j: %w", err)
	}
	d.WithBatchSize(cfg.Graph.BatchSize).WithLogger(appLogger)

	if err := d.LoadDataset(ctx, ds); err != nil {
		return fmt.Errorf("failed to load Neo4j: %w", err)
	}
	counts, err := d.Counts(ctx)
	if err != nil {
		return err
	}
	appLogger.Info("Loaded Neo4j", "tables", counts)
	return nil
}
