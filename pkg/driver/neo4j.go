package driver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/akngs/k-families-data/pkg/types"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Neo4jDriver loads datasets into a Neo4j database.
type Neo4jDriver struct {
	client    neo4j.DriverWithContext
	database  string
	batchSize int
	logger    *slog.Logger
}

// NewNeo4jDriver creates a new Neo4j driver instance.
func NewNeo4jDriver(uri, username, password, database string) (*Neo4jDriver, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}

	if database == "" {
		database = "neo4j"
	}

	return &Neo4jDriver{
		client:    driver,
		database:  database,
		batchSize: DefaultBatchSize,
		logger:    slog.Default(),
	}, nil
}

// WithBatchSize sets the number of rows per UNWIND statement.
func (n *Neo4jDriver) WithBatchSize(size int) *Neo4jDriver {
	if size > 0 {
		n.batchSize = size
	}
	return n
}

// WithLogger sets the logger used for progress messages.
func (n *Neo4jDriver) WithLogger(logger *slog.Logger) *Neo4jDriver {
	if logger != nil {
		n.logger = logger
	}
	return n
}

// Close closes the driver.
func (n *Neo4jDriver) Close() error {
	return n.client.Close(context.Background())
}

// VerifyConnectivity checks if the driver can connect to the database.
func (n *Neo4jDriver) VerifyConnectivity(ctx context.Context) error {
	return n.client.VerifyConnectivity(ctx)
}

// CreateIndices creates the key constraints. Existing ones are left alone.
func (n *Neo4jDriver) CreateIndices(ctx context.Context) error {
	session := n.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database})
	defer session.Close(ctx)

	for _, query := range constraintQueries {
		_, err := session.Run(ctx, query, nil)
		if err != nil {
			if !strings.Contains(err.Error(), "already exists") && !strings.Contains(err.Error(), "An equivalent") {
				return fmt.Errorf("failed to create constraint: %w", err)
			}
		}
	}
	return nil
}

// LoadDataset replaces the graph's persons, nationalities and their edges with ds.
// Each batch commits on its own; a failure part way leaves a partial graph that
// the next successful load replaces.
func (n *Neo4jDriver) LoadDataset(ctx context.Context, ds *types.Dataset) error {
	if err := n.CreateIndices(ctx); err != nil {
		return err
	}

	session := n.client.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: n.database,
		AccessMode:   neo4j.AccessModeWrite,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, clearQuery, nil)
		if err != nil {
			return nil, err
		}
		return res.Consume(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to clear graph: %w", err)
	}

	for _, step := range loadSteps(ds) {
		for i, batch := range batches(step.rows, n.batchSize) {
			_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
				res, err := tx.Run(ctx, step.query, map[string]any{"rows": batch})
				if err != nil {
					return nil, err
				}
				return res.Consume(ctx)
			})
			if err != nil {
				return fmt.Errorf("failed to load %s batch %d: %w", step.name, i, err)
			}
		}
		n.logger.Info("Loaded graph table", "table", step.name, "rows", len(step.rows))
	}
	return nil
}

// Relatives returns the edges pointing at key, that is every (a, key, type) where a
// is type of key.
func (n *Neo4jDriver) Relatives(ctx context.Context, key string) ([]types.PersonRelation, error) {
	session := n.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, relativesQuery, map[string]any{"key": key})
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}

		edges := make([]types.PersonRelation, 0, len(records))
		for _, record := range records {
			var e types.PersonRelation
			var rel string
			if e.A, err = recordString(record, "a"); err != nil {
				return nil, err
			}
			if e.B, err = recordString(record, "b"); err != nil {
				return nil, err
			}
			if rel, err = recordString(record, "reltype"); err != nil {
				return nil, err
			}
			e.RelType = types.RelationType(rel)
			edges = append(edges, e)
		}
		return edges, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query relatives of %s: %w", key, err)
	}

	edges, ok := result.([]types.PersonRelation)
	if !ok {
		return nil, errors.New("unexpected relatives result")
	}
	return edges, nil
}

// Counts returns node and edge counts keyed by table name.
func (n *Neo4jDriver) Counts(ctx context.Context) (map[string]int, error) {
	session := n.client.NewSession(ctx, neo4j.SessionConfig{DatabaseName: n.database})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, countsQuery, nil)
		if err != nil {
			return nil, err
		}
		record, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}

		counts := make(map[string]int, 4)
		for table, column := range map[string]string{
			types.TablePersons:             "persons",
			types.TableNationalities:       "nationalities",
			types.TablePersonRelations:     "relations",
			types.TablePersonNationalities: "person_nationalities",
		} {
			if counts[table], err = recordInt(record, column); err != nil {
				return nil, err
			}
		}
		return counts, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count graph: %w", err)
	}
	return result.(map[string]int), nil
}
