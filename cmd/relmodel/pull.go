package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/relmodel/relmodel/internal/database"
	mysqldrv "github.com/relmodel/relmodel/internal/database/mysql"
	pgdrv "github.com/relmodel/relmodel/internal/database/postgres"
	sqlitedrv "github.com/relmodel/relmodel/internal/database/sqlite"
	"github.com/relmodel/relmodel/internal/export"
	"github.com/relmodel/relmodel/internal/filestore"
	miniofs "github.com/relmodel/relmodel/internal/filestore/minio"
	"github.com/relmodel/relmodel/internal/logger"
	"github.com/relmodel/relmodel/internal/schema"
	mysqlsrc "github.com/relmodel/relmodel/internal/schema/mysql"
	pgsrc "github.com/relmodel/relmodel/internal/schema/postgres"
	sqlitesrc "github.com/relmodel/relmodel/internal/schema/sqlite"
)

var (
	dbURL      string
	mysqlURL   string
	sqlitePath string
	schemaName string
	tables     string
	outputFile string
	sourceName string

	push           bool
	minioEndpoint  string
	minioAccessKey string
	minioSecretKey string
	minioBucket    string
	minioSSL       bool
)

var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Introspect a database and export the resolved schema as YAML",
	RunE:  runPull,
}

func init() {
	addSourceFlags(pullCmd)
	pullCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	pullCmd.Flags().StringVar(&sourceName, "source-name", "", "Source label recorded in the document (default: driver name)")

	pullCmd.Flags().BoolVar(&push, "push", false, "Upload the document to object storage after export")
	pullCmd.Flags().StringVar(&minioEndpoint, "minio-endpoint", "localhost:9000", "MinIO endpoint (host:port)")
	pullCmd.Flags().StringVar(&minioAccessKey, "minio-access-key", "", "MinIO access key")
	pullCmd.Flags().StringVar(&minioSecretKey, "minio-secret-key", "", "MinIO secret key")
	pullCmd.Flags().StringVar(&minioBucket, "minio-bucket", "schema-snapshots", "Bucket for uploaded snapshots")
	pullCmd.Flags().BoolVar(&minioSSL, "minio-ssl", false, "Use TLS for the MinIO connection")
}

// addSourceFlags registers the database selection flags shared by pull and
// serve.
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&dbURL, "db-url", "", "PostgreSQL connection string")
	cmd.Flags().StringVar(&mysqlURL, "mysql-url", "", "MySQL connection string (DSN)")
	cmd.Flags().StringVar(&sqlitePath, "sqlite", "", "SQLite database file path")
	cmd.Flags().StringVarP(&schemaName, "schema", "s", "", "Schema to introspect (default: public for PostgreSQL, current database for MySQL)")
	cmd.Flags().StringVarP(&tables, "tables", "t", "", "Specific tables (comma-separated, optional)")
}

// validateSourceFlags enforces exactly one database selection.
func validateSourceFlags() error {
	dbCount := 0
	for _, v := range []string{dbURL, mysqlURL, sqlitePath} {
		if v != "" {
			dbCount++
		}
	}
	if dbCount == 0 {
		return fmt.Errorf("one of --db-url, --mysql-url, or --sqlite must be specified")
	}
	if dbCount > 1 {
		return fmt.Errorf("only one of --db-url, --mysql-url, or --sqlite can be specified")
	}
	return nil
}

func runPull(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if err := applyConfigFile(cmd); err != nil {
		return err
	}
	log := newLogger()

	if err := validateSourceFlags(); err != nil {
		return err
	}

	src, db, label, err := openSource(ctx, log)
	if err != nil {
		return err
	}
	defer db.Close()

	if sourceName != "" {
		label = sourceName
	}

	in, err := schema.Snapshot(ctx, src, tableFilter())
	if err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}

	model, err := schema.NewBuilder(log).Build(in)
	if err != nil {
		return fmt.Errorf("failed to resolve schema: %w", err)
	}
	log.Infof("resolved %d tables from %s", len(model.Tables), label)

	doc := export.NewDocument(model, label)

	var buf bytes.Buffer
	if err := export.WriteYAML(&buf, doc); err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		log.Infof("wrote %s", outputFile)
	} else if !push {
		if _, err := os.Stdout.Write(buf.Bytes()); err != nil {
			return err
		}
	}

	if push {
		if err := pushSnapshot(ctx, log, label, buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

// openSource connects to the selected database and wraps it in the
// matching catalog source.
func openSource(ctx context.Context, log *logger.Logger) (schema.Source, database.DB, string, error) {
	switch {
	case sqlitePath != "":
		db, err := sqlitedrv.New(ctx, database.DefaultConfig(database.DriverSQLite, sqlitePath))
		if err != nil {
			return nil, nil, "", fmt.Errorf("failed to connect to SQLite: %w", err)
		}
		return sqlitesrc.New(db), db, "sqlite", nil

	case mysqlURL != "":
		db, err := mysqldrv.New(ctx, database.DefaultConfig(database.DriverMySQL, mysqlURL))
		if err != nil {
			return nil, nil, "", fmt.Errorf("failed to connect to MySQL: %w", err)
		}
		return mysqlsrc.New(db, schemaName), db, "mysql", nil

	default:
		db, err := pgdrv.New(ctx, database.DefaultConfig(database.DriverPostgres, dbURL))
		if err != nil {
			return nil, nil, "", fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		return pgsrc.New(db, schemaName), db, "postgres", nil
	}
}

// tableFilter parses --tables into qualified names. An empty filter makes
// Snapshot list every table the source exposes.
func tableFilter() []schema.QualifiedName {
	if tables == "" {
		return nil
	}
	var out []schema.QualifiedName
	for _, t := range strings.Split(tables, ",") {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		qn := schema.QualifiedName{Name: t}
		if i := strings.LastIndex(t, "."); i > 0 {
			qn = schema.QualifiedName{Schema: t[:i], Name: t[i+1:]}
		} else if sqlitePath == "" && schemaName != "" {
			qn.Schema = schemaName
		}
		out = append(out, qn)
	}
	return out
}

// pushSnapshot uploads the encoded document under a fresh snapshot key.
func pushSnapshot(ctx context.Context, log *logger.Logger, label string, data []byte) error {
	cfg := filestore.DefaultConfig(minioEndpoint, minioAccessKey, minioSecretKey)
	cfg.UseSSL = minioSSL
	cfg.DefaultBucket = minioBucket

	store, err := miniofs.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to object storage: %w", err)
	}
	defer store.Close()

	if err := store.EnsureBucket(ctx, cfg.DefaultBucket); err != nil {
		return fmt.Errorf("failed to ensure bucket: %w", err)
	}

	key := filestore.SnapshotKey(label)
	info, err := store.PutObject(ctx, cfg.DefaultBucket, key, bytes.NewReader(data), int64(len(data)), "application/yaml")
	if err != nil {
		return fmt.Errorf("failed to upload snapshot: %w", err)
	}
	log.Infof("uploaded %s (%d bytes)", info.Key, info.Size)
	return nil
}
