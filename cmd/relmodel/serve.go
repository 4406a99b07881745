package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/relmodel/relmodel/internal/export"
	"github.com/relmodel/relmodel/internal/schema"
	"github.com/relmodel/relmodel/internal/server"
)

var (
	serveAddr  string
	serveInput string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a schema document over HTTP",
	Long: `Serve exposes a schema document as JSON. The document comes either
from a file previously written by pull (--input) or from a fresh
introspection run against a live database (source flags).`,
	RunE: runServe,
}

func init() {
	addSourceFlags(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().StringVarP(&serveInput, "input", "i", "", "Schema document to serve (YAML, as written by pull)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if err := applyConfigFile(cmd); err != nil {
		return err
	}
	log := newLogger()

	var (
		doc export.Document
		err error
	)
	if serveInput != "" {
		doc, err = loadDocument(serveInput)
		if err != nil {
			return err
		}
		log.Infof("loaded %d tables from %s", len(doc.Tables), serveInput)
	} else {
		if err := validateSourceFlags(); err != nil {
			return fmt.Errorf("serve needs --input or a database source: %w", err)
		}

		src, db, label, err := openSource(ctx, log)
		if err != nil {
			return err
		}

		in, err := schema.Snapshot(ctx, src, tableFilter())
		db.Close()
		if err != nil {
			return fmt.Errorf("failed to read catalog: %w", err)
		}

		model, err := schema.NewBuilder(log).Build(in)
		if err != nil {
			return fmt.Errorf("failed to resolve schema: %w", err)
		}
		doc = export.NewDocument(model, label)
		log.Infof("resolved %d tables from %s", len(doc.Tables), label)
	}

	srv := server.New(server.DefaultConfig(serveAddr), doc, log)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("shutting down")
		return srv.Shutdown(context.Background())
	}
}

func loadDocument(path string) (export.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return export.Document{}, fmt.Errorf("failed to open schema document: %w", err)
	}
	defer f.Close()

	doc, err := export.ReadYAML(f)
	if err != nil {
		return export.Document{}, fmt.Errorf("failed to parse schema document: %w", err)
	}
	return doc, nil
}
