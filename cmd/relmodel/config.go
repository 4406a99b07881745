package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

// fileConfig is the optional relmodel.yaml project file. Explicit command
// line flags always win over file values.
type fileConfig struct {
	Source struct {
		DBURL    string `yaml:"db_url"`
		MySQLURL string `yaml:"mysql_url"`
		SQLite   string `yaml:"sqlite"`
		Schema   string `yaml:"schema"`
		Tables   string `yaml:"tables"`
	} `yaml:"source"`

	Storage struct {
		Endpoint  string `yaml:"endpoint"`
		AccessKey string `yaml:"access_key"`
		SecretKey string `yaml:"secret_key"`
		Bucket    string `yaml:"bucket"`
		SSL       bool   `yaml:"ssl"`
	} `yaml:"storage"`

	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// applyConfigFile loads the YAML file named by --config, if any, and fills
// in every setting whose flag the user did not set explicitly.
func applyConfigFile(cmd *cobra.Command) error {
	if configFile == "" {
		return nil
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	set := func(flag string, target *string, value string) {
		if value != "" && !cmd.Flags().Changed(flag) {
			*target = value
		}
	}

	set("db-url", &dbURL, fc.Source.DBURL)
	set("mysql-url", &mysqlURL, fc.Source.MySQLURL)
	set("sqlite", &sqlitePath, fc.Source.SQLite)
	set("schema", &schemaName, fc.Source.Schema)
	set("tables", &tables, fc.Source.Tables)

	set("minio-endpoint", &minioEndpoint, fc.Storage.Endpoint)
	set("minio-access-key", &minioAccessKey, fc.Storage.AccessKey)
	set("minio-secret-key", &minioSecretKey, fc.Storage.SecretKey)
	set("minio-bucket", &minioBucket, fc.Storage.Bucket)
	if fc.Storage.SSL && !cmd.Flags().Changed("minio-ssl") {
		minioSSL = true
	}

	set("addr", &serveAddr, fc.Server.Addr)

	if fc.Log.Level != "" && !cmd.Root().PersistentFlags().Changed("log-level") {
		logLevel = fc.Log.Level
	}
	if fc.Log.Format != "" && !cmd.Root().PersistentFlags().Changed("log-format") {
		logFormat = fc.Log.Format
	}

	return nil
}
