package config

import (
	"fmt"
)

const (
	DynamoBackend = "dynamodb"
	SQLiteBackend = "sqlite"
)

type MetadataConfig struct {
	Backend string `yaml:"backend"`
}

func (c *MetadataConfig) applyEnv() {
	envString(&c.Backend, "METADATA_BACKEND")
}

type DynamoConfig struct {
	TableName string `yaml:"tableName"`
}

func (c *DynamoConfig) applyEnv() {
	envString(&c.TableName, "DYNAMO_TABLE_NAME")
}

func (c *DynamoConfig) Validate() error {
	if c.TableName == "" {
		return fmt.Errorf("DYNAMO_TABLE_NAME must be set")
	}
	return nil
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

func (c *SQLiteConfig) applyEnv() {
	envString(&c.Path, "SQLITE_PATH")
}

func (c *SQLiteConfig) Validate() error {
	if c.Path == "" {
		return fmt.Errorf("SQLITE_PATH must be set")
	}
	return nil
}
