package config

import (
	"fmt"
)

type S3Config struct {
	BucketName string `yaml:"bucketName"`
	Region     string `yaml:"region"`
	// Endpoint overrides the S3 endpoint, e.g. for a local object store.
	Endpoint   string `yaml:"endpoint"`
}

func (c *S3Config) applyEnv() {
	envString(&c.BucketName, "BUCKET_NAME")
	envString(&c.Region, "REGION")
	envString(&c.Endpoint, "S3_ENDPOINT")
}

func (c *S3Config) Validate() error {
	if c.BucketName == "" {
		return fmt.Errorf("BUCKET_NAME must be set")
	}

	if c.Region == "" {
		return fmt.Errorf("REGION must be set")
	}

	return nil
}
