/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package detabase

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/suparena/detabase/base"
)

// Environment variables read by NewFromEnv.
const (
	// EnvDataKey holds the project data key.
	EnvDataKey = "DETA_DATA_KEY"

	// EnvProjectKey is the older name for the data key, read as a fallback.
	EnvProjectKey = "DETA_PROJECT_KEY"

	// EnvEndpoint overrides the service endpoint.
	EnvEndpoint = "DETA_BASE_ENDPOINT"
)

// NewFromEnv builds a project client from the environment. A .env file in
// the working directory is loaded first when present. The data key comes
// from DETA_DATA_KEY, falling back to DETA_PROJECT_KEY, and an alternate
// endpoint from DETA_BASE_ENDPOINT. Explicit options take precedence over
// the environment.
func NewFromEnv(opts ...base.Option) (*Client, error) {
	_ = godotenv.Load()

	dataKey := os.Getenv(EnvDataKey)
	if dataKey == "" {
		dataKey = os.Getenv(EnvProjectKey)
	}
	if dataKey == "" {
		return nil, fmt.Errorf("%s is not set", EnvDataKey)
	}

	if endpoint := os.Getenv(EnvEndpoint); endpoint != "" {
		opts = append([]base.Option{base.WithEndpoint(endpoint)}, opts...)
	}
	return New(dataKey, opts...)
}
