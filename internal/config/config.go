// Copyright 2026 GreenMatch Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"github.com/getsops/sops/v3/decrypt"
	"github.com/greenmatch-io/greenmatch/database/plugin"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

type ctxKey string

const configContextKey ctxKey = "greenmatch.config"

const DefaultShutdownTimeout = "30s"

func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configContextKey, cfg)
}

func FromContext(ctx context.Context) *Config {
	cfg, ok := ctx.Value(configContextKey).(*Config)
	if !ok {
		return nil
	}
	return cfg
}

const (
	DefaultBlobPlugin     = "badger"
	DefaultMetadataPlugin = "sqlite"
)

// ErrPluginListRequested is returned when the user requests to list available plugins
// This is not an error condition but a successful operation that displays plugin information
var ErrPluginListRequested = errors.New("plugin list requested")

type tempConfig struct {
	Config   *Config                   `yaml:"config,omitempty"`
	Database *databaseConfig           `yaml:"database,omitempty"`
	Blob     map[string]map[string]any `yaml:"blob,omitempty"`
	Metadata map[string]map[string]any `yaml:"metadata,omitempty"`
}

type databaseConfig struct {
	Blob     map[string]any `yaml:"blob,omitempty"`
	Metadata map[string]any `yaml:"metadata,omitempty"`
}

// CollaboratorsConfig holds the bootstrap base URLs for the external
// collaborators. Addresses stored through the admin API take
// precedence once set
type CollaboratorsConfig struct {
	FlightSource  string `yaml:"flightSource"  envconfig:"GREENMATCH_FLIGHT_SOURCE_URL"`
	ProjectSource string `yaml:"projectSource" envconfig:"GREENMATCH_PROJECT_SOURCE_URL"`
	CreditLedger  string `yaml:"creditLedger"  envconfig:"GREENMATCH_CREDIT_LEDGER_URL"`
	ProofIssuer   string `yaml:"proofIssuer"   envconfig:"GREENMATCH_PROOF_ISSUER_URL"`
	StakeOracle   string `yaml:"stakeOracle"   envconfig:"GREENMATCH_STAKE_ORACLE_URL"`
}

type Config struct {
	MetadataPlugin    string              `yaml:"metadataPlugin"    envconfig:"GREENMATCH_DATABASE_METADATA_PLUGIN"`
	BlobPlugin        string              `yaml:"blobPlugin"        envconfig:"GREENMATCH_DATABASE_BLOB_PLUGIN"`
	DatabasePath      string              `yaml:"databasePath"                                                      split_words:"true"`
	BindAddr          string              `yaml:"bindAddr"                                                          split_words:"true"`
	ApiListenAddress  string              `yaml:"apiListenAddress"                                                  split_words:"true"`
	ShutdownTimeout   string              `yaml:"shutdownTimeout"                                                   split_words:"true"`
	InitialAdmin      string              `yaml:"initialAdmin"                                                      split_words:"true"`
	Collaborators     CollaboratorsConfig `yaml:"collaborators"`
	QuorumPercent     uint64              `yaml:"quorumPercent"                                                     split_words:"true"`
	ProposalDuration  uint64              `yaml:"proposalDuration"                                                  split_words:"true"`
	ApiMaxConnections int                 `yaml:"apiMaxConnections"                                                 split_words:"true"`
	MetricsPort       uint                `yaml:"metricsPort"                                                       split_words:"true"`
	Tracing           bool                `yaml:"tracing"`
	TracingStdout     bool                `yaml:"tracingStdout"                                                     split_words:"true"`
}

var globalConfig = &Config{
	DatabasePath:     ".greenmatch",
	BindAddr:         "0.0.0.0",
	ApiListenAddress: ":8080",
	MetricsPort:      12798,
	BlobPlugin:       DefaultBlobPlugin,
	MetadataPlugin:   DefaultMetadataPlugin,
	ShutdownTimeout:  DefaultShutdownTimeout,
}

// maybeDecrypt returns the plaintext of a SOPS-encrypted config file,
// or the input unchanged when the file carries no SOPS metadata
func maybeDecrypt(buf []byte) ([]byte, error) {
	var probe map[string]any
	if err := yaml.Unmarshal(buf, &probe); err != nil {
		// Leave parse errors to the main config unmarshal
		return buf, nil
	}
	if _, ok := probe["sops"]; !ok {
		return buf, nil
	}
	plaintext, err := decrypt.Data(buf, "yaml")
	if err != nil {
		return nil, fmt.Errorf("error decrypting config file: %w", err)
	}
	return plaintext, nil
}

func LoadConfig(configFile string) (*Config, error) {
	// Load config file as YAML if provided
	if configFile == "" {
		// Check for config file in this path: ~/.greenmatch/greenmatch.yaml
		if homeDir, err := os.UserHomeDir(); err == nil {
			userPath := filepath.Join(
				homeDir,
				".greenmatch",
				"greenmatch.yaml",
			)
			if _, err := os.Stat(userPath); err == nil {
				configFile = userPath
			}
		}

		// Try to check for /etc/greenmatch/greenmatch.yaml if still not found
		if configFile == "" {
			systemPath := "/etc/greenmatch/greenmatch.yaml"
			if _, err := os.Stat(systemPath); err == nil {
				configFile = systemPath
			}
		}
	}

	if configFile != "" {
		buf, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}

		buf, err = maybeDecrypt(buf)
		if err != nil {
			return nil, err
		}

		// First unmarshal into temp config to handle plugin sections
		var tempCfg tempConfig
		err = yaml.Unmarshal(buf, &tempCfg)
		if err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}

		// If config section exists, use it for main config
		if tempCfg.Config != nil {
			// Overlay config values onto existing defaults
			configBytes, err := yaml.Marshal(tempCfg.Config)
			if err != nil {
				return nil, fmt.Errorf("error re-marshalling config: %w", err)
			}
			err = yaml.Unmarshal(configBytes, globalConfig)
			if err != nil {
				return nil, fmt.Errorf("error parsing config section: %w", err)
			}
		} else {
			// Otherwise unmarshal the whole file as main config
			err = yaml.Unmarshal(buf, globalConfig)
			if err != nil {
				return nil, fmt.Errorf("error parsing config file: %w", err)
			}
		}

		// Process plugin configurations
		pluginConfig := make(map[string]map[string]map[string]any)
		if tempCfg.Blob != nil {
			pluginConfig["blob"] = tempCfg.Blob
		}
		if tempCfg.Metadata != nil {
			pluginConfig["metadata"] = tempCfg.Metadata
		}
		// Handle database section if present
		if tempCfg.Database != nil {
			if tempCfg.Database.Blob != nil {
				blobConfig, pluginName := extractPluginConfig(
					tempCfg.Database.Blob,
					"blob",
				)
				if pluginName != "" {
					globalConfig.BlobPlugin = pluginName
				}
				// Merge with existing blob config instead of overwriting
				if pluginConfig["blob"] == nil {
					pluginConfig["blob"] = blobConfig
				} else {
					maps.Copy(pluginConfig["blob"], blobConfig)
				}
			}
			if tempCfg.Database.Metadata != nil {
				metadataConfig, pluginName := extractPluginConfig(
					tempCfg.Database.Metadata,
					"metadata",
				)
				if pluginName != "" {
					globalConfig.MetadataPlugin = pluginName
				}
				// Merge with existing metadata config instead of overwriting
				if pluginConfig["metadata"] == nil {
					pluginConfig["metadata"] = metadataConfig
				} else {
					maps.Copy(pluginConfig["metadata"], metadataConfig)
				}
			}
		}
		if len(pluginConfig) > 0 {
			err = plugin.ProcessConfig(pluginConfig)
			if err != nil {
				return nil, fmt.Errorf(
					"error processing plugin config: %w",
					err,
				)
			}
		}
	}
	// Process environment variables
	err := envconfig.Process("greenmatch", globalConfig)
	if err != nil {
		return nil, fmt.Errorf("error processing environment: %+w", err)
	}

	// Process plugin environment variables
	err = plugin.ProcessEnvVars()
	if err != nil {
		return nil, fmt.Errorf(
			"error processing plugin environment variables: %w",
			err,
		)
	}

	return globalConfig, nil
}

// extractPluginConfig normalizes a database plugin section into the
// per-plugin option map and pulls out an explicit plugin name if one
// was specified
func extractPluginConfig(
	section map[string]any,
	sectionName string,
) (map[string]map[string]any, string) {
	var pluginName string
	if pluginVal, exists := section["plugin"]; exists {
		if name, ok := pluginVal.(string); ok {
			pluginName = name
			delete(section, "plugin")
		}
	}
	out := make(map[string]map[string]any)
	for k, v := range section {
		if val, ok := v.(map[string]any); ok {
			out[k] = val
		} else if val, ok := v.(map[any]any); ok {
			// Convert map[any]any to map[string]any
			stringAnyMap := make(map[string]any)
			for vk, vv := range val {
				if keyStr, ok := vk.(string); ok {
					stringAnyMap[keyStr] = vv
				}
			}
			out[k] = stringAnyMap
		} else {
			// Log skipped non-map config entries
			fmt.Fprintf(
				os.Stderr,
				"warning: skipping %s config entry %q: expected map, got %T\n",
				sectionName,
				k,
				v,
			)
		}
	}
	return out, pluginName
}

func GetConfig() *Config {
	return globalConfig
}
