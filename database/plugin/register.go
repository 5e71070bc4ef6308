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

package plugin

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

type PluginType int

const (
	PluginTypeBlob PluginType = iota
	PluginTypeMetadata
)

// PluginTypeName returns the human-readable name for a plugin type
func PluginTypeName(pluginType PluginType) string {
	switch pluginType {
	case PluginTypeBlob:
		return "blob"
	case PluginTypeMetadata:
		return "metadata"
	default:
		return "unknown"
	}
}

type PluginOptionType int

const (
	PluginOptionTypeString PluginOptionType = iota
	PluginOptionTypeBool
	PluginOptionTypeInt
	PluginOptionTypeUint
)

// PluginOption describes a single configurable option for a plugin. Dest
// must be a pointer to the option's backing variable.
type PluginOption struct {
	Dest         any
	DefaultValue any
	Name         string
	Description  string
	Type         PluginOptionType
}

// PluginEntry describes a registered plugin implementation
type PluginEntry struct {
	NewFromOptionsFunc func() Plugin
	Name               string
	Description        string
	Options            []PluginOption
	Type               PluginType
}

var pluginEntries []PluginEntry

// Register adds a plugin to the registry. It's expected to be called from
// an init() function in each plugin implementation package.
func Register(entry PluginEntry) {
	pluginEntries = append(pluginEntries, entry)
}

// GetPlugins returns the registered plugins of a particular type
func GetPlugins(pluginType PluginType) []PluginEntry {
	ret := []PluginEntry{}
	for _, entry := range pluginEntries {
		if entry.Type == pluginType {
			ret = append(ret, entry)
		}
	}
	return ret
}

// GetPlugin instantiates the named plugin of the given type, or returns nil
// if no such plugin has been registered
func GetPlugin(pluginType PluginType, pluginName string) Plugin {
	for _, entry := range pluginEntries {
		if entry.Type == pluginType && entry.Name == pluginName {
			return entry.NewFromOptionsFunc()
		}
	}
	return nil
}

// optionFlagName builds the command-line flag name for a plugin option,
// e.g. `-blob-badger-data-dir`
func optionFlagName(entry PluginEntry, opt PluginOption) string {
	return fmt.Sprintf(
		"%s-%s-%s",
		PluginTypeName(entry.Type),
		entry.Name,
		opt.Name,
	)
}

// optionEnvVar builds the environment variable name for a plugin option,
// e.g. `GREENMATCH_BLOB_BADGER_DATA_DIR`
func optionEnvVar(entry PluginEntry, opt PluginOption) string {
	tmp := fmt.Sprintf(
		"GREENMATCH_%s_%s_%s",
		PluginTypeName(entry.Type),
		entry.Name,
		opt.Name,
	)
	tmp = strings.ReplaceAll(tmp, "-", "_")
	return strings.ToUpper(tmp)
}

// PopulateCmdlineOptions adds flags for all registered plugin options to
// the provided flag set
func PopulateCmdlineOptions(fs *pflag.FlagSet) error {
	for _, entry := range pluginEntries {
		for _, opt := range entry.Options {
			flagName := optionFlagName(entry, opt)
			switch opt.Type {
			case PluginOptionTypeString:
				dest, ok := opt.Dest.(*string)
				if !ok {
					return fmt.Errorf(
						"option %s has wrong destination type",
						flagName,
					)
				}
				defVal, _ := opt.DefaultValue.(string)
				fs.StringVar(dest, flagName, defVal, opt.Description)
			case PluginOptionTypeBool:
				dest, ok := opt.Dest.(*bool)
				if !ok {
					return fmt.Errorf(
						"option %s has wrong destination type",
						flagName,
					)
				}
				defVal, _ := opt.DefaultValue.(bool)
				fs.BoolVar(dest, flagName, defVal, opt.Description)
			case PluginOptionTypeInt:
				dest, ok := opt.Dest.(*int)
				if !ok {
					return fmt.Errorf(
						"option %s has wrong destination type",
						flagName,
					)
				}
				defVal, _ := opt.DefaultValue.(int)
				fs.IntVar(dest, flagName, defVal, opt.Description)
			case PluginOptionTypeUint:
				dest, ok := opt.Dest.(*uint64)
				if !ok {
					return fmt.Errorf(
						"option %s has wrong destination type",
						flagName,
					)
				}
				defVal, _ := opt.DefaultValue.(uint64)
				fs.Uint64Var(dest, flagName, defVal, opt.Description)
			default:
				return fmt.Errorf(
					"unknown option type %d for option %s",
					opt.Type,
					flagName,
				)
			}
		}
	}
	return nil
}

// ProcessEnvVars overrides plugin options from matching environment variables
func ProcessEnvVars() error {
	for _, entry := range pluginEntries {
		for _, opt := range entry.Options {
			envVal, ok := os.LookupEnv(optionEnvVar(entry, opt))
			if !ok {
				continue
			}
			switch opt.Type {
			case PluginOptionTypeString:
				if err := opt.setValue(envVal); err != nil {
					return err
				}
			case PluginOptionTypeBool:
				v, err := strconv.ParseBool(envVal)
				if err != nil {
					return fmt.Errorf(
						"invalid value for %s: %w",
						optionEnvVar(entry, opt),
						err,
					)
				}
				if err := opt.setValue(v); err != nil {
					return err
				}
			case PluginOptionTypeInt:
				v, err := strconv.Atoi(envVal)
				if err != nil {
					return fmt.Errorf(
						"invalid value for %s: %w",
						optionEnvVar(entry, opt),
						err,
					)
				}
				if err := opt.setValue(v); err != nil {
					return err
				}
			case PluginOptionTypeUint:
				v, err := strconv.ParseUint(envVal, 10, 64)
				if err != nil {
					return fmt.Errorf(
						"invalid value for %s: %w",
						optionEnvVar(entry, opt),
						err,
					)
				}
				if err := opt.setValue(v); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// ProcessConfig overrides plugin options from the parsed config file. The
// outer map key is the plugin type name, the middle key is the plugin name,
// and the inner map holds option name/value pairs.
func ProcessConfig(config map[string]map[string]map[string]any) error {
	for typeName, plugins := range config {
		var pluginType PluginType
		switch typeName {
		case "blob":
			pluginType = PluginTypeBlob
		case "metadata":
			pluginType = PluginTypeMetadata
		default:
			return fmt.Errorf("unknown plugin type: %s", typeName)
		}
		for pluginName, options := range plugins {
			for optName, optVal := range options {
				if err := SetPluginOption(
					pluginType,
					pluginName,
					optName,
					optVal,
				); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
