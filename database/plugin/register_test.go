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

package plugin_test

import (
	"testing"

	"github.com/greenmatch-io/greenmatch/database/plugin"
)

// Mock plugin implementation for testing
type mockPlugin struct{}

func (m *mockPlugin) Start() error { return nil }
func (m *mockPlugin) Stop() error  { return nil }

func TestRegister(t *testing.T) {
	pluginName := "test-plugin-" + t.Name()
	testEntry := plugin.PluginEntry{
		Type:               plugin.PluginTypeBlob,
		Name:               pluginName,
		NewFromOptionsFunc: func() plugin.Plugin { return &mockPlugin{} },
	}

	plugin.Register(testEntry)

	// Check that GetPlugin finds it
	p := plugin.GetPlugin(plugin.PluginTypeBlob, pluginName)
	if p == nil {
		t.Error("plugin not found")
	}

	// Check that GetPlugins includes it
	plugins := plugin.GetPlugins(plugin.PluginTypeBlob)
	found := false
	for _, pl := range plugins {
		if pl.Name == pluginName && pl.Type == plugin.PluginTypeBlob {
			found = true
			break
		}
	}
	if !found {
		t.Error("plugin not in GetPlugins list")
	}
}

func TestGetPlugin(t *testing.T) {
	pluginName := "test-get-plugin-" + t.Name()
	plugin.Register(plugin.PluginEntry{
		Type:               plugin.PluginTypeBlob,
		Name:               pluginName,
		NewFromOptionsFunc: func() plugin.Plugin { return &mockPlugin{} },
	})

	p := plugin.GetPlugin(plugin.PluginTypeBlob, pluginName)
	if p == nil {
		t.Fatal("Expected plugin instance, got nil")
	}
	if _, ok := p.(*mockPlugin); !ok {
		t.Errorf("Expected plugin of type *mockPlugin, got %T", p)
	}

	// Non-existent plugin
	nonExistent := plugin.GetPlugin(
		plugin.PluginTypeBlob,
		"non-existent-"+t.Name(),
	)
	if nonExistent != nil {
		t.Errorf("Expected nil for non-existent plugin, got %v", nonExistent)
	}
}

func TestSetPluginOption(t *testing.T) {
	var dataDir string
	pluginName := "test-option-plugin-" + t.Name()
	plugin.Register(plugin.PluginEntry{
		Type:               plugin.PluginTypeMetadata,
		Name:               pluginName,
		NewFromOptionsFunc: func() plugin.Plugin { return &mockPlugin{} },
		Options: []plugin.PluginOption{
			{
				Name:         "data-dir",
				Type:         plugin.PluginOptionTypeString,
				DefaultValue: "",
				Dest:         &dataDir,
			},
		},
	})

	err := plugin.SetPluginOption(
		plugin.PluginTypeMetadata,
		pluginName,
		"data-dir",
		"/tmp/test",
	)
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if dataDir != "/tmp/test" {
		t.Errorf("expected /tmp/test, got %s", dataDir)
	}

	// Wrong value type
	err = plugin.SetPluginOption(
		plugin.PluginTypeMetadata,
		pluginName,
		"data-dir",
		42,
	)
	if err == nil {
		t.Error("expected error for wrong value type")
	}
}
