package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/loans"
	"gopkg.in/yaml.v3"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		noFile    bool
		wantError bool
		notFound  bool
		check     func(t *testing.T, c *Configuration)
	}{
		{
			name:      "Non-existent config file",
			noFile:    true,
			wantError: true,
			notFound:  true,
		},
		{
			name:    "Empty file keeps defaults",
			content: "",
			check: func(t *testing.T, c *Configuration) {
				if c.Tool != constants.ToolCar || c.Car.AssetPrice != 2281000 || c.EMI.ProductPrice != 80000 {
					t.Errorf("defaults not applied: %+v", c)
				}
			},
		},
		{
			name: "Partial sections merge with defaults",
			content: `
tool: loan
output:
  format: csv
loan:
  amount: 2500000
  strategy: flat
car:
  totalCash: 800000
  fuel:
    include: false
`,
			check: func(t *testing.T, c *Configuration) {
				if c.Tool != constants.ToolLoan || c.Output.Format != constants.OutputFormatCSV {
					t.Errorf("tool/output not read: %s %s", c.Tool, c.Output.Format)
				}
				if c.Loan.Amount != 2500000 || c.Loan.AnnualRatePercent != 8.5 || c.Loan.TenureYears != 20 {
					t.Errorf("loan not merged with defaults: %+v", c.Loan)
				}
				if c.Loan.EMIStrategy().Kind != loans.FlatRate {
					t.Errorf("strategy alias not honored: %q", c.Loan.Strategy)
				}
				if c.Car.TotalCash != 800000 || c.Car.AssetPrice != 2281000 {
					t.Errorf("car not merged with defaults: %+v", c.Car)
				}
				if c.Car.Fuel.Include || c.Car.Fuel.Mileage != 15 {
					t.Errorf("fuel not merged with defaults: %+v", c.Car.Fuel)
				}
			},
		},
		{
			name: "Server and cache",
			content: `
server:
  address: ":9090"
  maxBodySize: 1M
cache:
  backend: redis
  redisAddr: localhost:6379
  ttlSeconds: 60
`,
			check: func(t *testing.T, c *Configuration) {
				if c.Server.Address != ":9090" || c.Server.MaxBodyBytes() != 1024*1024 {
					t.Errorf("server not read: %+v", c.Server)
				}
				if c.Cache.Backend != CacheRedis || c.Cache.RedisAddr != "localhost:6379" || c.Cache.TTLSeconds != 60 {
					t.Errorf("cache not read: %+v", c.Cache)
				}
				if c.Cache.MaxEntries != constants.DefaultCacheEntries {
					t.Errorf("cache default lost: %+v", c.Cache)
				}
			},
		},
		{name: "Unknown tool", content: "tool: bmi\n", wantError: true},
		{name: "Unknown output format", content: "output:\n  format: xml\n", wantError: true},
		{name: "Redis without address", content: "cache:\n  backend: redis\n", wantError: true},
		{name: "Bad body size", content: "server:\n  maxBodySize: 10T\n", wantError: true},
		{name: "Malformed YAML", content: "tool: [car\n", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "missing.yaml")
			if !tt.noFile {
				path = writeConfig(t, tt.content)
			}

			config, err := LoadConfiguration(path)
			if tt.wantError {
				if err == nil {
					t.Fatalf("LoadConfiguration() expected error but got none")
				}
				if tt.notFound && !errors.Is(err, ErrConfigNotFound) {
					t.Errorf("expected ErrConfigNotFound, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadConfiguration() error = %v", err)
			}
			tt.check(t, config)
		})
	}
}

func TestLoadConfigurationEnvironment(t *testing.T) {
	t.Setenv("FINANCE_CALCULATORS_TOOL", "emi")
	t.Setenv("FINANCE_CALCULATORS_LOGGING_LEVEL", "debug")
	t.Setenv("FINANCE_CALCULATORS_EMI_RETURNRATEPERCENT", "9.5")

	config, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if config.Tool != constants.ToolEMI {
		t.Errorf("Tool = %s, expected emi", config.Tool)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %s, expected debug", config.Logging.Level)
	}
	if config.EMI.ReturnRatePercent != 9.5 {
		t.Errorf("EMI.ReturnRatePercent = %v, expected 9.5", config.EMI.ReturnRatePercent)
	}
	if config.EMI.ProductPrice != 80000 {
		t.Errorf("EMI defaults lost: %+v", config.EMI)
	}
}

func TestConfigurationYAML(t *testing.T) {
	c := Default()
	c.Cache.RedisPassword = "hunter2"

	out, err := c.YAML()
	if err != nil {
		t.Fatalf("YAML() error = %v", err)
	}
	if strings.Contains(string(out), "hunter2") {
		t.Error("YAML() leaked the redis password")
	}

	var tree map[string]interface{}
	if err := yaml.Unmarshal(out, &tree); err != nil {
		t.Fatalf("YAML() produced invalid yaml: %v", err)
	}
	car, ok := tree["car"].(map[string]interface{})
	if !ok || car["assetPrice"] != 2281000 {
		t.Errorf("unexpected car section %v", tree["car"])
	}

	reloaded, err := LoadConfiguration(writeConfig(t, string(out)))
	if err != nil {
		t.Fatalf("exported configuration does not load: %v", err)
	}
	if reloaded.Car != c.Car || reloaded.EMI != c.EMI || reloaded.Loan != c.Loan {
		t.Error("exported configuration does not round trip")
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		expected  int64
		expectErr bool
	}{
		{"Empty uses default", "", constants.DefaultMaxBodyBytes, false},
		{"Plain bytes", "512", 512, false},
		{"Kilobytes", "64K", 64 * 1024, false},
		{"Kilobytes long form", "64kb", 64 * 1024, false},
		{"Megabytes", "2M", 2 * 1024 * 1024, false},
		{"No digits", "MB", 0, true},
		{"Unknown unit", "3T", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSize(tt.value)
			if (err != nil) != tt.expectErr {
				t.Fatalf("ParseSize(%q) error = %v, expectErr %v", tt.value, err, tt.expectErr)
			}
			if !tt.expectErr && got != tt.expected {
				t.Errorf("ParseSize(%q) = %d, expected %d", tt.value, got, tt.expected)
			}
		})
	}
}

func TestMaxBodyBytesFallsBack(t *testing.T) {
	if got := (ServerConfig{MaxBodySize: "bogus"}).MaxBodyBytes(); got != constants.DefaultMaxBodyBytes {
		t.Errorf("MaxBodyBytes() = %d, expected default", got)
	}
}
