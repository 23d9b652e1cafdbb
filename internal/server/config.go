package server

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/Tanya-Jain20/Tambola-Game/internal/game"
)

// Config is the complete server configuration.
type Config struct {
	Server ServerSettings    `hcl:"server,block"`
	Prizes *game.PrizePoints `hcl:"prizes,block"`
}

// ServerSettings contains server-level configuration.
type ServerSettings struct {
	Address       string `hcl:"address,optional"`
	Port          int    `hcl:"port,optional"`
	LogLevel      string `hcl:"log_level,optional"`
	MongoURI      string `hcl:"mongo_uri,optional"`
	MongoDatabase string `hcl:"mongo_database,optional"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerSettings{
			Address:       "localhost",
			Port:          8080,
			LogLevel:      "info",
			MongoDatabase: "tambola",
		},
	}
}

// LoadConfig loads configuration from an HCL file. A missing file yields
// the defaults.
func LoadConfig(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	// Apply defaults for missing values
	if config.Server.Address == "" {
		config.Server.Address = "localhost"
	}
	if config.Server.Port == 0 {
		config.Server.Port = 8080
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = "info"
	}
	if config.Server.MongoDatabase == "" {
		config.Server.MongoDatabase = "tambola"
	}

	return &config, nil
}

// Validate checks the configuration for nonsense values.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Prizes != nil && c.Prizes.FullHouseMaxWinners < 0 {
		return fmt.Errorf("full_house_max_winners must not be negative")
	}
	return nil
}

// ListenAddress returns the full listen address.
func (c *Config) ListenAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// PrizePoints returns the configured point values, with the traditional
// defaults filling any field left at zero.
func (c *Config) PrizePoints() game.PrizePoints {
	points := game.DefaultPrizePoints()
	if c.Prizes == nil {
		return points
	}
	if c.Prizes.EarlyFive > 0 {
		points.EarlyFive = c.Prizes.EarlyFive
	}
	if c.Prizes.FirstLine > 0 {
		points.FirstLine = c.Prizes.FirstLine
	}
	if c.Prizes.SecondLine > 0 {
		points.SecondLine = c.Prizes.SecondLine
	}
	if c.Prizes.ThirdLine > 0 {
		points.ThirdLine = c.Prizes.ThirdLine
	}
	if c.Prizes.Corners > 0 {
		points.Corners = c.Prizes.Corners
	}
	if c.Prizes.FullHouse > 0 {
		points.FullHouse = c.Prizes.FullHouse
	}
	if c.Prizes.FullHouseMaxWinners > 0 {
		points.FullHouseMaxWinners = c.Prizes.FullHouseMaxWinners
	}
	return points
}
