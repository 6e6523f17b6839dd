// Package brand provides centralized branding constants for the tool.
// The identity is loaded from brand.json at compile time via go:embed so
// that scripts and docs generators can read the same file.
package brand

import (
	_ "embed"
	"encoding/json"
	"os"
	"path/filepath"
)

//go:embed brand.json
var brandJSON []byte

// Brand holds all branding information.
type Brand struct {
	Name             string `json:"name"`
	LowerName        string `json:"lowerName"`
	Vendor           string `json:"vendor"`
	Description      string `json:"description"`
	Tagline          string `json:"tagline"`
	DefaultConfigDir string `json:"defaultConfigDir"`
	DefaultStateDir  string `json:"defaultStateDir"`
	DefaultLogDir    string `json:"defaultLogDir"`
	BinaryName       string `json:"binaryName"`
	ConfigFileName   string `json:"configFileName"`
	Version          string `json:"version"`
}

var b Brand

func init() {
	if err := json.Unmarshal(brandJSON, &b); err != nil {
		panic("failed to parse brand.json: " + err.Error())
	}

	Name = b.Name
	LowerName = b.LowerName
	Vendor = b.Vendor
	Description = b.Description
	Tagline = b.Tagline
	DefaultConfigDir = b.DefaultConfigDir
	DefaultStateDir = b.DefaultStateDir
	DefaultLogDir = b.DefaultLogDir
	BinaryName = b.BinaryName
	ConfigFileName = b.ConfigFileName
	Version = b.Version
}

// Exported variables for convenience.
var (
	Name             string
	LowerName        string
	Vendor           string
	Description      string
	Tagline          string
	DefaultConfigDir string
	DefaultStateDir  string
	DefaultLogDir    string
	BinaryName       string
	ConfigFileName   string
	Version          string
)

// GetStateDir returns the state directory, honoring the VPCCTL_STATE_DIR
// environment override used by tests and packaging.
func GetStateDir() string {
	if dir := os.Getenv("VPCCTL_STATE_DIR"); dir != "" {
		return dir
	}
	return DefaultStateDir
}

// DefaultConfigFile returns the full path of the default config file.
func DefaultConfigFile() string {
	return filepath.Join(DefaultConfigDir, ConfigFileName)
}
