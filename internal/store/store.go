// Package store loads and saves the payee-to-organization mapping file. The
// mapping file is YAML, an ordered list of entries; file order matters because
// earlier entries shadow later ones with the same case-folded payee.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"monarch-txf/internal/converr"
	"monarch-txf/internal/logging"
	"monarch-txf/internal/models"

	"gopkg.in/yaml.v3"
)

var log logging.Logger = logging.NewLogrusAdapter("info", "text")

// SetLogger allows setting a custom logger for this package.
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// DefaultMappingsFile is the file name searched for when no explicit path is
// configured.
const DefaultMappingsFile = "organizations.yaml"

// mappingsFile is the on-disk document shape.
type mappingsFile struct {
	Organizations []models.OrganizationMapping `yaml:"organizations"`
}

// MappingStore reads and writes organization mapping files.
type MappingStore struct {
	MappingsFile string
}

// NewMappingStore creates a store for the given mapping file path. An empty
// path selects DefaultMappingsFile resolved through the search path.
func NewMappingStore(mappingsFile string) *MappingStore {
	return &MappingStore{MappingsFile: mappingsFile}
}

// FindConfigFile looks for a configuration file in standard locations:
// the path itself, ./config/, and $HOME/.config/monarch-txf/.
func (s *MappingStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".config", "monarch-txf", filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

// LoadMappings loads the organization mappings, preserving file order. A
// missing file is a configuration error here: converting without mappings can
// never pass the preflight gate.
func (s *MappingStore) LoadMappings() ([]models.OrganizationMapping, error) {
	filename := s.MappingsFile
	if filename == "" {
		filename = DefaultMappingsFile
	}

	filePath, err := s.FindConfigFile(filename)
	if err != nil {
		log.WithField(logging.FieldFile, filename).Warn("Mappings file not found")
		return nil, &converr.ConfigError{Source: filename, Err: err}
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, &converr.ConfigError{Source: filePath, Err: err}
	}

	var doc mappingsFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &converr.ConfigError{Source: filePath, Err: fmt.Errorf("malformed YAML: %w", err)}
	}

	for i, m := range doc.Organizations {
		if m.Payee == "" || m.Organization == "" {
			return nil, &converr.ConfigError{
				Source: filePath,
				Err:    fmt.Errorf("entry %d is missing payee or organization", i+1),
			}
		}
	}

	log.WithField(logging.FieldCount, len(doc.Organizations)).Info("Loaded organization mappings")
	return doc.Organizations, nil
}

// SaveMappings writes the mappings back to the given path in file order.
func (s *MappingStore) SaveMappings(filePath string, mappings []models.OrganizationMapping) error {
	data, err := yaml.Marshal(mappingsFile{Organizations: mappings})
	if err != nil {
		return fmt.Errorf("error marshaling mappings: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0600); err != nil {
		return fmt.Errorf("error writing mappings file: %w", err)
	}
	return nil
}
