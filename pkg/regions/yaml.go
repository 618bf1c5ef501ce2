package regions

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// regionsFile - формат YAML файла с дополнительными регионами:
//
//	regions:
//	  Köln:
//	    lat_min: 50.830
//	    lat_max: 51.085
//	    lon_min: 6.772
//	    lon_max: 7.162
type regionsFile struct {
	Regions map[string]Bounds `yaml:"regions"`
}

// LoadYAML подгружает дополнительные регионы из YAML файла.
// Существующие записи с теми же именами заменяются
func (c *Catalog) LoadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read regions file: %w", err)
	}

	var file regionsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse regions file: %w", err)
	}

	for name, bounds := range file.Regions {
		if err := c.Register(name, bounds); err != nil {
			return err
		}
	}

	return nil
}
