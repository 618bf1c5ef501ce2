package regions

import (
	"fmt"
	"sort"
	"strings"
)

// Bounds представляет географический bounding box региона.
// Инвариант: LatMin < LatMax и LonMin < LonMax
type Bounds struct {
	LatMin float64 `yaml:"lat_min"`
	LatMax float64 `yaml:"lat_max"`
	LonMin float64 `yaml:"lon_min"`
	LonMax float64 `yaml:"lon_max"`
}

// Validate проверяет инвариант границ
func (b Bounds) Validate() error {
	if b.LatMin >= b.LatMax {
		return fmt.Errorf("invalid bounds: lat_min (%v) must be less than lat_max (%v)", b.LatMin, b.LatMax)
	}
	if b.LonMin >= b.LonMax {
		return fmt.Errorf("invalid bounds: lon_min (%v) must be less than lon_max (%v)", b.LonMin, b.LonMax)
	}
	return nil
}

// Contains проверяет попадание точки в границы региона.
// Обе границы включительные
func (b Bounds) Contains(lat, lon float64) bool {
	return lat >= b.LatMin && lat <= b.LatMax &&
		lon >= b.LonMin && lon <= b.LonMax
}

// UnknownRegionError - запрошенный регион не зарегистрирован в каталоге
type UnknownRegionError struct {
	Name      string
	Available []string
}

func (e *UnknownRegionError) Error() string {
	return fmt.Sprintf("unknown region: %s. available options: [%s]",
		e.Name, strings.Join(e.Available, ", "))
}

// Catalog - реестр регионов с их границами.
// Открытый реестр: новые регионы добавляются через Register или LoadYAML,
// без изменений в логике фильтрации
type Catalog struct {
	bounds map[string]Bounds
}

// NewCatalog создает каталог с предопределёнными регионами
func NewCatalog() *Catalog {
	return &Catalog{
		bounds: map[string]Bounds{
			"München": {LatMin: 48.061, LatMax: 48.248, LonMin: 11.360, LonMax: 11.722},
			"Berlin":  {LatMin: 52.338, LatMax: 52.675, LonMin: 13.088, LonMax: 13.761},
			"Hamburg": {LatMin: 53.395, LatMax: 53.703, LonMin: 9.732, LonMax: 10.271},
		},
	}
}

// Resolve возвращает границы региона по имени.
// Возвращает *UnknownRegionError с полным списком доступных имён,
// если регион не зарегистрирован
func (c *Catalog) Resolve(name string) (Bounds, error) {
	bounds, ok := c.bounds[name]
	if !ok {
		return Bounds{}, &UnknownRegionError{
			Name:      name,
			Available: c.Names(),
		}
	}
	return bounds, nil
}

// Register добавляет регион в каталог (или заменяет существующий)
func (c *Catalog) Register(name string, bounds Bounds) error {
	if name == "" {
		return fmt.Errorf("region name is required")
	}
	if err := bounds.Validate(); err != nil {
		return fmt.Errorf("region %s: %w", name, err)
	}
	c.bounds[name] = bounds
	return nil
}

// Names возвращает отсортированный список зарегистрированных регионов
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.bounds))
	for name := range c.bounds {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len возвращает количество зарегистрированных регионов
func (c *Catalog) Len() int {
	return len(c.bounds)
}
