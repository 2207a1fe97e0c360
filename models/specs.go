package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// ProductCategory identifies the product family and selects the typed
// specification variant carried by ProductSpecs.
type ProductCategory string

const (
	CategoryInverter   ProductCategory = "INVERTER"
	CategoryBattery    ProductCategory = "BATTERY"
	CategorySolarPanel ProductCategory = "SOLAR_PANEL"
	CategoryFullSystem ProductCategory = "FULL_SYSTEM"
)

// Valid reports whether the category is one of the known product families.
func (c ProductCategory) Valid() bool {
	switch c {
	case CategoryInverter, CategoryBattery, CategorySolarPanel, CategoryFullSystem:
		return true
	}
	return false
}

// InverterSpecs are the typed attributes of an inverter listing.
type InverterSpecs struct {
	PowerKW    float64 `json:"power_kw"`
	Phases     int     `json:"phases"`
	Efficiency float64 `json:"efficiency,omitempty"`
	MPPTInputs int     `json:"mppt_inputs,omitempty"`
}

// BatterySpecs are the typed attributes of a battery listing.
type BatterySpecs struct {
	CapacityKWh float64 `json:"capacity_kwh"`
	VoltageV    float64 `json:"voltage_v,omitempty"`
	Chemistry   string  `json:"chemistry,omitempty"`
	CycleLife   int     `json:"cycle_life,omitempty"`
}

// SolarPanelSpecs are the typed attributes of a panel listing.
type SolarPanelSpecs struct {
	PowerWp    int     `json:"power_wp"`
	Efficiency float64 `json:"efficiency,omitempty"`
	CellType   string  `json:"cell_type,omitempty"`
}

// FullSystemSpecs describe a complete turnkey system.
type FullSystemSpecs struct {
	SystemSizeKWp float64 `json:"system_size_kwp"`
	PanelCount    int     `json:"panel_count,omitempty"`
	InverterKW    float64 `json:"inverter_kw,omitempty"`
	BatteryBackup bool    `json:"battery_backup,omitempty"`
}

// ProductSpecs is a tagged variant keyed by Category: exactly one of the
// variant pointers must be set and must match the category. Extra holds
// genuinely free-form attributes only.
type ProductSpecs struct {
	Category   ProductCategory   `json:"category"`
	Inverter   *InverterSpecs    `json:"inverter,omitempty"`
	Battery    *BatterySpecs     `json:"battery,omitempty"`
	SolarPanel *SolarPanelSpecs  `json:"solar_panel,omitempty"`
	FullSystem *FullSystemSpecs  `json:"full_system,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Validate checks the variant matches the category tag.
func (s ProductSpecs) Validate() error {
	if !s.Category.Valid() {
		return fmt.Errorf("unknown product category %q", s.Category)
	}
	set := 0
	if s.Inverter != nil {
		set++
		if s.Category != CategoryInverter {
			return fmt.Errorf("inverter specs set for category %s", s.Category)
		}
	}
	if s.Battery != nil {
		set++
		if s.Category != CategoryBattery {
			return fmt.Errorf("battery specs set for category %s", s.Category)
		}
	}
	if s.SolarPanel != nil {
		set++
		if s.Category != CategorySolarPanel {
			return fmt.Errorf("solar panel specs set for category %s", s.Category)
		}
	}
	if s.FullSystem != nil {
		set++
		if s.Category != CategoryFullSystem {
			return fmt.Errorf("full system specs set for category %s", s.Category)
		}
	}
	if set > 1 {
		return errors.New("multiple spec variants set")
	}
	return nil
}

// Value implements driver.Valuer; specs are stored as a jsonb column.
func (s ProductSpecs) Value() (driver.Value, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (s *ProductSpecs) Scan(value interface{}) error {
	if value == nil {
		*s = ProductSpecs{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	}
	return fmt.Errorf("unsupported specs column type %T", value)
}
