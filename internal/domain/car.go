package domain

import "time"

type CatalogType string

const (
	CatalogRegular  CatalogType = "REGULAR"
	CatalogTaxi     CatalogType = "TAXI"
	CatalogDelivery CatalogType = "DELIVERY"
)

func (c CatalogType) Valid() bool {
	switch c {
	case CatalogRegular, CatalogTaxi, CatalogDelivery:
		return true
	}
	return false
}

// Restricted catalogs are only shown to staff.
func (c CatalogType) Restricted() bool {
	return c == CatalogTaxi || c == CatalogDelivery
}

type Car struct {
	ID             int32  `json:"id"`
	Make           string `json:"make"`
	Model          string `json:"model"`
	VehicleClass   string `json:"vehicle_class"`
	Transmission   string `json:"transmission"`
	Year           int    `json:"year"`
	DailyRateCents Cents  `json:"daily_rate_cents"`

	// Available is a cached projection of the car's reservations. Only the
	// booking engine writes it.
	Available bool        `json:"available"`
	Catalog   CatalogType `json:"catalog"`
	PhotoURL  string      `json:"photo_url"`
	CreatedOn time.Time   `json:"created_on"`
	UpdatedOn time.Time   `json:"updated_on"`
}

const (
	MinCarYear = 1980
	MaxCarYear = 2100
)

// Validate checks the static attributes managed by fleet administration.
func (c *Car) Validate() error {
	switch {
	case c.Make == "":
		return Validationf("make is required")
	case c.Model == "":
		return Validationf("model is required")
	case c.VehicleClass == "":
		return Validationf("vehicle class is required")
	case c.Transmission == "":
		return Validationf("transmission is required")
	case c.Year < MinCarYear || c.Year > MaxCarYear:
		return Validationf("year must be between %d and %d", MinCarYear, MaxCarYear)
	case c.DailyRateCents <= 0:
		return Validationf("daily rate must be positive")
	case c.DailyRateCents > MaxDailyRate:
		return Validationf("daily rate must not exceed %s", MaxDailyRate)
	case !c.Catalog.Valid():
		return Validationf("unknown catalog %q", c.Catalog)
	}
	return nil
}

// CarFilter narrows catalog listings. Zero values mean "no filter".
type CarFilter struct {
	Query        string
	VehicleClass string
	Transmission string
	MaxRateCents Cents
	Catalogs     []CatalogType
}
