package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/footprint/pkg/emissions"
)

// DateLayout is the storage format of Entry.Date.
const DateLayout = "2006-01-02"

// Entry is one day of logged activity and the emissions computed for it.
type Entry struct {
	ID                  string                  `gorm:"column:id;primaryKey" json:"id"`
	UserID              string                  `gorm:"column:user_id" json:"user_id"`
	Alias               string                  `gorm:"column:alias" json:"alias"`
	Date                string                  `gorm:"column:date" json:"date"`
	TransportMode       emissions.TransportMode `gorm:"column:transport_mode;type:text" json:"transport_mode"`
	Distance            float64                 `gorm:"column:distance" json:"distance"`
	Electricity         float64                 `gorm:"column:electricity" json:"electricity"`
	LPG                 float64                 `gorm:"column:lpg" json:"lpg"`
	TransportEmission   float64                 `gorm:"column:transport_emission" json:"transport_emission"`
	ElectricityEmission float64                 `gorm:"column:electricity_emission" json:"electricity_emission"`
	LPGEmission         float64                 `gorm:"column:lpg_emission" json:"lpg_emission"`
	TotalEmission       float64                 `gorm:"column:total_emission" json:"total_emission"`
	Notes               string                  `gorm:"column:notes" json:"notes"`
	CreatedAt           time.Time               `gorm:"column:created_at" json:"created_at"`
}

func (Entry) TableName() string {
	return "daily_emissions"
}

// BeforeCreate assigns an ID when the caller has not set one.
func (e *Entry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	return nil
}

// NewEntry computes the emissions for an activity and returns the entry to store.
func NewEntry(userID, alias string, date time.Time, activity emissions.Activity, factors emissions.Factors, notes string) Entry {
	b := factors.Compute(activity)
	return Entry{
		ID:                  uuid.NewString(),
		UserID:              userID,
		Alias:               alias,
		Date:                date.Format(DateLayout),
		TransportMode:       activity.Mode,
		Distance:            activity.DistanceKm,
		Electricity:         activity.ElectricityKWh,
		LPG:                 activity.LPGKg,
		TransportEmission:   b.Transport,
		ElectricityEmission: b.Electricity,
		LPGEmission:         b.LPG,
		TotalEmission:       b.Total,
		Notes:               notes,
		CreatedAt:           time.Now().UTC(),
	}
}

// Breakdown returns the stored emission columns.
func (e Entry) Breakdown() emissions.Breakdown {
	return emissions.Breakdown{
		Transport:   e.TransportEmission,
		Electricity: e.ElectricityEmission,
		LPG:         e.LPGEmission,
		Total:       e.TotalEmission,
	}
}

// Day parses Date. Entries with an unparsable date return the zero time.
func (e Entry) Day() time.Time {
	t, err := time.Parse(DateLayout, e.Date)
	if err != nil {
		return time.Time{}
	}
	return t
}
