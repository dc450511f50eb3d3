package dialogue

import (
	"testing"

	"github.com/Freeeeeet/testdrive_bot/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	tests := map[int]string{
		0:       "$0",
		950:     "$950",
		27000:   "$27,000",
		1250000: "$1,250,000",
		-4500:   "-$4,500",
	}
	for price, want := range tests {
		assert.Equal(t, want, FormatPrice(price))
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "Tuesday, June 3", FormatDate("2025-06-03"))
	assert.Equal(t, "next week", FormatDate("next week"))
}

func TestFormatSlots(t *testing.T) {
	slots := []string{"09:00", "09:30", "10:00", "10:30"}

	assert.Equal(t, "09:00, 09:30, 10:00, 10:30", FormatSlots(slots, 0))
	assert.Equal(t, "09:00, 09:30 and 2 more", FormatSlots(slots, 2))
	assert.Equal(t, "09:00, 09:30, 10:00, 10:30", FormatSlots(slots, 4))
	assert.Empty(t, FormatSlots(nil, 3))
}

func TestFormatVehicle(t *testing.T) {
	v := model.Vehicle{
		ID: "v006", Make: "Ford", Model: "F-150", Year: 2024, Type: "TRUCK", Price: 42000,
		Features: []string{"Towing Package", "4WD", "Crew Cab", "Bed Liner"},
		Specs:    map[string]string{"towing_capacity": "13000 lbs", "engine": "3.5L V6"},
	}

	option := FormatVehicleOption(2, v)
	assert.Contains(t, option, "2. Ford F-150 - 2024")
	assert.Contains(t, option, "Features: Towing Package, 4WD, Crew Cab\n")
	assert.NotContains(t, option, "Bed Liner")
	assert.Contains(t, option, "Price: $42,000")

	details := FormatVehicleDetails(v)
	assert.Contains(t, details, "Ford F-150 (2024)\nType: TRUCK\nPrice: $42,000")
	assert.Contains(t, details, "Bed Liner")
	assert.Contains(t, details, "Specifications: engine: 3.5L V6; towing capacity: 13000 lbs")
}

func TestPluralType(t *testing.T) {
	assert.Equal(t, "SUVs", pluralType("SUV"))
	assert.Equal(t, "vehicles", pluralType(""))
}
