package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Freeeeeet/testdrive_bot/internal/model"
)

type vehicleFile struct {
	Vehicles []model.Vehicle `json:"vehicles"`
}

// VehicleRepository каталог автомобилей в JSON файле
type VehicleRepository struct {
	path string
}

func NewVehicleRepository(path string) *VehicleRepository {
	return &VehicleRepository{path: path}
}

// LoadAll читает каталог, при отсутствии файла создаёт каталог по умолчанию
func (r *VehicleRepository) LoadAll() ([]model.Vehicle, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		vehicles := DefaultVehicles()
		if err := r.SaveAll(vehicles); err != nil {
			return nil, err
		}
		return vehicles, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", r.path, err)
	}

	var file vehicleFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", r.path, err)
	}

	for i, v := range file.Vehicles {
		if v.ID == "" {
			return nil, fmt.Errorf("parse catalog %s: vehicles[%d] has no id", r.path, i)
		}
	}

	return file.Vehicles, nil
}

// SaveAll перезаписывает каталог
func (r *VehicleRepository) SaveAll(vehicles []model.Vehicle) error {
	data, err := json.MarshalIndent(vehicleFile{Vehicles: vehicles}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return writeFileAtomic(r.path, data)
}

// writeFileAtomic пишет во временный файл рядом и переименовывает
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

// DefaultVehicles стартовый каталог
func DefaultVehicles() []model.Vehicle {
	return []model.Vehicle{
		{
			ID: "v001", Make: "Toyota", Model: "RAV4", Year: 2024, Type: "SUV", Price: 32000,
			Features:  []string{"All-Wheel Drive", "Lane Departure Warning", "Adaptive Cruise Control", "Backup Camera"},
			Specs:     map[string]string{"engine": "2.5L 4-Cylinder", "horsepower": "203", "mpg": "28 city / 35 highway", "seating": "5"},
			Available: true,
		},
		{
			ID: "v002", Make: "Honda", Model: "CR-V", Year: 2024, Type: "SUV", Price: 30500,
			Features:  []string{"Spacious Interior", "Honda Sensing Suite", "Blind Spot Monitoring", "Apple CarPlay"},
			Specs:     map[string]string{"engine": "1.5L Turbo", "horsepower": "190", "mpg": "27 city / 32 highway", "seating": "5"},
			Available: true,
		},
		{
			ID: "v003", Make: "Ford", Model: "Explorer", Year: 2024, Type: "SUV", Price: 38000,
			Features:  []string{"Third Row Seating", "Twin-Turbo Engine", "Advanced Safety Features", "Panoramic Sunroof"},
			Specs:     map[string]string{"engine": "2.3L EcoBoost", "horsepower": "300", "mpg": "21 city / 28 highway", "seating": "7"},
			Available: true,
		},
		{
			ID: "v004", Make: "Honda", Model: "Accord", Year: 2024, Type: "SEDAN", Price: 28500,
			Features:  []string{"Hybrid Option", "Advanced Safety Suite", "Leather Interior", "Wireless Charging"},
			Specs:     map[string]string{"engine": "1.5L Turbo", "horsepower": "192", "mpg": "30 city / 38 highway", "seating": "5"},
			Available: true,
		},
		{
			ID: "v005", Make: "Toyota", Model: "Camry", Year: 2024, Type: "SEDAN", Price: 27000,
			Features:  []string{"Toyota Safety Sense", "Premium Audio System", "Heated Seats", "Dual-Zone Climate"},
			Specs:     map[string]string{"engine": "2.5L 4-Cylinder", "horsepower": "203", "mpg": "28 city / 39 highway", "seating": "5"},
			Available: true,
		},
		{
			ID: "v006", Make: "Ford", Model: "F-150", Year: 2024, Type: "TRUCK", Price: 42000,
			Features:  []string{"Towing Package", "4WD", "Crew Cab", "Bed Liner"},
			Specs:     map[string]string{"engine": "3.5L V6", "horsepower": "400", "mpg": "20 city / 24 highway", "seating": "5", "towing_capacity": "13000 lbs"},
			Available: true,
		},
		{
			ID: "v007", Make: "Chevrolet", Model: "Silverado", Year: 2024, Type: "TRUCK", Price: 40000,
			Features:  []string{"High Country Package", "Advanced Trailering", "Bose Audio", "Leather Interior"},
			Specs:     map[string]string{"engine": "5.3L V8", "horsepower": "355", "mpg": "17 city / 23 highway", "seating": "6", "towing_capacity": "11500 lbs"},
			Available: true,
		},
		{
			ID: "v008", Make: "BMW", Model: "3 Series", Year: 2024, Type: "SEDAN", Price: 45000,
			Features:  []string{"Luxury Package", "Sport Suspension", "Premium Sound", "Navigation System"},
			Specs:     map[string]string{"engine": "2.0L Turbo", "horsepower": "255", "mpg": "26 city / 36 highway", "seating": "5"},
			Available: true,
		},
	}
}
