package service

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/Freeeeeet/testdrive_bot/internal/model"
	"github.com/Freeeeeet/testdrive_bot/internal/repository"
	"go.uber.org/zap"
)

// CatalogService поиск по каталогу автомобилей.
// Порядок результатов совпадает с порядком в каталоге.
type CatalogService struct {
	mu       sync.RWMutex
	repo     *repository.VehicleRepository
	vehicles []model.Vehicle
	logger   *zap.Logger
}

func NewCatalogService(repo *repository.VehicleRepository, logger *zap.Logger) (*CatalogService, error) {
	vehicles, err := repo.LoadAll()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	logger.Info("Catalog loaded", zap.Int("vehicles", len(vehicles)))

	return &CatalogService{
		repo:     repo,
		vehicles: vehicles,
		logger:   logger,
	}, nil
}

// Search ищет доступные автомобили по фильтру
func (s *CatalogService) Search(filter model.VehicleFilter) []model.Vehicle {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []model.Vehicle
	for _, v := range s.vehicles {
		if !v.Available {
			continue
		}
		if filter.Type != "" && !strings.EqualFold(v.Type, filter.Type) {
			continue
		}
		if filter.Make != "" && !strings.EqualFold(v.Make, filter.Make) {
			continue
		}
		if filter.Model != "" && !strings.Contains(strings.ToLower(v.Model), strings.ToLower(filter.Model)) {
			continue
		}
		if filter.MinPrice > 0 && v.Price < filter.MinPrice {
			continue
		}
		if filter.MaxPrice > 0 && v.Price > filter.MaxPrice {
			continue
		}
		result = append(result, v)
	}

	s.logger.Debug("Catalog search",
		zap.String("type", filter.Type),
		zap.Int("results", len(result)),
	)

	return result
}

// ByID получает автомобиль по ID
func (s *CatalogService) ByID(id string) (model.Vehicle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, v := range s.vehicles {
		if v.ID == id {
			return v, true
		}
	}
	return model.Vehicle{}, false
}

// ByModel первый автомобиль, название модели которого содержит name
func (s *CatalogService) ByModel(name string) (model.Vehicle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return model.Vehicle{}, false
	}
	for _, v := range s.vehicles {
		if strings.Contains(strings.ToLower(v.Model), needle) {
			return v, true
		}
	}
	return model.Vehicle{}, false
}

// Types список типов кузова по алфавиту
func (s *CatalogService) Types() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	var types []string
	for _, v := range s.vehicles {
		if _, ok := seen[v.Type]; ok {
			continue
		}
		seen[v.Type] = struct{}{}
		types = append(types, v.Type)
	}
	sort.Strings(types)
	return types
}

// Featured самые дорогие доступные автомобили
func (s *CatalogService) Featured(count int) []model.Vehicle {
	available := s.Search(model.VehicleFilter{})
	sort.SliceStable(available, func(i, j int) bool {
		return available[i].Price > available[j].Price
	})
	if count < len(available) {
		available = available[:count]
	}
	return available
}

// SetAvailability меняет доступность автомобиля и сохраняет каталог
func (s *CatalogService) SetAvailability(id string, available bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.vehicles {
		if s.vehicles[i].ID != id {
			continue
		}
		prev := s.vehicles[i].Available
		s.vehicles[i].Available = available
		if err := s.repo.SaveAll(s.vehicles); err != nil {
			s.vehicles[i].Available = prev
			return fmt.Errorf("save catalog: %w", err)
		}
		s.logger.Info("Vehicle availability updated",
			zap.String("vehicle_id", id),
			zap.Bool("available", available),
		)
		return nil
	}
	return fmt.Errorf("vehicle %s not found", id)
}
