package services

import (
	"context"
	"sort"

	"serviceconnect-backend/models"
)

// ListProviders returns the providers matching q, ordered by q.SortBy
// (rating by default; price ascending, the others descending).
func (m *Marketplace) ListProviders(ctx context.Context, q models.ProviderQuery) ([]models.Provider, error) {
	if q.ServiceID != 0 {
		if _, err := m.findService(q.ServiceID); err != nil {
			return nil, err
		}
	}
	switch q.SortBy {
	case "", models.SortByRating, models.SortByPrice, models.SortByExperience, models.SortByReviews:
	default:
		return nil, newValidationError("unknown sort order", "sortBy")
	}
	if err := m.delay.Wait(ctx, latencyGetService); err != nil {
		return nil, err
	}

	result := make([]models.Provider, 0, len(m.providers))
	for _, p := range m.providers {
		if q.ServiceID != 0 && !p.Offers(q.ServiceID) {
			continue
		}
		if p.Rating < q.MinRating {
			continue
		}
		if q.AvailableOnly && !p.Available {
			continue
		}
		result = append(result, cloneProvider(p))
	}

	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i], result[j]
		switch q.SortBy {
		case models.SortByPrice:
			return a.Amount.LessThan(b.Amount)
		case models.SortByExperience:
			return a.ExperienceYears > b.ExperienceYears
		case models.SortByReviews:
			return a.Reviews > b.Reviews
		default:
			return a.Rating > b.Rating
		}
	})
	return result, nil
}

// GetProviderByID returns one provider.
func (m *Marketplace) GetProviderByID(ctx context.Context, id int64) (models.Provider, error) {
	if err := m.delay.Wait(ctx, latencyGetService); err != nil {
		return models.Provider{}, err
	}
	return m.findProvider(id)
}

func (m *Marketplace) findProvider(id int64) (models.Provider, error) {
	for _, p := range m.providers {
		if p.ID == id {
			return cloneProvider(p), nil
		}
	}
	return models.Provider{}, notFound("provider", id)
}

func cloneProvider(p models.Provider) models.Provider {
	p.Specialties = append([]string(nil), p.Specialties...)
	p.Languages = append([]string(nil), p.Languages...)
	p.ServiceIDs = append([]int(nil), p.ServiceIDs...)
	return p
}
