package propertyhttp

import (
	"fmt"

	"rentnova/internal/domain"
	"rentnova/internal/services/relevance"

	"github.com/google/uuid"
)

type recommendationRequest struct {
	Preferences domain.UserPreferences `json:"preferences"`
	UseAI       bool                   `json:"use_ai"`
	PropertyIDs []string               `json:"property_ids,omitempty" validate:"omitempty,max=200,dive,uuid"`
}

type scoreRequest struct {
	Preferences domain.UserPreferences `json:"preferences"`
}

type quickMatchRequest struct {
	Preset   string                     `json:"preset,omitempty"`
	Criteria *domain.QuickMatchCriteria `json:"criteria,omitempty"`
}

type propertiesResponse struct {
	Properties []domain.Property `json:"properties"`
	Total      int               `json:"total"`
}

type searchHit struct {
	Property  domain.Property `json:"property"`
	Relevance int             `json:"relevance"`
}

type searchResponse struct {
	Query   string      `json:"query"`
	Results []searchHit `json:"results"`
}

func parseIDs(raw []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid property id %q: %w", s, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func searchHitsFromScored(scored []relevance.Scored) []searchHit {
	hits := make([]searchHit, 0, len(scored))
	for _, s := range scored {
		hits = append(hits, searchHit{Property: s.Property, Relevance: s.Score})
	}
	return hits
}
