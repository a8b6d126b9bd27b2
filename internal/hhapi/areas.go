package hhapi

import (
	"strings"

	"github.com/jimezsa/hhvac/internal/models"
)

// FindAreas walks the tree depth first and collects every node whose name
// equals cityName ignoring case. Regions can share a city name, so more
// than one match is possible.
func FindAreas(areas []models.Area, cityName string) []models.AreaMatch {
	cityName = strings.TrimSpace(cityName)
	if cityName == "" {
		return nil
	}

	var matches []models.AreaMatch
	var walk func(nodes []models.Area)
	walk = func(nodes []models.Area) {
		for _, area := range nodes {
			if strings.EqualFold(area.Name, cityName) {
				matches = append(matches, models.AreaMatch{ID: area.ID, Name: area.Name})
			}
			if len(area.Areas) > 0 {
				walk(area.Areas)
			}
		}
	}
	walk(areas)
	return matches
}
