// Package weather fetches current conditions from OpenWeatherMap behind a read-through cache.
package weather

import "strings"

// Location is a provider query ("Perth,AU") and the cache key its snapshot lives under.
type Location struct {
	Key   string
	Query string
}

// NewLocation derives the cache key from the city part of query: "Perth,AU" -> "weather_perth".
func NewLocation(query string) Location {
	city := strings.TrimSpace(strings.SplitN(query, ",", 2)[0])
	city = strings.ToLower(strings.Join(strings.Fields(city), "_"))
	return Location{Key: "weather_" + city, Query: strings.TrimSpace(query)}
}

// Payload is the provider's JSON object, passed through unchanged.
type Payload map[string]any
