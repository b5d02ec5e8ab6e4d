package tools

import (
	"context"
	"fmt"
	"hash/fnv"
)

var weatherConditions = []string{"sunny", "cloudy", "overcast", "light rain", "heavy rain", "snow"}

// GetWeather returns mock weather data for a city. Values are derived from a
// hash of the city name so repeated calls for the same city are stable,
// which keeps demos and tests deterministic. A real deployment would swap
// this for an actual weather API client.
func GetWeather(_ context.Context, args map[string]any) (any, error) {
	city, ok := args["city"].(string)
	if !ok || city == "" {
		return nil, fmt.Errorf("argument %q must be a non-empty string", "city")
	}

	unit, _ := args["unit"].(string)
	if unit == "" {
		unit = "celsius"
	}
	if unit != "celsius" && unit != "fahrenheit" {
		return nil, fmt.Errorf("unsupported temperature unit %q", unit)
	}

	h := fnv.New32a()
	h.Write([]byte(city))
	seed := h.Sum32()

	temperature := int(seed%46) - 10 // -10..35 °C
	if unit == "fahrenheit" {
		temperature = temperature*9/5 + 32
	}

	return map[string]any{
		"city":        city,
		"temperature": temperature,
		"unit":        unit,
		"condition":   weatherConditions[seed%uint32(len(weatherConditions))],
		"humidity":    int(seed%71) + 20, // 20..90 %
		"wind_speed":  int(seed % 31),    // 0..30 km/h
	}, nil
}
