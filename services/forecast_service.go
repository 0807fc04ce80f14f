package services

import (
	"fmt"
)

// The on-demand forecaster behind the advanced-predictions endpoint. Unlike
// the naive recalculation heuristic it fits an ordinary least squares line to
// an externally supplied revenue series and projects future points with a
// linearly decaying confidence.

const (
	forecastStartConfidence = 0.95
	forecastConfidenceStep  = 0.05
	forecastMinConfidence   = 0.10
)

// ForecastPoint is one projected future period.
type ForecastPoint struct {
	Period         int     `json:"period"` // index past the end of the input series, starting at 1
	PredictedValue float64 `json:"predictedValue"`
	Confidence     float64 `json:"confidence"`
}

// AdvancedForecast fits y = slope*x + intercept over the series (x = 0..n-1)
// and projects the next periods points. The series must be non-empty and
// periods positive.
func AdvancedForecast(series []float64, periods int) ([]ForecastPoint, error) {
	n := len(series)
	if n == 0 {
		return nil, fmt.Errorf("forecast requires a non-empty series")
	}
	if periods <= 0 {
		return nil, fmt.Errorf("forecast requires at least one projection period, got %d", periods)
	}

	slope, intercept := leastSquares(series)

	points := make([]ForecastPoint, 0, periods)
	for i := 0; i < periods; i++ {
		x := float64(n + i)
		confidence := forecastStartConfidence - forecastConfidenceStep*float64(i)
		if confidence < forecastMinConfidence {
			confidence = forecastMinConfidence
		}
		points = append(points, ForecastPoint{
			Period:         i + 1,
			PredictedValue: slope*x + intercept,
			Confidence:     confidence,
		})
	}
	return points, nil
}

// leastSquares returns the OLS slope and intercept for y over x = 0..n-1.
// A single-point series yields a flat projection.
func leastSquares(series []float64) (slope, intercept float64) {
	n := float64(len(series))
	if n == 1 {
		return 0, series[0]
	}

	var sumX, sumY, sumXY, sumXX float64
	for i, y := range series {
		x := float64(i)
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}
