package metrics

import (
	"time"

	"github.com/verdantlabs/plantid/internal/models"
)

// EvaluationResult is the outcome of identifying a single dataset item.
type EvaluationResult struct {
	ItemID         string
	CommonName     string // ground truth
	ScientificName string // ground truth
	RawResponse    string
	Record         *models.Record
	Comparison     *RecordComparison
	ProcessingTime time.Duration
	Error          string // if identification failed
}

// AggregateResults summarizes an evaluation run.
type AggregateResults struct {
	TotalRecords int
	SuccessCount int
	FailureCount int

	CommonNameAccuracy      FieldStats
	ScientificNameAccuracy  FieldStats
	AlternativeNameAccuracy FieldStats

	OverallAccuracy float64

	AverageProcessingTime time.Duration
	TotalProcessingTime   time.Duration

	Results []EvaluationResult

	EvaluationDate time.Time
	Provider       string
	Model          string
	SampleSize     int
}

// FieldStats contains accuracy statistics for a single field.
type FieldStats struct {
	ExactMatches  int
	FuzzyMatches  int
	NoMatches     int
	MissingFields int
	AverageScore  float64
	Scores        []float64
}

// AggregateEvaluationResults aggregates per-item results into run-level
// statistics.
func AggregateEvaluationResults(results []EvaluationResult, provider, model string) *AggregateResults {
	agg := &AggregateResults{
		TotalRecords:   len(results),
		Results:        results,
		EvaluationDate: time.Now(),
		Provider:       provider,
		Model:          model,
		SampleSize:     len(results),
	}

	totalOverallScore := 0.0
	var totalDuration, successDuration time.Duration

	for _, result := range results {
		totalDuration += result.ProcessingTime

		if result.Error != "" {
			agg.FailureCount++
			continue
		}

		agg.SuccessCount++
		successDuration += result.ProcessingTime

		if result.Comparison == nil {
			continue
		}

		aggregateFieldStats(&agg.CommonNameAccuracy, result.Comparison.CommonNameMatch)
		aggregateFieldStats(&agg.ScientificNameAccuracy, result.Comparison.ScientificNameMatch)
		aggregateFieldStats(&agg.AlternativeNameAccuracy, result.Comparison.AlternativeNameMatch)

		totalOverallScore += result.Comparison.OverallScore
	}

	if agg.SuccessCount > 0 {
		agg.CommonNameAccuracy.AverageScore = average(agg.CommonNameAccuracy.Scores)
		agg.ScientificNameAccuracy.AverageScore = average(agg.ScientificNameAccuracy.Scores)
		agg.AlternativeNameAccuracy.AverageScore = average(agg.AlternativeNameAccuracy.Scores)
		agg.OverallAccuracy = totalOverallScore / float64(agg.SuccessCount)
		agg.AverageProcessingTime = successDuration / time.Duration(agg.SuccessCount)
	}
	agg.TotalProcessingTime = totalDuration

	return agg
}

func aggregateFieldStats(stats *FieldStats, match FieldMatch) {
	// Fields without ground truth contribute nothing.
	if match.Expected == "" {
		return
	}

	stats.Scores = append(stats.Scores, match.Score)

	switch match.Method {
	case "exact":
		stats.ExactMatches++
	case "fuzzy", "partial":
		stats.FuzzyMatches++
	case "missing":
		if match.Actual == "" {
			stats.MissingFields++
		} else {
			stats.NoMatches++
		}
	}
}

func average(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	total := 0.0
	for _, s := range scores {
		total += s
	}
	return total / float64(len(scores))
}
