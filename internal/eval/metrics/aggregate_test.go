package metrics

import (
	"testing"
	"time"

	"github.com/verdantlabs/plantid/internal/eval/dataset"
	"github.com/verdantlabs/plantid/internal/models"
)

func TestAggregateEvaluationResults(t *testing.T) {
	matched := CompareRecord(&models.Record{
		Name:           "Golden Pothos",
		ScientificName: "Epipremnum aureum",
	}, dataset.Item{
		CommonName:     "Golden Pothos",
		ScientificName: "Epipremnum aureum",
	})
	mismatched := CompareRecord(&models.Record{
		Name:           "Aloe Vera",
		ScientificName: "Aloe barbadensis",
	}, dataset.Item{
		CommonName:     "Ficus",
		ScientificName: "Ficus lyrata",
	})

	results := []EvaluationResult{
		{
			ItemID:         "1",
			Comparison:     matched,
			ProcessingTime: 2 * time.Second,
		},
		{
			ItemID:         "2",
			Comparison:     mismatched,
			ProcessingTime: 4 * time.Second,
		},
		{
			ItemID:         "3",
			Error:          "inference failed: timeout",
			ProcessingTime: 30 * time.Second,
		},
	}

	agg := AggregateEvaluationResults(results, "gemini", "gemini-2.0-flash")

	if agg.TotalRecords != 3 {
		t.Errorf("TotalRecords = %d, want 3", agg.TotalRecords)
	}
	if agg.SuccessCount != 2 {
		t.Errorf("SuccessCount = %d, want 2", agg.SuccessCount)
	}
	if agg.FailureCount != 1 {
		t.Errorf("FailureCount = %d, want 1", agg.FailureCount)
	}
	if agg.Provider != "gemini" || agg.Model != "gemini-2.0-flash" {
		t.Errorf("provider/model = %q/%q", agg.Provider, agg.Model)
	}

	if agg.CommonNameAccuracy.ExactMatches != 1 {
		t.Errorf("common name exact matches = %d, want 1", agg.CommonNameAccuracy.ExactMatches)
	}
	if agg.CommonNameAccuracy.NoMatches != 1 {
		t.Errorf("common name no-matches = %d, want 1", agg.CommonNameAccuracy.NoMatches)
	}
	if len(agg.CommonNameAccuracy.Scores) != 2 {
		t.Errorf("common name scores = %d, want 2", len(agg.CommonNameAccuracy.Scores))
	}

	// Only the two successes count toward the averages.
	if agg.AverageProcessingTime != 3*time.Second {
		t.Errorf("AverageProcessingTime = %s, want 3s", agg.AverageProcessingTime)
	}
	if agg.TotalProcessingTime != 36*time.Second {
		t.Errorf("TotalProcessingTime = %s, want 36s", agg.TotalProcessingTime)
	}

	wantOverall := (matched.OverallScore + mismatched.OverallScore) / 2
	if agg.OverallAccuracy != wantOverall {
		t.Errorf("OverallAccuracy = %f, want %f", agg.OverallAccuracy, wantOverall)
	}
}

func TestAggregateEvaluationResultsEmpty(t *testing.T) {
	agg := AggregateEvaluationResults(nil, "ollama", "llava:13b")

	if agg.TotalRecords != 0 || agg.SuccessCount != 0 || agg.FailureCount != 0 {
		t.Errorf("counts = %d/%d/%d, want 0/0/0", agg.TotalRecords, agg.SuccessCount, agg.FailureCount)
	}
	if agg.OverallAccuracy != 0 {
		t.Errorf("OverallAccuracy = %f, want 0", agg.OverallAccuracy)
	}
	if agg.AverageProcessingTime != 0 {
		t.Errorf("AverageProcessingTime = %s, want 0", agg.AverageProcessingTime)
	}
}

func TestAggregateFieldStatsSkipsMissingGroundTruth(t *testing.T) {
	var stats FieldStats
	aggregateFieldStats(&stats, FieldMatch{Expected: "", Actual: "whatever"})

	if len(stats.Scores) != 0 {
		t.Errorf("scores = %d, want 0", len(stats.Scores))
	}
}

func TestAggregateFieldStatsMissingVersusWrong(t *testing.T) {
	var stats FieldStats
	aggregateFieldStats(&stats, FieldMatch{Expected: "Aloe vera", Actual: "", Method: "missing"})
	aggregateFieldStats(&stats, FieldMatch{Expected: "Aloe vera", Actual: "Ficus lyrata", Method: "missing"})

	if stats.MissingFields != 1 {
		t.Errorf("MissingFields = %d, want 1", stats.MissingFields)
	}
	if stats.NoMatches != 1 {
		t.Errorf("NoMatches = %d, want 1", stats.NoMatches)
	}
}
