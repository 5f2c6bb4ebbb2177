package pagespeed

import (
	"encoding/json"
	"testing"
)

func TestMapResult(t *testing.T) {
	t.Run("scores scale to 0-100 and keep nil for absent categories", func(t *testing.T) {
		var resp apiResponse
		payload := `{
			"lighthouseResult": {
				"categories": {
					"performance": {"score": 0.55},
					"seo": {"score": 1.0}
				},
				"audits": {}
			}
		}`
		if err := json.Unmarshal([]byte(payload), &resp); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}

		result := mapResult(&resp)

		if result.Scores.Performance == nil || *result.Scores.Performance != 55 {
			t.Errorf("Performance = %v, want 55", result.Scores.Performance)
		}
		if result.Scores.SEO == nil || *result.Scores.SEO != 100 {
			t.Errorf("SEO = %v, want 100", result.Scores.SEO)
		}
		if result.Scores.Accessibility != nil {
			t.Errorf("Accessibility = %v, want nil for absent category", result.Scores.Accessibility)
		}
		if result.Scores.BestPractices != nil {
			t.Errorf("BestPractices = %v, want nil for absent category", result.Scores.BestPractices)
		}
	})

	t.Run("absent audits stay nil", func(t *testing.T) {
		var resp apiResponse
		payload := `{
			"lighthouseResult": {
				"categories": {},
				"audits": {
					"first-contentful-paint": {"title": "First Contentful Paint", "displayValue": "1.0 s", "numericValue": 1000, "score": 0.99}
				}
			}
		}`
		if err := json.Unmarshal([]byte(payload), &resp); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}

		result := mapResult(&resp)

		if result.Metrics.FCP == nil {
			t.Fatal("FCP = nil, want metric")
		}
		if result.Metrics.FCP.DisplayValue != "1.0 s" {
			t.Errorf("FCP.DisplayValue = %q, want 1.0 s", result.Metrics.FCP.DisplayValue)
		}
		if result.Metrics.LCP != nil {
			t.Errorf("LCP = %v, want nil for absent audit", result.Metrics.LCP)
		}
	})

	t.Run("prefers origin field data over url field data", func(t *testing.T) {
		var resp apiResponse
		payload := `{
			"lighthouseResult": {"categories": {}, "audits": {}},
			"loadingExperience": {
				"overall_category": "SLOW",
				"metrics": {"LARGEST_CONTENTFUL_PAINT_MS": {"percentile": 5000, "category": "SLOW"}}
			},
			"originLoadingExperience": {
				"overall_category": "AVERAGE",
				"metrics": {"LARGEST_CONTENTFUL_PAINT_MS": {"percentile": 3000, "category": "AVERAGE"}}
			}
		}`
		if err := json.Unmarshal([]byte(payload), &resp); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}

		result := mapResult(&resp)

		if result.FieldData.OverallCategory != "AVERAGE" {
			t.Errorf("OverallCategory = %q, want AVERAGE", result.FieldData.OverallCategory)
		}
		if result.FieldData.LCP == nil || result.FieldData.LCP.Percentile != 3000 {
			t.Errorf("LCP = %+v, want origin percentile 3000", result.FieldData.LCP)
		}
	})

	t.Run("no field data yields empty struct", func(t *testing.T) {
		var resp apiResponse
		if err := json.Unmarshal([]byte(`{"lighthouseResult": {"categories": {}, "audits": {}}}`), &resp); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}

		result := mapResult(&resp)

		if result.FieldData.OverallCategory != "" || result.FieldData.LCP != nil {
			t.Errorf("FieldData = %+v, want empty", result.FieldData)
		}
	})
}

func TestFormatMillis(t *testing.T) {
	tests := []struct {
		value int
		want  string
	}{
		{150, "150 ms"},
		{999, "999 ms"},
		{1000, "1.0 s"},
		{2560, "2.6 s"},
	}

	for _, tt := range tests {
		if got := formatMillis(tt.value); got != tt.want {
			t.Errorf("formatMillis(%d) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestFormatCLS(t *testing.T) {
	tests := []struct {
		value int
		want  string
	}{
		{5, "0.05"},
		{25, "0.25"},
		{1, "1.00"},
		{0, "0.00"},
	}

	for _, tt := range tests {
		if got := formatCLS(tt.value); got != tt.want {
			t.Errorf("formatCLS(%d) = %q, want %q", tt.value, got, tt.want)
		}
	}
}
