package report

import (
	"fmt"
	"strings"
)

// insightRule inspects the payload and contributes at most one insight.
type insightRule func(f facts) (string, bool)

// Rules run in declaration order; the output keeps that order.
var insightRules = []insightRule{
	ageInsight,
	bmiInsight,
	smokingInsight,
	confidenceInsight,
}

type facts struct {
	age        int
	bmi        float64
	risk       RiskLevel
	smoker     string
	confidence float64
}

func insightsFor(f facts) []string {
	out := make([]string, 0, len(insightRules))
	for _, rule := range insightRules {
		if s, ok := rule(f); ok {
			out = append(out, s)
		}
	}
	return out
}

func ageInsight(f facts) (string, bool) {
	if f.age > 50 {
		return fmt.Sprintf("Age factor: At %d years, age-related health risks may contribute to higher claim probability", f.age), true
	}
	return "", false
}

func bmiInsight(f facts) (string, bool) {
	switch {
	case f.bmi <= 0:
		return "", false
	case f.bmi < underweightBMI:
		return "BMI indicates underweight status - consider nutritional consultation", true
	case f.risk == RiskHigh:
		return "BMI indicates obesity - lifestyle modifications recommended to reduce health risks", true
	case f.risk == RiskLow:
		return "BMI is in healthy range - maintain current lifestyle for optimal health", true
	}
	return "", false
}

func smokingInsight(f facts) (string, bool) {
	switch strings.ToLower(f.smoker) {
	case "yes", "true":
		return "Smoking significantly increases health risks and claim probability - cessation programs recommended", true
	case "no", "false":
		return "Non-smoking status contributes positively to health profile", true
	}
	return "", false
}

// confidenceInsight treats a missing confidence as 0.
func confidenceInsight(f facts) (string, bool) {
	switch {
	case f.confidence > 0.8:
		return "High prediction confidence indicates reliable estimate based on comprehensive data analysis", true
	case f.confidence < 0.6:
		return "Moderate prediction confidence - additional health data may improve accuracy", true
	}
	return "", false
}
