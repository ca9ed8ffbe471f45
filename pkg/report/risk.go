package report

// RiskLevel is the three-way bucket derived from the body mass index.
type RiskLevel string

const (
	RiskLow      RiskLevel = "Low"
	RiskModerate RiskLevel = "Moderate"
	RiskHigh     RiskLevel = "High"
)

// Bucket thresholds on the BMI scale.
const (
	moderateRiskBMI = 25.0
	highRiskBMI     = 30.0
	underweightBMI  = 18.5
)

// RiskFor buckets a BMI value: below 25 is low, 25 up to 30 moderate, 30 and above high.
func RiskFor(bmi float64) RiskLevel {
	switch {
	case bmi >= highRiskBMI:
		return RiskHigh
	case bmi >= moderateRiskBMI:
		return RiskModerate
	default:
		return RiskLow
	}
}

// CSSClass returns the stylesheet class used by the HTML template.
func (r RiskLevel) CSSClass() string {
	switch r {
	case RiskHigh:
		return "risk-high"
	case RiskLow:
		return "risk-low"
	default:
		return "risk-assessment"
	}
}

type bmiCategory struct {
	name        string
	description string
}

func categoryFor(bmi float64) bmiCategory {
	switch {
	case bmi <= 0:
		return bmiCategory{"Not provided", "No BMI was supplied with this report"}
	case bmi < underweightBMI:
		return bmiCategory{"Underweight", "BMI below normal range may indicate nutritional deficiencies"}
	case bmi < moderateRiskBMI:
		return bmiCategory{"Normal Weight", "BMI in healthy range - optimal for insurance risk assessment"}
	case bmi < highRiskBMI:
		return bmiCategory{"Overweight", "BMI above normal range - lifestyle modifications recommended"}
	default:
		return bmiCategory{"Obese", "BMI indicates obesity - significant health risks and higher claim probability"}
	}
}
