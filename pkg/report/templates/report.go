package templates

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// Attribute is a labelled value shown in the report's information grid.
type Attribute struct {
	Label string
	Value string
}

// ReportView carries every pre-formatted value the report email displays.
type ReportView struct {
	Brand           string
	Recipient       string
	ReplyTo         string
	Amount          string
	Confidence      string
	GeneratedAt     string
	Attributes      []Attribute
	BMICategory     string
	RiskLevel       string
	RiskClass       string
	RiskDescription string
	Insights        []string
}

const reportStyles = `body{font-family:Arial,sans-serif;line-height:1.6;color:#333;margin:0;padding:20px;background-color:#f4f4f4}` +
	`.container{max-width:600px;margin:0 auto;background:#fff;padding:30px;border-radius:10px}` +
	`.header{background:#667eea;color:#fff;padding:20px;border-radius:8px;text-align:center;margin-bottom:30px}` +
	`.section{margin-bottom:25px}.section h2{color:#667eea;border-bottom:2px solid #667eea;padding-bottom:5px}` +
	`.info-item{background:#f8f9fa;padding:15px;border-radius:5px;border-left:4px solid #667eea;margin-bottom:10px}` +
	`.info-item strong{display:block;margin-bottom:5px}` +
	`.prediction-highlight{background:#764ba2;color:#fff;padding:20px;border-radius:8px;text-align:center;margin:20px 0}` +
	`.prediction-highlight .amount{font-size:28px;font-weight:bold}` +
	`.risk-assessment{background:#fff3cd;border:1px solid #ffeaa7;padding:15px;border-radius:5px}` +
	`.risk-high{background:#f8d7da;border-color:#f5c6cb}.risk-low{background:#d4edda;border-color:#c3e6cb}` +
	`.disclaimer{background:#e9ecef;padding:15px;border-radius:5px;margin-top:20px;font-size:12px;color:#666}` +
	`.footer{text-align:center;margin-top:30px;padding-top:20px;border-top:1px solid #eee;color:#666;font-size:12px}`

// Report renders the prediction report email. All dynamic values are escaped.
func Report(v ReportView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		e := templ.EscapeString[string]

		b.WriteString(`<!DOCTYPE html><html><head><meta charset="UTF-8">`)
		b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1.0">`)
		b.WriteString(`<title>` + e(v.Brand) + ` Prediction Report</title>`)
		b.WriteString(`<style>` + reportStyles + `</style></head><body><div class="container">`)

		b.WriteString(`<div class="header"><h1>` + e(v.Brand) + ` Medical Insurance Report</h1>`)
		b.WriteString(`<p>AI-Powered Insurance Claim Analysis</p></div>`)

		b.WriteString(`<div class="section"><h2>Patient Information</h2>`)
		for _, a := range v.Attributes {
			b.WriteString(`<div class="info-item"><strong>` + e(a.Label) + `</strong>` + e(a.Value) + `</div>`)
		}
		b.WriteString(`</div>`)

		b.WriteString(`<div class="prediction-highlight"><div class="amount">` + e(v.Amount) + `</div>`)
		b.WriteString(`<div class="confidence">Confidence: ` + e(v.Confidence) + `% | Generated: ` + e(v.GeneratedAt) + `</div></div>`)

		b.WriteString(`<div class="section"><h2>BMI Analysis</h2>`)
		b.WriteString(`<div class="info-item"><strong>BMI Category</strong>` + e(v.BMICategory) + `</div>`)
		b.WriteString(`<div class="risk-assessment ` + e(v.RiskClass) + `"><strong>Health Risk Level: ` + e(v.RiskLevel) + `</strong>`)
		b.WriteString(`<p>` + e(v.RiskDescription) + `</p></div></div>`)

		if len(v.Insights) > 0 {
			b.WriteString(`<div class="section"><h2>Key Insights</h2><ul>`)
			for _, s := range v.Insights {
				b.WriteString(`<li>` + e(s) + `</li>`)
			}
			b.WriteString(`</ul></div>`)
		}

		b.WriteString(`<div class="disclaimer"><strong>Medical Disclaimer:</strong> This AI-generated prediction is for educational and informational purposes only. `)
		b.WriteString(`It should not be used as a substitute for professional medical advice, diagnosis, or treatment.</div>`)

		b.WriteString(`<div class="footer"><p><strong>` + e(v.Brand) + `</strong></p>`)
		b.WriteString(`<p>Report generated on ` + e(v.GeneratedAt) + ` for ` + e(v.Recipient) + `</p>`)
		if v.ReplyTo != "" {
			b.WriteString(`<p>If you received this email by mistake, please contact us at ` + e(v.ReplyTo) + `</p>`)
		}
		b.WriteString(`</div></div></body></html>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}
