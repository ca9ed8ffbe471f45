// Package report composes the prediction report email from a payload.
//
// Composition is a pure transformation: no I/O, no clock reads, no errors.
// Missing fields degrade to zero values. The output carries a subject, an
// HTML body rendered with a templ component, and a plain-text alternative.
//
// Derived values:
//
//   - the predicted amount, rounded and digit-grouped with golang.org/x/text
//     (₹35,000 by default)
//   - a confidence percentage with one decimal (0.92 → 92.0)
//   - a three-way risk bucket from the BMI: below 25 Low, 25 up to 30
//     Moderate, 30 and above High
//   - insights from independent rules (age, BMI bucket, smoking, confidence),
//     each contributing at most one line, in rule-declaration order
//
// # Usage
//
//	msg := report.New(report.WithBrand("MediCare+")).Compose(report.Input{
//	    Recipient:   "user@example.com",
//	    Payload:     report.Payload{"age": 35, "bmi": 28.5, "prediction": map[string]any{"value": 35000, "confidence": 0.92}},
//	    GeneratedAt: time.Now(),
//	})
package report
