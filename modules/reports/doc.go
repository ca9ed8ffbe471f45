// Package reports exposes prediction-report delivery over HTTP.
//
// Routes:
//
//	POST /send-prediction-email  {email, prediction, patient_data} -> delivery outcome
//	GET  /fallback/records       journaled undelivered reports (?format=json|yaml)
//	GET  /livez                  liveness
//	GET  /healthz                readiness of the fallback journal backend
package reports
