package report

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dmitrymomot/notifykit/pkg/report/templates"
)

// Input is everything the composer needs to render one report.
type Input struct {
	Recipient   string
	Payload     Payload
	GeneratedAt time.Time
}

// Message is the rendered notification. It has no identity beyond its content.
type Message struct {
	Subject  string
	BodyHTML string
	BodyText string
}

// Composer turns payload attributes into a rendered message.
// It performs no I/O and holds no mutable state, so one instance may be
// shared by concurrent deliveries.
type Composer struct {
	brand    string
	replyTo  string
	currency string
	lang     language.Tag
	location *time.Location
}

// Option configures a Composer.
type Option func(*Composer)

// WithBrand sets the product name used in the subject and body.
func WithBrand(brand string) Option {
	return func(c *Composer) {
		if brand != "" {
			c.brand = brand
		}
	}
}

// WithReplyTo sets the contact address printed in the footer.
func WithReplyTo(addr string) Option {
	return func(c *Composer) { c.replyTo = addr }
}

// WithCurrency sets the currency symbol prefixed to the predicted amount.
func WithCurrency(symbol string) Option {
	return func(c *Composer) {
		if symbol != "" {
			c.currency = symbol
		}
	}
}

// WithLanguage sets the locale used for digit grouping.
func WithLanguage(tag language.Tag) Option {
	return func(c *Composer) { c.lang = tag }
}

// WithLocation sets the time zone used to print the generation timestamp.
func WithLocation(loc *time.Location) Option {
	return func(c *Composer) {
		if loc != nil {
			c.location = loc
		}
	}
}

// IST is the default report time zone.
var IST = time.FixedZone("IST", 5*60*60+30*60)

// New creates a Composer with MediCare+ defaults: rupee amounts, IST timestamps.
func New(opts ...Option) *Composer {
	c := &Composer{
		brand:    "MediCare+",
		currency: "₹",
		lang:     language.English,
		location: IST,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var defaultComposer = New()

// Compose renders in with the default composer.
func Compose(in Input) Message {
	return defaultComposer.Compose(in)
}

// Compose renders the report. It never fails: missing or malformed fields
// degrade to zero values so composition can never be why a notification is lost.
func (c *Composer) Compose(in Input) Message {
	p := in.Payload
	if p == nil {
		p = Payload{}
	}
	prediction := p.Map("prediction")

	amount := c.FormatAmount(predictedValue(prediction))
	confidence := prediction.Float("confidence")
	bmi := p.Float("bmi")
	risk := RiskFor(bmi)
	category := categoryFor(bmi)
	generated := in.GeneratedAt.In(c.location).Format("January 02, 2006 at 03:04 PM MST")

	insights := insightsFor(facts{
		age:        p.Int("age"),
		bmi:        bmi,
		risk:       risk,
		smoker:     p.String("smoker"),
		confidence: confidence,
	})

	view := templates.ReportView{
		Brand:           c.brand,
		Recipient:       in.Recipient,
		ReplyTo:         c.replyTo,
		Amount:          amount,
		Confidence:      FormatPercent(confidence),
		GeneratedAt:     generated,
		Attributes:      attributes(p),
		BMICategory:     category.name,
		RiskLevel:       string(risk),
		RiskClass:       risk.CSSClass(),
		RiskDescription: category.description,
		Insights:        insights,
	}

	msg := Message{
		Subject:  fmt.Sprintf("%s Report - %s", c.brand, amount),
		BodyText: textBody(view),
	}

	// Rendering into a strings.Builder cannot fail; fall back to the text body
	// wrapped in <pre> if a future template ever does.
	html, err := templates.Render(context.Background(), templates.Report(view))
	if err != nil || html == "" {
		html = "<pre>" + view.Amount + "\n" + msg.BodyText + "</pre>"
	}
	msg.BodyHTML = html
	return msg
}

// FormatAmount renders a monetary value rounded to whole units with locale digit grouping.
func (c *Composer) FormatAmount(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return message.NewPrinter(c.lang).Sprintf("%s%d", c.currency, int64(math.Round(v)))
}

// FormatPercent converts a 0..1 confidence into a percentage with one decimal.
func FormatPercent(confidence float64) string {
	return strconv.FormatFloat(math.Round(confidence*1000)/10, 'f', 1, 64)
}

func predictedValue(prediction Payload) float64 {
	for _, key := range []string{"value", "prediction", "amount"} {
		if prediction.HasNumber(key) {
			return prediction.Float(key)
		}
	}
	return 0
}

func attributes(p Payload) []templates.Attribute {
	orDefault := func(s, def string) string {
		if s == "" {
			return def
		}
		return s
	}

	age := "Not provided"
	if p.HasNumber("age") {
		age = strconv.Itoa(p.Int("age")) + " years"
	}
	bmi := "Not provided"
	if p.HasNumber("bmi") {
		bmi = strconv.FormatFloat(p.Float("bmi"), 'f', 1, 64)
	}

	return []templates.Attribute{
		{Label: "Age", Value: age},
		{Label: "BMI", Value: bmi},
		{Label: "Gender", Value: orDefault(p.String("gender"), "Not provided")},
		{Label: "Smoking Status", Value: orDefault(p.String("smoker"), "Not provided")},
		{Label: "Region", Value: orDefault(p.String("region"), "Not provided")},
		{Label: "Annual Premium", Value: orDefault(p.String("premium_annual_inr"), "Estimated")},
	}
}

func textBody(v templates.ReportView) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s Medical Insurance Report\n\n", v.Brand)
	fmt.Fprintf(&b, "Predicted amount: %s\n", v.Amount)
	fmt.Fprintf(&b, "Confidence: %s%%\n", v.Confidence)
	fmt.Fprintf(&b, "Generated: %s\n\n", v.GeneratedAt)
	for _, a := range v.Attributes {
		fmt.Fprintf(&b, "%s: %s\n", a.Label, a.Value)
	}
	fmt.Fprintf(&b, "\nBMI category: %s\nHealth risk level: %s\n%s\n", v.BMICategory, v.RiskLevel, v.RiskDescription)
	if len(v.Insights) > 0 {
		b.WriteString("\nKey insights:\n")
		for _, s := range v.Insights {
			fmt.Fprintf(&b, "- %s\n", s)
		}
	}
	b.WriteString("\nThis AI-generated prediction is for informational purposes only and is not medical advice.\n")
	return b.String()
}
