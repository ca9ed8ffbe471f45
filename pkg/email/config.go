package email

// SMTPConfig describes the submission endpoint. The sender credentials are
// not part of it; they travel with every SendRequest.
type SMTPConfig struct {
	Host               string `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	Port               int    `env:"SMTP_PORT" envDefault:"587"`
	ImplicitTLS        bool   `env:"SMTP_IMPLICIT_TLS" envDefault:"false"`
	TLSPolicy          string `env:"SMTP_TLS_POLICY" envDefault:"mandatory"` // mandatory | opportunistic
	InsecureSkipVerify bool   `env:"SMTP_INSECURE_SKIP_VERIFY" envDefault:"false"`
	LocalName          string `env:"SMTP_LOCAL_NAME" envDefault:"localhost"`
}

// PostmarkConfig configures the Postmark API transport. The server token is
// taken from the request credentials.
type PostmarkConfig struct {
	AccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	ReplyTo      string `env:"POSTMARK_REPLY_TO"`
	BaseURL      string `env:"POSTMARK_BASE_URL"`
}

// SenderConfig holds the sender identity used by the delivery service.
type SenderConfig struct {
	Address string `env:"SENDER_EMAIL"`
	Secret  string `env:"SENDER_SECRET"`
	Name    string `env:"SENDER_NAME" envDefault:"MediCare+ Platform"`
}

// Credentials converts the sender config into request credentials.
func (c SenderConfig) Credentials() Credentials {
	return Credentials{Address: c.Address, Secret: c.Secret, Name: c.Name}
}

const (
	TLSMandatory     = "mandatory"
	TLSOpportunistic = "opportunistic"
)
