package email

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DevTransport saves messages as HTML and JSON files instead of sending them.
type DevTransport struct {
	dir string
}

// NewDevTransport creates a development transport writing into dir.
// The directory is created on first send.
func NewDevTransport(dir string) *DevTransport {
	return &DevTransport{dir: dir}
}

// emailMetadata is the JSON sidecar; the HTML lives in its own file.
type emailMetadata struct {
	MessageID string `json:"message_id"`
	Timestamp string `json:"timestamp"`
	From      string `json:"from"`
	SendTo    string `json:"send_to"`
	Subject   string `json:"subject"`
	Tag       string `json:"tag,omitempty"`
	BodyText  string `json:"body_text,omitempty"`
}

// Send implements Transport by writing <timestamp>_<tag|subject>.{html,json}.
func (d *DevTransport) Send(ctx context.Context, req SendRequest) (Ack, error) {
	if err := req.Validate(); err != nil {
		return Ack{}, err
	}
	if err := ctx.Err(); err != nil {
		return Ack{}, fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	start := time.Now()

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return Ack{}, fmt.Errorf("%w: failed to create directory: %v", ErrFailedToSendEmail, err)
	}

	identifier := req.Tag
	if identifier == "" {
		identifier = req.Subject
	}
	msgID := uuid.NewString()
	base := fmt.Sprintf("%s_%s_%s", start.Format("2006_01_02_150405"), sanitizeFilename(identifier), msgID[:8])

	htmlPath := filepath.Join(d.dir, base+".html")
	if err := os.WriteFile(htmlPath, []byte(req.BodyHTML), 0o644); err != nil {
		return Ack{}, fmt.Errorf("%w: failed to write HTML file: %v", ErrFailedToSendEmail, err)
	}

	data, err := json.MarshalIndent(emailMetadata{
		MessageID: msgID,
		Timestamp: start.Format(time.RFC3339),
		From:      req.Credentials.Address,
		SendTo:    req.To,
		Subject:   req.Subject,
		Tag:       req.Tag,
		BodyText:  req.BodyText,
	}, "", "  ")
	if err != nil {
		return Ack{}, fmt.Errorf("%w: failed to marshal metadata: %v", ErrFailedToSendEmail, err)
	}
	if err := os.WriteFile(filepath.Join(d.dir, base+".json"), data, 0o644); err != nil {
		return Ack{}, fmt.Errorf("%w: failed to write JSON file: %v", ErrFailedToSendEmail, err)
	}

	return Ack{MessageID: msgID, Elapsed: time.Since(start)}, nil
}

var sanitizeRegex = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

// sanitizeFilename lowercases s, keeps [a-z0-9-_.] and caps it at 100 bytes.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = sanitizeRegex.ReplaceAllString(s, "")
	const maxLength = 100
	if len(s) > maxLength {
		s = s[:maxLength]
	}
	if s == "" {
		s = "email"
	}
	return strings.ToLower(s)
}
