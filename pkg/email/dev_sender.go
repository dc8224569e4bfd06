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
)

// devSender writes each message to a directory as an HTML body plus a JSON
// metadata file, so local runs can be inspected without a mail provider.
type devSender struct {
	dir string
}

// NewDevSender creates a Sender that saves messages to dir instead of
// delivering them. The directory is created on first send.
func NewDevSender(dir string) Sender {
	return &devSender{dir: dir}
}

type devMetadata struct {
	Timestamp string `json:"timestamp"`
	To        string `json:"to"`
	Subject   string `json:"subject"`
	Tag       string `json:"tag,omitempty"`
}

func (d *devSender) Send(_ context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("%w: create directory: %v", ErrSendFailed, err)
	}

	now := time.Now()
	name := msg.Tag
	if name == "" {
		name = msg.Subject
	}
	base := now.Format("2006_01_02_150405") + "_" + safeFilename(name)

	if err := os.WriteFile(filepath.Join(d.dir, base+".html"), []byte(msg.BodyHTML), 0o644); err != nil {
		return fmt.Errorf("%w: write body: %v", ErrSendFailed, err)
	}

	meta, err := json.MarshalIndent(devMetadata{
		Timestamp: now.Format(time.RFC3339),
		To:        msg.To,
		Subject:   msg.Subject,
		Tag:       msg.Tag,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: marshal metadata: %v", ErrSendFailed, err)
	}
	if err := os.WriteFile(filepath.Join(d.dir, base+".json"), meta, 0o644); err != nil {
		return fmt.Errorf("%w: write metadata: %v", ErrSendFailed, err)
	}
	return nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9\-_.]`)

func safeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = unsafeFilenameChars.ReplaceAllString(s, "")
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "email"
	}
	return strings.ToLower(s)
}
