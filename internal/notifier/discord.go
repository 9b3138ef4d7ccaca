package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"SwiftPush/internal/config"
)

type DiscordNotifier struct {
	webhookURL string
	retry      *config.DiscordRetry
	events     map[string]struct{}
	host       string
	client     *http.Client
}

type discordEmbed struct {
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Color       int            `json:"color,omitempty"`
	Timestamp   string         `json:"timestamp,omitempty"`
	Fields      []discordField `json:"fields,omitempty"`
}

type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordPayload struct {
	Embeds []discordEmbed `json:"embeds,omitempty"`
}

func NewDiscordNotifier(cfg *config.DiscordConfig) (*DiscordNotifier, error) {
	if cfg == nil || !cfg.Enabled || cfg.WebhookURL == "" {
		return nil, fmt.Errorf("discord notifier disabled or missing webhook_url")
	}
	host, _ := os.Hostname()
	if host == "" {
		host = "unknown"
	}
	timeout := 10 * time.Second
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	events := make(map[string]struct{})
	for _, e := range cfg.Events {
		events[e] = struct{}{}
	}
	return &DiscordNotifier{
		webhookURL: cfg.WebhookURL,
		retry:      cfg.Retry,
		events:     events,
		host:       host,
		client:     &http.Client{Timeout: timeout},
	}, nil
}

func (d *DiscordNotifier) allowed(event string) bool {
	if len(d.events) == 0 {
		return true
	}
	_, ok := d.events[event]
	return ok
}

func (d *DiscordNotifier) send(ctx context.Context, embed discordEmbed) error {
	embed.Timestamp = time.Now().UTC().Format(time.RFC3339)
	embed.Fields = append([]discordField{{Name: "Host", Value: d.host, Inline: true}}, embed.Fields...)
	body, err := json.Marshal(discordPayload{Embeds: []discordEmbed{embed}})
	if err != nil {
		return err
	}
	attempts := 1
	delay := time.Duration(0)
	if d.retry != nil && d.retry.Attempts > 1 {
		attempts = d.retry.Attempts
		delay = time.Duration(d.retry.BackoffMs) * time.Millisecond
	}
	var lastErr error
	for i := 0; i < attempts; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := d.client.Do(req)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return nil
			}
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
		} else {
			lastErr = err
		}
		if delay > 0 && i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return fmt.Errorf("discord webhook failed after %d attempts: %w", attempts, lastErr)
}

func (d *DiscordNotifier) NotifySyncStart(ctx context.Context, bucket, dir string) error {
	if !d.allowed(EventSyncStart) {
		return nil
	}
	return d.send(ctx, discordEmbed{
		Title: "Sync started",
		Color: 0x3498db,
		Fields: []discordField{
			{Name: "Bucket", Value: bucket, Inline: true},
			{Name: "Directory", Value: dir, Inline: false},
		},
	})
}

func (d *DiscordNotifier) NotifySyncSuccess(ctx context.Context, s SyncSummary) error {
	if !d.allowed(EventSyncSuccess) {
		return nil
	}
	color := 0x2ecc71
	if s.Failed > 0 {
		color = 0xf1c40f
	}
	return d.send(ctx, discordEmbed{
		Title: "Sync finished",
		Color: color,
		Fields: []discordField{
			{Name: "Bucket", Value: s.Bucket, Inline: true},
			{Name: "Uploaded", Value: fmt.Sprintf("%d", s.Uploaded), Inline: true},
			{Name: "Skipped", Value: fmt.Sprintf("%d", s.Skipped), Inline: true},
			{Name: "Failed", Value: fmt.Sprintf("%d", s.Failed), Inline: true},
			{Name: "Duration", Value: s.Duration.Round(time.Millisecond).String(), Inline: true},
		},
	})
}

func (d *DiscordNotifier) NotifyDelete(ctx context.Context, bucket, path string) error {
	if !d.allowed(EventDelete) {
		return nil
	}
	return d.send(ctx, discordEmbed{
		Title: "Object deleted",
		Color: 0x9b59b6,
		Fields: []discordField{
			{Name: "Bucket", Value: bucket, Inline: true},
			{Name: "Path", Value: path, Inline: false},
		},
	})
}

func (d *DiscordNotifier) NotifyError(ctx context.Context, bucket, operation string, err error) error {
	if !d.allowed(EventError) {
		return nil
	}
	return d.send(ctx, discordEmbed{
		Title:       operation + " failed",
		Description: err.Error(),
		Color:       0xe74c3c,
		Fields: []discordField{
			{Name: "Bucket", Value: bucket, Inline: true},
		},
	})
}

// FromConfig returns nil when notifications are off. A misconfigured Discord
// block is reported through warn and also yields nil.
func FromConfig(cfg *config.NotificationsConfig, warn func(string)) Notifier {
	if !config.NotificationsEnabled(cfg) || cfg.Discord == nil {
		return nil
	}
	n, err := NewDiscordNotifier(cfg.Discord)
	if err != nil {
		if warn != nil {
			warn("discord notification: " + err.Error())
		}
		return nil
	}
	return n
}
