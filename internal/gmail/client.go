package gmail

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/ajramos/tagview/internal/models"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/gmail/v1"
)

const (
	user = "me"

	// DefaultQuery aligns with the Gmail web inbox
	DefaultQuery = "-in:sent -in:draft -in:chat -in:spam -in:trash"

	defaultWorkers = 10
	maxWorkers     = 15
)

// Client wraps the gmail.Service and reads messages and labels as tagview records
type Client struct {
	Service *gmail.Service
	Workers int
}

// NewClient creates a new Gmail client
func NewClient(service *gmail.Service) *Client {
	return &Client{Service: service, Workers: defaultWorkers}
}

func (c *Client) ready() error {
	if c == nil || c.Service == nil {
		return fmt.Errorf("gmail client not initialized")
	}
	return nil
}

// ListMessageIDs pages through the inbox until max IDs are collected.
// max <= 0 reads a single page.
func (c *Client) ListMessageIDs(ctx context.Context, query string, max int64) ([]string, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(query) == "" {
		query = DefaultQuery
	}

	var ids []string
	pageToken := ""
	for {
		call := c.Service.Users.Messages.List(user).LabelIds("INBOX").Q(query).Context(ctx)
		if max > 0 {
			call = call.MaxResults(max - int64(len(ids)))
		}
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}
		res, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list messages: %w", err)
		}
		for _, m := range res.Messages {
			ids = append(ids, m.Id)
		}
		pageToken = res.NextPageToken
		if pageToken == "" || max <= 0 || int64(len(ids)) >= max {
			break
		}
	}
	if max > 0 && int64(len(ids)) > max {
		ids = ids[:max]
	}
	return ids, nil
}

// GetMessageMetadata fetches headers, snippet and labels for one message
func (c *Client) GetMessageMetadata(ctx context.Context, id string) (*gmail.Message, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("message id cannot be empty")
	}
	msg, err := c.Service.Users.Messages.Get(user, id).
		Format("metadata").
		MetadataHeaders("From", "Subject", "Date").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get message %s: %w", id, err)
	}
	return msg, nil
}

// getMetadataParallel fetches messages with a bounded worker pool. Output
// order matches ids; the first error cancels the rest.
func (c *Client) getMetadataParallel(ctx context.Context, ids []string) ([]*gmail.Message, error) {
	out := make([]*gmail.Message, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	workers := c.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	if workers > maxWorkers {
		workers = maxWorkers
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, id := range ids {
		g.Go(func() error {
			msg, err := c.GetMessageMetadata(gctx, id)
			if err != nil {
				return err
			}
			out[i] = msg
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListLabels returns all labels
func (c *Client) ListLabels(ctx context.Context) ([]*gmail.Label, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}
	res, err := c.Service.Users.Labels.List(user).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list labels: %w", err)
	}
	return res.Labels, nil
}

// FetchMessages reads up to max inbox messages matching query. Label IDs
// become tag IDs; system labels that carry no meaning as tags are dropped.
func (c *Client) FetchMessages(ctx context.Context, query string, max int64) ([]models.Message, error) {
	ids, err := c.ListMessageIDs(ctx, query, max)
	if err != nil {
		return nil, err
	}
	raw, err := c.getMetadataParallel(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]models.Message, 0, len(raw))
	for _, msg := range raw {
		if msg != nil {
			out = append(out, MessageFromAPI(msg))
		}
	}
	return out, nil
}

// FetchLabelSeeds returns one tag per user label, plus the starred and
// important system labels
func (c *Client) FetchLabelSeeds(ctx context.Context) ([]models.Tag, error) {
	labels, err := c.ListLabels(ctx)
	if err != nil {
		return nil, err
	}
	return TagsFromLabels(labels), nil
}

// MessageFromAPI converts a metadata-format Gmail message
func MessageFromAPI(msg *gmail.Message) models.Message {
	return models.Message{
		ID:      msg.Id,
		Sender:  extractHeader(msg, "From"),
		Subject: extractHeader(msg, "Subject"),
		Preview: msg.Snippet,
		Date:    extractDate(msg),
		Tags:    tagLabelIDs(msg.LabelIds),
	}
}

// TagsFromLabels maps Gmail labels to registry tags keyed by label ID
func TagsFromLabels(labels []*gmail.Label) []models.Tag {
	var out []models.Tag
	for _, l := range labels {
		if l == nil || strings.TrimSpace(l.Name) == "" {
			continue
		}
		switch {
		case l.Type == "user":
			out = append(out, models.Tag{ID: l.Id, Name: l.Name})
		case l.Id == "STARRED" || l.Id == "IMPORTANT":
			out = append(out, models.Tag{ID: l.Id, Name: titleCase(l.Name)})
		}
	}
	return out
}

// tagLabelIDs filters out non-actionable system labels
func tagLabelIDs(labelIDs []string) []string {
	var out []string
	for _, id := range labelIDs {
		if strings.HasPrefix(id, "CATEGORY_") {
			continue
		}
		switch id {
		case "INBOX", "CHAT", "SENT", "TRASH", "SPAM", "DRAFT", "UNREAD":
			continue
		}
		// Exclude colored star variants
		if (strings.HasSuffix(id, "_STAR") || strings.HasSuffix(id, "_STARRED")) && id != "STARRED" {
			continue
		}
		out = append(out, id)
	}
	return out
}

// Helper functions
func extractHeader(msg *gmail.Message, name string) string {
	if msg == nil || msg.Payload == nil {
		return ""
	}
	for _, header := range msg.Payload.Headers {
		if strings.EqualFold(header.Name, name) {
			return header.Value
		}
	}
	return ""
}

// extractDate prefers the Date header and falls back to the internal
// receive time. Unparseable or missing dates give the zero time.
func extractDate(msg *gmail.Message) time.Time {
	if msg == nil {
		return time.Time{}
	}
	if dateStr := extractHeader(msg, "Date"); dateStr != "" {
		if t, err := mail.ParseDate(dateStr); err == nil {
			return t.UTC()
		}
	}
	if msg.InternalDate > 0 {
		return time.UnixMilli(msg.InternalDate).UTC()
	}
	return time.Time{}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	lower := strings.ToLower(s)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
