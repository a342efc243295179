// Package addrbook implements the contact source over a vCard address book,
// read from a local .vcf file or a CardDAV/WebDAV URL.
package addrbook

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/emersion/go-vcard"
	"github.com/zalando/go-keyring"

	"github.com/malotru/jourj/internal/config"
	"github.com/malotru/jourj/internal/contacts"
)

// Config selects the address book location.
type Config struct {
	Mode      string // config.SourceModeLocal or config.SourceModeWeb
	LocalPath string // absolute path to the .vcf file
	WebURL    string // CardDAV or WebDAV URL
	WebUser   string // HTTP basic auth username
}

// Book reads a vCard address book and exposes it through the contacts.Source
// row interface. The book is parsed once per Groups call; Birthdays and Data
// serve from that parse, so one sync costs one read of the source.
type Book struct {
	cfg     Config
	fetcher Fetcher

	mu     sync.Mutex
	cached *parsed
}

type parsed struct {
	groups    []contacts.Group
	birthdays []contacts.BirthdayRow
	data      []contacts.DataRow
}

// New creates a Book. The fetcher is only required for web mode.
func New(cfg Config, fetcher Fetcher) *Book {
	return &Book{cfg: cfg, fetcher: fetcher}
}

// AuthStatus reports whether the configured source is readable.
func (b *Book) AuthStatus(ctx context.Context) contacts.AuthStatus {
	switch b.cfg.Mode {
	case config.SourceModeLocal:
		if b.cfg.LocalPath == "" {
			return contacts.AuthNotDetermined
		}
		f, err := os.Open(b.cfg.LocalPath)
		if err != nil {
			return contacts.AuthDenied
		}
		_ = f.Close()
		return contacts.AuthAuthorized
	case config.SourceModeWeb:
		if b.cfg.WebURL == "" {
			return contacts.AuthNotDetermined
		}
		return contacts.AuthAuthorized
	default:
		return contacts.AuthNotDetermined
	}
}

// Groups re-reads the address book and returns its group rows.
func (b *Book) Groups(ctx context.Context) ([]contacts.Group, error) {
	p, err := b.reload(ctx)
	if err != nil {
		return nil, err
	}
	return p.groups, nil
}

// Birthdays returns the birthday rows from the last read.
func (b *Book) Birthdays(ctx context.Context) ([]contacts.BirthdayRow, error) {
	p, err := b.current(ctx)
	if err != nil {
		return nil, err
	}
	return p.birthdays, nil
}

// Data returns the auxiliary rows for exactly the given contact ids.
func (b *Book) Data(ctx context.Context, ids []string) ([]contacts.DataRow, error) {
	p, err := b.current(ctx)
	if err != nil {
		return nil, err
	}
	want := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	var out []contacts.DataRow
	for _, row := range p.data {
		if _, ok := want[row.ContactID]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (b *Book) current(ctx context.Context) (*parsed, error) {
	b.mu.Lock()
	cached := b.cached
	b.mu.Unlock()
	if cached != nil {
		return cached, nil
	}
	return b.reload(ctx)
}

func (b *Book) reload(ctx context.Context) (*parsed, error) {
	reader, err := b.acquireStream(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %w", config.ErrVCardParse, err)
	}
	defer func() { _ = reader.Close() }()

	p, err := parse(ctx, reader)
	if err != nil {
		return nil, err
	}

	b.mu.Lock()
	b.cached = p
	b.mu.Unlock()
	return p, nil
}

// acquireStream opens the appropriate data source based on configuration.
func (b *Book) acquireStream(ctx context.Context) (io.ReadCloser, error) {
	switch b.cfg.Mode {
	case config.SourceModeLocal:
		if b.cfg.LocalPath == "" {
			return nil, errors.New(config.ErrLocalPathEmpty)
		}
		return os.Open(b.cfg.LocalPath)
	case config.SourceModeWeb:
		if b.cfg.WebURL == "" {
			return nil, errors.New(config.ErrWebURLEmpty)
		}
		if b.fetcher == nil {
			return nil, errors.New(config.ErrFetcherMissing)
		}
		return b.fetcher.Fetch(ctx, b.cfg.WebURL, b.cfg.WebUser, b.webPassword())
	default:
		return nil, fmt.Errorf("%s: %q", config.ErrModeUnsupport, b.cfg.Mode)
	}
}

// webPassword retrieves the CardDAV password from the OS keyring.
// A missing entry degrades to an empty password rather than an error.
func (b *Book) webPassword() string {
	pass, err := keyring.Get(config.KeyringService, config.KeyringWebPassKey)
	if err != nil {
		slog.Debug("Password retrieval failed (might be empty)",
			config.LogKeyComponent, config.CompAddrBook,
			config.LogKeyError, err,
		)
		return ""
	}
	return pass
}

// StoreWebPassword saves the CardDAV password in the OS keyring.
func StoreWebPassword(pass string) error {
	return keyring.Set(config.KeyringService, config.KeyringWebPassKey, pass)
}

// parse decodes the vCard stream into source rows. Malformed cards are
// skipped to maximize data recovery; cards without a birthday contribute no
// rows at all.
func parse(ctx context.Context, r io.Reader) (*parsed, error) {
	decoder := vcard.NewDecoder(r)
	p := &parsed{}
	groupSet := make(map[string]struct{})

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		card, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			slog.Warn(config.MsgSkippedCard,
				config.LogKeyComponent, config.CompAddrBook,
				config.LogKeyError, err,
			)
			continue
		}

		bday := card.Get(config.VCardBDAY)
		if bday == nil || bday.Value == "" {
			continue
		}

		name := config.FallbackName
		if fn := card.Get(config.VCardFN); fn != nil && fn.Value != "" {
			name = fn.Value
		} else if n := card.Get(config.VCardN); n != nil && n.Value != "" {
			name = n.Value
		}

		id := cardID(card, name, bday.Value)

		row := contacts.BirthdayRow{
			ContactID: id,
			Name:      name,
			Birthday:  bday.Value,
			Starred:   truthy(card.Value(config.VCardStarred)),
			Visible:   !truthy(card.Value(config.VCardInvisible)),
		}
		if photo := card.Get(config.VCardPhoto); photo != nil {
			row.PhotoRef = photo.Value
		}
		p.birthdays = append(p.birthdays, row)

		for _, value := range card.Values(config.VCardCategories) {
			for _, category := range strings.Split(value, ",") {
				category = strings.TrimSpace(category)
				if category == "" {
					continue
				}
				groupSet[category] = struct{}{}
				p.data = append(p.data, contacts.DataRow{
					ContactID: id,
					Mime:      config.MimeGroupMembership,
					Value:     category,
				})
			}
		}
		for _, tel := range card.Values(config.VCardTel) {
			p.data = append(p.data, contacts.DataRow{ContactID: id, Mime: config.MimePhone, Value: tel})
		}
		for _, email := range card.Values(config.VCardEmail) {
			p.data = append(p.data, contacts.DataRow{ContactID: id, Mime: config.MimeEmail, Value: email})
		}
		for _, impp := range card.Values(config.VCardIMPP) {
			if mime := messengerMime(impp); mime != "" {
				p.data = append(p.data, contacts.DataRow{ContactID: id, Mime: mime, Value: impp})
			}
		}
	}

	names := make([]string, 0, len(groupSet))
	for g := range groupSet {
		names = append(names, g)
	}
	sort.Strings(names)
	for _, g := range names {
		p.groups = append(p.groups, contacts.Group{ID: g, Title: g})
	}

	return p, nil
}

// cardID prefers the card's UID; cards without one get a deterministic
// salted hash so ids stay stable across refreshes.
func cardID(card vcard.Card, name, bday string) string {
	if uid := card.Value(config.VCardUID); uid != "" {
		return uid
	}
	input := fmt.Sprintf(config.FormatHashInput, name, bday, config.UIDSalt)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf("%x", hash[:config.UIDHashLength])
}

// messengerMime maps an IMPP URI scheme to its marker row mimetype.
func messengerMime(uri string) string {
	scheme, _, ok := strings.Cut(uri, ":")
	if !ok {
		return ""
	}
	switch strings.ToLower(scheme) {
	case config.SchemeWhatsApp:
		return config.MimeWhatsApp
	case config.SchemeSignal:
		return config.MimeSignal
	case config.SchemeTelegram:
		return config.MimeTelegram
	default:
		return ""
	}
}

// truthy interprets the loose boolean encodings seen in vCard extensions.
func truthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
