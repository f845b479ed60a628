// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package itemmeta

import (
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/bureau-foundation/warden/lib/clock"
	"github.com/bureau-foundation/warden/lib/inventory"
	"github.com/bureau-foundation/warden/lib/item"
)

// DefaultNamespace is the tag namespace used when none is configured.
const DefaultNamespace = "warden"

// Tag key names within the namespace.
const (
	ExpireTimeKey      = "expire_time"
	AttributionUUIDKey = "attribution_uuid"
)

// NotApplicable is returned by RemainingTime for items without an
// expiry.
const NotApplicable time.Duration = -1

// NameResolver maps an identity to a display name for attribution
// lines.
type NameResolver interface {
	Name(id uuid.UUID) (string, bool)
}

// API is the complete metadata and policy surface. *Manager implements
// it; consumers depend on the interface.
type API interface {
	HasExpiry(it item.Item) bool
	SetExpiry(it item.Item, at time.Time) (item.Item, error)
	GetExpiry(it item.Item) (time.Time, bool)
	RemoveExpiry(it item.Item) item.Item
	ExtendExpiry(it item.Item, delta time.Duration) (item.Item, error)

	HasAttribution(it item.Item) bool
	SetAttribution(it item.Item, owner uuid.UUID) (item.Item, error)
	GetAttribution(it item.Item) (uuid.UUID, bool)
	RemoveAttribution(it item.Item) item.Item
	CopyWithAttribution(it item.Item, owner uuid.UUID) (item.Item, error)

	HasConflictingNBT(it item.Item) bool
	IsValidItemForAttribution(it item.Item) bool
	RefreshAnnotations(it item.Item) item.Item

	IsExpired(it item.Item) bool
	CanUse(it item.Item, actor uuid.UUID) bool
	CompareAttributions(a, b item.Item) bool
	RemainingTime(it item.Item) time.Duration

	PurgeExpired(inv inventory.Inventory) []item.Item
	CountAttributed(inv inventory.Inventory, owner uuid.UUID) int
}

var _ API = (*Manager)(nil)

// Manager implements API. It holds no mutable state and is safe for
// concurrent use.
type Manager struct {
	namespace      string
	expireKey      item.Key
	attributionKey item.Key

	clock   clock.Clock
	catalog item.Catalog
	names   NameResolver
	format  AnnotationFormat
	logger  *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithNamespace sets the tag namespace. It must be a valid key
// namespace; see item.Key.Validate.
func WithNamespace(namespace string) Option {
	return func(m *Manager) { m.namespace = namespace }
}

// WithClock sets the time source for expiry checks.
func WithClock(clk clock.Clock) Option {
	return func(m *Manager) { m.clock = clk }
}

// WithCatalog sets the material catalog used to classify items.
func WithCatalog(catalog item.Catalog) Option {
	return func(m *Manager) { m.catalog = catalog }
}

// WithNames sets the resolver for attribution line names.
func WithNames(names NameResolver) Option {
	return func(m *Manager) { m.names = names }
}

// WithFormat sets the annotation labels and timestamp layout.
func WithFormat(format AnnotationFormat) Option {
	return func(m *Manager) { m.format = format }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// New returns a Manager. Unset options default to the "warden"
// namespace, the real clock, the default catalog, no name resolver,
// the default annotation format, and a discarding logger.
func New(options ...Option) *Manager {
	m := &Manager{
		namespace: DefaultNamespace,
		clock:     clock.Real(),
		catalog:   item.DefaultCatalog(),
		format:    DefaultAnnotationFormat(),
	}
	for _, option := range options {
		option(m)
	}
	if m.logger == nil {
		m.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	m.format = m.format.withDefaults()
	m.expireKey = item.NewKey(m.namespace, ExpireTimeKey)
	m.attributionKey = item.NewKey(m.namespace, AttributionUUIDKey)
	return m
}

// Namespace returns the tag namespace.
func (m *Manager) Namespace() string { return m.namespace }

// ExpireKey returns the expiry tag key.
func (m *Manager) ExpireKey() item.Key { return m.expireKey }

// AttributionKey returns the attribution tag key.
func (m *Manager) AttributionKey() item.Key { return m.attributionKey }

// Catalog returns the material catalog.
func (m *Manager) Catalog() item.Catalog { return m.catalog }

// Now returns the manager's current time.
func (m *Manager) Now() time.Time { return m.clock.Now() }
