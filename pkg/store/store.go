// Package store is the single source of truth for panel layout state. It
// bridges the in-memory records that panels mutate every frame and the
// durable key-value backend that survives restarts, and it owns the
// cross-panel concerns: z ordering, fullscreen exclusivity, group
// membership, and the layout-reset broadcast.
package store

import (
	"encoding/json"
	"io"
	"log"
	"sort"
	"sync"

	"github.com/flowdeck/flowdeck/pkg/layout"
	"github.com/flowdeck/flowdeck/pkg/model"
)

// Durable storage keys. One entry per panel id plus one shared entry for
// group membership.
const (
	layoutKeyPrefix = "overlayPositionAndSize_"
	groupsKey       = "overlayGroups"
)

type groupsRecord struct {
	Groups map[string][]string `json:"groups"`
}

// ArrangeMode selects how ArrangeAll repositions the open panels.
type ArrangeMode string

const (
	ArrangeCascade ArrangeMode = "cascade"
	ArrangeTile    ArrangeMode = "tile"
	ArrangeStack   ArrangeMode = "stack"
)

// ResetListener receives the registered defaults when the layout is
// reset. Listeners re-apply dock positions against their live container,
// which the store itself cannot see.
type ResetListener func(specs map[string]model.InitialPanelSpec)

// Store holds every PanelLayout for the session. Safe for use from the
// bubbletea loop and from watcher/debouncer goroutines.
type Store struct {
	mu      sync.Mutex
	opts    layout.Options
	storage Storage
	logger  *log.Logger

	panels map[string]*model.PanelLayout
	groups map[string][]string
	specs  map[string]model.InitialPanelSpec

	resizing    bool
	lastClicked string
	lastVisible string

	nextSub   int
	listeners map[int]ResetListener
}

// New creates a store over the given backend. A nil storage falls back to
// an in-memory backend; a nil logger discards diagnostics.
func New(storage Storage, opts layout.Options, logger *log.Logger) *Store {
	if storage == nil {
		storage = NewMemoryStorage()
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Store{
		opts:      opts.Normalized(),
		storage:   storage,
		logger:    logger,
		panels:    make(map[string]*model.PanelLayout),
		groups:    make(map[string][]string),
		specs:     make(map[string]model.InitialPanelSpec),
		listeners: make(map[int]ResetListener),
	}
}

// Options returns the geometry options the store was built with.
func (s *Store) Options() layout.Options {
	return s.opts
}

// RegisterSpec remembers a panel's defaults for seeding and reset.
func (s *Store) RegisterSpec(spec model.InitialPanelSpec) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.specs[spec.ID] = spec
}

// Spec returns the registered defaults for a panel id.
func (s *Store) Spec(id string) (model.InitialPanelSpec, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	spec, ok := s.specs[id]
	return spec, ok
}

// Has reports whether a record exists for the id.
func (s *Store) Has(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.panels[id]
	return ok
}

// Get returns a copy of the record for id.
func (s *Store) Get(id string) (*model.PanelLayout, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.panels[id]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// Snapshot returns copies of every record, ordered back to front.
func (s *Store) Snapshot() []*model.PanelLayout {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.PanelLayout, 0, len(s.panels))
	for _, p := range s.panels {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ZIndex != out[j].ZIndex {
			return out[i].ZIndex < out[j].ZIndex
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Groups returns a copy of the group membership map.
func (s *Store) Groups() map[string][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]string, len(s.groups))
	for name, members := range s.groups {
		out[name] = append([]string(nil), members...)
	}
	return out
}

// SetItemState creates the record with defaults if absent and merges the
// patch over it. A group change moves the id between membership lists
// atomically; when the record also syncs dimensions, its size is pushed
// to the other synced members of the new group right away.
func (s *Store) SetItemState(id string, patch model.Patch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setItemStateLocked(id, patch)
}

func (s *Store) setItemStateLocked(id string, patch model.Patch) *model.PanelLayout {
	p, ok := s.panels[id]
	if !ok {
		p = s.defaultRecordLocked(id)
		s.panels[id] = p
	}

	oldGroup := p.Group
	patch.Apply(p)

	if patch.Group != nil && p.Group != oldGroup {
		s.removeFromGroupLocked(oldGroup, id)
		if p.Group != "" {
			s.addToGroupLocked(p.Group, id)
			if p.SyncDimensions {
				s.syncGroupLocked(p.Group, id)
			}
		}
	}
	return p
}

func (s *Store) defaultRecordLocked(id string) *model.PanelLayout {
	return &model.PanelLayout{
		ID:           id,
		Width:        s.opts.FallbackSize,
		Height:       s.opts.FallbackSize,
		DockPosition: model.DockFree,
		ZIndex:       s.opts.ZFloor + 1,
	}
}

func (s *Store) addToGroupLocked(group, id string) {
	for _, member := range s.groups[group] {
		if member == id {
			return
		}
	}
	s.groups[group] = append(s.groups[group], id)
}

func (s *Store) removeFromGroupLocked(group, id string) {
	if group == "" {
		return
	}
	members := s.groups[group]
	for i, member := range members {
		if member == id {
			s.groups[group] = append(members[:i], members[i+1:]...)
			break
		}
	}
	if len(s.groups[group]) == 0 {
		delete(s.groups, group)
	}
}

// Save serializes the record (and the group map, when the record belongs
// to a group) into durable storage. Write failures are logged and
// swallowed; geometry keeps working in memory.
func (s *Store) Save(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveLocked(id)
}

func (s *Store) saveLocked(id string) {
	p, ok := s.panels[id]
	if !ok {
		s.logger.Printf("store: save for unknown panel %q ignored", id)
		return
	}

	raw, err := json.Marshal(p)
	if err != nil {
		s.logger.Printf("store: marshal %q: %v", id, err)
		return
	}
	if err := s.storage.Set(layoutKeyPrefix+id, raw); err != nil {
		s.logger.Printf("store: persist %q: %v", id, err)
	}

	if p.Group != "" {
		s.saveGroupsLocked()
	}
}

func (s *Store) saveGroupsLocked() {
	raw, err := json.Marshal(groupsRecord{Groups: s.groups})
	if err != nil {
		s.logger.Printf("store: marshal groups: %v", err)
		return
	}
	if err := s.storage.Set(groupsKey, raw); err != nil {
		s.logger.Printf("store: persist groups: %v", err)
	}
}

// Load reads the durable record for id and the shared group map into
// memory. Absent or corrupt entries fall back to defaults. Idempotent.
func (s *Store) Load(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(id)
	s.loadGroupsLocked()
}

// LoadAll loads every persisted panel record plus the group map. Used at
// startup so arrangement commands see panels that have not mounted yet.
func (s *Store) LoadAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys, err := s.storage.Keys(layoutKeyPrefix)
	if err != nil {
		s.logger.Printf("store: list keys: %v", err)
		return
	}
	for _, key := range keys {
		s.loadLocked(key[len(layoutKeyPrefix):])
	}
	s.loadGroupsLocked()
}

func (s *Store) loadLocked(id string) {
	raw, ok := s.storage.Get(layoutKeyPrefix + id)
	if !ok {
		return
	}
	var rec model.PanelLayout
	if err := json.Unmarshal(raw, &rec); err != nil {
		s.logger.Printf("store: corrupt record for %q ignored: %v", id, err)
		return
	}
	rec.ID = id
	s.setItemStateLocked(id, recordPatch(rec))
}

func (s *Store) loadGroupsLocked() {
	raw, ok := s.storage.Get(groupsKey)
	if !ok {
		return
	}
	var rec groupsRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		s.logger.Printf("store: corrupt group map ignored: %v", err)
		return
	}
	for name, members := range rec.Groups {
		for _, id := range members {
			s.addToGroupLocked(name, id)
		}
	}
}

// recordPatch rebuilds a full patch from a stored record so loading goes
// through the same merge path as live mutations.
func recordPatch(rec model.PanelLayout) model.Patch {
	patch := model.Patch{
		Width:          model.Int(rec.Width),
		Height:         model.Int(rec.Height),
		Left:           model.Int(rec.Left),
		Top:            model.Int(rec.Top),
		DockPosition:   model.Dock(rec.DockPosition),
		FullWidth:      model.Bool(rec.FullWidth),
		FullHeight:     model.Bool(rec.FullHeight),
		ZIndex:         model.Int(rec.ZIndex),
		FullScreen:     model.Bool(rec.FullScreen),
		Group:          model.Str(rec.Group),
		SyncDimensions: model.Bool(rec.SyncDimensions),
	}
	if rec.PrevWidth == nil && rec.PrevHeight == nil && rec.PrevLeft == nil && rec.PrevTop == nil {
		patch.ClearPrev = true
	} else {
		patch.PrevWidth = rec.PrevWidth
		patch.PrevHeight = rec.PrevHeight
		patch.PrevLeft = rec.PrevLeft
		patch.PrevTop = rec.PrevTop
	}
	return patch
}

// BringToFront gives the panel the strictly highest z rank among
// non-fullscreen panels. The maximum is recomputed from current state on
// every call, so rapid interleaved clicks cannot produce a stale rank.
// Fullscreen panels keep their reserved rank.
func (s *Store) BringToFront(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bringToFrontLocked(id)
}

func (s *Store) bringToFrontLocked(id string) {
	p, ok := s.panels[id]
	if !ok {
		s.logger.Printf("store: bringToFront for unknown panel %q ignored", id)
		return
	}
	if p.FullScreen {
		return
	}

	maxZ := s.opts.ZFloor
	for otherID, q := range s.panels {
		if otherID == id || q.FullScreen {
			continue
		}
		if q.ZIndex > maxZ {
			maxZ = q.ZIndex
		}
	}
	p.ZIndex = maxZ + 1
	s.lastClicked = id
	s.saveLocked(id)
}

// ShowPanel records the panel as the most recently shown one and raises
// it.
func (s *Store) ShowPanel(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastVisible = id
	s.bringToFrontLocked(id)
}

// SetFullScreen toggles fullscreen for a panel. Entering snapshots the
// current geometry and expands to the viewport; at most one panel is
// fullscreen at a time, so any other fullscreen panel is restored first.
// Leaving restores the exact pre-fullscreen geometry.
func (s *Store) SetFullScreen(id string, on bool, viewport model.Rect) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.panels[id]
	if !ok {
		s.logger.Printf("store: setFullScreen for unknown panel %q ignored", id)
		return
	}
	if on == p.FullScreen {
		return
	}

	if on {
		for otherID, q := range s.panels {
			if otherID != id && q.FullScreen {
				s.exitFullScreenLocked(q)
			}
		}
		p.PrevWidth = model.Int(p.Width)
		p.PrevHeight = model.Int(p.Height)
		p.PrevLeft = model.Int(p.Left)
		p.PrevTop = model.Int(p.Top)
		r := layout.FullScreenBounds(viewport)
		p.Left, p.Top, p.Width, p.Height = r.X, r.Y, r.Width, r.Height
		p.FullScreen = true
		p.ZIndex = s.opts.ZFullScreen
		s.saveLocked(id)
		return
	}

	s.exitFullScreenLocked(p)
	s.bringToFrontLocked(id)
}

func (s *Store) exitFullScreenLocked(p *model.PanelLayout) {
	if p.PrevWidth != nil {
		p.Width = *p.PrevWidth
	}
	if p.PrevHeight != nil {
		p.Height = *p.PrevHeight
	}
	if p.PrevLeft != nil {
		p.Left = *p.PrevLeft
	}
	if p.PrevTop != nil {
		p.Top = *p.PrevTop
	}
	p.PrevWidth, p.PrevHeight, p.PrevLeft, p.PrevTop = nil, nil, nil, nil
	p.FullScreen = false
	p.ZIndex = s.opts.ZFloor + 1
	s.saveLocked(p.ID)
}

// ArrangeAll repositions every non-fullscreen panel per the geometry
// engine and persists each. Arranged panels become free-docked.
func (s *Store) ArrangeAll(mode ArrangeMode, viewport model.Rect) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var open []*model.PanelLayout
	for _, p := range s.panels {
		if !p.FullScreen {
			open = append(open, p)
		}
	}
	sort.Slice(open, func(i, j int) bool { return open[i].ID < open[j].ID })

	var placements []layout.Placement
	switch mode {
	case ArrangeCascade:
		placements = layout.Cascade(open, s.opts)
	case ArrangeTile:
		placements = layout.Tile(open, viewport, s.opts)
	case ArrangeStack:
		placements = layout.Stack(open, s.opts)
	default:
		s.logger.Printf("store: unknown arrange mode %q ignored", mode)
		return
	}

	for _, pl := range placements {
		p, ok := s.panels[pl.ID]
		if !ok {
			continue
		}
		p.Left, p.Top = pl.Rect.X, pl.Rect.Y
		p.Width, p.Height = pl.Rect.Width, pl.Rect.Height
		p.DockPosition = model.DockFree
		s.saveLocked(pl.ID)
	}
}

// SyncGroupDimensions copies width/height from the reference member (the
// explicit source, or else the first member) to every other member with
// SyncDimensions set. Missing members are skipped.
func (s *Store) SyncGroupDimensions(group, sourceID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncGroupLocked(group, sourceID)
}

func (s *Store) syncGroupLocked(group, sourceID string) {
	members := s.groups[group]
	if len(members) == 0 {
		return
	}

	var src *model.PanelLayout
	if sourceID != "" {
		for _, id := range members {
			if id == sourceID {
				src = s.panels[id]
				break
			}
		}
	}
	if src == nil {
		for _, id := range members {
			if p, ok := s.panels[id]; ok {
				src = p
				break
			}
		}
	}
	if src == nil {
		return
	}

	for _, id := range members {
		if id == src.ID {
			continue
		}
		p, ok := s.panels[id]
		if !ok || !p.SyncDimensions {
			continue
		}
		if p.Width == src.Width && p.Height == src.Height {
			continue
		}
		p.Width = src.Width
		p.Height = src.Height
		s.saveLocked(id)
	}
}

// ResetAll clears durable storage and regenerates every tracked panel
// from its registered defaults, then broadcasts so mounted panels
// re-apply their dock position against the live container.
func (s *Store) ResetAll() {
	s.mu.Lock()

	if keys, err := s.storage.Keys(layoutKeyPrefix); err == nil {
		for _, key := range keys {
			if err := s.storage.Delete(key); err != nil {
				s.logger.Printf("store: delete %q: %v", key, err)
			}
		}
	} else {
		s.logger.Printf("store: list keys: %v", err)
	}
	if err := s.storage.Delete(groupsKey); err != nil {
		s.logger.Printf("store: delete groups: %v", err)
	}

	s.groups = make(map[string][]string)
	for id := range s.panels {
		s.resetRecordLocked(id)
	}

	specs, listeners := s.broadcastStateLocked()
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(specs)
	}
}

// ResetOne regenerates a single panel from its defaults, clearing only
// that panel's durable entry.
func (s *Store) ResetOne(id string) {
	s.mu.Lock()

	if err := s.storage.Delete(layoutKeyPrefix + id); err != nil {
		s.logger.Printf("store: delete %q: %v", id, err)
	}
	s.resetRecordLocked(id)
	s.saveGroupsLocked()

	specs, listeners := s.broadcastStateLocked()
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(specs)
	}
}

func (s *Store) resetRecordLocked(id string) {
	old := s.panels[id]
	if old != nil {
		s.removeFromGroupLocked(old.Group, id)
	}

	spec, ok := s.specs[id]
	if !ok {
		s.panels[id] = s.defaultRecordLocked(id)
		return
	}

	// Container bounds are unknown here; FullWidth/FullHeight panels get
	// their real extent when the owning component re-docks on broadcast.
	p := layout.Seed(spec, model.Rect{}, s.opts)
	s.panels[id] = p
	if p.Group != "" {
		s.addToGroupLocked(p.Group, id)
	}
}

func (s *Store) broadcastStateLocked() (map[string]model.InitialPanelSpec, []ResetListener) {
	specs := make(map[string]model.InitialPanelSpec, len(s.specs))
	for id, spec := range s.specs {
		specs[id] = spec
	}
	listeners := make([]ResetListener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	return specs, listeners
}

// SubscribeReset registers a reset listener and returns its
// unsubscribe function.
func (s *Store) SubscribeReset(fn ResetListener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// SetResizing flips the shared resize-in-progress flag read by other
// panels' hover auto-resize logic.
func (s *Store) SetResizing(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resizing = on
}

// IsResizing reports whether any panel has a resize gesture in flight.
func (s *Store) IsResizing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resizing
}

// LastClickedID returns the id most recently brought to front.
func (s *Store) LastClickedID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastClicked
}

// LastVisibleID returns the id most recently shown.
func (s *Store) LastVisibleID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastVisible
}
