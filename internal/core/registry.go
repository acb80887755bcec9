package core

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// ListQuery is a list or export request as it arrives from a screen.
type ListQuery struct {
	Query  string
	From   string
	To     string
	Branch string
	Status string
	Page   int

	// PrevKey is the FilterKey of the page the caller is showing. When the
	// current filters produce a different key, Page is reset to 1.
	PrevKey string
}

// ListPage is one rendered page of a screen.
type ListPage struct {
	Screen       string `json:"screen"`
	Rows         any    `json:"rows"`
	Page         int    `json:"page"`
	PageSize     int    `json:"pageSize"`
	TotalMatched int    `json:"totalMatched"`
	TotalPages   int    `json:"totalPages"`
	FilterKey    string `json:"filterKey"`
}

// screenEnv is what a screen needs from the service to load its rows.
type screenEnv struct {
	backend  Backend
	location *time.Location
	pageSize int
}

// Screen is a registered list screen.
type Screen struct {
	Key    string `json:"key"`
	Label  string `json:"label"`
	Entity string `json:"entity"`

	// Categories lists the categorical filters the screen understands.
	Categories []string `json:"categories"`

	page   func(ctx context.Context, env screenEnv, q ListQuery, spec FilterSpec, page int) (*ListPage, error)
	table  func(ctx context.Context, env screenEnv, q ListQuery, spec FilterSpec, page int, viewer *User) (*ListPage, ExportTable, error)
	export func(ctx context.Context, env screenEnv, q ListQuery, spec FilterSpec, viewer *User) (ExportTable, error)
}

var (
	screens   = make(map[string]Screen)
	screensMu sync.RWMutex
)

// RegisterScreen adds a screen to the registry.
// Panics if a screen with the same key is already registered.
func RegisterScreen(s Screen) {
	screensMu.Lock()
	defer screensMu.Unlock()

	if _, exists := screens[s.Key]; exists {
		panic(fmt.Sprintf("screen already registered: %s", s.Key))
	}
	screens[s.Key] = s
}

// GetScreen returns a screen by key.
func GetScreen(key string) (Screen, bool) {
	screensMu.RLock()
	defer screensMu.RUnlock()

	s, ok := screens[key]
	return s, ok
}

// Screens returns all registered screens sorted by key.
func Screens() []Screen {
	screensMu.RLock()
	defer screensMu.RUnlock()

	result := make([]Screen, 0, len(screens))
	for _, s := range screens {
		result = append(result, s)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Key < result[j].Key
	})
	return result
}

// screenDef is the typed description of a screen, erased by defineScreen.
type screenDef[T any] struct {
	Key    string
	Label  string
	Entity string

	// Fetch loads the full row set. Backend-side narrowing is allowed but the
	// local filter is always applied on top.
	Fetch  func(ctx context.Context, b Backend, q ListQuery) ([]T, error)
	Fields ScreenFields[T]

	// Sort, when set, orders rows before filtering.
	Sort func(a, b T) bool

	Headers func(viewer *User) []string
	Cells   func(viewer *User, loc *time.Location) func(T) []string
}

func defineScreen[T any](d screenDef[T]) Screen {
	cats := make([]string, 0, len(d.Fields.Categories))
	for name := range d.Fields.Categories {
		cats = append(cats, name)
	}
	sort.Strings(cats)

	load := func(ctx context.Context, env screenEnv, q ListQuery, spec FilterSpec) ([]T, error) {
		rows, err := d.Fetch(ctx, env.backend, q)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", d.Key, err)
		}
		if d.Sort != nil {
			rows = SortRows(rows, d.Sort)
		}
		fields := d.Fields
		fields.Location = env.location
		return Filter(rows, spec, fields), nil
	}

	pageOf := func(filtered []T, page, pageSize int, spec FilterSpec) (*ListPage, []T) {
		p := Paginate(filtered, page, pageSize)
		return &ListPage{
			Screen:       d.Key,
			Rows:         p.Rows,
			Page:         p.Page,
			PageSize:     p.PageSize,
			TotalMatched: p.TotalMatched,
			TotalPages:   p.TotalPages,
			FilterKey:    spec.Key(),
		}, p.Rows
	}

	return Screen{
		Key:        d.Key,
		Label:      d.Label,
		Entity:     d.Entity,
		Categories: cats,
		page: func(ctx context.Context, env screenEnv, q ListQuery, spec FilterSpec, page int) (*ListPage, error) {
			filtered, err := load(ctx, env, q, spec)
			if err != nil {
				return nil, err
			}
			lp, _ := pageOf(filtered, page, env.pageSize, spec)
			return lp, nil
		},
		table: func(ctx context.Context, env screenEnv, q ListQuery, spec FilterSpec, page int, viewer *User) (*ListPage, ExportTable, error) {
			filtered, err := load(ctx, env, q, spec)
			if err != nil {
				return nil, ExportTable{}, err
			}
			lp, rows := pageOf(filtered, page, env.pageSize, spec)
			return lp, BuildExportTable(d.Entity, d.Headers(viewer), rows, d.Cells(viewer, env.location)), nil
		},
		export: func(ctx context.Context, env screenEnv, q ListQuery, spec FilterSpec, viewer *User) (ExportTable, error) {
			filtered, err := load(ctx, env, q, spec)
			if err != nil {
				return ExportTable{}, err
			}
			return BuildExportTable(d.Entity, d.Headers(viewer), filtered, d.Cells(viewer, env.location)), nil
		},
	}
}
