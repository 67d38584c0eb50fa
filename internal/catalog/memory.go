package catalog

import (
	"errors"
	"sort"
	"sync"
)

var ErrNotFound = errors.New("catalog entry not found")

// Repository is the read surface the handler layer depends on. Ordering is
// part of the contract: levels by display order, templates by chapter.
type Repository interface {
	Levels() ([]*Level, error)
	Plan(id string) (*Plan, error)
	Templates(levelID, semester string) ([]*TemplateMeta, error)
	Template(id string) (*TemplateMeta, error)
}

// MemoryRepo is an in-memory repository used when no Mongo is configured
// and in unit tests.
type MemoryRepo struct {
	mu        sync.RWMutex
	levels    map[string]*Level
	plans     map[string]*Plan
	templates map[string]*TemplateMeta
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		levels:    make(map[string]*Level),
		plans:     make(map[string]*Plan),
		templates: make(map[string]*TemplateMeta),
	}
}

func (m *MemoryRepo) AddLevel(l *Level) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.levels[l.ID] = l
}

func (m *MemoryRepo) AddPlan(p *Plan) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans[p.ID] = p
}

func (m *MemoryRepo) AddTemplate(t *TemplateMeta) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.templates[t.ID] = t
}

func (m *MemoryRepo) Levels() ([]*Level, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Level, 0, len(m.levels))
	for _, l := range m.levels {
		if l.IsActive {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DisplayOrder < out[j].DisplayOrder })
	return out, nil
}

func (m *MemoryRepo) Plan(id string) (*Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.plans[id]; ok {
		return p, nil
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) Templates(levelID, semester string) ([]*TemplateMeta, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*TemplateMeta{}
	for _, t := range m.templates {
		if t.IsActive && t.LevelID == levelID && t.Semester == semester {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChapterNumber < out[j].ChapterNumber })
	return out, nil
}

func (m *MemoryRepo) Template(id string) (*TemplateMeta, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if t, ok := m.templates[id]; ok {
		return t, nil
	}
	return nil, ErrNotFound
}
