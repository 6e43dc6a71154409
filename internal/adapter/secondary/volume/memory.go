package volume

import (
	"fmt"
	"sync"

	"volumectl/internal/domain"
)

// MemoryController implements domain.AudioControl in memory.
// Useful for testing or hosts without a mixer.
type MemoryController struct {
	mu        sync.Mutex
	levels    map[domain.Stream]int
	maxLevel  int
	err       error
	lastFlags domain.WriteFlags
	writes    int
}

// NewMemoryController creates a controller whose streams start at level 0.
func NewMemoryController(maxLevel int) *MemoryController {
	return &MemoryController{
		levels:   make(map[domain.Stream]int),
		maxLevel: maxLevel,
	}
}

// SetLevel stores a level directly, bypassing range checks.
func (m *MemoryController) SetLevel(stream domain.Stream, level int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.levels[stream] = level
}

// SetMaxLevel changes the reported maximum.
func (m *MemoryController) SetMaxLevel(max int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxLevel = max
}

// FailWith makes every following call return err. A nil err restores normal behavior.
func (m *MemoryController) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Writes returns how many successful writes were made.
func (m *MemoryController) Writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.writes
}

// LastFlags returns the flags of the most recent write.
func (m *MemoryController) LastFlags() domain.WriteFlags {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastFlags
}

func (m *MemoryController) ReadLevel(stream domain.Stream) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	return m.levels[stream], nil
}

func (m *MemoryController) ReadMaxLevel(stream domain.Stream) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return 0, m.err
	}
	return m.maxLevel, nil
}

func (m *MemoryController) WriteLevel(stream domain.Stream, level int, flags domain.WriteFlags) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if level < 0 || level > m.maxLevel {
		return fmt.Errorf("invalid level %d (max %d)", level, m.maxLevel)
	}
	m.levels[stream] = level
	m.lastFlags = flags
	m.writes++
	return nil
}

func (m *MemoryController) Platform() string {
	return "memory"
}
