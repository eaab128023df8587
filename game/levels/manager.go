package levels

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/wricardo/mcp-training/labyrinth/game/engine"
)

var (
	ErrLevelNotFound = errors.New("level not found")
	ErrNoLevels      = errors.New("no levels available")
)

var levelFilePattern = regexp.MustCompile(`^level(\d+)\.(json|ya?ml)$`)

// ParseFilename returns the level number of a level<N>.json|yaml|yml file name
func ParseFilename(name string) (int, bool) {
	match := levelFilePattern.FindStringSubmatch(name)
	if match == nil {
		return 0, false
	}
	n, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// LevelInfo describes one level file for listings
type LevelInfo struct {
	Number   int    `json:"number"`
	Filename string `json:"filename"`
	Name     string `json:"name"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// Manager handles level discovery, loading and caching
type Manager struct {
	levelsDir string
	logger    *zap.Logger

	mu     sync.RWMutex
	files  map[int]string
	levels map[int]*engine.Level

	loads singleflight.Group
}

// NewManager creates a level manager over the level<N> files in levelsDir
func NewManager(levelsDir string, logger *zap.Logger) (*Manager, error) {
	info, err := os.Stat(levelsDir)
	if err != nil {
		return nil, errors.WithMessagef(err, "levels directory %s", levelsDir)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("levels directory %s is not a directory", levelsDir)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		levelsDir: levelsDir,
		logger:    logger,
		levels:    make(map[int]*engine.Level),
	}

	files, err := m.scan()
	if err != nil {
		return nil, err
	}
	m.files = files

	logger.Info("levels discovered", zap.String("dir", levelsDir), zap.Int("count", len(files)))
	return m, nil
}

// Dir returns the directory the manager reads from
func (m *Manager) Dir() string {
	return m.levelsDir
}

// Count returns the number of level files found
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.files)
}

// Numbers returns the available level numbers in ascending order
func (m *Manager) Numbers() []int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	numbers := make([]int, 0, len(m.files))
	for n := range m.files {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)
	return numbers
}

// Get loads a level by number. Parsed levels are cached and concurrent
// loads of the same level share one read.
func (m *Manager) Get(number int) (*engine.Level, error) {
	m.mu.RLock()
	// Check cache first
	if level, ok := m.levels[number]; ok {
		m.mu.RUnlock()
		return level, nil
	}
	filename, ok := m.files[number]
	m.mu.RUnlock()

	if !ok {
		return nil, errors.Wrapf(ErrLevelNotFound, "level %d", number)
	}

	v, err, _ := m.loads.Do(strconv.Itoa(number), func() (interface{}, error) {
		level, err := engine.LoadLevel(filepath.Join(m.levelsDir, filename))
		if err != nil {
			return nil, err
		}

		m.mu.Lock()
		m.levels[number] = level
		m.mu.Unlock()

		m.logger.Debug("level loaded", zap.Int("level", number), zap.String("file", filename))
		return level, nil
	})
	if err != nil {
		return nil, errors.WithMessagef(err, "load level %d", number)
	}

	return v.(*engine.Level), nil
}

// Random picks a level uniformly among the available numbers
func (m *Manager) Random() (int, *engine.Level, error) {
	numbers := m.Numbers()
	if len(numbers) == 0 {
		return 0, nil, ErrNoLevels
	}

	number := numbers[rand.IntN(len(numbers))]
	level, err := m.Get(number)
	if err != nil {
		return 0, nil, err
	}
	return number, level, nil
}

// List returns information about every loadable level
func (m *Manager) List() ([]*LevelInfo, error) {
	var infos []*LevelInfo

	for _, n := range m.Numbers() {
		level, err := m.Get(n)
		if err != nil {
			// Skip invalid levels
			m.logger.Warn("skipping invalid level", zap.Int("level", n), zap.Error(err))
			continue
		}

		width, height, err := engine.Dimensions(level.Tiles)
		if err != nil {
			continue
		}

		m.mu.RLock()
		filename := m.files[n]
		m.mu.RUnlock()

		infos = append(infos, &LevelInfo{
			Number:   n,
			Filename: filename,
			Name:     level.Name,
			Width:    width,
			Height:   height,
		})
	}

	return infos, nil
}

// RefreshCache rescans the directory and drops every cached level
func (m *Manager) RefreshCache() error {
	files, err := m.scan()
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.files = files
	m.levels = make(map[int]*engine.Level)
	return nil
}

// Save writes a level to level<number>.json and caches it
func (m *Manager) Save(number int, level *engine.Level) error {
	// Validate level before saving
	if err := engine.ValidateLevel(level); err != nil {
		return err
	}

	data, err := engine.EncodeLevel(level)
	if err != nil {
		return errors.WithMessage(err, "marshal level")
	}

	filename := "level" + strconv.Itoa(number) + ".json"
	if err := os.WriteFile(filepath.Join(m.levelsDir, filename), data, 0o644); err != nil {
		return errors.WithMessage(err, "write level file")
	}

	// Update cache
	m.mu.Lock()
	m.files[number] = filename
	m.levels[number] = level
	m.mu.Unlock()

	return nil
}

func (m *Manager) scan() (map[int]string, error) {
	entries, err := os.ReadDir(m.levelsDir)
	if err != nil {
		return nil, errors.WithMessage(err, "read levels directory")
	}

	files := make(map[int]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		n, ok := ParseFilename(entry.Name())
		if !ok {
			continue
		}
		if existing, dup := files[n]; dup {
			// ReadDir is sorted, so the .json file wins over .yaml/.yml
			m.logger.Warn("duplicate level number, ignoring file",
				zap.Int("level", n), zap.String("kept", existing), zap.String("ignored", entry.Name()))
			continue
		}
		files[n] = entry.Name()
	}
	return files, nil
}
