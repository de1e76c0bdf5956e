package bullets

import (
	"errors"

	"github.com/google/uuid"
	"github.com/jakecoffman/cp"
)

var ErrNilEnvironment = errors.New("bullets: nil environment")

// EnvironmentEntry asks for one pool of PoolSize bullets of Kit. Parent is a
// canvas hint for where the pool's items live.
type EnvironmentEntry struct {
	Kit      *Kit
	PoolSize int
	Parent   string
	ZIndex   int
}

// Environment is one mountable configuration. Viewport is the active rect
// for kits that follow the viewport.
type Environment struct {
	ID       uuid.UUID
	Name     string
	Viewport cp.BB
	Entries  []EnvironmentEntry
}

func NewEnvironment(name string, viewport cp.BB, entries ...EnvironmentEntry) *Environment {
	return &Environment{
		ID:       uuid.New(),
		Name:     name,
		Viewport: viewport,
		Entries:  entries,
	}
}

// Kit finds an entry's kit by name.
func (e *Environment) Kit(name string) *Kit {
	if e == nil {
		return nil
	}
	for _, entry := range e.Entries {
		if entry.Kit != nil && entry.Kit.Name == name {
			return entry.Kit
		}
	}
	return nil
}
