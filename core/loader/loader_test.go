package loader

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

type fakeFeature struct {
	name    string
	enabled bool
	err     error
	loaded  bool
}

func (f *fakeFeature) Name() string    { return f.name }
func (f *fakeFeature) IsEnabled() bool { return f.enabled }
func (f *fakeFeature) Load(fiber.Router) error {
	f.loaded = true
	return f.err
}

func TestManager_LoadAll(t *testing.T) {
	a := &fakeFeature{name: "lists", enabled: true}
	b := &fakeFeature{name: "export", enabled: false}
	m := NewManager()
	m.Register(a)
	m.Register(b)

	assert.NoError(t, m.LoadAll(fiber.New()))
	assert.True(t, a.loaded)
	assert.False(t, b.loaded)
	assert.Equal(t, []string{"lists"}, m.Names())
}

func TestManager_LoadAllError(t *testing.T) {
	m := NewManager()
	m.Register(&fakeFeature{name: "broken", enabled: true, err: errors.New("boom")})
	err := m.LoadAll(fiber.New())
	assert.ErrorContains(t, err, "broken")
}
