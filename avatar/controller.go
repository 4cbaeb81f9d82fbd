// Package avatar loads avatar descriptors and announces their lifetime.
package avatar

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dmisol/animface/blendshape"
	"github.com/dmisol/animface/morph"
	"github.com/google/uuid"
	"gopkg.in/yaml.v2"
)

var ErrUnknownFileType = errors.New("unknown file type")

// Descriptor lists what an avatar file offers.
type Descriptor struct {
	Name  string `yaml:"name"`
	Clips []Clip `yaml:"clips"`
}

type Clip struct {
	Name    string  `yaml:"name"`
	Default float64 `yaml:"default,omitempty"` // weight committed on load
}

// Info describes the loaded avatar.
type Info struct {
	ID     string
	Name   string
	Keys   []morph.Key
	Buffer *blendshape.Buffer
}

type Hook func(Info)

// Controller owns at most one avatar at a time.
type Controller struct {
	sink blendshape.Sink

	mu        sync.Mutex
	current   *Info
	preLoaded []Hook
	loaded    []Hook
	disposing []func()
}

func NewController(sink blendshape.Sink) *Controller {
	return &Controller{sink: sink}
}

func (c *Controller) OnPreLoaded(h Hook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.preLoaded = append(c.preLoaded, h)
}

func (c *Controller) OnLoaded(h Hook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = append(c.loaded, h)
}

func (c *Controller) OnDisposing(h func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disposing = append(c.disposing, h)
}

// ReadDescriptor parses an avatar descriptor file.
func ReadDescriptor(name string) (d *Descriptor, err error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
	default:
		return nil, fmt.Errorf("%s: %w", name, ErrUnknownFileType)
	}

	var cont []byte
	if cont, err = os.ReadFile(name); err != nil {
		return
	}
	d = &Descriptor{}
	if err = yaml.Unmarshal(cont, d); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return
}

// Load reads the descriptor and replaces the current avatar with it. On error
// the current avatar is kept.
func (c *Controller) Load(name string) (info Info, err error) {
	var d *Descriptor
	if d, err = ReadDescriptor(name); err != nil {
		c.Println("load", err)
		return
	}
	return c.Set(d), nil
}

// Set releases the current avatar and installs d.
func (c *Controller) Set(d *Descriptor) Info {
	c.Release()

	buf := blendshape.NewBuffer(c.sink)
	info := Info{
		ID:     uuid.NewString(),
		Name:   d.Name,
		Buffer: buf,
	}
	for _, clip := range d.Clips {
		k := morph.Key(clip.Name)
		info.Keys = append(info.Keys, k)
		if clip.Default != 0 {
			buf.Accumulate(k, clip.Default)
		}
	}
	buf.Apply()

	c.mu.Lock()
	c.current = &info
	pre := append([]Hook(nil), c.preLoaded...)
	post := append([]Hook(nil), c.loaded...)
	c.mu.Unlock()

	c.Println("loaded", info.Name, info.ID, len(info.Keys), "clips")
	for _, h := range pre {
		h(info)
	}
	for _, h := range post {
		h(info)
	}
	return info
}

// Release drops the current avatar; it does nothing when none is loaded.
func (c *Controller) Release() {
	c.mu.Lock()
	cur := c.current
	c.current = nil
	hooks := append([]func(){}, c.disposing...)
	c.mu.Unlock()

	if cur == nil {
		return
	}
	c.Println("disposing", cur.Name, cur.ID)
	for _, h := range hooks {
		h()
	}
}

// Current returns the loaded avatar.
func (c *Controller) Current() (info Info, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current == nil {
		return
	}
	return *c.current, true
}

func (c *Controller) Println(i ...interface{}) {
	log.Println("avatar", i)
}
