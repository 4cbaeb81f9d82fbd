package defs

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v2"
)

type PortalConf struct {
	Listen string `yaml:"listen" env:"ANIMFACE_LISTEN"`

	Key    string `yaml:"key" env:"LIVEKIT_KEY"`
	Secret string `yaml:"secret" env:"LIVEKIT_SECRET"`
	Ws     string `yaml:"ws" env:"LIVEKIT_WS"`

	Hall string `yaml:"hall" env:"LIVEKIT_HALL"`

	Avatar string `yaml:"avatar" env:"ANIMFACE_AVATAR"` // descriptor loaded on start
	FPS    int    `yaml:"fps" env:"ANIMFACE_FPS"`

	Preview PreviewConf `yaml:"preview"`
	Blink   BlinkConf   `yaml:"blink"`
	LipSync LipSyncConf `yaml:"lipsync"`

	Expressions []Expression `yaml:"expressions"`
}

type PreviewConf struct {
	W int `yaml:"width" env:"ANIMFACE_PREVIEW_W"`
	H int `yaml:"height" env:"ANIMFACE_PREVIEW_H"`
}

type BlinkConf struct {
	Interval time.Duration `yaml:"interval" env:"ANIMFACE_BLINK_INTERVAL"`
	Duration time.Duration `yaml:"duration" env:"ANIMFACE_BLINK_DURATION"`
}

type LipSyncConf struct {
	Gain float64 `yaml:"gain" env:"ANIMFACE_LIPSYNC_GAIN"`
}

// LoadConf reads a yaml file, then lets the environment override it.
func LoadConf(name string) (c *PortalConf, err error) {
	var cont []byte
	if cont, err = os.ReadFile(name); err != nil {
		return
	}
	c = &PortalConf{}
	if err = yaml.Unmarshal(cont, c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	if err = env.Parse(c); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	c.defaults()
	return
}

func (c *PortalConf) defaults() {
	if c.Listen == "" {
		c.Listen = fmt.Sprintf(":%d", Port)
	}
	if c.FPS <= 0 {
		c.FPS = FPS
	}
	if c.Hall == "" {
		c.Hall = "ft"
	}
	if c.Preview.W <= 0 {
		c.Preview.W = 640
	}
	if c.Preview.H <= 0 {
		c.Preview.H = 360
	}
	if c.LipSync.Gain <= 0 {
		c.LipSync.Gain = 1
	}
}
