// Package settings holds the persisted configuration blob of an encoder
// and the schema of the properties a host renders for it.
package settings

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	KeyCustomSettings        = "FFmpeg.CustomSettings"
	KeyThreads               = "FFmpeg.Threads"
	KeyGPU                   = "FFmpeg.GPU"
	KeyKeyFramesIntervalType = "KeyFrames.IntervalType"
	KeyKeyFramesSeconds      = "KeyFrames.Interval.Seconds"
	KeyKeyFramesFrames       = "KeyFrames.Interval.Frames"
)

// KeyFrameIntervalType selects how KeyFrames.Interval is interpreted.
type KeyFrameIntervalType int

const (
	KeyFrameIntervalTypeSeconds = KeyFrameIntervalType(iota)
	KeyFrameIntervalTypeFrames
)

func (t KeyFrameIntervalType) String() string {
	switch t {
	case KeyFrameIntervalTypeSeconds:
		return "seconds"
	case KeyFrameIntervalTypeFrames:
		return "frames"
	}
	return fmt.Sprintf("unknown_interval_type_%d", int(t))
}

// Settings is a layered key/value store: explicitly set values shadow
// defaults. Keys are case-insensitive and dot-separated.
type Settings struct {
	v        *viper.Viper
	explicit map[string]struct{}
}

func New() *Settings {
	return &Settings{
		v:        viper.New(),
		explicit: map[string]struct{}{},
	}
}

// Load merges YAML-encoded values on top of the current ones.
func Load(r io.Reader) (*Settings, error) {
	s := New()
	if err := s.Merge(r); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) Merge(r io.Reader) error {
	s.v.SetConfigType("yaml")
	if err := s.v.MergeConfig(r); err != nil {
		return fmt.Errorf("unable to merge settings: %w", err)
	}
	return nil
}

// Save writes every effective value (defaults included) as YAML.
func (s *Settings) Save(w io.Writer) error {
	b, err := yaml.Marshal(s.v.AllSettings())
	if err != nil {
		return fmt.Errorf("unable to serialize settings: %w", err)
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("unable to write settings: %w", err)
	}
	return nil
}

func (s *Settings) String() string {
	var buf bytes.Buffer
	if err := s.Save(&buf); err != nil {
		return fmt.Sprintf("<%v>", err)
	}
	return buf.String()
}

func (s *Settings) Set(key string, value any) {
	s.v.Set(key, value)
	s.explicit[strings.ToLower(key)] = struct{}{}
}

func (s *Settings) SetDefault(key string, value any) {
	s.v.SetDefault(key, value)
}

// IsSet reports whether the key has an explicit or a default value.
func (s *Settings) IsSet(key string) bool {
	return s.v.IsSet(key)
}

// IsExplicit reports whether the key was set or loaded, ignoring defaults.
func (s *Settings) IsExplicit(key string) bool {
	if _, ok := s.explicit[strings.ToLower(key)]; ok {
		return true
	}
	return s.v.InConfig(key)
}

func (s *Settings) Get(key string) any {
	return s.v.Get(key)
}

func (s *Settings) GetString(key string) string {
	return s.v.GetString(key)
}

func (s *Settings) GetInt(key string) int {
	return s.v.GetInt(key)
}

func (s *Settings) GetFloat64(key string) float64 {
	return s.v.GetFloat64(key)
}

func (s *Settings) GetBool(key string) bool {
	return s.v.GetBool(key)
}

func (s *Settings) KeyFrameIntervalType() KeyFrameIntervalType {
	return KeyFrameIntervalType(s.v.GetInt(KeyKeyFramesIntervalType))
}

// Keys returns every known key in sorted order.
func (s *Settings) Keys() []string {
	keys := s.v.AllKeys()
	sort.Strings(keys)
	return keys
}

// Clone returns an independent copy; defaults stay defaults.
func (s *Settings) Clone() *Settings {
	c := New()
	for _, key := range s.v.AllKeys() {
		if s.IsExplicit(key) {
			c.Set(key, s.v.Get(key))
		} else {
			c.SetDefault(key, s.v.Get(key))
		}
	}
	return c
}
