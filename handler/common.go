// Package handler contains the per-codec-family behavior of the encoder:
// defaults, property schemas, option mapping and packet post-processing.
package handler

import (
	"context"
	"fmt"
	"strconv"

	"github.com/xaionaro-go/ffencoder/encoder"
	"github.com/xaionaro-go/ffencoder/logger"
	"github.com/xaionaro-go/ffencoder/settings"
)

const helpURLPrefix = "https://github.com/Xaymar/obs-StreamFX/wiki/"

// Version packs a settings version the way migrations compare them.
func Version(major, minor, patch uint16) uint64 {
	return uint64(major)<<48 | uint64(minor)<<32 | uint64(patch)<<16
}

const (
	KeyRateControlMode      = "RateControl.Mode"
	KeyRateControlLookahead = "RateControl.Lookahead"
	KeyBitrateTarget        = "RateControl.Limits.Bitrate.Target"
	KeyBitrateMaximum       = "RateControl.Limits.Bitrate.Maximum"
	KeyBufferSize           = "RateControl.Limits.BufferSize"

	// legacyKeyBitrateTarget was used before the limits were grouped.
	legacyKeyBitrateTarget = "RateControl.Bitrate.Target"
)

func setOption(
	ctx context.Context,
	inst *encoder.Instance,
	key string,
	value string,
) {
	if err := inst.CodecContext().SetOption(ctx, key, value); err != nil {
		logger.Warnf(ctx, "unable to set option '%s' to '%s': %v", key, value, err)
	}
}

// setKbitOption sets a bits-per-second option from a kbit/s setting;
// non-positive values leave the encoder default.
func setKbitOption(
	ctx context.Context,
	inst *encoder.Instance,
	key string,
	kbit int,
) {
	if kbit <= 0 {
		return
	}
	setOption(ctx, inst, key, strconv.FormatInt(int64(kbit)*1000, 10))
}

func addBitrateProperties(grp *settings.Property, withMaximum bool) {
	grp.AddInt(KeyBitrateTarget, "Target Bitrate (kbit/s)", 0, 1000000, 1)
	if withMaximum {
		grp.AddInt(KeyBitrateMaximum, "Maximum Bitrate (kbit/s)", 0, 1000000, 1)
	}
	grp.AddInt(KeyBufferSize, "Buffer Size (kbit)", 0, 1000000, 1)
}

func setBitrateDefaults(s *settings.Settings) {
	s.SetDefault(KeyBitrateTarget, 6000)
	s.SetDefault(KeyBitrateMaximum, 0)
	s.SetDefault(KeyBufferSize, 12000)
}

func migrateBitrate(ctx context.Context, s *settings.Settings, version uint64) {
	if version >= Version(0, 11, 0) || !s.IsExplicit(legacyKeyBitrateTarget) || s.IsExplicit(KeyBitrateTarget) {
		return
	}
	value := s.GetInt(legacyKeyBitrateTarget)
	logger.Infof(ctx, "migrating '%s' (%d) to '%s'", legacyKeyBitrateTarget, value, KeyBitrateTarget)
	s.Set(KeyBitrateTarget, value)
}

func listItems(values []string, names map[string]string) []settings.ListItem {
	items := make([]settings.ListItem, 0, len(values))
	for _, v := range values {
		name, ok := names[v]
		if !ok {
			name = v
		}
		items = append(items, settings.ListItem{Name: name, Value: v})
	}
	return items
}

func logSetting(ctx context.Context, s *settings.Settings, key string) {
	logger.Infof(ctx, "    %s: %v", key, s.Get(key))
}

func factoryName(name string) string {
	return fmt.Sprintf("%s%s", name, encoder.FactoryNameSuffix)
}
