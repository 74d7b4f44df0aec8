package provider

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

// DecodeSettings maps a factory's settings block onto out, a pointer to a
// struct with mapstructure tags. Strings are accepted for durations and
// numbers so values from environment overrides decode cleanly.
func DecodeSettings(settings map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("creating settings decoder: %w", err)
	}
	if err := dec.Decode(settings); err != nil {
		return fmt.Errorf("decoding provider settings: %w", err)
	}
	return nil
}
