package consumer

import (
	"os"

	"gopkg.in/yaml.v3"
)

// yamlProps mirrors the recognised property-bag keys as an optional
// on-disk configuration document. Every field is a pointer so the
// loader can tell "absent from the file" apart from "explicitly zero",
// the same unmarshal-then-flatten shape blitss-sip-tg-bridge's
// bridge/config.go uses for its own nested yamlConfig struct.
type yamlProps struct {
	Normalisation *string  `yaml:"normalisation,omitempty"`
	FPS           *float64 `yaml:"fps,omitempty"`
	Width         *int     `yaml:"width,omitempty"`
	Height        *int     `yaml:"height,omitempty"`
	Progressive   *int     `yaml:"progressive,omitempty"`
	AspectRatio   *float64 `yaml:"aspect_ratio,omitempty"`
	Rescale       *string  `yaml:"rescale,omitempty"`
	Buffer        *int     `yaml:"buffer,omitempty"`
	Prefill       *int     `yaml:"prefill,omitempty"`
	Frequency     *int     `yaml:"frequency,omitempty"`
	Channels      *int     `yaml:"channels,omitempty"`
	RealTime      *int     `yaml:"real_time,omitempty"`
	TestCard      *string  `yaml:"test_card,omitempty"`
	Ante          *string  `yaml:"ante,omitempty"`
	Post          *string  `yaml:"post,omitempty"`
	VideoOff      *int     `yaml:"video_off,omitempty"`
	AudioOff      *int     `yaml:"audio_off,omitempty"`
	Deinterlace   *int     `yaml:"deinterlace,omitempty"`
	PutMode       *int     `yaml:"put_mode,omitempty"`
}

// LoadPropertiesYAML reads path and applies any keys it sets onto
// props, leaving every key the document doesn't mention at whatever
// value props already held (normally the normalisation defaults).
func LoadPropertiesYAML(path string, props *PropertyBag) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return &OpError{Op: "load properties yaml", Err: err}
	}
	var doc yamlProps
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return &OpError{Op: "parse properties yaml", Err: err}
	}
	applyYAMLProps(&doc, props)
	return nil
}

func applyYAMLProps(doc *yamlProps, props *PropertyBag) {
	setStr := func(key string, v *string) {
		if v != nil {
			props.Set(key, *v)
		}
	}
	setInt := func(key string, v *int) {
		if v != nil {
			props.Set(key, *v)
		}
	}
	setFloat := func(key string, v *float64) {
		if v != nil {
			props.Set(key, *v)
		}
	}

	setStr("normalisation", doc.Normalisation)
	setFloat("fps", doc.FPS)
	setInt("width", doc.Width)
	setInt("height", doc.Height)
	setInt("progressive", doc.Progressive)
	setFloat("aspect_ratio", doc.AspectRatio)
	setStr("rescale", doc.Rescale)
	setInt("buffer", doc.Buffer)
	setInt("prefill", doc.Prefill)
	setInt("frequency", doc.Frequency)
	setInt("channels", doc.Channels)
	setInt("real_time", doc.RealTime)
	setStr("test_card", doc.TestCard)
	setStr("ante", doc.Ante)
	setStr("post", doc.Post)
	setInt("video_off", doc.VideoOff)
	setInt("audio_off", doc.AudioOff)
	setInt("deinterlace", doc.Deinterlace)
	setInt("put_mode", doc.PutMode)
}

// DumpPropertiesYAML writes the subset of props matching the
// recognised keys out to path, for inspecting or snapshotting a
// running consumer's configuration.
func DumpPropertiesYAML(path string, props *PropertyBag) error {
	doc := yamlProps{
		Normalisation: strPtr(props.GetString("normalisation")),
		FPS:           floatPtr(props.GetFloat("fps")),
		Width:         intPtr(props.GetInt("width")),
		Height:        intPtr(props.GetInt("height")),
		Progressive:   intPtr(props.GetInt("progressive")),
		AspectRatio:   floatPtr(props.GetFloat("aspect_ratio")),
		Rescale:       strPtr(props.GetString("rescale")),
		Buffer:        intPtr(props.GetInt("buffer")),
		Prefill:       intPtr(props.GetInt("prefill")),
		Frequency:     intPtr(props.GetInt("frequency")),
		Channels:      intPtr(props.GetInt("channels")),
		RealTime:      intPtr(props.GetInt("real_time")),
		TestCard:      strPtr(props.GetString("test_card")),
		Ante:          strPtr(props.GetString("ante")),
		Post:          strPtr(props.GetString("post")),
		VideoOff:      intPtr(props.GetInt("video_off")),
		AudioOff:      intPtr(props.GetInt("audio_off")),
		Deinterlace:   intPtr(props.GetInt("deinterlace")),
		PutMode:       intPtr(props.GetInt("put_mode")),
	}
	data, err := yaml.Marshal(&doc)
	if err != nil {
		return &OpError{Op: "marshal properties yaml", Err: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &OpError{Op: "write properties yaml", Err: err}
	}
	return nil
}

func strPtr(v string) *string     { return &v }
func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
