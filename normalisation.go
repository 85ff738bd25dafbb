package consumer

import "os"

// applyNormalisationDefaults seeds props with the PAL or NTSC baseline
// mlt_consumer_init applies at construction time, selected by the
// MLT_NORMALISATION environment variable (anything other than exactly
// "NTSC" falls back to PAL). It also seeds the non-normalisation
// defaults init() always sets regardless of the preference picked.
func applyNormalisationDefaults(props *PropertyBag) {
	if os.Getenv("MLT_NORMALISATION") == "NTSC" {
		props.Set("normalisation", "NTSC")
		props.Set("fps", 30000.0/1001.0)
		props.Set("width", 720)
		props.Set("height", 480)
		props.Set("progressive", 0)
		props.Set("aspect_ratio", 10.0/11.0)
	} else {
		props.Set("normalisation", "PAL")
		props.Set("fps", 25.0)
		props.Set("width", 720)
		props.Set("height", 576)
		props.Set("progressive", 0)
		props.Set("aspect_ratio", 59.0/54.0)
	}

	props.Set("rescale", "bilinear")
	props.Set("buffer", 25)
	props.Set("frequency", 48000)
	props.Set("channels", 2)
	props.Set("real_time", 1)
	props.Set("test_card", os.Getenv("MLT_TEST_CARD"))
}
