package telemetry

import (
	"os"
)

const defaultArtifactsDir = ".moviebot"

var (
	featuresEnabled bool
	observeEnabled  bool
)

func init() {
	// Read once at process start. Mid-run environment changes have no effect.
	featuresEnabled = os.Getenv("MOVIEBOT_LOCAL_FEATURES") == "1"

	// Observe: default to 1 when local features are on and MOVIEBOT_OBSERVE_JSON is unset; honour explicit 0/1.
	if v, ok := os.LookupEnv("MOVIEBOT_OBSERVE_JSON"); ok {
		observeEnabled = (v == "1")
	} else {
		observeEnabled = featuresEnabled
	}
}

// FeaturesEnabled reports whether local_features events were enabled at startup.
func FeaturesEnabled() bool {
	if os.Getenv("MOVIEBOT_LOCAL_FEATURES") == "1" {
		return true
	}
	return featuresEnabled
}

// ObserveEnabled reports whether JSONL emission is on, considering the local features default.
func ObserveEnabled() bool {
	// Startup value wins unless a test flips the env on mid-run.
	if os.Getenv("MOVIEBOT_OBSERVE_JSON") == "1" {
		return true
	}
	return observeEnabled
}

// ArtifactsDir is where events.jsonl is written.
func ArtifactsDir() string {
	if d := os.Getenv("MOVIEBOT_ARTIFACTS_DIR"); d != "" {
		return d
	}
	return defaultArtifactsDir
}
