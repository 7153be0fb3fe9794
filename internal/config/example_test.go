package config_test

import (
	"fmt"
	"time"

	"github.com/chitchat/desktop/internal/config"
)

func ExampleDefault() {
	cfg := config.Default()
	fmt.Println(cfg.App.Name, cfg.Detect.ProcessSource, cfg.Detect.GuessUnknown)
	fmt.Println("tracker:", cfg.Tracker.Enabled, cfg.Tracker.PollInterval)
	// Output:
	// ChitChat command true
	// tracker: true 15s
}

// The tracker interval is bounded on both sides.
func ExampleConfig_SetPollInterval() {
	cfg := config.Default()

	for _, interval := range []time.Duration{time.Minute, time.Second, time.Hour} {
		if err := cfg.SetPollInterval(interval); err != nil {
			fmt.Println(err)
			continue
		}
		fmt.Println("using", cfg.Tracker.PollInterval)
	}

	// Output:
	// using 1m0s
	// poll interval cannot be less than 5s
	// poll interval cannot be greater than 5m0s
}

// A second instance reaches the first one through BaseURL.
func ExampleConfig_BaseURL() {
	cfg := config.Default()
	cfg.Web.Host = "127.0.0.1"
	if err := cfg.SetWebPort(17123); err != nil {
		fmt.Println(err)
	}

	fmt.Println(cfg.BaseURL())
	// Output:
	// http://127.0.0.1:17123
}
