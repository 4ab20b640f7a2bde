// Package config holds the tunable constants from spec.md §6's table as a
// plain struct, following the same "struct of coefficients with a defaults
// constructor" shape the teacher uses for consumption.Config /
// _defaultConfig(). cmd/tscwall additionally layers a TOML file on top of
// Default() (see LoadFile), the same "env/file overrides defaults" idiom
// the teacher applies to CLK_TCK/PAGE_SIZE via os.Getenv.
package config

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
)

// Config is the full set of tunables spec.md §6 lists. Field names mirror
// the table's constant names in Go CamelCase; the TOML keys are the
// constant names lower-cased.
type Config struct {
	CarouselRoundsRange int `toml:"carousel_rounds_range"`
	CarouselRoundsMono  int `toml:"carousel_rounds_mono"`
	CASProbesRange      int `toml:"cas_probes_range"`
	CASProbesMono       int `toml:"cas_probes_mono"`

	DeltaRangeCountThreshold int `toml:"delta_range_count_threshold"`
	FullLoopCountThreshold   int `toml:"full_loop_count_threshold"`

	RateSamples   int           `toml:"rate_samples"`
	MatchPeriod   time.Duration `toml:"-"`
	MatchPeriodUS int64         `toml:"match_period_us"`

	ModulusSecs uint64 `toml:"modulus_secs"`

	RunBudget    time.Duration `toml:"-"`
	RunBudgetS   int64         `toml:"run_budget_s"`
	JoinPoll     time.Duration `toml:"-"`
	JoinPollS    int64         `toml:"join_poll_s"`
	CancelBudget time.Duration `toml:"-"`
	CancelBudgetS int64        `toml:"cancel_budget_s"`
}

// Default returns the configuration with every default from spec.md §6.
func Default() Config {
	c := Config{
		CarouselRoundsRange: 100,
		CarouselRoundsMono:  100,
		CASProbesRange:      1000,
		CASProbesMono:       1000,

		DeltaRangeCountThreshold: 10,
		FullLoopCountThreshold:   10,

		RateSamples:   30,
		MatchPeriodUS: 500000,

		ModulusSecs: 10,

		RunBudgetS:    300,
		JoinPollS:     1,
		CancelBudgetS: 10,
	}
	c.resolveDurations()
	return c
}

// resolveDurations fills in the time.Duration fields derived from the
// seconds/microseconds columns — kept separate from the *-S/-US fields so a
// TOML file only has to specify plain integers.
func (c *Config) resolveDurations() {
	c.MatchPeriod = time.Duration(c.MatchPeriodUS) * time.Microsecond
	c.RunBudget = time.Duration(c.RunBudgetS) * time.Second
	c.JoinPoll = time.Duration(c.JoinPollS) * time.Second
	c.CancelBudget = time.Duration(c.CancelBudgetS) * time.Second
}

// LoadFile reads a TOML file and overrides Default() with whatever fields it
// sets, leaving the rest at their spec.md defaults — the same "defaults
// survive unless explicitly overridden" behavior as the teacher's env-var
// overrides for ClockTicks/PageSize.
func LoadFile(path string) (Config, error) {
	c := Default()
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return Config{}, fmt.Errorf("config: decode %s: %w", path, err)
	}
	c.resolveDurations()
	return c, nil
}
