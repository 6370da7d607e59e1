package game

// Options configures a Game beyond the scene configuration.
type Options struct {
	Seed           int64
	Headless       bool
	LogStats       bool
	StatsWindowSec float64 // 0 = use config
	OutputDir      string  // empty = no CSV output
	StepsPerUpdate int     // scene steps per Update call
	ToggleEvery    int     // headless: toggle the tree state every N ticks, 0 = never
}
