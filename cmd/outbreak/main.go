// Command outbreak runs a simulation for the number of ticks named in a
// settings file, reporting disease-state counts at a configurable interval.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/BurntSushi/toml"

	"outbreak"
)

// runSettings is the driver's own configuration, distinct from the
// simulation's Config: it says how long to run and how often to report,
// not anything about the simulated world itself.
type runSettings struct {
	ConfigPath       string `toml:"config_path"`
	Ticks            int    `toml:"ticks"`
	ReportEveryTicks int    `toml:"report_every_ticks"`
}

func defaultSettings() runSettings {
	return runSettings{
		ConfigPath:       "world.json",
		Ticks:            500,
		ReportEveryTicks: 10,
	}
}

func loadSettings(path string) (runSettings, error) {
	settings := defaultSettings()
	if _, err := toml.DecodeFile(path, &settings); err != nil {
		return runSettings{}, err
	}
	return settings, nil
}

func loadWorldConfig(path string) (outbreak.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return outbreak.Config{}, err
	}
	var config outbreak.Config
	if err := json.Unmarshal(data, &config); err != nil {
		return outbreak.Config{}, err
	}
	return config, nil
}

func main() {
	settingsPath := flag.String("settings", "outbreak.toml", "path to the run settings TOML file")
	flag.Parse()

	settings, err := loadSettings(*settingsPath)
	if err != nil {
		log.Fatalf("loading run settings from %s: %v", *settingsPath, err)
	}

	config, err := loadWorldConfig(settings.ConfigPath)
	if err != nil {
		log.Fatalf("loading world config from %s: %v", settings.ConfigPath, err)
	}

	world, err := outbreak.New(config)
	if err != nil {
		log.Fatalf("constructing world: %v", err)
	}
	mapName := "none"
	if config.Map != nil {
		mapName = config.Map.Name
	}
	log.Printf("run %s: population=%d map=%s", world.RunID, config.NumPeople, mapName)

	for t := 0; t < settings.Ticks; t++ {
		tick, err := world.Step()
		if err != nil {
			log.Fatalf("tick %d: %v", t, err)
		}
		if settings.ReportEveryTicks > 0 && tick%settings.ReportEveryTicks == 0 {
			reportCounts(world)
		}
	}
	reportCounts(world)
}

func reportCounts(world *outbreak.World) {
	counts := world.CountByState()
	log.Printf("tick=%d susceptible=%d exposed=%d infectious=%d recovered=%d",
		world.Tick(),
		counts[outbreak.Susceptible],
		counts[outbreak.Exposed],
		counts[outbreak.Infectious],
		counts[outbreak.Recovered],
	)
}
