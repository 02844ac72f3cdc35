package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"whsadc/pkg/config"
	"whsadc/pkg/control"
	"whsadc/pkg/output"
	"whsadc/pkg/output/console"
	"whsadc/pkg/sensor"
)

type outputEntry struct {
	Out        output.Output
	IntervalMs int
	last       time.Time
}

func initOutputs(cfg *config.Config, defaultIntervalMs int) ([]outputEntry, error) {
	entries := make([]outputEntry, 0, len(cfg.Outputs))
	for i := range cfg.Outputs {
		if cfg.Outputs[i].IntervalMs == 0 {
			cfg.Outputs[i].IntervalMs = defaultIntervalMs
		}
		switch cfg.Outputs[i].Type {
		case "console":
			entries = append(entries, outputEntry{Out: console.NewConsole(), IntervalMs: cfg.Outputs[i].IntervalMs})
		default:
			return nil, fmt.Errorf("unknown output type %q", cfg.Outputs[i].Type)
		}
	}
	return entries, nil
}

func newSensor(cfg config.Config) (sensor.Sensor, error) {
	switch cfg.SensorType {
	case "", "real":
		return sensor.NewMAX1239Sensor(cfg)
	case "simulation":
		return sensor.NewFakeSensor(cfg)
	default:
		return nil, fmt.Errorf("unknown sensor type %q", cfg.SensorType)
	}
}

func main() {
	cfg, err := config.LoadFromFlags()
	if err != nil {
		log.Fatal(err)
	}
	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}

func run(cfg config.Config) error {
	s, err := newSensor(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	// GPIO lines only exist on the rig; skip them for simulated runs.
	var ctl *control.Controller
	if cfg.SensorType != "simulation" {
		ctl, err = control.New(cfg.Pins)
		if err != nil {
			return err
		}
		// valve closed no matter how we exit
		defer ctl.Close()
	}

	entries, err := initOutputs(&cfg, cfg.IntervalMs)
	if err != nil {
		return err
	}
	defer func() {
		for _, e := range entries {
			_ = e.Out.Close()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(time.Duration(cfg.IntervalMs) * time.Millisecond)
	defer ticker.Stop()

	log.Printf("sampling every %dms (sensor=%s)", cfg.IntervalMs, cfg.SensorType)
	for {
		select {
		case sg := <-sig:
			log.Printf("caught %v, closing valve and exiting", sg)
			return nil
		case now := <-ticker.C:
			readings, err := s.Read()
			if err != nil {
				log.Printf("read error: %v", err)
				continue
			}
			for i := range entries {
				e := &entries[i]
				if now.Sub(e.last) < time.Duration(e.IntervalMs)*time.Millisecond {
					continue
				}
				if err := e.Out.Publish(readings); err != nil {
					log.Printf("publish error: %v", err)
					continue
				}
				e.last = now
			}
		}
	}
}
