package main

import (
	"github.com/okian/stationkpi/internal/adapters/dataset"
	service "github.com/okian/stationkpi/internal/app"
	"github.com/okian/stationkpi/internal/config"
	"github.com/okian/stationkpi/internal/domain/model"
	"github.com/okian/stationkpi/internal/domain/template"
)

// serviceOptions turns cfg into service options, reading the dataset and
// role catalog it points at. The configured active month overrides the one
// recorded in the dataset.
func serviceOptions(cfg *config.Config) ([]service.Option, error) {
	window, err := model.ParseWindow(cfg.DefaultWindow)
	if err != nil {
		return nil, err
	}
	opts := []service.Option{
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithQueueSize(cfg.QueueSize),
		service.WithDedupeSize(cfg.DedupeSize),
		service.WithWindow(window),
	}

	if cfg.TemplatesPath != "" {
		catalog, err := template.LoadFile(cfg.TemplatesPath)
		if err != nil {
			return nil, err
		}
		opts = append(opts, service.WithCatalog(catalog))
	}

	var participants []model.Participant
	active := cfg.ActiveMonth
	if cfg.DatasetPath != "" {
		doc, err := dataset.LoadFile(cfg.DatasetPath)
		if err != nil {
			return nil, err
		}
		participants = doc.Participants
		if active == "" {
			active = doc.ActiveMonth
		}
	}
	var month model.Month
	if active != "" {
		if month, err = model.ParseMonth(active); err != nil {
			return nil, err
		}
	}
	return append(opts, service.WithSeed(participants, month)), nil
}
