package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/sarchlab/ladderlogic/config"
	"github.com/sarchlab/ladderlogic/fileio"
	"github.com/sarchlab/ladderlogic/render"
	"github.com/sarchlab/ladderlogic/session"
)

func (a *app) simulate(cfg config.Config, o options) error {
	net, err := fileio.LoadNetwork(a.fs, o.simulate)
	if err != nil {
		return err
	}

	s := session.Builder{}.
		WithDisplay(uiDisplay{ui: a.ui, states: o.visual}).
		WithScanPeriod(cfg.ScanPeriod).
		WithOptions(cfg.CoreOptions()).
		Build(net)

	if o.export != "" {
		if err := render.Export(a.fs, o.export, net, s.Snapshot().Variables); err != nil {
			return err
		}
		a.ui.Info(fmt.Sprintf("wrote %s", o.export))
		return nil
	}

	lines, err := a.newReader()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if c, ok := lines.(interface{ Close() error }); ok {
		defer c.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a.ui.Info(fmt.Sprintf("loaded %s: %d elements, %d variables",
		o.simulate, len(net.Elements), s.Snapshot().Variables.Len()))

	return s.Run(ctx, lines)
}
