// Package capture records the payloads of real native drags from a Chrome tab.
//
// Chrome only reports drag data to the DevTools protocol when drag
// interception is enabled; every drag started in the tab is then cancelled in
// the page and delivered as Input.dragIntercepted instead. Each payload is
// converted into the replay step format so it can be pasted into a script.
package capture

import (
	"context"
	"errors"
	"fmt"

	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/mousebackend/api/schemas"
	"github.com/xkilldash9x/mousebackend/internal/browser/dom"
	"github.com/xkilldash9x/mousebackend/internal/config"
	"github.com/xkilldash9x/mousebackend/internal/replay"
)

// payloadBuffer bounds the payloads waiting for the handler.
const payloadBuffer = 16

// Payload is one intercepted drag.
type Payload struct {
	Data          map[string]string `json:"data,omitempty" yaml:"data,omitempty"`
	Files         []dom.File        `json:"files,omitempty" yaml:"files,omitempty"`
	EffectAllowed string            `json:"effectAllowed,omitempty" yaml:"effectAllowed,omitempty"`
}

// FromEvent converts an Input.dragIntercepted event.
func FromEvent(ev *input.EventDragIntercepted) Payload {
	if ev == nil {
		return Payload{}
	}
	dt := dom.FromDragData(ev.Data)
	p := Payload{Files: dt.Files(), EffectAllowed: dt.EffectAllowed}
	for _, typ := range dt.Types() {
		if typ == dom.TypeFiles {
			continue
		}
		if p.Data == nil {
			p.Data = make(map[string]string)
		}
		p.Data[typ] = dt.GetData(typ)
	}
	return p
}

// Steps renders the payload as the native event sequence of a drop at at.
func (p Payload) Steps(at schemas.Point) []replay.Step {
	events := []schemas.EventType{schemas.EventDragEnter, schemas.EventDragOver, schemas.EventDrop}
	steps := make([]replay.Step, len(events))
	for i, typ := range events {
		pos := at
		steps[i] = replay.Step{Event: string(typ), At: &pos, Data: p.Data, Files: p.Files}
	}
	return steps
}

// Capturer drives a Chrome instance.
type Capturer struct {
	cfg    config.CaptureConfig
	logger *zap.Logger
}

// New creates a capturer.
func New(cfg config.CaptureConfig, logger *zap.Logger) *Capturer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Capturer{cfg: cfg, logger: logger.Named("capture")}
}

// allocatorOptions builds the Chrome flags for cfg.
func allocatorOptions(cfg config.CaptureConfig) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.NoSandbox,
		chromedp.DisableGPU,
	)
	if !cfg.Headless {
		opts = append(opts, chromedp.Flag("headless", false))
	}
	if cfg.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(cfg.ExecPath))
	}
	return opts
}

// Run opens url and passes every intercepted drag to handle until limit
// payloads were handled (0 means no limit), handle fails, or the configured
// timeout or ctx ends. It returns the number of payloads handled. Running out
// of time after at least one payload is not an error.
func (c *Capturer) Run(ctx context.Context, url string, limit int, handle func(Payload) error) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocatorOptions(c.cfg)...)
	defer allocCancel()
	tabCtx, tabCancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(c.logger.Sugar().Debugf))
	defer tabCancel()

	payloads := make(chan Payload, payloadBuffer)
	chromedp.ListenTarget(tabCtx, func(ev interface{}) {
		e, ok := ev.(*input.EventDragIntercepted)
		if !ok {
			return
		}
		select {
		case payloads <- FromEvent(e):
		default:
			c.logger.Warn("Dropped an intercepted drag; handler is behind.")
		}
	})

	if err := chromedp.Run(tabCtx, chromedp.Navigate(url), input.SetInterceptDrags(true)); err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", url, err)
	}
	c.logger.Info("Intercepting drags. Drag something onto the page.", zap.String("url", url))

	return drain(tabCtx, payloads, limit, handle)
}

// drain feeds payloads to handle until limit is reached or ctx ends.
func drain(ctx context.Context, payloads <-chan Payload, limit int, handle func(Payload) error) (int, error) {
	n := 0
	for limit <= 0 || n < limit {
		select {
		case <-ctx.Done():
			if n > 0 && errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return n, nil
			}
			return n, ctx.Err()
		case p := <-payloads:
			if err := handle(p); err != nil {
				return n, err
			}
			n++
		}
	}
	return n, nil
}
