// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package audit

import (
	"context"
	"time"
)

// Periodic - background process running the audit at an interval
type Periodic struct {
	auditor  *Auditor
	interval time.Duration
	reports  chan<- Report
}

// NewPeriodic - run an auditor every interval, optionally sending each
// report to a channel without blocking
func NewPeriodic(auditor *Auditor, interval time.Duration, reports chan<- Report) *Periodic {
	return &Periodic{
		auditor:  auditor,
		interval: interval,
		reports:  reports,
	}
}

// Run - background.Process
func (p *Periodic) Run(args interface{}, shutdown <-chan struct{}) {
	log := p.auditor.log
	log.Infof("starting… interval: %s", p.interval)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		select {
		case <-shutdown:
			cancel()
		case <-ctx.Done():
		}
	}()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

loop:
	for {
		select {
		case <-shutdown:
			break loop
		case <-ticker.C:
			report, err := p.auditor.Run(ctx)
			if nil != err {
				log.Errorf("audit error: %s", err)
				continue
			}
			if nil != p.reports {
				select {
				case p.reports <- report:
				default:
				}
			}
		}
	}
	log.Info("stopped")
}
