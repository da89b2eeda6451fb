// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package mail

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/halcyonlabs/studio-api/internal/model"
)

// Notifier queues contact notifications for asynchronous delivery.
type Notifier struct {
	sender  Sender
	logger  *slog.Logger
	from    string
	to      []string
	queue   chan Message
	workers int
	wg      sync.WaitGroup
	done    chan struct{}
	mu      sync.RWMutex
	running bool
}

// NotifierConfig holds notifier configuration.
type NotifierConfig struct {
	From    string
	To      []string
	Workers int // Number of concurrent delivery workers
}

// NewNotifier creates a notifier. A nil sender disables delivery; Notify
// becomes a no-op that only logs.
func NewNotifier(sender Sender, logger *slog.Logger, cfg NotifierConfig) *Notifier {
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Notifier{
		sender:  sender,
		logger:  logger,
		from:    cfg.From,
		to:      cfg.To,
		queue:   make(chan Message, 100),
		workers: cfg.Workers,
		done:    make(chan struct{}),
	}
}

// Start starts the delivery workers.
func (n *Notifier) Start(ctx context.Context) {
	n.mu.Lock()
	if n.running {
		n.mu.Unlock()
		return
	}
	n.running = true
	n.mu.Unlock()

	n.logger.Info("starting mail notifier", "workers", n.workers)

	for i := 0; i < n.workers; i++ {
		n.wg.Add(1)
		go n.worker(ctx, i)
	}
}

// Stop stops the notifier and waits for in-flight deliveries to finish.
func (n *Notifier) Stop() {
	n.mu.Lock()
	if !n.running {
		n.mu.Unlock()
		return
	}
	n.running = false
	n.mu.Unlock()

	close(n.done)
	n.wg.Wait()
	n.logger.Info("mail notifier stopped")
}

// worker drains the queue until stopped.
func (n *Notifier) worker(ctx context.Context, id int) {
	defer n.wg.Done()
	n.logger.Debug("mail worker started", "worker_id", id)

	for {
		select {
		case <-n.done:
			return
		case <-ctx.Done():
			return
		case msg := <-n.queue:
			if err := n.sender.Send(msg); err != nil {
				n.logger.Error("contact notification failed",
					"error", err,
					"subject", msg.Subject)
				continue
			}
			n.logger.Info("contact notification sent", "subject", msg.Subject)
		}
	}
}

// Notify queues a notification for a contact-form submission. It never
// blocks and never returns an error: delivery problems are logged only.
func (n *Notifier) Notify(msg model.ContactMessage) {
	if n.sender == nil {
		n.logger.Debug("mail not configured, skipping contact notification")
		return
	}

	n.mu.RLock()
	running := n.running
	n.mu.RUnlock()
	if !running {
		n.logger.Warn("mail notifier not running, dropping contact notification")
		return
	}

	out := Message{
		From:    n.from,
		To:      n.to,
		Subject: fmt.Sprintf("New contact form submission from %s", msg.Name),
		Body: fmt.Sprintf("Name: %s\nEmail: %s\n\n%s\n",
			msg.Name, msg.Email, msg.Message),
	}

	select {
	case n.queue <- out:
	default:
		n.logger.Warn("mail queue full, dropping contact notification", "from", msg.Email)
	}
}
