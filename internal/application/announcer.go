package application

import (
	"context"
	"fmt"
	"io"
)

// Announcer delivers the finished answer to the user. Rendering or speaking
// is entirely the announcer's concern; the resolver hands over final text.
type Announcer interface {
	Announce(ctx context.Context, answer string) error
}

type NoopAnnouncer struct{}

func (n *NoopAnnouncer) Announce(_ context.Context, _ string) error {
	return nil
}

// ConsoleAnnouncer writes answers to a local writer, typically stdout.
type ConsoleAnnouncer struct {
	Out io.Writer
}

func (c *ConsoleAnnouncer) Announce(_ context.Context, answer string) error {
	_, err := fmt.Fprintln(c.Out, answer)
	return err
}

// MultiAnnouncer fans an answer out to several announcers, returning the
// first error after trying all of them.
type MultiAnnouncer []Announcer

func (m MultiAnnouncer) Announce(ctx context.Context, answer string) error {
	var firstErr error
	for _, a := range m {
		if err := a.Announce(ctx, answer); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
