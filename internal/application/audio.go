package application

import "context"

// AudioSource supplies captured utterances, one per NextCommand call. A
// source may also deliver pre-transcribed text using the text marker from
// the domain package.
type AudioSource interface {
	Start(ctx context.Context) error
	Stop() error
	NextCommand(ctx context.Context) ([]byte, error)
	Name() string
}
