package application

import (
	"context"
	"fmt"
	"log/slog"

	"voxassist/internal/domain"
)

type Assistant struct {
	audio     AudioSource
	stt       SpeechToText
	resolver  *Resolver
	announcer Announcer
	logger    *slog.Logger
}

func NewAssistant(
	audio AudioSource,
	stt SpeechToText,
	resolver *Resolver,
	announcer Announcer,
	logger *slog.Logger,
) *Assistant {
	return &Assistant{
		audio:     audio,
		stt:       stt,
		resolver:  resolver,
		announcer: announcer,
		logger:    logger,
	}
}

func (a *Assistant) Run(ctx context.Context) error {
	a.logger.Info("starting audio source", "source", a.audio.Name())
	if err := a.audio.Start(ctx); err != nil {
		return fmt.Errorf("starting audio: %w", err)
	}
	defer a.audio.Stop()

	a.logger.Info("assistant ready, listening for questions")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if err := a.processOneQuery(ctx); err != nil {
				a.logger.Error("processing query", "error", err)
			}
		}
	}
}

func (a *Assistant) processOneQuery(ctx context.Context) error {
	audioData, err := a.audio.NextCommand(ctx)
	if err != nil {
		return fmt.Errorf("getting audio: %w", err)
	}

	if len(audioData) == 0 {
		return nil
	}

	var text string

	if directText, isText := isTextCommand(audioData); isText {
		a.logger.Info("received text query directly", "text", directText)
		text = directText
	} else {
		a.logger.Info("received audio", "bytes", len(audioData))

		var err error
		text, err = a.stt.Transcribe(ctx, audioData)
		if err != nil {
			return fmt.Errorf("transcribing: %w", err)
		}

		a.logger.Info("transcribed", "text", text)
	}

	answer := a.resolver.Resolve(ctx, text)

	a.logger.Info("resolved", "query", text, "answer_length", len(answer))

	if err := a.announcer.Announce(ctx, answer); err != nil {
		a.logger.Error("announcing answer", "error", err)
	}

	return nil
}

func isTextCommand(data []byte) (string, bool) {
	if len(data) > len(domain.TextCommandPrefix) && string(data[:len(domain.TextCommandPrefix)]) == domain.TextCommandPrefix {
		return string(data[len(domain.TextCommandPrefix):]), true
	}
	return "", false
}
