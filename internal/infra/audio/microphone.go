//go:build portaudio
// +build portaudio

package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/gordonklaus/portaudio"
)

const framesPerBuffer = 1024

// MicrophoneSource captures utterances from the default input device. A
// capture ends after a second of silence (or ten seconds total) and is
// handed over as a 16-bit mono WAV blob for transcription.
type MicrophoneSource struct {
	stream     *portaudio.Stream
	frame      []int16
	wakeWord   string
	sampleRate int
	logger     *slog.Logger
}

func NewMicrophoneSource(wakeWord string, sampleRate int, logger *slog.Logger) *MicrophoneSource {
	return &MicrophoneSource{
		wakeWord:   wakeWord,
		sampleRate: sampleRate,
		logger:     logger,
	}
}

func (m *MicrophoneSource) Name() string {
	return "microphone"
}

func (m *MicrophoneSource) Start(_ context.Context) error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("initializing portaudio: %w", err)
	}

	// Stream.Read fills the buffer given at open time, so the frame slice
	// must outlive the stream.
	m.frame = make([]int16, framesPerBuffer)

	stream, err := portaudio.OpenDefaultStream(1, 0, float64(m.sampleRate), framesPerBuffer, m.frame)
	if err != nil {
		return fmt.Errorf("opening stream: %w", err)
	}
	m.stream = stream

	if err := m.stream.Start(); err != nil {
		return fmt.Errorf("starting stream: %w", err)
	}

	m.logger.Info("microphone started", "sample_rate", m.sampleRate)
	return nil
}

func (m *MicrophoneSource) Stop() error {
	if m.stream != nil {
		m.stream.Stop()
		m.stream.Close()
	}
	portaudio.Terminate()
	return nil
}

func (m *MicrophoneSource) NextCommand(ctx context.Context) ([]byte, error) {
	m.logger.Info("listening", "wake_word", m.wakeWord)

	const silenceThreshold = 500

	samples := make([]int16, 0, m.sampleRate*5)
	silentSamples := 0

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		if err := m.stream.Read(); err != nil {
			return nil, fmt.Errorf("reading from stream: %w", err)
		}
		samples = append(samples, m.frame...)

		if isSilent(m.frame, silenceThreshold) {
			silentSamples += len(m.frame)
		} else {
			silentSamples = 0
		}

		// A second of trailing silence ends the utterance; ten seconds of
		// audio ends it unconditionally.
		if silentSamples > m.sampleRate && len(samples) > m.sampleRate {
			break
		}
		if len(samples) > m.sampleRate*10 {
			break
		}
	}

	return encodeWAV(samples, m.sampleRate), nil
}

func isSilent(frame []int16, threshold int16) bool {
	for _, sample := range frame {
		if sample > threshold || sample < -threshold {
			return false
		}
	}
	return true
}

// encodeWAV wraps raw 16-bit mono PCM samples in a minimal RIFF header.
func encodeWAV(samples []int16, sampleRate int) []byte {
	var buf bytes.Buffer

	dataSize := len(samples) * 2

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, int32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, int32(16))
	binary.Write(&buf, binary.LittleEndian, int16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, int16(1)) // mono
	binary.Write(&buf, binary.LittleEndian, int32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, int32(sampleRate*2))
	binary.Write(&buf, binary.LittleEndian, int16(2))
	binary.Write(&buf, binary.LittleEndian, int16(16))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, int32(dataSize))
	for _, sample := range samples {
		binary.Write(&buf, binary.LittleEndian, sample)
	}

	return buf.Bytes()
}
