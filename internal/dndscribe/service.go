package dndscribe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dndscribe/dndscribe/internal/dndscribe/conf"
	"github.com/dndscribe/dndscribe/internal/model"
	"github.com/dndscribe/dndscribe/internal/speech"
	"github.com/dndscribe/dndscribe/internal/speech/fasterwhisper"
	"github.com/dndscribe/dndscribe/internal/speech/openai"
	"github.com/dndscribe/dndscribe/internal/speech/whispercpp"
	"github.com/dndscribe/dndscribe/internal/store"
	"github.com/dndscribe/dndscribe/internal/transcript"
	"github.com/dndscribe/dndscribe/pkg/util"
)

type engineFactory func(decision speech.Decision) (speech.Transcriber, error)

// Service ties configuration, the session store, and a speech engine into the
// upload-to-transcript flow.
type Service struct {
	conf  *conf.Config
	store *store.Store
	caps  speech.Capabilities
	opts  speech.Options

	mu       sync.Mutex
	engine   speech.Transcriber
	decision speech.Decision
	factory  engineFactory
}

// New probes the host, negotiates a device, and brings up the configured
// engine and session store.
func New(ctx context.Context, cfg *conf.Config) (*Service, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure data dir: %w", err)
	}

	st, err := store.Open(cfg.SessionDBPath())
	if err != nil {
		return nil, err
	}

	caps := speech.Probe(ctx)
	decision := speech.Negotiate(speech.ParseDevice(cfg.Device), caps)
	if decision.Fallback {
		log.Warn().Str("reason", decision.Reason).Msg("falling back to CPU")
	} else {
		log.Info().Str("device", string(decision.Device)).Str("gpu", caps.GPUName).Msg("device negotiated")
	}

	opts := cfg.Speech.ToOptions()

	factory, err := newEngineFactory(ctx, cfg, opts)
	if err != nil {
		st.Close()
		return nil, err
	}

	engine, err := factory(decision)
	if err != nil {
		// A CUDA engine that refuses to start is retried once on CPU, the
		// outcome reported as a fallback decision rather than a failure.
		if decision.Device != speech.DeviceCUDA {
			st.Close()
			return nil, err
		}
		fallback := speech.CPUFallback(fmt.Sprintf("engine start on cuda failed: %v", err))
		log.Warn().Str("reason", fallback.Reason).Msg("falling back to CPU")
		engine, err = factory(fallback)
		if err != nil {
			st.Close()
			return nil, err
		}
		decision = fallback
	}

	return &Service{
		conf:     cfg,
		store:    st,
		caps:     caps,
		opts:     opts,
		engine:   engine,
		decision: decision,
		factory:  factory,
	}, nil
}

func newEngineFactory(ctx context.Context, cfg *conf.Config, opts speech.Options) (engineFactory, error) {
	mdl, ok := speech.LookupModel(cfg.Model)
	if !ok {
		return nil, fmt.Errorf("unknown model %q", cfg.Model)
	}

	switch cfg.Engine {
	case "", "fasterwhisper":
		scriptDir := cfg.ScriptDir()
		return func(decision speech.Decision) (speech.Transcriber, error) {
			return fasterwhisper.New(fasterwhisper.Config{
				ScriptDir:      scriptDir,
				Model:          mdl.Name,
				Decision:       decision,
				DefaultOptions: opts,
			})
		}, nil
	case "whispercpp":
		ensured, err := speech.NewDownloader(cfg.ModelCacheDir()).EnsureModel(ctx, mdl)
		if err != nil {
			return nil, fmt.Errorf("ensure whisper model: %w", err)
		}
		return func(speech.Decision) (speech.Transcriber, error) {
			return whispercpp.New(whispercpp.Config{
				ModelPath:      ensured.Path,
				DefaultOptions: opts,
			})
		}, nil
	case "openai":
		return func(speech.Decision) (speech.Transcriber, error) {
			return openai.New(openai.Config{
				APIKey:  cfg.OpenAI.APIKey,
				BaseURL: cfg.OpenAI.BaseURL,
				Model:   cfg.OpenAI.Model,
			})
		}, nil
	default:
		return nil, fmt.Errorf("unknown engine %q", cfg.Engine)
	}
}

// Close releases the engine and the session store.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine != nil {
		s.engine.Close()
		s.engine = nil
	}
	if s.store != nil {
		s.store.Close()
	}
}

// Capabilities returns the probed host capabilities.
func (s *Service) Capabilities() speech.Capabilities { return s.caps }

// Decision returns the device decision passes currently run with.
func (s *Service) Decision() speech.Decision {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.decision
}

// Conf exposes the active configuration.
func (s *Service) Conf() *conf.Config { return s.conf }

// Sessions lists recent transcription sessions, newest first.
func (s *Service) Sessions(ctx context.Context, limit int) ([]*model.Session, error) {
	return s.store.List(ctx, limit)
}

// Session returns one session by id, or nil when absent.
func (s *Service) Session(ctx context.Context, id string) (*model.Session, error) {
	return s.store.Get(ctx, id)
}

// TranscribeFile runs the full pass for one recording: dedupe by content hash,
// recognize, format, write the transcript to the output dir, and persist the
// session. A previously seen recording returns its stored session marked as
// cached.
func (s *Service) TranscribeFile(ctx context.Context, audioPath, originalName string) (*model.Session, error) {
	hash, err := util.Blake3HashFile(audioPath)
	if err != nil {
		return nil, err
	}

	if existing, err := s.store.GetByHash(ctx, hash); err != nil {
		return nil, err
	} else if existing != nil {
		log.Info().Str("id", existing.ID).Str("name", originalName).Msg("recording already transcribed, reusing session")
		existing.Cached = true
		return existing, nil
	}

	result, decision, err := s.runPass(ctx, audioPath)
	if err != nil {
		return nil, err
	}

	generatedAt := time.Now()

	segments := make([]transcript.Segment, 0, len(result.Segments))
	for _, seg := range result.Segments {
		segments = append(segments, transcript.Segment{
			Start: seg.Start.Seconds(),
			Text:  seg.Text,
		})
	}

	doc := transcript.Build(segments, generatedAt)
	filename := transcript.Filename(generatedAt)

	if err := os.MkdirAll(s.conf.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure output dir: %w", err)
	}
	outPath := filepath.Join(s.conf.OutputDir, filename)
	if err := os.WriteFile(outPath, []byte(doc), 0o644); err != nil {
		return nil, fmt.Errorf("write transcript: %w", err)
	}

	session := &model.Session{
		ID:              uuid.NewString(),
		Name:            originalName,
		Hash:            hash,
		Filename:        filename,
		Transcript:      doc,
		Language:        result.Language,
		Model:           s.conf.Model,
		Device:          string(decision.Device),
		DurationSeconds: result.Duration.Seconds(),
		SegmentCount:    len(result.Segments),
		Fallback:        decision.Fallback,
		CreatedAt:       generatedAt,
	}
	if err := s.store.Save(ctx, session); err != nil {
		return nil, err
	}

	log.Info().
		Str("id", session.ID).
		Str("name", originalName).
		Int("segments", session.SegmentCount).
		Str("total", transcript.FormatTimestamp(session.DurationSeconds)).
		Str("path", outPath).
		Msg("transcription complete")

	return session, nil
}

// runPass serializes recognition passes and retries a failed CUDA pass once on
// CPU, adopting the CPU engine for subsequent passes.
func (s *Service) runPass(ctx context.Context, audioPath string) (*speech.Result, speech.Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.engine == nil {
		return nil, s.decision, fmt.Errorf("service closed")
	}

	result, err := s.engine.Transcribe(ctx, audioPath, s.opts)
	if err == nil {
		return result, s.decision, nil
	}
	if s.decision.Device != speech.DeviceCUDA || ctx.Err() != nil {
		return nil, s.decision, err
	}

	fallback := speech.CPUFallback(fmt.Sprintf("cuda pass failed: %v", err))
	log.Warn().Err(err).Msg("cuda pass failed, retrying on CPU")

	engine, ferr := s.factory(fallback)
	if ferr != nil {
		return nil, s.decision, err
	}

	result, rerr := engine.Transcribe(ctx, audioPath, s.opts)
	if rerr != nil {
		engine.Close()
		return nil, fallback, rerr
	}

	s.engine.Close()
	s.engine = engine
	s.decision = fallback
	return result, fallback, nil
}
