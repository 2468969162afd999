package assistant

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/clinicore/patient-management-service/internal/cache"
)

const (
	cacheKeyPrefix = "ai_chat:"
	answerTTL      = time.Hour
	fallbackTTL    = 30 * time.Minute
)

const systemPrompt = `You are a helpful assistant for a FHIR R4 patient management system
used by a medical clinic. You answer questions about patients, practitioners,
appointments, prescriptions, clinical records and billing based on the statistics
provided. Be concise and factual. Do not invent data that is not in the statistics.`

// StatsProviderInterface supplies the aggregate statistics block
type StatsProviderInterface interface {
	BuildContext(ctx context.Context) (string, error)
}

// MetricsRecorder records assistant request metrics
type MetricsRecorder interface {
	RecordAssistantRequest(ctx context.Context, cacheHit bool, fallback bool)
}

// Answer is the assistant's reply
type Answer struct {
	Response string `json:"response"`
	Cached   bool   `json:"cached"`
	Fallback bool   `json:"fallback"`
}

// Service implements the AI chat assistant
type Service struct {
	cache   cache.Store
	stats   StatsProviderInterface
	client  ChatClient
	metrics MetricsRecorder
}

var _ ServiceInterface = (*Service)(nil)

// ServiceInterface defines the assistant operations exposed to handlers
type ServiceInterface interface {
	Ask(ctx context.Context, prompt string) (*Answer, error)
}

// NewService creates an assistant service. client, cache and metrics may be
// nil; a nil client puts the service in permanent fallback mode.
func NewService(store cache.Store, stats StatsProviderInterface, client ChatClient, metrics MetricsRecorder) *Service {
	return &Service{
		cache:   store,
		stats:   stats,
		client:  client,
		metrics: metrics,
	}
}

// Ask answers a prompt, serving from cache when the same prompt was seen
// recently.
func (s *Service) Ask(ctx context.Context, prompt string) (*Answer, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, ErrEmptyPrompt
	}

	key := cacheKey(prompt)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key); err == nil {
			s.record(ctx, true, false)
			return &Answer{Response: cached, Cached: true}, nil
		}
	}

	statsContext, err := s.stats.BuildContext(ctx)
	if err != nil {
		log.Printf("Warning: failed to build assistant context: %v", err)
		statsContext = ""
	}

	if s.client == nil {
		return s.fallback(ctx, key, statsContext), nil
	}

	userPrompt := prompt
	if statsContext != "" {
		userPrompt = statsContext + "\n\nQuestion: " + prompt
	}

	response, err := s.client.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		log.Printf("Warning: assistant completion failed: %v", err)
		return s.fallback(ctx, key, statsContext), nil
	}

	s.store(ctx, key, response, answerTTL)
	s.record(ctx, false, false)
	return &Answer{Response: response}, nil
}

func (s *Service) fallback(ctx context.Context, key, statsContext string) *Answer {
	response := "The AI assistant is currently unavailable."
	if statsContext != "" {
		response = fmt.Sprintf(
			"The AI assistant is currently unavailable, but here is a summary of the system:\n\n%s",
			statsContext)
	}

	s.store(ctx, key, response, fallbackTTL)
	s.record(ctx, false, true)
	return &Answer{Response: response, Fallback: true}
}

func (s *Service) store(ctx context.Context, key, response string, ttl time.Duration) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, response, ttl); err != nil {
		log.Printf("Warning: failed to cache assistant response: %v", err)
	}
}

func (s *Service) record(ctx context.Context, cacheHit, fallback bool) {
	if s.metrics != nil {
		s.metrics.RecordAssistantRequest(ctx, cacheHit, fallback)
	}
}

func cacheKey(prompt string) string {
	sum := md5.Sum([]byte(prompt))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
