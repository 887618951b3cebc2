package dispatch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/keepmind9/slashd/internal/client"
	"github.com/keepmind9/slashd/internal/gateway"
	"github.com/keepmind9/slashd/internal/router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAPI is a minimal mock of client.ClientAPI; dispatcher tests only need
// a handle to clone, not outbound traffic
type stubAPI struct{}

func (stubAPI) Application(appID string) (*discordgo.Application, error) {
	return &discordgo.Application{ID: "app-1"}, nil
}

func (stubAPI) InteractionRespond(i *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error {
	return nil
}

func (stubAPI) InteractionResponseEdit(i *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	return &discordgo.Message{}, nil
}

func (stubAPI) FollowupMessageCreate(i *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	return &discordgo.Message{}, nil
}

// scriptedSource replays a fixed sequence of fetch results, then blocks
// until the context is done
type scriptedSource struct {
	mu        sync.Mutex
	steps     []scriptedStep
	nextCalls int
}

type scriptedStep struct {
	ev  gateway.Event
	err error
}

func (s *scriptedSource) Next(ctx context.Context) (gateway.Event, error) {
	s.mu.Lock()
	s.nextCalls++
	if len(s.steps) == 0 {
		s.mu.Unlock()
		<-ctx.Done()
		return gateway.Event{}, ctx.Err()
	}
	step := s.steps[0]
	s.steps = s.steps[1:]
	s.mu.Unlock()
	return step.ev, step.err
}

func (s *scriptedSource) Close() error { return nil }

func (s *scriptedSource) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextCalls
}

func testHandle(t *testing.T) *client.Handle {
	t.Helper()
	h, err := client.NewWithClient(stubAPI{})
	require.NoError(t, err)
	return h
}

func interactionEvent(id string) gateway.Event {
	return gateway.Event{
		Kind: gateway.KindInteraction,
		Interaction: &discordgo.InteractionCreate{
			Interaction: &discordgo.Interaction{
				ID:   id,
				Type: discordgo.InteractionApplicationCommand,
				Data: discordgo.ApplicationCommandInteractionData{
					Name:        "test",
					CommandType: discordgo.ChatApplicationCommand,
				},
			},
		},
	}
}

func testRouter(t *testing.T, handler router.Handler) *router.Router {
	t.Helper()
	r := router.New()
	require.NoError(t, r.Register(
		router.Key{Name: "test", Kind: discordgo.ChatApplicationCommand}, handler))
	return r
}

func fatalErr() error {
	return gateway.NewConnError(errors.New("authentication failed"), true)
}

func transientErr() error {
	return gateway.NewConnError(errors.New("connection blip"), false)
}

func TestDispatcher_FanOut_DoesNotWaitForHandlers(t *testing.T) {
	// Handlers block until released; the loop must still consume every
	// event and exit promptly on the fatal error.
	const n = 5
	gate := make(chan struct{})
	var started atomic.Int32

	handler := router.HandlerFunc(func(ctx context.Context, inv *router.Invocation) error {
		started.Add(1)
		<-gate
		return nil
	})

	steps := make([]scriptedStep, 0, n+1)
	for i := 0; i < n; i++ {
		steps = append(steps, scriptedStep{ev: interactionEvent("int")})
	}
	steps = append(steps, scriptedStep{err: fatalErr()})
	source := &scriptedSource{steps: steps}

	d := New(source, testHandle(t), testRouter(t, handler), WithDrainTimeout(0))

	begin := time.Now()
	err := d.Run(context.Background())
	elapsed := time.Since(begin)

	require.Error(t, err)
	assert.Less(t, elapsed, time.Second, "loop iteration time must be independent of handler processing time")

	// Every event got its own task even though none has finished
	assert.Eventually(t, func() bool { return started.Load() == n },
		time.Second, 10*time.Millisecond)
	close(gate)
}

func TestDispatcher_FatalError_StopsFetching(t *testing.T) {
	source := &scriptedSource{steps: []scriptedStep{
		{err: fatalErr()},
		{ev: interactionEvent("never-seen")},
	}}

	invoked := false
	handler := router.HandlerFunc(func(ctx context.Context, inv *router.Invocation) error {
		invoked = true
		return nil
	})

	d := New(source, testHandle(t), testRouter(t, handler))
	err := d.Run(context.Background())

	require.Error(t, err)
	assert.True(t, gateway.IsFatal(err))
	assert.Equal(t, 1, source.calls(), "no further fetches after a fatal error")
	assert.False(t, invoked)
}

func TestDispatcher_TransientError_ContinuesFetching(t *testing.T) {
	source := &scriptedSource{steps: []scriptedStep{
		{err: transientErr()},
		{ev: interactionEvent("int-1")},
		{err: transientErr()},
		{err: fatalErr()},
	}}

	var invoked atomic.Int32
	handler := router.HandlerFunc(func(ctx context.Context, inv *router.Invocation) error {
		invoked.Add(1)
		return nil
	})

	d := New(source, testHandle(t), testRouter(t, handler))
	err := d.Run(context.Background())

	require.Error(t, err)
	assert.Equal(t, 4, source.calls())
	assert.Equal(t, int32(1), invoked.Load())
}

func TestDispatcher_ContextCancel_ReturnsNil(t *testing.T) {
	source := &scriptedSource{}
	d := New(source, testHandle(t), router.New())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("dispatcher did not stop on context cancel")
	}
}

func TestDispatcher_Drain_WaitsForInFlightHandlers(t *testing.T) {
	var finished atomic.Int32
	handler := router.HandlerFunc(func(ctx context.Context, inv *router.Invocation) error {
		time.Sleep(50 * time.Millisecond)
		finished.Add(1)
		return nil
	})

	source := &scriptedSource{steps: []scriptedStep{
		{ev: interactionEvent("int-1")},
		{ev: interactionEvent("int-2")},
		{err: fatalErr()},
	}}

	d := New(source, testHandle(t), testRouter(t, handler), WithDrainTimeout(2*time.Second))
	err := d.Run(context.Background())

	require.Error(t, err)
	assert.Equal(t, int32(2), finished.Load(), "in-flight handlers must complete before Run returns")
}

func TestDispatcher_Drain_TimeoutAbandonsStuckHandlers(t *testing.T) {
	gate := make(chan struct{})
	defer close(gate)

	handler := router.HandlerFunc(func(ctx context.Context, inv *router.Invocation) error {
		<-gate
		return nil
	})

	source := &scriptedSource{steps: []scriptedStep{
		{ev: interactionEvent("int-1")},
		{err: fatalErr()},
	}}

	d := New(source, testHandle(t), testRouter(t, handler), WithDrainTimeout(50*time.Millisecond))

	begin := time.Now()
	err := d.Run(context.Background())

	require.Error(t, err)
	assert.Less(t, time.Since(begin), time.Second)
}

func TestDispatcher_ConcurrentHandlers_RunIndependently(t *testing.T) {
	// Both handlers must be in flight at the same time: each waits for the
	// other before finishing, which deadlocks if dispatch were sequential.
	var barrier sync.WaitGroup
	barrier.Add(2)

	handler := router.HandlerFunc(func(ctx context.Context, inv *router.Invocation) error {
		barrier.Done()
		barrier.Wait()
		return nil
	})

	source := &scriptedSource{steps: []scriptedStep{
		{ev: interactionEvent("int-1")},
		{ev: interactionEvent("int-2")},
		{err: fatalErr()},
	}}

	d := New(source, testHandle(t), testRouter(t, handler), WithDrainTimeout(2*time.Second))

	done := make(chan error, 1)
	go func() { done <- d.Run(context.Background()) }()

	select {
	case err := <-done:
		require.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("handlers did not run concurrently")
	}
}

func TestDispatcher_HandlerPanic_DoesNotKillProcess(t *testing.T) {
	handler := router.HandlerFunc(func(ctx context.Context, inv *router.Invocation) error {
		panic("handler blew up")
	})

	source := &scriptedSource{steps: []scriptedStep{
		{ev: interactionEvent("int-1")},
		{err: fatalErr()},
	}}

	d := New(source, testHandle(t), testRouter(t, handler), WithDrainTimeout(time.Second))

	require.NotPanics(t, func() {
		err := d.Run(context.Background())
		require.Error(t, err)
	})
}
