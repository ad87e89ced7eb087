package cmd

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/spf13/cobra"

	"github.com/Iron-Ham/surfacemail/internal/app"
	"github.com/Iron-Ham/surfacemail/internal/config"
	"github.com/Iron-Ham/surfacemail/internal/event"
	"github.com/Iron-Ham/surfacemail/internal/message"
	"github.com/Iron-Ham/surfacemail/internal/queue"
)

var stressCmd = &cobra.Command{
	Use:   "stress",
	Short: "Drive one surface's mailbox from many producers",
	Long: `Run a coordinator with a single surface and push ring_bell messages to
it from several producers at once, then report how many were delivered and
how many were refused because the queue stayed full.

--timeout is the push timeout: "instant", "forever" or a duration such as
10ms. --consumer-delay slows the coordinator down to provoke backpressure.

Examples:
  surfacemail stress --producers 16 --messages 10000
  surfacemail stress --capacity 4 --timeout instant --consumer-delay 1ms`,
	Args: cobra.NoArgs,
	RunE: runStress,
}

var (
	stressProducers     int
	stressMessages      int
	stressCapacity      int
	stressTimeout       string
	stressConsumerDelay time.Duration
)

func init() {
	rootCmd.AddCommand(stressCmd)

	stressCmd.Flags().IntVarP(&stressProducers, "producers", "p", 8, "Number of concurrent producers")
	stressCmd.Flags().IntVarP(&stressMessages, "messages", "n", 1000, "Messages per producer")
	stressCmd.Flags().IntVar(&stressCapacity, "capacity", 64, "Queue capacity")
	stressCmd.Flags().StringVar(&stressTimeout, "timeout", "forever", `Push timeout: "instant", "forever" or a duration`)
	stressCmd.Flags().DurationVar(&stressConsumerDelay, "consumer-delay", 0, "Time the coordinator spends on each message")
}

// parseTimeout parses "instant", "forever" or a duration.
func parseTimeout(s string) (queue.Timeout, error) {
	switch strings.ToLower(s) {
	case "instant", "0":
		return queue.Instant(), nil
	case "forever":
		return queue.Forever(), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return queue.Timeout{}, fmt.Errorf("invalid timeout %q: want instant, forever or a duration", s)
	}
	return queue.After(d), nil
}

// stressResult is what one stress run measured.
type stressResult struct {
	Attempted int
	Refused   uint64
	Delivered uint64
	Stats     app.Stats
	Elapsed   time.Duration
}

func stress(ctx context.Context, producers, perProducer, capacity int, timeout queue.Timeout, delay time.Duration) (stressResult, error) {
	base := config.Default()
	base.Mailbox.Capacity = capacity

	var delivered atomic.Uint64
	bus := event.NewBus()
	bus.Subscribe(event.TypeSurfaceBell, func(event.Event) {
		delivered.Add(1)
		if delay > 0 {
			time.Sleep(delay)
		}
	})

	a, err := app.New(base, app.WithBus(bus))
	if err != nil {
		_ = base.Release()
		return stressResult{}, err
	}
	s, err := a.NewSurface(config.ContextWindow, nil)
	if err != nil {
		a.Shutdown()
		return stressResult{}, err
	}

	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	var refused atomic.Uint64
	start := time.Now()
	var wg conc.WaitGroup
	for range producers {
		wg.Go(func() {
			mb := a.Mailbox(s.ID())
			for range perProducer {
				if _, err := mb.Push(message.NewRingBell(), timeout); err != nil {
					refused.Add(1)
				}
			}
		})
	}
	wg.Wait()
	a.Quit()
	runErr := <-done

	return stressResult{
		Attempted: producers * perProducer,
		Refused:   refused.Load(),
		Delivered: delivered.Load(),
		Stats:     a.Stats(),
		Elapsed:   time.Since(start),
	}, runErr
}

func runStress(cmd *cobra.Command, args []string) error {
	if stressProducers < 1 || stressMessages < 1 {
		return fmt.Errorf("--producers and --messages must be at least 1")
	}
	timeout, err := parseTimeout(stressTimeout)
	if err != nil {
		return err
	}

	res, err := stress(cmd.Context(), stressProducers, stressMessages, stressCapacity, timeout, stressConsumerDelay)
	if err != nil {
		return err
	}

	p := newPrinter(cmd)
	p.title("Stress results:")
	p.kv("producers", stressProducers)
	p.kv("push timeout", timeout)
	p.kv("capacity", stressCapacity)
	p.kv("attempted", res.Attempted)
	p.kv("delivered", res.Delivered)
	p.kv("refused", res.Refused)
	p.kv("high water mark", res.Stats.HighWaterMark)
	p.kv("elapsed", res.Elapsed.Round(time.Microsecond))
	if secs := res.Elapsed.Seconds(); secs > 0 {
		p.kv("throughput", fmt.Sprintf("%.0f msg/s", float64(res.Delivered)/secs))
	}
	if res.Refused > 0 {
		p.warn(fmt.Sprintf("%d pushes refused by backpressure", res.Refused))
	}
	return nil
}
