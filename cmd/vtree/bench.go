package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"hash/fnv"
	"io"
	"log/slog"
	"math"
	"net"
	"runtime"
	"runtime/metrics"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/vtree/internal/errors"
	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/events"
	"github.com/vango-dev/vtree/pkg/live"
	"github.com/vango-dev/vtree/pkg/protocol"
	. "github.com/vango-dev/vtree/pkg/vdom"
)

type benchOptions struct {
	Clients      int
	Duration     time.Duration
	RPS          float64
	ListSize     int
	PayloadBytes int
}

func benchCmd() *cobra.Command {
	opts := benchOptions{
		Clients:      50,
		Duration:     10 * time.Second,
		RPS:          2,
		ListSize:     50,
		PayloadBytes: 24,
	}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure live roundtrip latency under load",
		Long: `Run an in-process live server and drive it with concurrent
WebSocket clients.

Each client sends input events carrying a unique token and waits for
the patch batch that echoes it. The roundtrip covers event decode,
handler, render, diff, patch encode and client decode.

Examples:
  vtree bench
  vtree bench --clients=200 --duration=30s --rps=5 --list=100`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			report, err := runBench(ctx, opts)
			if err != nil {
				return err
			}
			report.write(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.Clients, "clients", opts.Clients, "Number of concurrent WebSocket clients")
	cmd.Flags().DurationVar(&opts.Duration, "duration", opts.Duration, "How long to run")
	cmd.Flags().Float64Var(&opts.RPS, "rps", opts.RPS, "Target events per second per client (response-gated)")
	cmd.Flags().IntVar(&opts.ListSize, "list", opts.ListSize, "Keyed list size rendered per session")
	cmd.Flags().IntVar(&opts.PayloadBytes, "payload-bytes", opts.PayloadBytes, "Bytes of token payload per event")

	return cmd
}

func (o benchOptions) validate() error {
	switch {
	case o.Clients <= 0:
		return errors.Newf(errors.CategoryCLI, "--clients must be > 0")
	case o.Duration <= 0:
		return errors.Newf(errors.CategoryCLI, "--duration must be > 0")
	case o.RPS <= 0:
		return errors.Newf(errors.CategoryCLI, "--rps must be > 0")
	case o.ListSize < 0:
		return errors.Newf(errors.CategoryCLI, "--list must be >= 0")
	case o.PayloadBytes < 0:
		return errors.Newf(errors.CategoryCLI, "--payload-bytes must be >= 0")
	}
	return nil
}

type benchReport struct {
	opts      benchOptions
	events    uint64
	errors    uint64
	latencies []time.Duration
	elapsed   time.Duration

	before, after   runtime.MemStats
	beforeM, afterM runtimeSnapshot
}

func runBench(ctx context.Context, opts benchOptions) (*benchReport, error) {
	srv := live.New(loadDemo(opts.ListSize), live.Config{
		Address: "127.0.0.1:0",
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		return nil, errors.Newf(errors.CategoryCLI, "listen: %v", err)
	}
	url := "ws://" + ln.Addr().String() + live.LivePath

	serveCtx, stopServe := context.WithCancel(ctx)
	served := make(chan error, 1)
	go func() { served <- srv.Serve(serveCtx, ln) }()

	report := &benchReport{opts: opts}
	var (
		mu     sync.Mutex
		events atomic.Uint64
		errs   atomic.Uint64
	)

	runtime.GC()
	runtime.ReadMemStats(&report.before)
	report.beforeM = readRuntime()
	start := time.Now()

	runCtx, cancel := context.WithTimeout(ctx, opts.Duration)
	g, gctx := errgroup.WithContext(runCtx)
	for i := range opts.Clients {
		g.Go(func() error {
			var local []time.Duration
			err := runBenchClient(gctx, url, i, opts, func(rtt time.Duration) {
				events.Add(1)
				local = append(local, rtt)
			})
			if err != nil {
				errs.Add(1)
			}
			mu.Lock()
			report.latencies = append(report.latencies, local...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	cancel()
	report.elapsed = time.Since(start)

	runtime.GC()
	runtime.ReadMemStats(&report.after)
	report.afterM = readRuntime()

	stopServe()
	if err := <-served; err != nil {
		return nil, err
	}

	report.events = events.Load()
	report.errors = errs.Load()
	slices.Sort(report.latencies)
	return report, nil
}

// runBenchClient connects one client and fires input events until ctx
// ends. Each event is timed until the batch that echoes its token.
func runBenchClient(ctx context.Context, url string, id int, opts benchOptions, sample func(time.Duration)) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	c := &benchClient{conn: conn, replica: dom.New()}
	if _, err := c.batch(); err != nil {
		return c.quiet(ctx, err)
	}
	input := findTag(c.replica.Root(), "input")
	if input == nil {
		return fmt.Errorf("no input in %s", c.replica.HTML())
	}

	period := time.Duration(float64(time.Second) / opts.RPS)
	var seq uint64
	for ctx.Err() == nil {
		seq++
		token := benchToken(id, seq, opts.PayloadBytes)
		began := time.Now()

		msg := &protocol.EventMessage{Seq: seq, Event: events.Event{Type: "input", Target: input.ID, Value: token}}
		data, err := protocol.NewFrame(protocol.FrameEvent, protocol.EncodeEvent(msg)).Encode()
		if err != nil {
			return err
		}
		if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
			return c.quiet(ctx, err)
		}
		if err := c.waitFor(token); err != nil {
			return c.quiet(ctx, err)
		}
		sample(time.Since(began))

		if wait := period - time.Since(began); wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
			case <-timer.C:
			}
		}
	}
	return nil
}

type benchClient struct {
	conn    *websocket.Conn
	replica *dom.Document
	batcher protocol.Batcher
}

// quiet drops errors caused by the run ending.
func (c *benchClient) quiet(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// batch reads until one patch batch is complete and applies it.
func (c *benchClient) batch() (*protocol.PatchesFrame, error) {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		f, err := protocol.DecodeFrame(data)
		if err != nil {
			return nil, err
		}
		switch f.Type {
		case protocol.FramePatches:
			pf, err := c.batcher.Add(f)
			if err != nil {
				return nil, err
			}
			if pf == nil {
				continue
			}
			return pf, c.replica.ApplyAll(pf.Ops)
		case protocol.FrameError:
			em, err := protocol.DecodeErrorMessage(f.Payload)
			if err != nil {
				return nil, err
			}
			return nil, em
		}
	}
}

func (c *benchClient) waitFor(token string) error {
	for {
		pf, err := c.batch()
		if err != nil {
			return err
		}
		for _, op := range pf.Ops {
			if op.Value == token {
				return nil
			}
		}
	}
}

func findTag(n *dom.Node, tag string) *dom.Node {
	var found *dom.Node
	n.Walk(func(c *dom.Node) {
		if found == nil && c.Tag == tag {
			found = c
		}
	})
	return found
}

func benchToken(client int, seq uint64, size int) string {
	prefix := fmt.Sprintf("c%d:%d:", client, seq)
	if size <= len(prefix) {
		return prefix
	}
	raw := make([]byte, (size-len(prefix)+1)/2)
	_, _ = rand.Read(raw)
	return (prefix + hex.EncodeToString(raw))[:size]
}

// loadDemo echoes every input and rewrites one keyed list item chosen
// by a hash of the value, so each event costs a render and a diff.
func loadDemo(size int) live.App {
	return func(*live.Session) live.View {
		items := make([]string, size)
		for i := range items {
			items[i] = fmt.Sprintf("Item %d", i)
		}
		echo := ""
		onInput := func(v string) {
			echo = v
			if len(items) == 0 {
				return
			}
			h := fnv.New32a()
			_, _ = h.Write([]byte(v))
			items[int(h.Sum32()%uint32(len(items)))] = v
		}
		return func() *VNode {
			return Div(
				Input(Type("text"), OnInput(onInput)),
				Div(ID("echo"), echo),
				Ul(Range(items, func(it string, i int) *VNode { return Li(Key(i), it) })),
			)
		}
	}
}

type runtimeSnapshot struct {
	cpuTotal, cpuGC float64
	allocObjects    uint64
}

func readRuntime() runtimeSnapshot {
	samples := []metrics.Sample{
		{Name: "/cpu/classes/total:cpu-seconds"},
		{Name: "/cpu/classes/gc/total:cpu-seconds"},
		{Name: "/gc/heap/allocs:objects"},
	}
	metrics.Read(samples)
	var s runtimeSnapshot
	for _, m := range samples {
		switch m.Value.Kind() {
		case metrics.KindFloat64:
			if m.Name == "/cpu/classes/total:cpu-seconds" {
				s.cpuTotal = m.Value.Float64()
			} else {
				s.cpuGC = m.Value.Float64()
			}
		case metrics.KindUint64:
			s.allocObjects = m.Value.Uint64()
		}
	}
	return s
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(float64(len(sorted))*p)) - 1
	return sorted[min(max(idx, 0), len(sorted)-1)]
}

func (r *benchReport) write(w io.Writer) {
	secs := math.Max(0.001, r.elapsed.Seconds())
	fmt.Fprintf(w, "Clients:       %d\n", r.opts.Clients)
	fmt.Fprintf(w, "Duration:      %s\n", r.opts.Duration)
	fmt.Fprintf(w, "List size:     %d\n", r.opts.ListSize)
	fmt.Fprintf(w, "Total events:  %d\n", r.events)
	fmt.Fprintf(w, "Errors:        %d\n", r.errors)
	fmt.Fprintf(w, "Throughput:    %.1f events/s\n", float64(r.events)/secs)
	fmt.Fprintln(w)

	if len(r.latencies) == 0 {
		fmt.Fprintln(w, "No latency samples recorded.")
	} else {
		l := r.latencies
		fmt.Fprintln(w, "Roundtrip:")
		fmt.Fprintf(w, "  min: %s\n", l[0])
		fmt.Fprintf(w, "  p50: %s\n", percentile(l, 0.50))
		fmt.Fprintf(w, "  p95: %s\n", percentile(l, 0.95))
		fmt.Fprintf(w, "  p99: %s\n", percentile(l, 0.99))
		fmt.Fprintf(w, "  max: %s\n", l[len(l)-1])
	}
	fmt.Fprintln(w)

	gcs := r.after.NumGC - r.before.NumGC
	gcCPU := 0.0
	if total := r.afterM.cpuTotal - r.beforeM.cpuTotal; total > 0 {
		gcCPU = 100 * (r.afterM.cpuGC - r.beforeM.cpuGC) / total
	}
	fmt.Fprintln(w, "Runtime:")
	fmt.Fprintf(w, "  alloc:   %.2f MB\n", float64(r.after.TotalAlloc-r.before.TotalAlloc)/(1<<20))
	fmt.Fprintf(w, "  objects: %.2f M\n", float64(r.afterM.allocObjects-r.beforeM.allocObjects)/1e6)
	fmt.Fprintf(w, "  num_gc:  %d\n", gcs)
	fmt.Fprintf(w, "  gc_cpu:  %.2f%%\n", gcCPU)
}
