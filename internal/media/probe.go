// Package media inspects inputs with the configured probe tool before they
// are handed to the transcoder. The probe binary is treated as an opaque
// executable that prints JSON; only the fields weld cares about are parsed.
package media

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"github.com/weld-media/weld/internal/domain"
	"github.com/weld-media/weld/internal/orchestrator"
)

// Stream describes one elementary stream of a probed input.
type Stream struct {
	Codec  string
	Type   string // "video", "audio", ...
	Width  int
	Height int
}

// Info is the parsed probe result for one input.
type Info struct {
	Format   string
	Duration time.Duration
	BitRate  int64
	Streams  []Stream
}

// Prober runs probe tasks through the orchestrator and caches results.
type Prober struct {
	orch    *orchestrator.Orchestrator
	dir     string
	timeout time.Duration
	cache   *lru.Cache[string, Info]
}

// NewProber creates a prober. dir is the working directory probe tasks run
// in; timeout bounds each probe (0 = orchestrator default).
func NewProber(orch *orchestrator.Orchestrator, dir string, timeout time.Duration) *Prober {
	cache, _ := lru.New[string, Info](128)
	return &Prober{
		orch:    orch,
		dir:     dir,
		timeout: timeout,
		cache:   cache,
	}
}

// Probe inspects one input. Results are cached by input name, so probing
// the same file twice costs one child process.
func (p *Prober) Probe(ctx context.Context, input string) (Info, error) {
	if info, ok := p.cache.Get(input); ok {
		return info, nil
	}

	res, err := p.orch.Submit(ctx, domain.Task{
		Kind:    domain.KindProbe,
		Args:    []string{input},
		Dir:     p.dir,
		Timeout: p.timeout,
	})
	if err != nil {
		return Info{}, fmt.Errorf("probe %s: %w", input, err)
	}

	info, err := parseProbeOutput(res.Stdout)
	if err != nil {
		return Info{}, fmt.Errorf("probe %s: %w", input, err)
	}
	p.cache.Add(input, info)
	return info, nil
}

// ProbeAll inspects several inputs concurrently. The orchestrator's pool
// still bounds how many probe processes actually run at once.
func (p *Prober) ProbeAll(ctx context.Context, inputs []string) (map[string]Info, error) {
	infos := make([]Info, len(inputs))
	g, ctx := errgroup.WithContext(ctx)
	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			info, err := p.Probe(ctx, input)
			if err != nil {
				return err
			}
			infos[i] = info
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byInput := make(map[string]Info, len(inputs))
	for i, input := range inputs {
		byInput[input] = infos[i]
	}
	return byInput, nil
}

// parseProbeOutput extracts format and stream fields from ffprobe-style
// JSON output.
func parseProbeOutput(out []byte) (Info, error) {
	if !gjson.ValidBytes(out) {
		return Info{}, fmt.Errorf("probe output is not valid JSON")
	}
	root := gjson.ParseBytes(out)
	format := root.Get("format")
	if !format.Exists() {
		return Info{}, fmt.Errorf("probe output has no format section")
	}

	info := Info{
		Format:   format.Get("format_name").String(),
		Duration: time.Duration(format.Get("duration").Float() * float64(time.Second)),
		BitRate:  format.Get("bit_rate").Int(),
	}
	for _, s := range root.Get("streams").Array() {
		info.Streams = append(info.Streams, Stream{
			Codec:  s.Get("codec_name").String(),
			Type:   s.Get("codec_type").String(),
			Width:  int(s.Get("width").Int()),
			Height: int(s.Get("height").Int()),
		})
	}
	return info, nil
}
