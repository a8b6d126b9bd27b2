package cmd

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/jimezsa/hhvac/internal/config"
)

type APICmd struct {
	Ping APIPingCmd `cmd:"" help:"Check that the HeadHunter API answers, once per configured proxy."`
}

type APIPingCmd struct {
	Proxies string `help:"Comma-separated proxy URLs." env:"HHVAC_PROXIES"`
	Direct  bool   `help:"Ignore configured proxies and probe directly."`
	Timeout int    `help:"Timeout in seconds." default:"15"`
}

type PingResult struct {
	Proxy     string `json:"proxy"`
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

func (p *APIPingCmd) Run(ctx *Context) error {
	var proxies []string
	if !p.Direct {
		var err error
		proxies, err = config.LoadProxies(p.Proxies)
		if err != nil {
			return err
		}
	}

	// An empty entry probes without a proxy.
	if len(proxies) == 0 {
		proxies = []string{""}
	}

	results := make([]PingResult, 0, len(proxies))
	failed := 0
	for _, proxy := range proxies {
		result := p.probe(ctx, proxy)
		if result.Status != "ok" {
			failed++
		}
		results = append(results, result)
	}

	if err := writePingResults(ctx, results); err != nil {
		return err
	}
	if failed == len(results) {
		return fmt.Errorf("hh api unreachable")
	}
	return nil
}

func (p *APIPingCmd) probe(ctx *Context, proxy string) PingResult {
	result := PingResult{Proxy: proxy}
	if proxy == "" {
		result.Proxy = "direct"
	}

	var list []string
	if proxy != "" {
		list = []string{proxy}
	}
	api, err := ctx.openAPIWith(list)
	if err != nil {
		result.Status = "error"
		result.Error = err.Error()
		return result
	}

	timeout := time.Duration(p.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	probeCtx, cancel := context.WithTimeout(ctx.runContext(), timeout)
	defer cancel()

	start := time.Now()
	if err := api.Connect(probeCtx); err != nil {
		result.Status = "error"
		result.Error = err.Error()
		return result
	}
	result.LatencyMS = time.Since(start).Milliseconds()
	result.Status = "ok"
	return result
}

func writePingResults(ctx *Context, results []PingResult) error {
	if ctx.JSONOutput {
		return writeJSONValue(ctx.Out, results)
	}

	if ctx.PlainText {
		for _, res := range results {
			line := []string{res.Proxy, res.Status, fmt.Sprintf("%d", res.LatencyMS), res.Error}
			fmt.Fprintln(ctx.Out, strings.Join(line, "\t"))
		}
		return nil
	}

	tw := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "proxy\tstatus\tlatency_ms\terror")
	for _, res := range results {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", res.Proxy, res.Status, res.LatencyMS, res.Error)
	}
	return tw.Flush()
}
