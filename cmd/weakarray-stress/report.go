package main

import (
	"fmt"
	"io"
	"runtime"
	"text/template"
	"time"

	"github.com/plus3/weakref/weakarray"
	"gopkg.in/yaml.v3"
)

type Report struct {
	Config Config

	// Results
	TotalTime     time.Duration
	Totals        Totals
	RoundTime     Stats
	Array         weakarray.Stats
	MemStatsStart runtime.MemStats
	MemStatsEnd   runtime.MemStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

// Write renders the report in the configured format.
func (r *Report) Write(w io.Writer) error {
	switch r.Config.Format {
	case "yaml":
		return r.GenerateYAML(w)
	case "text", "":
		return r.Generate(w)
	default:
		return fmt.Errorf("%w: %q", errUnknownFormat, r.Config.Format)
	}
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Weak Array Stress Test Report

## Test Configuration
- **Run Duration:** {{.Config.Duration}}
- **Workers:** {{.Config.Workers}}
- **Objects Per Round:** {{.Config.Objects}}
- **Retained Share:** {{.Config.Retain}}
- **Reference Kind:** {{.Config.Kind}}
- **Compact Cycle:** {{.Config.CompactCycle}}

## Operations
- **Rounds:** {{.Totals.Rounds}}
- **Added:** {{.Totals.Added}}
- **Removed:** {{.Totals.Removed}}
- **Matched:** {{.Totals.Matched}}
- **Replaced:** {{.Totals.Replaced}}
- **Index Misses:** {{.Totals.IndexMisses}}
- **Total Test Time:** {{.TotalTime}}
- **Round Time:**
  - **Avg:** {{.RoundTime.Avg}}
  - **Min:** {{.RoundTime.Min}}
  - **Max:** {{.RoundTime.Max}}

## Final Array
- Slots: {{.Array.Len}} (live {{.Array.Live}}, dead {{.Array.Dead}})
- Compactions: {{.Array.Compactions}}
- Pending Operations: {{.Array.Operations}}

## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}
- Total GC Pause: {{ns (subns .MemStatsEnd.PauseTotalNs .MemStatsStart.PauseTotalNs)}}
`

	fm := template.FuncMap{
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"subns": func(a, b uint64) uint64 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}

type yamlReport struct {
	Config struct {
		Duration     string                  `yaml:"duration"`
		Workers      int                     `yaml:"workers"`
		Objects      int                     `yaml:"objects"`
		Retain       float64                 `yaml:"retain"`
		Kind         weakarray.ReferenceKind `yaml:"kind"`
		CompactCycle int                     `yaml:"compactCycle"`
	} `yaml:"config"`
	TotalTime string          `yaml:"totalTime"`
	Totals    Totals          `yaml:"totals"`
	RoundTime yamlRoundTime   `yaml:"roundTime"`
	Array     weakarray.Stats `yaml:"array"`
	Memory    yamlMemory      `yaml:"memory"`
}

type yamlRoundTime struct {
	Avg string `yaml:"avg"`
	Min string `yaml:"min"`
	Max string `yaml:"max"`
}

type yamlMemory struct {
	HeapAllocDelta  int64  `yaml:"heapAllocDelta"`
	TotalAllocDelta int64  `yaml:"totalAllocDelta"`
	NumGC           uint32 `yaml:"numGC"`
}

func (r *Report) GenerateYAML(w io.Writer) error {
	var out yamlReport
	out.Config.Duration = r.Config.Duration.String()
	out.Config.Workers = r.Config.Workers
	out.Config.Objects = r.Config.Objects
	out.Config.Retain = r.Config.Retain
	out.Config.Kind = r.Config.Kind
	out.Config.CompactCycle = r.Config.CompactCycle
	out.TotalTime = r.TotalTime.String()
	out.Totals = r.Totals
	out.RoundTime = yamlRoundTime{
		Avg: r.RoundTime.Avg.String(),
		Min: r.RoundTime.Min.String(),
		Max: r.RoundTime.Max.String(),
	}
	out.Array = r.Array
	out.Memory = yamlMemory{
		HeapAllocDelta:  int64(r.MemStatsEnd.HeapAlloc) - int64(r.MemStatsStart.HeapAlloc),
		TotalAllocDelta: int64(r.MemStatsEnd.TotalAlloc) - int64(r.MemStatsStart.TotalAlloc),
		NumGC:           r.MemStatsEnd.NumGC - r.MemStatsStart.NumGC,
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&out); err != nil {
		return err
	}
	return enc.Close()
}
