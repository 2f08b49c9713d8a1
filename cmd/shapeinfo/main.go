// Command shapeinfo loads a scene file and prints the bounding volumes, mass
// properties and, optionally, the contacts of its bodies as YAML.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"

	"github.com/akmonengine/feather2d"
	"github.com/akmonengine/feather2d/internal/logging"
	"github.com/akmonengine/feather2d/memo"
	"github.com/akmonengine/feather2d/scene"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/invopop/jsonschema"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

var errMissingScene = errors.New("-scene is required")

type options struct {
	scenePath string
	workers   int
	logLevel  string
	contacts  bool
	schema    bool
}

type report struct {
	Bodies   []scene.Summary `yaml:"bodies"`
	Contacts []contactReport `yaml:"contacts,omitempty"`
	Events   []eventReport   `yaml:"events,omitempty"`
	Cache    memo.Stats      `yaml:"cache"`
}

type contactReport struct {
	A      string        `yaml:"a"`
	B      string        `yaml:"b"`
	Normal mgl32.Vec2    `yaml:"normal,flow"`
	Depth  float32       `yaml:"depth"`
	Points []pointReport `yaml:"points"`
}

type pointReport struct {
	Position    mgl32.Vec2 `yaml:"position,flow"`
	Penetration float32    `yaml:"penetration"`
}

type eventReport struct {
	Type string `yaml:"type"`
	A    string `yaml:"a"`
	B    string `yaml:"b"`
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "shapeinfo: %v\n", err)
		os.Exit(1)
	}
}

func parseOptions(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("shapeinfo", flag.ContinueOnError)
	fs.StringVar(&opts.scenePath, "scene", "", "path to the YAML scene file")
	fs.IntVar(&opts.workers, "workers", runtime.NumCPU(), "number of concurrent workers")
	fs.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	fs.BoolVar(&opts.contacts, "contacts", false, "also report the contacts between bodies")
	fs.BoolVar(&opts.schema, "schema", false, "print the JSON schema of scene files and exit")

	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.scenePath == "" && !opts.schema {
		return options{}, errMissingScene
	}

	return opts, nil
}

func run(args []string, out io.Writer) error {
	opts, err := parseOptions(args)
	if err != nil {
		return err
	}

	if opts.schema {
		return writeSchema(out)
	}

	logger, err := logging.New(opts.logLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	f, err := os.Open(opts.scenePath)
	if err != nil {
		return fmt.Errorf("open scene: %w", err)
	}
	defer f.Close()

	s, err := scene.Load(f)
	if err != nil {
		return fmt.Errorf("load %s: %w", opts.scenePath, err)
	}

	bodies, err := s.Build(logger.With(zap.String("scene", opts.scenePath)))
	if err != nil {
		return fmt.Errorf("build %s: %w", opts.scenePath, err)
	}

	cache := memo.New()
	summaries, err := scene.Evaluate(context.Background(), bodies, cache, opts.workers)
	if err != nil {
		return fmt.Errorf("evaluate %s: %w", opts.scenePath, err)
	}

	r := report{Bodies: summaries}
	if opts.contacts {
		r.Contacts, r.Events = findContacts(bodies, opts.workers)
		logger.Info("contacts computed", zap.Int("contacts", len(r.Contacts)), zap.Int("events", len(r.Events)))
	}
	r.Cache = cache.Stats()

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	return enc.Close()
}

// findContacts runs the narrow phase on every pair of bodies with
// overlapping AABBs. Sensor contacts are only reported as events.
func findContacts(bodies []scene.Body, workers int) ([]contactReport, []eventReport) {
	colliders := make([]feather2d.Collider, len(bodies))
	for i, b := range bodies {
		colliders[i] = b.Collider()
	}
	aabbs := feather2d.Bounds(colliders, workers)

	pairs := make(chan feather2d.Pair, max(workers, 1))
	go func() {
		defer close(pairs)
		for i := range colliders {
			for j := i + 1; j < len(colliders); j++ {
				if aabbs[i].Overlaps(aabbs[j]) {
					pairs <- feather2d.Pair{A: colliders[i], B: colliders[j]}
				}
			}
		}
	}()

	contacts := feather2d.NarrowPhase(pairs, workers)

	var eventReports []eventReport
	events := feather2d.NewEvents()
	for _, et := range []feather2d.EventType{feather2d.CONTACT_ENTER, feather2d.SENSOR_ENTER} {
		events.Subscribe(et, func(e feather2d.Event) {
			er := eventReport{Type: e.Type().String()}
			switch e := e.(type) {
			case feather2d.ContactEnterEvent:
				er.A, er.B = e.A, e.B
			case feather2d.SensorEnterEvent:
				er.A, er.B = e.A, e.B
			}
			eventReports = append(eventReports, er)
		})
	}
	contacts = events.Record(contacts)
	events.Flush()

	reports := make([]contactReport, 0, len(contacts))
	for _, c := range contacts {
		cr := contactReport{A: c.A, B: c.B, Normal: c.Normal, Depth: c.Depth}
		for _, p := range c.Points {
			cr.Points = append(cr.Points, pointReport{Position: p.Position, Penetration: p.Penetration})
		}
		reports = append(reports, cr)
	}

	sort.Slice(reports, func(i, j int) bool {
		if reports[i].A != reports[j].A {
			return reports[i].A < reports[j].A
		}
		return reports[i].B < reports[j].B
	})
	sort.Slice(eventReports, func(i, j int) bool {
		if eventReports[i].A != eventReports[j].A {
			return eventReports[i].A < eventReports[j].A
		}
		return eventReports[i].B < eventReports[j].B
	})

	return reports, eventReports
}

func writeSchema(out io.Writer) error {
	reflector := jsonschema.Reflector{
		PreferYAMLSchema: true,
	}
	schema := reflector.Reflect(new(scene.Scene))
	schema.Title = "feather2d scene"
	schema.Description = "Bodies loaded by shapeinfo -scene"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	_, err = out.Write(append(data, '\n'))
	return err
}
