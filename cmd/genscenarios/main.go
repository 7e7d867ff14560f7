// Command genscenarios generates random impact scenario requests for the batch
// pipeline. Scenarios are written as a JSON array and can optionally be
// produced straight to the source topic.
//
// Usage:
//
//	go run ./cmd/genscenarios -n 100 -seed 42 -out data/scenarios.json
//	go run ./cmd/genscenarios -n 100 -brokers localhost:9092 -topic impact-scenarios
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"time"

	"github.com/couchcryptid/asteroid-impact-sim/internal/domain"
	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	kafkago "github.com/segmentio/kafka-go"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	n := flag.Int("n", 50, "number of scenarios to generate")
	seed := flag.Uint64("seed", 1, "random seed for reproducible output")
	out := flag.String("out", "-", "output path for the JSON fixture, - for stdout")
	brokers := flag.String("brokers", "", "comma-separated Kafka brokers; when set scenarios are also produced")
	topic := flag.String("topic", "impact-scenarios", "source topic to produce to")
	flag.Parse()

	if *n <= 0 {
		flag.Usage()
		return fmt.Errorf("-n must be positive")
	}

	scenarios := generate(*n, *seed)

	if err := writeScenarios(*out, scenarios); err != nil {
		return fmt.Errorf("writing scenarios: %w", err)
	}
	if *out != "-" {
		log.Printf("wrote %d scenarios: %s", len(scenarios), *out)
	}

	if *brokers != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := produce(ctx, sharedcfg.ParseBrokers(*brokers), *topic, scenarios); err != nil {
			return fmt.Errorf("producing scenarios: %w", err)
		}
		log.Printf("produced %d scenarios to %s", len(scenarios), *topic)
	}
	return nil
}

// generate draws n scenarios from a seeded PCG source.
func generate(n int, seed uint64) []domain.ScenarioRequest {
	random := domain.NewRandomizer(rand.New(rand.NewPCG(seed, seed)))

	scenarios := make([]domain.ScenarioRequest, n)
	for i := range scenarios {
		at, p := random.Scenario()
		scenarios[i] = domain.ScenarioRequest{
			ID:               fmt.Sprintf("scn-%d-%04d", seed, i),
			Lat:              domain.Round(at.Lat, 4),
			Lon:              domain.Round(at.Lon, 4),
			DiameterMeters:   p.DiameterMeters,
			VelocityKmPerSec: p.VelocityKmPerSec,
			AngleDegrees:     p.AngleDegrees,
			Material:         string(p.Material),
		}
	}
	return scenarios
}

func writeScenarios(path string, scenarios []domain.ScenarioRequest) error {
	if path == "-" {
		return encode(os.Stdout, scenarios)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(f, scenarios); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func produce(ctx context.Context, brokers []string, topic string, scenarios []domain.ScenarioRequest) error {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	defer w.Close()

	msgs := make([]kafkago.Message, len(scenarios))
	for i, s := range scenarios {
		payload, err := json.Marshal(s)
		if err != nil {
			return err
		}
		msgs[i] = kafkago.Message{
			Key:     []byte(s.ID),
			Value:   payload,
			Headers: []kafkago.Header{{Key: "source", Value: []byte("genscenarios")}},
		}
	}
	return w.WriteMessages(ctx, msgs...)
}
