// Package statsd is a helper package that wraps some common statsd methods.
// It hides the datadog dependency so if we decide to migrate away from datadog
// in the future, we only need to edit this single file.
package statsd

import (
	"time"

	ddstatsd "github.com/DataDog/datadog-go/v5/statsd"
	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"
)

var client ddstatsd.ClientInterface = &ddstatsd.NoOpClient{}

func Client() ddstatsd.ClientInterface {
	return client
}

// EmitBootstrapStat emits the time a bootstrap stage took, e.g. a single
// world construction or the whole orchestration pass.
func EmitBootstrapStat(start time.Time, stage string) {
	duration := time.Since(start)
	err := Client().Timing("bootstrap", duration, []string{stage}, 1)
	if err != nil {
		log.Logger.Warn().Msgf("failed to emit bootstrap stat: %v", err)
	}
}

// EmitTickStat emits the time a single world tick took.
func EmitTickStat(start time.Time, world string) {
	duration := time.Since(start)
	err := Client().Timing("tick", duration, []string{world}, 1)
	if err != nil {
		log.Logger.Warn().Msgf("failed to emit tick stat: %v", err)
	}
}

func Init(address string, tags []string) error {
	if address == "" {
		return eris.New("address must not be empty")
	}
	opts := []ddstatsd.Option{
		// The statsd namespace is the prefix of all metrics
		ddstatsd.WithNamespace("multiworld"),
	}
	if len(tags) > 0 {
		opts = append(opts, ddstatsd.WithTags(tags))
	}

	newClient, err := ddstatsd.New(address, opts...)
	if err != nil {
		return err
	}
	// Success! replace the global client
	client = newClient
	return nil
}
