package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mythribanda/ClaimWatch/pkg/events"
	pkgkafka "github.com/mythribanda/ClaimWatch/pkg/kafka"
)

var errNoBrokers = errors.New("no kafka brokers configured (set KAFKA_BROKERS)")

func newEventsCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect published claim events",
	}
	cmd.AddCommand(newEventsTailCommand(opts))
	return cmd
}

func newEventsTailCommand(opts *options) *cobra.Command {
	var (
		fromBeginning bool
		raw           bool
	)

	cmd := &cobra.Command{
		Use:   "tail",
		Short: "Print claim events as they arrive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.cfg
			if !cfg.KafkaEnabled() {
				return errNoBrokers
			}

			out := cmd.OutOrStdout()
			consumer := pkgkafka.NewConsumer(pkgkafka.Config{
				Brokers:       cfg.Kafka.Brokers,
				ClientID:      "claimwatchd-tail",
				ConsumerGroup: cfg.Kafka.GroupID,
				FromBeginning: fromBeginning,
			}, cfg.Kafka.Topic, func(_ context.Context, msg pkgkafka.Message) error {
				if raw {
					_, err := fmt.Fprintf(out, "%s\n", msg.Value)
					return err
				}
				env, err := events.DecodeEnvelope(msg.Value)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(out, "%s  %-16s  %s\n",
					env.OccurredAt().UTC().Format("2006-01-02T15:04:05Z"), env.EventType(), env.AggregateID())
				return err
			}, opts.logger)
			defer func() { _ = consumer.Close() }()

			return consumer.Start(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&fromBeginning, "from-beginning", false, "start a new consumer group at the oldest event")
	cmd.Flags().BoolVar(&raw, "raw", false, "print each event's JSON unchanged")
	return cmd
}
